package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Wiseramand/ce-angola-app-sub000/internal/model"
	"github.com/Wiseramand/ce-angola-app-sub000/internal/testutil"
)

func newTestAuthService(store *testutil.MemAccountStore) *AuthService {
	return NewAuthService(store, "test-secret", "", "")
}

func registerMember(t *testing.T, svc *AuthService, username, pass string) *model.LoginResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), &model.RegisterRequest{
		FullName: "Test Member",
		Username: username,
		Pass:     pass,
	})
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", username, err)
	}
	return resp
}

func TestLoginIssuesFreshToken(t *testing.T) {
	store := testutil.NewMemAccountStore()
	svc := newTestAuthService(store)
	ctx := context.Background()

	reg := registerMember(t, svc, "joao", "secret123")
	if reg.SessionID == "" {
		t.Fatal("expected a session token on register")
	}

	resp, err := svc.Login(ctx, &model.LoginRequest{Username: "Joao", Pass: "secret123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.SessionID == "" {
		t.Fatal("expected a session token on login")
	}
	if resp.SessionID == reg.SessionID {
		t.Fatal("login must mint a fresh token, not reuse the old one")
	}
	if resp.Role != model.RoleMember {
		t.Errorf("expected role member, got %s", resp.Role)
	}
}

func TestSingleSessionInvariant(t *testing.T) {
	store := testutil.NewMemAccountStore()
	svc := newTestAuthService(store)
	ctx := context.Background()

	reg := registerMember(t, svc, "maria", "secret123")

	first, err := svc.Login(ctx, &model.LoginRequest{Username: "maria", Pass: "secret123"})
	if err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	second, err := svc.Login(ctx, &model.LoginRequest{Username: "maria", Pass: "secret123"})
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}

	// The displaced token always fails once the newer one has been issued.
	err = svc.Heartbeat(ctx, &model.HeartbeatRequest{UserID: reg.ID, SessionID: first.SessionID})
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("heartbeat with displaced token: expected ErrSessionExpired, got %v", err)
	}

	if err := svc.Heartbeat(ctx, &model.HeartbeatRequest{UserID: reg.ID, SessionID: second.SessionID}); err != nil {
		t.Fatalf("heartbeat with current token should succeed, got %v", err)
	}
}

func TestBlockEvictsSession(t *testing.T) {
	store := testutil.NewMemAccountStore()
	svc := newTestAuthService(store)
	ctx := context.Background()

	resp := registerMember(t, svc, "pedro", "secret123")

	if err := store.SetStatus(ctx, resp.ID, model.StatusBlocked); err != nil {
		t.Fatalf("block failed: %v", err)
	}

	err := svc.Heartbeat(ctx, &model.HeartbeatRequest{UserID: resp.ID, SessionID: resp.SessionID})
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("heartbeat after block: expected ErrSessionExpired, got %v", err)
	}
}

func TestHeartbeatIdempotence(t *testing.T) {
	store := testutil.NewMemAccountStore()
	svc := newTestAuthService(store)
	ctx := context.Background()

	resp := registerMember(t, svc, "ana", "secret123")

	for i := 0; i < 3; i++ {
		if err := svc.Heartbeat(ctx, &model.HeartbeatRequest{UserID: resp.ID, SessionID: resp.SessionID}); err != nil {
			t.Fatalf("heartbeat %d failed: %v", i+1, err)
		}
	}

	stored := store.SessionOf(resp.ID)
	if stored == nil || *stored != resp.SessionID {
		t.Fatal("heartbeat must never mutate the token itself")
	}
}

func TestLoginBlockedCheckedAfterCredentials(t *testing.T) {
	store := testutil.NewMemAccountStore()
	svc := newTestAuthService(store)
	ctx := context.Background()

	resp := registerMember(t, svc, "carla", "secret123")
	if err := store.SetStatus(ctx, resp.ID, model.StatusBlocked); err != nil {
		t.Fatalf("block failed: %v", err)
	}

	t.Run("wrong password wins over blocked", func(t *testing.T) {
		_, err := svc.Login(ctx, &model.LoginRequest{Username: "carla", Pass: "wrong"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("matching credentials report blocked", func(t *testing.T) {
		_, err := svc.Login(ctx, &model.LoginRequest{Username: "carla", Pass: "secret123"})
		if !errors.Is(err, ErrAccountBlocked) {
			t.Fatalf("expected ErrAccountBlocked, got %v", err)
		}
	})
}

func TestLogoutOnlyClearsMatchingToken(t *testing.T) {
	store := testutil.NewMemAccountStore()
	svc := newTestAuthService(store)
	ctx := context.Background()

	reg := registerMember(t, svc, "rui", "secret123")

	// A newer login displaces the cached token.
	newer, err := svc.Login(ctx, &model.LoginRequest{Username: "rui", Pass: "secret123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Logout from the displaced device must not kill the newer session.
	if err := svc.Logout(ctx, &model.LogoutRequest{UserID: reg.ID, SessionID: reg.SessionID}); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if err := svc.Heartbeat(ctx, &model.HeartbeatRequest{UserID: reg.ID, SessionID: newer.SessionID}); err != nil {
		t.Fatalf("newer session should survive stale logout, got %v", err)
	}

	// Logout with the live token clears it.
	if err := svc.Logout(ctx, &model.LogoutRequest{UserID: reg.ID, SessionID: newer.SessionID}); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if store.SessionOf(reg.ID) != nil {
		t.Fatal("expected session token cleared after logout")
	}
}

func TestRegisterValidation(t *testing.T) {
	store := testutil.NewMemAccountStore()
	svc := newTestAuthService(store)
	ctx := context.Background()

	cases := []struct {
		name string
		req  model.RegisterRequest
		want error
	}{
		{"short username", model.RegisterRequest{Username: "ab", Pass: "secret123"}, ErrInvalidUsername},
		{"short password", model.RegisterRequest{Username: "valido", Pass: "123"}, ErrWeakPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, &tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	registerMember(t, svc, "duplicado", "secret123")
	_, err := svc.Register(ctx, &model.RegisterRequest{Username: "duplicado", Pass: "secret123"})
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestOperatorLogin(t *testing.T) {
	store := testutil.NewMemAccountStore()
	svc := NewAuthService(store, "test-secret", "ce_operator", "op-pass")
	ctx := context.Background()

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &model.LoginRequest{Username: "ce_operator", Pass: "nope"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("datastore bypass", func(t *testing.T) {
		store.ForceError = errors.New("db down")
		defer func() { store.ForceError = nil }()

		resp, err := svc.Login(ctx, &model.LoginRequest{Username: "ce_operator", Pass: "op-pass"})
		if err != nil {
			t.Fatalf("operator login must not touch the datastore: %v", err)
		}
		if resp.Role != model.RoleAdmin {
			t.Errorf("expected role admin, got %s", resp.Role)
		}

		p, err := svc.ResolvePrincipal(ctx, resp.SessionID)
		if err != nil {
			t.Fatalf("ResolvePrincipal failed: %v", err)
		}
		if p.Role != model.RoleAdmin || p.ID != "operator" {
			t.Errorf("unexpected principal: %+v", p)
		}
	})
}

func TestResolvePrincipal(t *testing.T) {
	store := testutil.NewMemAccountStore()
	svc := newTestAuthService(store)
	ctx := context.Background()

	resp := registerMember(t, svc, "membro", "secret123")

	t.Run("member session token", func(t *testing.T) {
		p, err := svc.ResolvePrincipal(ctx, resp.SessionID)
		if err != nil {
			t.Fatalf("ResolvePrincipal failed: %v", err)
		}
		if p.ID != resp.ID || p.Role != model.RoleMember {
			t.Errorf("unexpected principal: %+v", p)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		if _, err := svc.ResolvePrincipal(ctx, "garbage"); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("blocked account", func(t *testing.T) {
		// Re-login to get a token, then block out of band: block nulls the
		// token, so resolution fails.
		fresh, err := svc.Login(ctx, &model.LoginRequest{Username: "membro", Pass: "secret123"})
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if err := store.SetStatus(ctx, resp.ID, model.StatusBlocked); err != nil {
			t.Fatalf("block failed: %v", err)
		}
		if _, err := svc.ResolvePrincipal(ctx, fresh.SessionID); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestHeartbeatRejectsMalformedID(t *testing.T) {
	store := testutil.NewMemAccountStore()
	svc := newTestAuthService(store)

	// Ids that cannot name an account row, like the operator's synthetic one,
	// get the eviction answer instead of reaching the datastore.
	err := svc.Heartbeat(context.Background(), &model.HeartbeatRequest{
		UserID:    "operator",
		SessionID: "some-token",
	})
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}
