package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Wiseramand/ce-angola-app-sub000/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBlocked     = errors.New("account is blocked")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserExists         = errors.New("username already exists")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidUsername    = errors.New("username must be 3-32 characters")
)

const operatorTokenDuration = 24 * time.Hour

// Principal is a resolved caller identity, either a member-tier account
// looked up by session token or the datastore-bypassing operator.
type Principal struct {
	ID       string
	Username string
	Role     string
}

type AuthService struct {
	accounts     AccountStore
	jwtSecret    []byte
	operatorUser string
	operatorPass string
}

func NewAuthService(accounts AccountStore, jwtSecret, operatorUser, operatorPass string) *AuthService {
	return &AuthService{
		accounts:     accounts,
		jwtSecret:    []byte(jwtSecret),
		operatorUser: operatorUser,
		operatorPass: operatorPass,
	}
}

// Login verifies credentials and issues a fresh session token, overwriting
// whatever token the account held before. The displaced device finds out on
// its next heartbeat. The blocked check runs only after the credentials match.
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))

	if s.operatorUser != "" && username == s.operatorUser {
		return s.operatorLogin(username, req.Pass)
	}

	acct, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(req.Pass)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if acct.Status == model.StatusBlocked {
		return nil, ErrAccountBlocked
	}

	token := newSessionToken()
	if err := s.accounts.UpdateSessionID(ctx, acct.ID, token); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &model.LoginResponse{
		ID:            acct.ID,
		FullName:      acct.FullName,
		Username:      acct.Username,
		Role:          acct.Role,
		SessionID:     token,
		HasLiveAccess: acct.HasLiveAccess,
	}, nil
}

// operatorLogin is the hardcoded-admin tier: credentials live in config, the
// datastore is never touched, and the issued credential is a signed token
// rather than a stored session row. Operator sessions do not heartbeat and
// are not subject to single-device eviction.
func (s *AuthService) operatorLogin(username, pass string) (*model.LoginResponse, error) {
	if subtle.ConstantTimeCompare([]byte(pass), []byte(s.operatorPass)) != 1 {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      "operator",
		"username": username,
		"role":     model.RoleAdmin,
		"iat":      now.Unix(),
		"exp":      now.Add(operatorTokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign operator token: %w", err)
	}

	return &model.LoginResponse{
		ID:            "operator",
		FullName:      "Operador",
		Username:      username,
		Role:          model.RoleAdmin,
		SessionID:     signed,
		HasLiveAccess: true,
	}, nil
}

// Heartbeat answers "is my token still the authoritative one?". A single
// compare-and-touch statement matches id+token and bumps the advisory
// last-heartbeat timestamp; zero rows means the session was displaced by a
// newer login, or nulled by a block or delete.
func (s *AuthService) Heartbeat(ctx context.Context, req *model.HeartbeatRequest) error {
	// userId binds to the uuid primary key; a malformed one cannot name a
	// live session, so it gets the eviction answer rather than a driver error.
	if _, err := uuid.Parse(req.UserID); err != nil || req.SessionID == "" {
		return ErrSessionExpired
	}

	alive, err := s.accounts.TouchHeartbeat(ctx, req.UserID, req.SessionID)
	if err != nil {
		return fmt.Errorf("touch heartbeat: %w", err)
	}
	if !alive {
		return ErrSessionExpired
	}
	return nil
}

// Logout clears the stored token only when it still matches, so a logout
// raced by a newer login cannot evict the newer session.
func (s *AuthService) Logout(ctx context.Context, req *model.LogoutRequest) error {
	if _, err := uuid.Parse(req.UserID); err != nil || req.SessionID == "" {
		return nil
	}
	return s.accounts.ClearSessionID(ctx, req.UserID, req.SessionID)
}

// Register creates a member account and logs it straight in.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.LoginResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if len(username) < 3 || len(username) > 32 {
		return nil, ErrInvalidUsername
	}
	if len(req.Pass) < 6 {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Pass), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acct, err := s.accounts.Create(ctx, &model.Account{
		FullName:     strings.TrimSpace(req.FullName),
		Username:     username,
		Email:        strings.TrimSpace(strings.ToLower(req.Email)),
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: string(hash),
		Role:         model.RoleMember,
	})
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "unique") {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	token := newSessionToken()
	if err := s.accounts.UpdateSessionID(ctx, acct.ID, token); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &model.LoginResponse{
		ID:            acct.ID,
		FullName:      acct.FullName,
		Username:      acct.Username,
		Role:          acct.Role,
		SessionID:     token,
		HasLiveAccess: acct.HasLiveAccess,
	}, nil
}

// ResolvePrincipal maps a bearer credential to a caller identity: first as an
// operator token, then as a member-tier session token.
func (s *AuthService) ResolvePrincipal(ctx context.Context, credential string) (*Principal, error) {
	if credential == "" {
		return nil, ErrInvalidToken
	}

	if p, err := s.parseOperatorToken(credential); err == nil {
		return p, nil
	}

	acct, err := s.accounts.GetBySessionID(ctx, credential)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if acct.Status == model.StatusBlocked {
		return nil, ErrInvalidToken
	}

	return &Principal{ID: acct.ID, Username: acct.Username, Role: acct.Role}, nil
}

func (s *AuthService) parseOperatorToken(tokenString string) (*Principal, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return nil, ErrInvalidToken
	}

	return &Principal{ID: sub, Username: username, Role: role}, nil
}

// Session tokens keep the historical shape: millisecond timestamp plus a
// random suffix. They are opaque to clients; only equality matters.
func newSessionToken() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString())
}
