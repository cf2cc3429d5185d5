package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Wiseramand/ce-angola-app-sub000/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestLoginAndSessionCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/login" {
			writeJSON(w, 404, map[string]string{"error": "not_found"})
			return
		}
		var req model.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Pass != "secret123" {
			writeJSON(w, 401, map[string]string{"error": "invalid_credentials"})
			return
		}
		writeJSON(w, 200, Session{
			ID:            "acc-1",
			FullName:      "Irmão Paulo",
			Username:      req.Username,
			Role:          model.RoleMember,
			SessionID:     "1756700000000-token",
			HasLiveAccess: true,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)

	t.Run("success round trips through the disk cache", func(t *testing.T) {
		sess, err := c.Login(context.Background(), "paulo", "secret123")
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if sess.SessionID == "" || sess.ID != "acc-1" {
			t.Fatalf("incomplete session: %+v", sess)
		}

		path := filepath.Join(t.TempDir(), "session.json")
		if err := sess.Save(path); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		loaded, err := LoadSession(path)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if *loaded != *sess {
			t.Fatalf("cache round trip mismatch: %+v vs %+v", loaded, sess)
		}

		if err := RemoveSession(path); err != nil {
			t.Fatalf("remove failed: %v", err)
		}
		if err := RemoveSession(path); err != nil {
			t.Fatalf("removing a missing cache should be silent, got: %v", err)
		}
	})

	t.Run("bad credentials map to the sentinel", func(t *testing.T) {
		_, err := c.Login(context.Background(), "paulo", "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestMonitorEvictsOnExplicit401(t *testing.T) {
	var beats atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// First heartbeat is alive, every later one reports displacement.
		if beats.Add(1) == 1 {
			writeJSON(w, 200, map[string]string{"status": "alive"})
			return
		}
		writeJSON(w, 401, map[string]string{"error": "session_expired"})
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "session.json")
	sess := &Session{ID: "acc-1", Username: "paulo", Role: model.RoleMember, SessionID: "stale-token"}
	if err := sess.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	evicted := make(chan struct{})
	m := NewMonitor(New(srv.URL), sess, path, func() { close(evicted) })
	m.Interval = 5 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	select {
	case <-evicted:
	case <-ctx.Done():
		t.Fatal("monitor never evicted")
	}
	<-done

	if !m.Evicted() {
		t.Fatal("Evicted() should report true after displacement")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("cached session should be removed on eviction, stat err: %v", err)
	}
}

func TestMonitorSurvivesTransportFailure(t *testing.T) {
	// A server that is already gone: every heartbeat fails at the transport
	// layer, which must not count as displacement.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := srv.URL
	srv.Close()

	path := filepath.Join(t.TempDir(), "session.json")
	sess := &Session{ID: "acc-1", Username: "paulo", Role: model.RoleMember, SessionID: "live-token"}
	if err := sess.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	m := NewMonitor(New(deadURL), sess, path, func() {
		t.Error("OnEvicted fired on a transport failure")
	})
	m.Interval = 5 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	m.Run(ctx)

	if m.Evicted() {
		t.Fatal("transport failures must not evict the session")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("cached session should survive transport failures: %v", err)
	}
}

func TestMonitorExemptsAdmins(t *testing.T) {
	var beats atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		beats.Add(1)
		writeJSON(w, 200, map[string]string{"status": "alive"})
	}))
	defer srv.Close()

	sess := &Session{ID: "acc-1", Username: "master_admin", Role: model.RoleAdmin, SessionID: "admin-token"}
	m := NewMonitor(New(srv.URL), sess, "", nil)
	m.Interval = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	m.Run(ctx) // must return immediately, not block until the deadline

	if got := beats.Load(); got != 0 {
		t.Fatalf("admin session sent %d heartbeats, want 0", got)
	}
}

func TestChatPollerOptimisticEcho(t *testing.T) {
	serverWindow := []model.ChatMessage{
		{ID: 1, Username: "rosa", Text: "bom dia", Channel: model.ChannelPublic},
		{ID: 2, Username: "paulo", Text: "amém", Channel: model.ChannelPublic},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, 200, serverWindow)
		case http.MethodPost:
			writeJSON(w, 200, map[string]bool{"success": true})
		}
	}))
	defer srv.Close()

	p := NewChatPoller(New(srv.URL), model.ChannelPublic)
	sess := &Session{ID: "acc-1", Username: "paulo", SessionID: "token"}

	p.Poll(context.Background())
	if got := p.Messages(); len(got) != 2 {
		t.Fatalf("expected the server window, got %d messages", len(got))
	}

	if err := p.Send(context.Background(), sess, "aleluia"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	window := p.Messages()
	if len(window) != 3 {
		t.Fatalf("expected echo appended, got %d messages", len(window))
	}
	echo := window[2]
	if echo.ID != -1 || echo.Text != "aleluia" || echo.Username != "paulo" {
		t.Fatalf("unexpected echo: %+v", echo)
	}

	if err := p.Send(context.Background(), sess, "glória"); err != nil {
		t.Fatalf("second send failed: %v", err)
	}
	if window = p.Messages(); window[3].ID != -2 {
		t.Fatalf("temp ids must descend, got %d", window[3].ID)
	}

	// The next poll overwrites the window; echoes live only until then.
	p.Poll(context.Background())
	window = p.Messages()
	if len(window) != 2 || window[0].ID != 1 || window[1].ID != 2 {
		t.Fatalf("poll should replace the whole window, got %+v", window)
	}
}

func TestPollFailureKeepsWindow(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			writeJSON(w, 500, map[string]string{"error": "storage_unavailable"})
			return
		}
		writeJSON(w, 200, []model.ChatMessage{{ID: 7, Username: "rosa", Text: "olá", Channel: model.ChannelPublic}})
	}))
	defer srv.Close()

	p := NewChatPoller(New(srv.URL), model.ChannelPublic)
	p.Poll(context.Background())
	if len(p.Messages()) != 1 {
		t.Fatal("seed poll did not populate the window")
	}

	fail.Store(true)
	p.Poll(context.Background())
	if got := p.Messages(); len(got) != 1 || got[0].ID != 7 {
		t.Fatalf("failed poll must leave the window untouched, got %+v", got)
	}
}
