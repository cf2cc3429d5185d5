// Package client implements the viewer side of the session-liveness and
// chat-relay protocol: login, the 10-second heartbeat probe, the 2-second
// chat poll, and the durable cached session used to resume without re-login.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Wiseramand/ce-angola-app-sub000/internal/model"
)

const (
	HeartbeatInterval = 10 * time.Second
	ChatPollInterval  = 2 * time.Second
)

var (
	// ErrSessionExpired maps the heartbeat 401: another device signed in, or
	// the account was blocked or deleted. Fatal for the local session.
	ErrSessionExpired = errors.New("session expired")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBlocked     = errors.New("account is blocked")
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Login authenticates and returns the fresh session. Any session the account
// held on another device is displaced server-side.
func (c *Client) Login(ctx context.Context, username, pass string) (*Session, error) {
	var s Session
	err := c.postJSON(ctx, "/login", model.LoginRequest{Username: username, Pass: pass}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Heartbeat asks the server whether the token is still authoritative.
// Returns ErrSessionExpired on an explicit 401; transport failures come back
// as ordinary errors and must not tear down local state.
func (c *Client) Heartbeat(ctx context.Context, userID, sessionID string) error {
	return c.postJSON(ctx, "/heartbeat", model.HeartbeatRequest{UserID: userID, SessionID: sessionID}, nil)
}

func (c *Client) Logout(ctx context.Context, s *Session) error {
	return c.postJSON(ctx, "/logout", model.LogoutRequest{UserID: s.ID, SessionID: s.SessionID}, nil)
}

// FetchConfig reads the broadcast singleton. Viewers call this on page load
// and on admin-triggered refresh; there is no push for config changes.
func (c *Client) FetchConfig(ctx context.Context) (*model.BroadcastConfig, error) {
	var cfg model.BroadcastConfig
	if err := c.getJSON(ctx, "/system", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ListMessages fetches the trailing window for a channel, oldest first.
func (c *Client) ListMessages(ctx context.Context, channel string) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	path := "/chat?channel=" + url.QueryEscape(channel)
	if err := c.getJSON(ctx, path, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (c *Client) PostMessage(ctx context.Context, req model.ChatPostRequest) error {
	return c.postJSON(ctx, "/chat", req, nil)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return apiError(resp.StatusCode, body.Error)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func apiError(status int, code string) error {
	switch code {
	case "session_expired":
		return ErrSessionExpired
	case "invalid_credentials":
		return ErrInvalidCredentials
	case "account_blocked":
		return ErrAccountBlocked
	}
	if status == http.StatusUnauthorized {
		return ErrSessionExpired
	}
	return fmt.Errorf("server returned %d: %s", status, code)
}
