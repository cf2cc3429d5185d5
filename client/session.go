package client

import (
	"encoding/json"
	"os"
)

// Session is the client-held copy of the account view plus the session token.
// The copy is advisory: the server is revalidated on every heartbeat and on
// each page load.
type Session struct {
	ID            string `json:"id"`
	FullName      string `json:"fullName"`
	Username      string `json:"username"`
	Role          string `json:"role"`
	SessionID     string `json:"sessionId"`
	HasLiveAccess bool   `json:"hasLiveAccess"`
}

// LoadSession rehydrates a cached session from disk, letting a client resume
// the heartbeat loop without re-login.
func LoadSession(path string) (*Session, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := &Session{}
	if err := json.Unmarshal(buf, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) Save(path string) error {
	buf, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0600)
}

// RemoveSession discards the cached credentials. Missing file is not an error.
func RemoveSession(path string) error {
	err := os.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
