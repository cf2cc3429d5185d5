// Package testutil provides in-memory store implementations for tests. They
// mirror the SQL semantics the handlers and services depend on: unique
// usernames, token overwrite, conditional clear, compare-and-touch, session
// nulling on block, and the newest-first trailing chat window.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Wiseramand/ce-angola-app-sub000/internal/model"
	"github.com/Wiseramand/ce-angola-app-sub000/internal/repository"

	"github.com/google/uuid"
)

// MemAccountStore is an in-memory service.AccountStore. Ids are real uuids,
// like the gen_random_uuid() column default, so handler-level id validation
// behaves the same against this store.
type MemAccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*model.Account

	// ForceError makes every operation fail, for error-path tests.
	ForceError error
}

func NewMemAccountStore() *MemAccountStore {
	return &MemAccountStore{accounts: make(map[string]*model.Account)}
}

func (m *MemAccountStore) Create(ctx context.Context, a *model.Account) (*model.Account, error) {
	if m.ForceError != nil {
		return nil, m.ForceError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ex := range m.accounts {
		if ex.Username == a.Username {
			return nil, fmt.Errorf("duplicate key")
		}
	}

	cp := *a
	cp.ID = uuid.NewString()
	if cp.Role == "" {
		cp.Role = model.RoleMember
	}
	if cp.Status == "" {
		cp.Status = model.StatusActive
	}
	now := time.Now()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	m.accounts[cp.ID] = &cp

	out := cp
	return &out, nil
}

func (m *MemAccountStore) GetByID(ctx context.Context, id string) (*model.Account, error) {
	if m.ForceError != nil {
		return nil, m.ForceError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *a
	return &out, nil
}

func (m *MemAccountStore) GetByUsername(ctx context.Context, username string) (*model.Account, error) {
	if m.ForceError != nil {
		return nil, m.ForceError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, a := range m.accounts {
		if a.Username == username {
			out := *a
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MemAccountStore) GetBySessionID(ctx context.Context, sessionID string) (*model.Account, error) {
	if m.ForceError != nil {
		return nil, m.ForceError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, a := range m.accounts {
		if a.SessionID != nil && *a.SessionID == sessionID {
			out := *a
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MemAccountStore) List(ctx context.Context) ([]model.Account, error) {
	if m.ForceError != nil {
		return nil, m.ForceError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.Account
	for _, a := range m.accounts {
		out = append(out, *a)
	}
	return out, nil
}

func (m *MemAccountStore) UpdateSessionID(ctx context.Context, id, sessionID string) error {
	if m.ForceError != nil {
		return m.ForceError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if a, ok := m.accounts[id]; ok {
		token := sessionID
		a.SessionID = &token
		a.UpdatedAt = time.Now()
	}
	return nil
}

func (m *MemAccountStore) ClearSessionID(ctx context.Context, id, sessionID string) error {
	if m.ForceError != nil {
		return m.ForceError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if a, ok := m.accounts[id]; ok && a.SessionID != nil && *a.SessionID == sessionID {
		a.SessionID = nil
		a.UpdatedAt = time.Now()
	}
	return nil
}

func (m *MemAccountStore) TouchHeartbeat(ctx context.Context, id, sessionID string) (bool, error) {
	if m.ForceError != nil {
		return false, m.ForceError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok || a.SessionID == nil || *a.SessionID != sessionID {
		return false, nil
	}
	now := time.Now()
	a.LastHeartbeatAt = &now
	return true, nil
}

func (m *MemAccountStore) SetStatus(ctx context.Context, id, status string) error {
	if m.ForceError != nil {
		return m.ForceError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	if status == model.StatusBlocked {
		a.SessionID = nil
	}
	a.UpdatedAt = time.Now()
	return nil
}

func (m *MemAccountStore) Delete(ctx context.Context, id string) error {
	if m.ForceError != nil {
		return m.ForceError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.accounts, id)
	return nil
}

func (m *MemAccountStore) CountTotal(ctx context.Context) (int, error) {
	if m.ForceError != nil {
		return 0, m.ForceError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.accounts), nil
}

// SessionOf reads the stored token directly, bypassing the store interface.
func (m *MemAccountStore) SessionOf(id string) *string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.accounts[id]; ok {
		return a.SessionID
	}
	return nil
}

// MemBroadcastStore is an in-memory service.BroadcastStore.
type MemBroadcastStore struct {
	mu         sync.Mutex
	cfg        *model.BroadcastConfig
	ForceError error
}

func NewMemBroadcastStore() *MemBroadcastStore {
	return &MemBroadcastStore{}
}

func (m *MemBroadcastStore) Get(ctx context.Context) (*model.BroadcastConfig, error) {
	if m.ForceError != nil {
		return nil, m.ForceError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cfg == nil {
		return nil, repository.ErrNotFound
	}
	out := *m.cfg
	return &out, nil
}

func (m *MemBroadcastStore) Save(ctx context.Context, cfg *model.BroadcastConfig) error {
	if m.ForceError != nil {
		return m.ForceError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *cfg
	cp.UpdatedAt = time.Now()
	m.cfg = &cp
	return nil
}

// MemChatStore is an in-memory handler.ChatStore. Message timestamps climb
// monotonically so window ordering is deterministic.
type MemChatStore struct {
	mu         sync.Mutex
	seq        int64
	base       time.Time
	msgs       []model.ChatMessage
	ForceError error
}

func NewMemChatStore() *MemChatStore {
	return &MemChatStore{base: time.Now()}
}

func (m *MemChatStore) Insert(ctx context.Context, msg *model.ChatMessage) error {
	if m.ForceError != nil {
		return m.ForceError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	msg.ID = m.seq
	msg.CreatedAt = m.base.Add(time.Duration(m.seq) * time.Millisecond)
	m.msgs = append(m.msgs, *msg)
	return nil
}

func (m *MemChatStore) ListRecent(ctx context.Context, channel string, limit int) ([]model.ChatMessage, error) {
	if m.ForceError != nil {
		return nil, m.ForceError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.ChatMessage
	for i := len(m.msgs) - 1; i >= 0 && len(out) < limit; i-- {
		if m.msgs[i].Channel == channel {
			out = append(out, m.msgs[i])
		}
	}
	return out, nil
}

func (m *MemChatStore) CountTotal(ctx context.Context) (int, error) {
	if m.ForceError != nil {
		return 0, m.ForceError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.msgs), nil
}
