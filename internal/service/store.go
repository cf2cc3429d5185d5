package service

import (
	"context"

	"github.com/Wiseramand/ce-angola-app-sub000/internal/model"
)

// AccountStore is the persistence surface the auth and admin paths depend on.
// Implemented by repository.AccountRepository; lookups return
// repository.ErrNotFound when no row matches.
type AccountStore interface {
	Create(ctx context.Context, a *model.Account) (*model.Account, error)
	GetByID(ctx context.Context, id string) (*model.Account, error)
	GetByUsername(ctx context.Context, username string) (*model.Account, error)
	GetBySessionID(ctx context.Context, sessionID string) (*model.Account, error)
	List(ctx context.Context) ([]model.Account, error)
	UpdateSessionID(ctx context.Context, id, sessionID string) error
	ClearSessionID(ctx context.Context, id, sessionID string) error
	TouchHeartbeat(ctx context.Context, id, sessionID string) (bool, error)
	SetStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	CountTotal(ctx context.Context) (int, error)
}

// BroadcastStore holds the singleton stream configuration row.
type BroadcastStore interface {
	Get(ctx context.Context) (*model.BroadcastConfig, error)
	Save(ctx context.Context, cfg *model.BroadcastConfig) error
}
