package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Wiseramand/ce-angola-app-sub000/internal/model"
	"github.com/Wiseramand/ce-angola-app-sub000/internal/repository"
)

type BroadcastService struct {
	store BroadcastStore
}

func NewBroadcastService(store BroadcastStore) *BroadcastService {
	return &BroadcastService{store: store}
}

// Get returns the singleton config, creating it with defaults on the
// first-ever call. Reads require no auth; access gating to the private
// stream happens on the viewer side.
func (s *BroadcastService) Get(ctx context.Context) (*model.BroadcastConfig, error) {
	cfg, err := s.store.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		cfg = model.DefaultBroadcastConfig()
		if err := s.store.Save(ctx, cfg); err != nil {
			return nil, fmt.Errorf("create default config: %w", err)
		}
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Set overwrites every field of the row with exactly what the caller sent.
// Unspecified fields arrive zero-valued and are persisted as such; two
// concurrent saves are last-write-wins.
func (s *BroadcastService) Set(ctx context.Context, cfg *model.BroadcastConfig) error {
	return s.store.Save(ctx, cfg)
}
