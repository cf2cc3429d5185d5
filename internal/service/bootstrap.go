package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Wiseramand/ce-angola-app-sub000/internal/model"
	"github.com/Wiseramand/ce-angola-app-sub000/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const (
	seedAdminUsername = "master_admin"
	seedAdminPassword = "angola_faith_2025"
)

// Bootstrap seeds the default rows a fresh datastore needs: the master admin
// account and the broadcast config singleton. Every step checks for an
// existing row first, so rerunning at each startup is safe.
func Bootstrap(ctx context.Context, accounts AccountStore, broadcasts BroadcastStore) error {
	if _, err := accounts.GetByUsername(ctx, seedAdminUsername); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("check seed admin: %w", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seedAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash seed admin password: %w", err)
		}

		_, err = accounts.Create(ctx, &model.Account{
			FullName:      "Administrador",
			Username:      seedAdminUsername,
			PasswordHash:  string(hash),
			Role:          model.RoleAdmin,
			HasLiveAccess: true,
		})
		if err != nil && !strings.Contains(err.Error(), "duplicate key") {
			return fmt.Errorf("seed admin account: %w", err)
		}
		log.Printf("Seeded admin account %q", seedAdminUsername)
	}

	if _, err := broadcasts.Get(ctx); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("check broadcast config: %w", err)
		}
		if err := broadcasts.Save(ctx, model.DefaultBroadcastConfig()); err != nil {
			return fmt.Errorf("seed broadcast config: %w", err)
		}
		log.Printf("Seeded default broadcast config")
	}

	return nil
}
