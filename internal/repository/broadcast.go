package repository

import (
	"context"
	"errors"

	"github.com/Wiseramand/ce-angola-app-sub000/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BroadcastRepository struct {
	pool *pgxpool.Pool
}

func NewBroadcastRepository(pool *pgxpool.Pool) *BroadcastRepository {
	return &BroadcastRepository{pool: pool}
}

func (r *BroadcastRepository) Get(ctx context.Context) (*model.BroadcastConfig, error) {
	cfg := &model.BroadcastConfig{}
	err := r.pool.QueryRow(ctx, `
		SELECT public_url, public_title, public_description,
		       private_url, private_title, private_description,
		       private_mode, updated_at
		FROM broadcast_config WHERE id = 1
	`).Scan(
		&cfg.PublicURL, &cfg.PublicTitle, &cfg.PublicDescription,
		&cfg.PrivateURL, &cfg.PrivateTitle, &cfg.PrivateDescription,
		&cfg.PrivateMode, &cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return cfg, nil
}

// Save overwrites every field of the singleton row, inserting it if absent.
// Callers must supply a complete object; there is no partial merge here.
func (r *BroadcastRepository) Save(ctx context.Context, cfg *model.BroadcastConfig) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO broadcast_config
			(id, public_url, public_title, public_description,
			 private_url, private_title, private_description, private_mode, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (id) DO UPDATE SET
			public_url = EXCLUDED.public_url,
			public_title = EXCLUDED.public_title,
			public_description = EXCLUDED.public_description,
			private_url = EXCLUDED.private_url,
			private_title = EXCLUDED.private_title,
			private_description = EXCLUDED.private_description,
			private_mode = EXCLUDED.private_mode,
			updated_at = NOW()
	`, cfg.PublicURL, cfg.PublicTitle, cfg.PublicDescription,
		cfg.PrivateURL, cfg.PrivateTitle, cfg.PrivateDescription, cfg.PrivateMode)
	return err
}
