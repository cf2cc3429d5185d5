package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	connectAttempts = 12
	connectBackoff  = 2 * time.Second
)

// NewPool opens the connection pool for the single authoritative database.
//
// The workload is dominated by tiny, short statements on hot paths: a
// heartbeat UPDATE every 10 seconds and a chat-window SELECT every 2 seconds
// per signed-in viewer. A modest pool with warm idle connections serves that
// better than a large one, and idle members are recycled well inside typical
// proxy timeouts.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	config.MaxConns = 16
	config.MinConns = 4
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 3 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	// The app and Postgres usually start together; keep retrying with a flat
	// backoff until the database accepts pings.
	var pool *pgxpool.Pool
	for attempt := 1; ; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, config)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				log.Printf("Database connected (attempt %d)", attempt)
				return pool, nil
			}
			pool.Close()
		}
		if attempt == connectAttempts {
			break
		}
		log.Printf("Database not ready (attempt %d/%d): %v", attempt, connectAttempts, err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(connectBackoff):
		}
	}

	return nil, fmt.Errorf("database unreachable after %d attempts: %w", connectAttempts, err)
}
