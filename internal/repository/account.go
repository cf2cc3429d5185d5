package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Wiseramand/ce-angola-app-sub000/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned by lookups when no row matches.
var ErrNotFound = errors.New("not found")

const accountColumns = `id, full_name, username, email, phone, password_hash, role, status,
       has_live_access, session_id, last_heartbeat_at, created_at, updated_at`

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) Create(ctx context.Context, a *model.Account) (*model.Account, error) {
	out := &model.Account{}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (full_name, username, email, phone, password_hash, role, has_live_access)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT DO NOTHING
		RETURNING `+accountColumns+`
	`, a.FullName, a.Username, a.Email, a.Phone, a.PasswordHash, a.Role, a.HasLiveAccess).Scan(
		scanTargets(out)...,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("duplicate key")
		}
		return nil, err
	}
	return out, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*model.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*model.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username = $1`, username)
}

func (r *AccountRepository) GetBySessionID(ctx context.Context, sessionID string) (*model.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE session_id = $1`, sessionID)
}

func (r *AccountRepository) getOne(ctx context.Context, query string, arg any) (*model.Account, error) {
	a := &model.Account{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(scanTargets(a)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *AccountRepository) List(ctx context.Context) ([]model.Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(scanTargets(&a)...); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// UpdateSessionID overwrites the stored token unconditionally. The previous
// session, if any, is invalidated without notification.
func (r *AccountRepository) UpdateSessionID(ctx context.Context, id, sessionID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE accounts SET session_id = $2, updated_at = NOW() WHERE id = $1
	`, id, sessionID)
	return err
}

// ClearSessionID nulls the token only if it still matches, so a logout from a
// displaced device cannot kill the newer session.
func (r *AccountRepository) ClearSessionID(ctx context.Context, id, sessionID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE accounts SET session_id = NULL, updated_at = NOW()
		WHERE id = $1 AND session_id = $2
	`, id, sessionID)
	return err
}

// TouchHeartbeat is the compare-and-touch at the heart of session liveness:
// a single statement that matches id+token and bumps last_heartbeat_at.
// Returns false when the token is no longer the authoritative one.
func (r *AccountRepository) TouchHeartbeat(ctx context.Context, id, sessionID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts SET last_heartbeat_at = NOW() WHERE id = $1 AND session_id = $2
	`, id, sessionID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// SetStatus updates the account status. Blocking also nulls the session token
// so the next heartbeat from that device fails.
func (r *AccountRepository) SetStatus(ctx context.Context, id, status string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET status = $2,
		    session_id = CASE WHEN $2 = 'blocked' THEN NULL ELSE session_id END,
		    updated_at = NOW()
		WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AccountRepository) CountTotal(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count)
	return count, err
}

func scanTargets(a *model.Account) []any {
	return []any{
		&a.ID, &a.FullName, &a.Username, &a.Email, &a.Phone, &a.PasswordHash,
		&a.Role, &a.Status, &a.HasLiveAccess, &a.SessionID, &a.LastHeartbeatAt,
		&a.CreatedAt, &a.UpdatedAt,
	}
}
