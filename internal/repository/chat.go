package repository

import (
	"context"

	"github.com/Wiseramand/ce-angola-app-sub000/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ChatRepository struct {
	pool *pgxpool.Pool
}

func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

// Insert stores a single chat message. Messages are never updated or deleted.
func (r *ChatRepository) Insert(ctx context.Context, msg *model.ChatMessage) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO chat_messages (account_id, username, text, channel)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, msg.AccountID, msg.Username, msg.Text, msg.Channel).Scan(&msg.ID, &msg.CreatedAt)
}

// ListRecent returns the newest `limit` messages for a channel, newest first.
// The handler reverses the window for display order.
func (r *ChatRepository) ListRecent(ctx context.Context, channel string, limit int) ([]model.ChatMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, account_id, username, text, channel, created_at
		FROM chat_messages
		WHERE channel = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, channel, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.AccountID, &m.Username, &m.Text, &m.Channel, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *ChatRepository) CountTotal(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM chat_messages`).Scan(&count)
	return count, err
}
