package model

import "time"

const (
	ChannelPublic  = "public"
	ChannelPrivate = "private"
)

// ChatMessage represents a stored chat message row. Rows are immutable once
// written; account_id may dangle after an admin deletes the author.
type ChatMessage struct {
	ID        int64     `json:"id"`
	AccountID *string   `json:"userId,omitempty"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	Channel   string    `json:"channel"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatPostRequest is the payload for storing a new chat message.
type ChatPostRequest struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Text     string `json:"text"`
	Channel  string `json:"channel"`
}

func ValidChannel(ch string) bool {
	return ch == ChannelPublic || ch == ChannelPrivate
}
