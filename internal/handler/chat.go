package handler

import (
	"context"
	"log"

	"github.com/Wiseramand/ce-angola-app-sub000/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ChatStore is what the relay needs from persistence. ListRecent returns
// newest-first; the handler flips the window into display order.
type ChatStore interface {
	Insert(ctx context.Context, msg *model.ChatMessage) error
	ListRecent(ctx context.Context, channel string, limit int) ([]model.ChatMessage, error)
	CountTotal(ctx context.Context) (int, error)
}

type ChatHandler struct {
	store ChatStore
}

func NewChatHandler(store ChatStore) *ChatHandler {
	return &ChatHandler{store: store}
}

// PostMessage appends one message. POST /chat
func (h *ChatHandler) PostMessage(c *fiber.Ctx) error {
	var req model.ChatPostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Username == "" || req.Text == "" {
		return c.Status(400).JSON(fiber.Map{"error": "username and text are required"})
	}
	if !model.ValidChannel(req.Channel) {
		return c.Status(400).JSON(fiber.Map{"error": "channel must be public or private"})
	}

	msg := &model.ChatMessage{
		Username: req.Username,
		Text:     req.Text,
		Channel:  req.Channel,
	}
	// account_id is a uuid column and the author reference is best-effort
	// anyway (it dangles after a delete). Non-uuid senders, like the operator
	// whose id is not a stored account, post with a null author.
	if _, err := uuid.Parse(req.UserID); err == nil {
		msg.AccountID = &req.UserID
	}

	if err := h.store.Insert(c.Context(), msg); err != nil {
		log.Printf("[Chat] PostMessage DB error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "storage_unavailable"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// ListMessages returns the trailing window for a channel, oldest first.
// This is not a full history: the newest `limit` rows are fetched and
// reversed. GET /chat?channel=public&limit=50
func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	channel := c.Query("channel", model.ChannelPublic)
	if !model.ValidChannel(channel) {
		return c.Status(400).JSON(fiber.Map{"error": "channel must be public or private"})
	}

	limit := c.QueryInt("limit", 50)
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	msgs, err := h.store.ListRecent(c.Context(), channel, limit)
	if err != nil {
		log.Printf("[Chat] ListMessages DB error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "storage_unavailable"})
	}

	// Reverse into chronological order for display
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}

	if msgs == nil {
		msgs = []model.ChatMessage{}
	}

	return c.JSON(msgs)
}
