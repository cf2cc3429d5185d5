package client

import (
	"context"
	"sync"
	"time"

	"github.com/Wiseramand/ce-angola-app-sub000/internal/model"
)

// ChatPoller maintains the trailing message window for one channel by
// replacing the whole window on every poll. Sends append an optimistic local
// echo with a temporary negative id; the echo is never reconciled with the
// authoritative copy, its lifetime is simply bounded by the next poll
// overwriting the window.
type ChatPoller struct {
	client   *Client
	channel  string
	Interval time.Duration

	mu         sync.Mutex
	window     []model.ChatMessage
	nextTempID int64
}

func NewChatPoller(c *Client, channel string) *ChatPoller {
	return &ChatPoller{
		client:     c,
		channel:    channel,
		Interval:   ChatPollInterval,
		nextTempID: -1,
	}
}

// Run blocks, refreshing the window on a fixed interval until ctx is
// cancelled. A failed poll changes nothing; the next tick retries.
func (p *ChatPoller) Run(ctx context.Context) {
	p.Poll(ctx)

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll fetches the current window once.
func (p *ChatPoller) Poll(ctx context.Context) {
	msgs, err := p.client.ListMessages(ctx, p.channel)
	if err != nil {
		return
	}

	p.mu.Lock()
	p.window = msgs
	p.mu.Unlock()
}

// Send posts a message and appends the local echo so the sender sees it
// before the round trip completes.
func (p *ChatPoller) Send(ctx context.Context, s *Session, text string) error {
	p.mu.Lock()
	p.window = append(p.window, model.ChatMessage{
		ID:        p.nextTempID,
		AccountID: &s.ID,
		Username:  s.Username,
		Text:      text,
		Channel:   p.channel,
		CreatedAt: time.Now(),
	})
	p.nextTempID--
	p.mu.Unlock()

	return p.client.PostMessage(ctx, model.ChatPostRequest{
		UserID:   s.ID,
		Username: s.Username,
		Text:     text,
		Channel:  p.channel,
	})
}

// Messages returns a snapshot of the current window, oldest first.
func (p *ChatPoller) Messages() []model.ChatMessage {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]model.ChatMessage, len(p.window))
	copy(out, p.window)
	return out
}
