package core

import (
	"context"
	"time"
)

// MessageStore retains captured messages per conversation.
type MessageStore interface {
	AddMessage(ctx context.Context, chatID string, msg Message) error
	GetMessages(chatID, dateKey string) []Message
	PurgeOlderThan(ctx context.Context, d time.Duration) int
}

// Journal persists accepted messages so buffers survive a restart.
type Journal interface {
	Append(ctx context.Context, chatID string, msg Message) error
	Trim(ctx context.Context, chatID string, keep int) error
	PurgeBefore(ctx context.Context, cutoff int64) error
	Load(ctx context.Context, perChat int) (map[string][]Message, error)
	SaveContext(ctx context.Context, cc ConversationContext) error
	LoadContexts(ctx context.Context) ([]ConversationContext, error)
}
