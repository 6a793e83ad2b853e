package core

import "context"

// Engine is the inbound surface shared by all transports.
type Engine interface {
	SubmitMessage(ctx context.Context, chatID string, msg Message) Result
	SetActiveContext(ctx context.Context, cc ConversationContext) Result
	Query(ctx context.Context, task, chatID string) Result
	Ask(ctx context.Context, task, chatID string) Result
	ActiveContext() (ConversationContext, bool)
}
