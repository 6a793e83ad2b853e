package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/chatlens/internal/core"
)

type WatchCommand struct {
	engine    Engine
	platform  core.Platform
	formatter *ResponseFormatter
}

// NewWatchCommand switches capture to a conversation. platform is the
// default for conversations named without one.
func NewWatchCommand(engine Engine, platform core.Platform) *WatchCommand {
	return &WatchCommand{
		engine:    engine,
		platform:  platform,
		formatter: NewResponseFormatter(),
	}
}

func (c *WatchCommand) Name() string {
	return "watch"
}

func (c *WatchCommand) Description() string {
	return "Capture messages from a conversation"
}

func (c *WatchCommand) Execute(ctx context.Context, chatID string, args []string) (string, error) {
	cc := core.ConversationContext{ChatID: chatID, Platform: c.platform}

	if len(args) > 0 {
		cc.ChatID = args[0]
		rest := args[1:]
		if len(rest) > 0 {
			if p := core.Platform(strings.ToLower(rest[0])); p.Valid() {
				cc.Platform = p
				rest = rest[1:]
			}
		}
		cc.Title = strings.Join(rest, " ")
	}

	if cc.ChatID == "" {
		return c.formatter.Combine(
			c.formatter.Usage("/watch [chat-id] [telegram|whatsapp] [title]"),
			c.formatter.Examples([]string{
				"/watch",
				"/watch 120363041234@g.us whatsapp Python Cohort 7",
			}),
		), nil
	}

	if _, err := reply(c.engine.SetActiveContext(ctx, cc)); err != nil {
		return "", err
	}

	title := cc.Title
	if title == "" {
		title = cc.ChatID
	}
	return c.formatter.Success(fmt.Sprintf("Now watching %s", title)), nil
}
