package command

import (
	"context"
	"fmt"
)

type ContextCommand struct {
	engine    Engine
	formatter *ResponseFormatter
}

func NewContextCommand(engine Engine) *ContextCommand {
	return &ContextCommand{engine: engine, formatter: NewResponseFormatter()}
}

func (c *ContextCommand) Name() string {
	return "context"
}

func (c *ContextCommand) Description() string {
	return "Show the watched conversation"
}

func (c *ContextCommand) Execute(ctx context.Context, _ string, _ []string) (string, error) {
	active, ok := c.engine.ActiveContext()
	if !ok {
		return c.formatter.Combine(
			c.formatter.Info("Active conversation"),
			c.formatter.Label("Status", "none"),
			c.formatter.Tip("Use /watch to start capturing a conversation"),
		), nil
	}

	var known []string
	for _, cc := range c.engine.Contexts() {
		if cc.ChatID == active.ChatID {
			continue
		}
		known = append(known, fmt.Sprintf("%s (%s)", orID(cc.Title, cc.ChatID), cc.ChatID))
	}

	sections := []string{
		c.formatter.Info("Active conversation"),
		c.formatter.Label("Title", orID(active.Title, active.ChatID)) +
			c.formatter.Label("Chat", active.ChatID) +
			c.formatter.Label("Platform", orID(string(active.Platform), "unknown")),
	}
	if len(known) > 0 {
		sections = append(sections, "**Also seen**:\n"+c.formatter.List(known))
	}
	return c.formatter.Combine(sections...), nil
}

func orID(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
