package command

import (
	"context"
	"strings"
)

type SummaryCommand struct {
	engine Engine
}

func NewSummaryCommand(engine Engine) *SummaryCommand {
	return &SummaryCommand{engine: engine}
}

func (c *SummaryCommand) Name() string {
	return "summary"
}

func (c *SummaryCommand) Description() string {
	return "Key points: /summary [today|yesterday]; no argument uses the latest day"
}

func (c *SummaryCommand) Execute(ctx context.Context, _ string, args []string) (string, error) {
	task := "key points"
	if len(args) > 0 {
		task = "key points " + strings.ToLower(strings.Join(args, " "))
	}
	return reply(c.engine.Query(ctx, task, ""))
}

type SentimentCommand struct {
	engine Engine
}

func NewSentimentCommand(engine Engine) *SentimentCommand {
	return &SentimentCommand{engine: engine}
}

func (c *SentimentCommand) Name() string {
	return "sentiment"
}

func (c *SentimentCommand) Description() string {
	return "Sentiment of today's conversation"
}

func (c *SentimentCommand) Execute(ctx context.Context, _ string, _ []string) (string, error) {
	return reply(c.engine.Query(ctx, "sentiment", ""))
}
