package command

import (
	"context"
	"strings"
)

type AskCommand struct {
	engine    Engine
	formatter *ResponseFormatter
}

func NewAskCommand(engine Engine) *AskCommand {
	return &AskCommand{engine: engine, formatter: NewResponseFormatter()}
}

func (c *AskCommand) Name() string {
	return "ask"
}

func (c *AskCommand) Description() string {
	return "Ask the AI about today's messages"
}

func (c *AskCommand) Execute(ctx context.Context, _ string, args []string) (string, error) {
	if len(args) == 0 {
		return c.formatter.Usage("/ask <question>"), nil
	}
	return reply(c.engine.Ask(ctx, strings.Join(args, " "), ""))
}
