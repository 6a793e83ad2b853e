package command

import (
	"github.com/sandevgo/chatlens/internal/core"
)

func NewCommands(engine Engine, platform core.Platform) []core.Command {
	return []core.Command{
		NewWatchCommand(engine, platform),
		NewSummaryCommand(engine),
		NewSentimentCommand(engine),
		NewAskCommand(engine),
		NewContextCommand(engine),
	}
}
