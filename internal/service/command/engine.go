package command

import "github.com/sandevgo/chatlens/internal/core"

// Engine is what the chat commands drive.
type Engine interface {
	core.Engine
	Contexts() []core.ConversationContext
}

// reply unwraps an engine result into command output.
func reply(res core.Result) (string, error) {
	if !res.OK() {
		return "", resultError(res.Error)
	}
	return res.Response, nil
}

type resultError string

func (e resultError) Error() string { return string(e) }
