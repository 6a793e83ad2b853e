package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/chatlens/internal/config"
	"github.com/sandevgo/chatlens/internal/core"
	"github.com/sandevgo/chatlens/internal/service/ui"
	"github.com/sandevgo/chatlens/pkg/log"
)

// Querier is the part of the engine the console talks to.
type Querier interface {
	Query(ctx context.Context, task, chatID string) core.Result
}

// ReadLine is a local console: slash commands go to the command router,
// anything else is run as an analysis query against the active chat.
type ReadLine struct {
	engine Querier
	router core.CmdRouter
	rl     *readline.Instance
	out    io.Writer
}

func NewReadLine(engine Querier, router core.CmdRouter, cfg *config.AppConfig) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.GetHistoryPath()), 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ui.PromptStyle.Render("chatlens") + " › ",
		HistoryFile:     cfg.GetHistoryPath(),
		AutoComplete:    completer(router),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		engine: engine,
		router: router,
		rl:     rl,
		out:    rl.Stdout(),
	}, nil
}

// Interactive marks the console as the process owner: quitting it stops
// the other services.
func (r *ReadLine) Interactive() bool { return true }

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("console started. Type /help for commands, 'exit' to quit.")

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" || line == "quit" {
			return nil
		}
		if line == "" {
			continue
		}

		r.handle(ctx, line)
	}
}

func (r *ReadLine) handle(ctx context.Context, line string) {
	if out, ok := r.router.Execute(ctx, "", line); ok {
		fmt.Fprintln(r.out, out)
		return
	}

	res := r.engine.Query(ctx, line, "")
	if !res.OK() {
		fmt.Fprintln(r.out, ui.ErrorStyle.Render("Error: "+res.Error))
		return
	}
	fmt.Fprintln(r.out, res.Response)
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}

func completer(router core.CmdRouter) *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{readline.PcItem("/help")}
	for _, c := range router.ListCommands() {
		items = append(items, readline.PcItem("/"+c.Name()))
	}
	return readline.NewPrefixCompleter(items...)
}
