package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
	"github.com/rs/zerolog/log"
)

type Option func(*options)

type options struct {
	out     io.Writer
	console bool
}

// WithOutput redirects log output. The MCP stdio server logs to stderr
// because stdout carries the protocol.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithJSON disables the console writer.
func WithJSON() Option {
	return func(o *options) { o.console = false }
}

func NewContextWithLogger(ctx context.Context, debug bool, opts ...Option) (context.Context, func()) {
	o := &options{out: os.Stdout, console: true}
	for _, opt := range opts {
		opt(o)
	}

	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// non-blocking ring buffer in front of the real writer
	wr := diode.NewWriter(o.out, 1000, 5*time.Millisecond, func(missed int) {
		fmt.Fprintf(os.Stderr, "logger dropped %d messages\n", missed)
	})

	var output io.Writer = wr
	if o.console {
		output = zerolog.ConsoleWriter{
			Out:        wr,
			TimeFormat: time.DateTime,
			PartsOrder: []string{
				zerolog.LevelFieldName,
				zerolog.TimestampFieldName,
				zerolog.MessageFieldName,
			},
		}
	}

	logger := zerolog.New(output).
		With().
		Timestamp().
		Logger()

	log.Logger = logger

	return logger.WithContext(ctx), func() {
		wr.Close()
	}
}

func FromCtx(ctx context.Context) *zerolog.Logger {
	return log.Ctx(ctx)
}

// WithChat returns a context whose logger carries the chat id.
func WithChat(ctx context.Context, chatID string) context.Context {
	l := FromCtx(ctx).With().Str("chat_id", chatID).Logger()
	return l.WithContext(ctx)
}

// WithRequest returns a context whose logger carries a request id.
func WithRequest(ctx context.Context, requestID string) context.Context {
	l := FromCtx(ctx).With().Str("request_id", requestID).Logger()
	return l.WithContext(ctx)
}
