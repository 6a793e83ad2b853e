package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/chatlens/internal/core"
	"github.com/sandevgo/chatlens/internal/providers/llm"
	"github.com/sandevgo/chatlens/pkg/log"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultMaxTokens = 30000
	transcriptLayout = "15:04:05"
)

var ErrNoProvider = errors.New("no AI provider configured")

type MessageReader interface {
	GetMessages(chatID, dateKey string) []core.Message
}

type ContextLookup interface {
	Lookup(chatID string) (core.ConversationContext, bool)
}

// Error carries a message fit to show the user next to the cause.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

// Assistant answers open-ended tasks by sending today's transcript of a
// conversation to the configured AI provider.
type Assistant struct {
	ai        core.AIProvider
	store     MessageReader
	contexts  ContextLookup
	timeout   time.Duration
	maxTokens int
	count     TokenCounter
	now       func() time.Time
	loc       *time.Location
}

type Option func(*Assistant)

func WithTimeout(d time.Duration) Option {
	return func(a *Assistant) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithMaxTokens bounds the prompt size; 0 disables the bound.
func WithMaxTokens(n int) Option {
	return func(a *Assistant) { a.maxTokens = n }
}

func WithTokenCounter(fn TokenCounter) Option {
	return func(a *Assistant) { a.count = fn }
}

func WithClock(now func() time.Time) Option {
	return func(a *Assistant) { a.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(a *Assistant) {
		if loc != nil {
			a.loc = loc
		}
	}
}

func New(ai core.AIProvider, store MessageReader, contexts ContextLookup, opts ...Option) *Assistant {
	a := &Assistant{
		ai:        ai,
		store:     store,
		contexts:  contexts,
		timeout:   defaultTimeout,
		maxTokens: defaultMaxTokens,
		count:     CountTokens,
		now:       time.Now,
		loc:       time.Local,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ask runs task against today's messages of chatID. An empty day is not
// an error: the returned text says so. Failures are *Error values.
func (a *Assistant) Ask(ctx context.Context, task, chatID string) (string, error) {
	logger := log.FromCtx(ctx)

	today := a.now().In(a.loc).Format(core.DateKeyLayout)
	title := a.title(chatID)

	msgs := a.store.GetMessages(chatID, today)
	if len(msgs) == 0 {
		return fmt.Sprintf("No messages available for analysis in current chat: %s. Please wait for some messages to be captured.", title), nil
	}

	if a.ai == nil {
		return "", a.explain(ErrNoProvider)
	}

	prompt, dropped := a.prompt(task, title, today, msgs)
	if dropped > 0 {
		logger.Warn().Int("dropped", dropped).Int("kept", len(msgs)-dropped).Msg("transcript trimmed to token budget")
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	logger.Debug().Str("provider", a.ai.Name()).Int("messages", len(msgs)).Msg("sending prompt")
	answer, err := a.ai.Generate(ctx, prompt)
	if err != nil {
		logger.Error().Err(err).Str("provider", a.ai.Name()).Msg("generate failed")
		return "", a.explain(err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", a.explain(llm.ErrEmptyResponse)
	}
	return answer, nil
}

func (a *Assistant) prompt(task, title, today string, msgs []core.Message) (string, int) {
	head := fmt.Sprintf("Given these chat messages from %q for today (%s):\n\n", title, today)
	tail := fmt.Sprintf("\n\nTask: %s\n\nProvide a clear and concise response. If there are no relevant items matching the task, please indicate that.", task)

	lines := make([]string, len(msgs))
	for i, m := range msgs {
		ts := time.UnixMilli(m.Timestamp).In(a.loc).Format(transcriptLayout)
		lines[i] = fmt.Sprintf("[%s] %s: %s", ts, m.Sender, m.Text)
	}

	kept, dropped := fitLines(lines, a.count(head)+a.count(tail), a.maxTokens, a.count)
	return head + strings.Join(kept, "\n") + tail, dropped
}

func (a *Assistant) explain(err error) *Error {
	var ce *llm.CredentialError
	switch {
	case errors.As(err, &ce) && ce.Missing:
		return &Error{
			Message: fmt.Sprintf("Please set your %s API key (%s) to use AI insights.", ce.Provider, ce.EnvVar),
			Err:     err,
		}
	case errors.Is(err, llm.ErrInvalidCredential) || strings.Contains(err.Error(), "API key"):
		return &Error{
			Message: fmt.Sprintf("Invalid API key. Please check your %s API key and try again.", a.providerName()),
			Err:     err,
		}
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{
			Message: fmt.Sprintf("Failed to generate insight: no answer within %s", a.timeout),
			Err:     err,
		}
	default:
		return &Error{Message: "Failed to generate insight: " + err.Error(), Err: err}
	}
}

func (a *Assistant) providerName() string {
	if a.ai == nil {
		return "AI"
	}
	return a.ai.Name()
}

func (a *Assistant) title(chatID string) string {
	if a.contexts != nil {
		if cc, ok := a.contexts.Lookup(chatID); ok && cc.Title != "" {
			return cc.Title
		}
	}
	return "Unknown Chat"
}
