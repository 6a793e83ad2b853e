package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/chatlens/internal/core"
	"github.com/sandevgo/chatlens/internal/service/analysis"
	"github.com/sandevgo/chatlens/internal/service/assistant"
	"github.com/sandevgo/chatlens/internal/service/ingest"
	"github.com/sandevgo/chatlens/internal/service/metrics"
	"github.com/sandevgo/chatlens/internal/service/tracker"
	"github.com/sandevgo/chatlens/internal/storage/memory"
	"github.com/sandevgo/chatlens/pkg/log"
)

var (
	ErrMissingChat     = errors.New("chat id is required")
	ErrMissingID       = errors.New("message id is required")
	ErrMissingTask     = errors.New("task is required")
	ErrNoActiveContext = errors.New("no active conversation")
	ErrUnknownPlatform = errors.New("unknown platform")
)

// Engine is the entry point shared by every transport. It filters
// captured messages against the active conversation and answers
// analysis requests from the store.
type Engine struct {
	store     core.MessageStore
	tracker   *tracker.Tracker
	seen      *tracker.SeenCache
	router    *analysis.Router
	assistant *assistant.Assistant
	journal   core.Journal
	metrics   *metrics.Metrics
	queue     *ingest.Queue
	queueSize int
}

var _ core.Engine = (*Engine)(nil)

type Option func(*Engine)

func WithAssistant(a *assistant.Assistant) Option {
	return func(e *Engine) { e.assistant = a }
}

// WithJournal persists conversation metadata on every context change.
func WithJournal(j core.Journal) Option {
	return func(e *Engine) { e.journal = j }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

func WithSeenCache(s *tracker.SeenCache) Option {
	return func(e *Engine) { e.seen = s }
}

// WithQueue routes submissions through a per-chat ingest queue of the
// given size. Without it messages are stored before SubmitMessage returns.
func WithQueue(size int) Option {
	return func(e *Engine) { e.queueSize = size }
}

func New(store core.MessageStore, tr *tracker.Tracker, router *analysis.Router, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		tracker: tr,
		router:  router,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.seen == nil {
		e.seen = tracker.NewSeenCache(0)
	}
	if e.queueSize > 0 {
		e.queue = ingest.New(e.queueSize, e.persist)
	}

	tr.OnSwitch(func(ctx context.Context, prev, next core.ConversationContext) {
		e.seen.Reset()
		log.FromCtx(ctx).Debug().Str("chat_id", next.ChatID).Msg("capture dedup cache reset")
	})
	return e
}

// Queue returns the ingest queue, or nil when storage is synchronous.
func (e *Engine) Queue() *ingest.Queue {
	return e.queue
}

func (e *Engine) Pending() int {
	if e.queue == nil {
		return 0
	}
	return e.queue.Pending()
}

func (e *Engine) SubmitMessage(ctx context.Context, chatID string, msg core.Message) core.Result {
	if chatID == "" {
		chatID = msg.ChatID
	}
	if strings.TrimSpace(chatID) == "" {
		return core.Failure(ErrMissingChat)
	}
	if msg.ID == "" {
		return core.Failure(ErrMissingID)
	}
	msg.ChatID = chatID

	ctx = log.WithChat(ctx, chatID)
	logger := log.FromCtx(ctx).With().Str("message_id", msg.ID).Logger()

	if !e.tracker.IsActive(chatID) {
		logger.Debug().Msg("message dropped: chat is not active")
		e.metrics.Rejected("inactive")
		return core.Success("")
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		logger.Debug().Msg("message dropped: empty text")
		e.metrics.Rejected("empty")
		return core.Success("")
	}
	msg.Text = text

	if e.seen.CheckAndMark(chatID, msg.ID) {
		logger.Debug().Msg("message dropped: already captured")
		e.metrics.Rejected("duplicate")
		return core.Success("")
	}

	if e.queue == nil {
		e.persist(ctx, chatID, msg)
		return core.Success("")
	}

	if err := e.queue.Enqueue(ctx, chatID, msg); err != nil {
		e.seen.Forget(chatID, msg.ID)
		logger.Warn().Err(err).Msg("message not queued")
		e.metrics.Rejected("overload")
		return core.Failure(err)
	}
	return core.Success("")
}

// persist is the single writer for a chat, called inline or by its ingest worker.
func (e *Engine) persist(ctx context.Context, chatID string, msg core.Message) {
	err := e.store.AddMessage(ctx, chatID, msg)
	if err == nil {
		e.metrics.Accepted()
		return
	}

	reason := rejectReason(err)
	log.FromCtx(ctx).Debug().Err(err).Str("message_id", msg.ID).Str("reason", reason).Msg("message rejected by store")
	e.metrics.Rejected(reason)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, memory.ErrDuplicate):
		return "duplicate"
	case errors.Is(err, memory.ErrStale):
		return "stale"
	case errors.Is(err, memory.ErrInvalid):
		return "invalid"
	default:
		return "store"
	}
}

func (e *Engine) SetActiveContext(ctx context.Context, cc core.ConversationContext) core.Result {
	cc.ChatID = strings.TrimSpace(cc.ChatID)
	if cc.ChatID == "" {
		return core.Failure(ErrMissingChat)
	}
	if cc.Platform != "" && !cc.Platform.Valid() {
		return core.Failure(fmt.Errorf("%w: %s", ErrUnknownPlatform, cc.Platform))
	}

	e.tracker.SetContext(ctx, cc)

	if e.journal != nil {
		if err := e.journal.SaveContext(ctx, cc); err != nil {
			log.FromCtx(ctx).Warn().Err(err).Str("chat_id", cc.ChatID).Msg("failed to persist conversation")
		}
	}
	return core.Success("")
}

func (e *Engine) ActiveContext() (core.ConversationContext, bool) {
	return e.tracker.Active()
}

// Contexts lists every conversation seen since start or restore.
func (e *Engine) Contexts() []core.ConversationContext {
	return e.tracker.Known()
}

func (e *Engine) Query(ctx context.Context, task, chatID string) core.Result {
	ctx = log.WithRequest(ctx, uuid.NewString())

	chatID, err := e.resolve(task, chatID)
	if err != nil {
		return core.Failure(err)
	}

	mode := analysis.DetectMode(task)
	e.metrics.Query(string(mode))
	log.FromCtx(ctx).Info().Str("chat_id", chatID).Str("mode", string(mode)).Msg("query")

	return core.Success(e.router.Process(ctx, task, chatID))
}

func (e *Engine) Ask(ctx context.Context, task, chatID string) core.Result {
	ctx = log.WithRequest(ctx, uuid.NewString())

	chatID, err := e.resolve(task, chatID)
	if err != nil {
		return core.Failure(err)
	}
	if e.assistant == nil {
		return core.Failure(assistant.ErrNoProvider)
	}

	start := time.Now()
	answer, err := e.assistant.Ask(ctx, task, chatID)
	if err != nil {
		e.metrics.Ask(string(core.StatusError), time.Since(start).Seconds())
		return core.Failure(err)
	}
	e.metrics.Ask(string(core.StatusSuccess), time.Since(start).Seconds())
	return core.Success(answer)
}

// Groups returns the key-point groups of chatID for one day; an empty
// chat id means the active conversation and an empty key means today.
func (e *Engine) Groups(chatID, dateKey string) ([]core.Group, error) {
	if chatID == "" {
		cc, ok := e.tracker.Active()
		if !ok {
			return nil, ErrNoActiveContext
		}
		chatID = cc.ChatID
	}
	return e.router.Groups(chatID, dateKey), nil
}

// resolve defaults chatID to the active conversation.
func (e *Engine) resolve(task, chatID string) (string, error) {
	if strings.TrimSpace(task) == "" {
		return "", ErrMissingTask
	}
	if chatID != "" {
		return chatID, nil
	}
	cc, ok := e.tracker.Active()
	if !ok {
		return "", ErrNoActiveContext
	}
	return cc.ChatID, nil
}
