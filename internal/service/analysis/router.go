package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sandevgo/chatlens/internal/core"
	"github.com/sandevgo/chatlens/pkg/log"
)

// MessageReader is the read side of the message store.
type MessageReader interface {
	GetMessages(chatID, dateKey string) []core.Message
}

// ContextLookup resolves conversation metadata by chat id.
type ContextLookup interface {
	Lookup(chatID string) (core.ConversationContext, bool)
}

type Mode string

const (
	ModeSentiment Mode = "sentiment"
	ModeToday     Mode = "today"
	ModeYesterday Mode = "yesterday"
	ModeRecent    Mode = "recent"
)

// modeRules map task text to a mode, checked in order.
var modeRules = []struct {
	Keyword string
	Mode    Mode
}{
	{"sentiment", ModeSentiment},
	{"today", ModeToday},
	{"yesterday", ModeYesterday},
}

// DetectMode picks the query mode for a task by case-insensitive substring.
func DetectMode(task string) Mode {
	lower := strings.ToLower(task)
	for _, r := range modeRules {
		if strings.Contains(lower, r.Keyword) {
			return r.Mode
		}
	}
	return ModeRecent
}

const noMessagesResponse = "No messages found in the current chat."

type Router struct {
	store      MessageReader
	contexts   ContextLookup
	classifier *Classifier
	formatter  *Formatter
	now        func() time.Time
	loc        *time.Location
}

type RouterOption func(*Router)

func WithClock(now func() time.Time) RouterOption {
	return func(r *Router) { r.now = now }
}

func WithLocation(loc *time.Location) RouterOption {
	return func(r *Router) {
		if loc != nil {
			r.loc = loc
		}
	}
}

func NewRouter(store MessageReader, contexts ContextLookup, vocab *Vocabulary, opts ...RouterOption) *Router {
	r := &Router{
		store:      store,
		contexts:   contexts,
		classifier: NewClassifier(vocab),
		formatter:  NewFormatter(NewGrouper(vocab)),
		now:        time.Now,
		loc:        time.Local,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Process answers a task against one conversation. It never fails:
// empty buckets produce a descriptive message.
func (r *Router) Process(ctx context.Context, task, chatID string) string {
	logger := log.FromCtx(ctx)

	all := r.store.GetMessages(chatID, "")
	if len(all) == 0 {
		return noMessagesResponse
	}

	buckets := r.bucket(all)
	cc := r.context(chatID)
	now := r.now().In(r.loc)
	today := now.Format(core.DateKeyLayout)
	mode := DetectMode(task)

	logger.Debug().Str("chat_id", chatID).Str("mode", string(mode)).Int("buckets", len(buckets)).Msg("routing query")

	switch mode {
	case ModeSentiment:
		msgs := buckets[today]
		if len(msgs) == 0 {
			return r.emptyToday(today, cc)
		}
		return Sentiment(msgs, cc)

	case ModeToday:
		msgs := buckets[today]
		if len(msgs) == 0 {
			return r.emptyToday(today, cc)
		}
		return r.formatter.Summary(r.classifier.Extract(msgs, cc), "today")

	case ModeYesterday:
		yesterday := now.AddDate(0, 0, -1).Format(core.DateKeyLayout)
		msgs := buckets[yesterday]
		if len(msgs) == 0 {
			return fmt.Sprintf("No messages found for yesterday (%s).", yesterday)
		}
		return r.formatter.Summary(r.classifier.Extract(msgs, cc), "yesterday")

	default:
		key := r.mostRecent(buckets)
		return r.formatter.Summary(r.classifier.Extract(buckets[key], cc), key)
	}
}

// Groups returns the key-point groups of one day, for structured callers.
func (r *Router) Groups(chatID, dateKey string) []core.Group {
	if dateKey == "" {
		dateKey = r.now().In(r.loc).Format(core.DateKeyLayout)
	}
	msgs := r.store.GetMessages(chatID, dateKey)
	cc := r.context(chatID)
	return r.formatter.grouper.Group(r.classifier.Extract(msgs, cc))
}

// Today returns today's date key in the router's location.
func (r *Router) Today() string {
	return r.now().In(r.loc).Format(core.DateKeyLayout)
}

func (r *Router) emptyToday(today string, cc *core.ConversationContext) string {
	title := "this chat"
	if cc != nil && cc.Title != "" {
		title = cc.Title
	}
	return fmt.Sprintf("No messages found for today (%s) in %s.", today, title)
}

func (r *Router) context(chatID string) *core.ConversationContext {
	if r.contexts == nil {
		return nil
	}
	cc, ok := r.contexts.Lookup(chatID)
	if !ok {
		return nil
	}
	return &cc
}

// bucket splits messages by calendar day, each day ordered by timestamp.
func (r *Router) bucket(msgs []core.Message) map[string][]core.Message {
	out := make(map[string][]core.Message)
	for _, m := range msgs {
		key := core.DateKey(m.Timestamp, r.loc)
		out[key] = append(out[key], m)
	}
	for _, day := range out {
		sort.SliceStable(day, func(i, j int) bool { return day[i].Timestamp < day[j].Timestamp })
	}
	return out
}

// mostRecent picks the latest day chronologically. Keys are DD/MM/YYYY,
// so they are compared as dates, not strings.
func (r *Router) mostRecent(buckets map[string][]core.Message) string {
	var (
		best     string
		bestTime time.Time
	)
	for key := range buckets {
		t, err := core.ParseDateKey(key, r.loc)
		if err != nil {
			continue
		}
		if best == "" || t.After(bestTime) {
			best, bestTime = key, t
		}
	}
	return best
}
