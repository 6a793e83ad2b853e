package tracker

import (
	"context"
	"sort"
	"sync"

	"github.com/sandevgo/chatlens/internal/core"
	"github.com/sandevgo/chatlens/pkg/log"
)

// SwitchFunc runs after the active conversation changed to a different chat id.
type SwitchFunc func(ctx context.Context, prev, next core.ConversationContext)

// Tracker owns the active conversation pointer and remembers every
// conversation it has seen, so titles stay available after a switch.
type Tracker struct {
	mu       sync.RWMutex
	active   *core.ConversationContext
	known    map[string]core.ConversationContext
	onSwitch []SwitchFunc
}

func New() *Tracker {
	return &Tracker{
		known: make(map[string]core.ConversationContext),
	}
}

// OnSwitch registers a hook. Hooks run outside the tracker lock, in
// registration order.
func (t *Tracker) OnSwitch(fn SwitchFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSwitch = append(t.onSwitch, fn)
}

// SetContext makes cc the active conversation. It reports whether this
// was a switch to a different chat id; setting the same id again only
// refreshes its metadata.
func (t *Tracker) SetContext(ctx context.Context, cc core.ConversationContext) bool {
	t.mu.Lock()
	var prev core.ConversationContext
	switched := t.active == nil || t.active.ChatID != cc.ChatID
	if t.active != nil {
		prev = *t.active
	}
	next := cc
	t.active = &next
	t.known[cc.ChatID] = cc
	hooks := append([]SwitchFunc(nil), t.onSwitch...)
	t.mu.Unlock()

	if !switched {
		log.FromCtx(ctx).Debug().Str("chat_id", cc.ChatID).Str("title", cc.Title).Msg("context metadata refreshed")
		return false
	}

	log.FromCtx(ctx).Info().
		Str("from", prev.ChatID).
		Str("chat_id", cc.ChatID).
		Str("platform", string(cc.Platform)).
		Str("title", cc.Title).
		Msg("active conversation switched")

	for _, fn := range hooks {
		fn(ctx, prev, cc)
	}
	return true
}

func (t *Tracker) Active() (core.ConversationContext, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.active == nil {
		return core.ConversationContext{}, false
	}
	return *t.active, true
}

// IsActive reports whether chatID is the active conversation.
func (t *Tracker) IsActive(chatID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active != nil && t.active.ChatID == chatID
}

func (t *Tracker) Lookup(chatID string) (core.ConversationContext, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	cc, ok := t.known[chatID]
	return cc, ok
}

// Remember records a conversation without activating it.
func (t *Tracker) Remember(cc core.ConversationContext) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.known[cc.ChatID] = cc
}

// Known lists remembered conversations ordered by chat id.
func (t *Tracker) Known() []core.ConversationContext {
	t.mu.RLock()
	out := make([]core.ConversationContext, 0, len(t.known))
	for _, cc := range t.known {
		out = append(out, cc)
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ChatID < out[j].ChatID })
	return out
}
