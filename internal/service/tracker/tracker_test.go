package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/sandevgo/chatlens/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestTracker_SetContext(t *testing.T) {
	ctx := context.Background()
	tr := New()

	var switches []string
	tr.OnSwitch(func(_ context.Context, prev, next core.ConversationContext) {
		switches = append(switches, prev.ChatID+"->"+next.ChatID)
	})

	_, ok := tr.Active()
	assert.False(t, ok)

	assert.True(t, tr.SetContext(ctx, core.ConversationContext{ChatID: "c1", Platform: core.PlatformTelegram, Title: "One"}))
	assert.False(t, tr.SetContext(ctx, core.ConversationContext{ChatID: "c1", Platform: core.PlatformTelegram, Title: "One (renamed)"}))
	assert.True(t, tr.SetContext(ctx, core.ConversationContext{ChatID: "c2", Platform: core.PlatformWhatsApp, Title: "Two"}))

	assert.Equal(t, []string{"->c1", "c1->c2"}, switches)

	active, ok := tr.Active()
	assert.True(t, ok)
	assert.Equal(t, "c2", active.ChatID)
	assert.True(t, tr.IsActive("c2"))
	assert.False(t, tr.IsActive("c1"))

	old, ok := tr.Lookup("c1")
	assert.True(t, ok)
	assert.Equal(t, "One (renamed)", old.Title, "metadata refresh is kept for inactive chats")
	assert.Len(t, tr.Known(), 2)
}

func TestTracker_Remember(t *testing.T) {
	tr := New()
	tr.Remember(core.ConversationContext{ChatID: "c9", Title: "Nine"})

	_, ok := tr.Active()
	assert.False(t, ok)
	cc, ok := tr.Lookup("c9")
	assert.True(t, ok)
	assert.Equal(t, "Nine", cc.Title)
}

func TestSeenCache(t *testing.T) {
	s := NewSeenCache(time.Minute)

	assert.False(t, s.CheckAndMark("c1", "1"))
	assert.True(t, s.CheckAndMark("c1", "1"))
	assert.False(t, s.CheckAndMark("c2", "1"), "ids are scoped per chat")

	s.Forget("c1", "1")
	assert.False(t, s.CheckAndMark("c1", "1"))

	s.Reset()
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.CheckAndMark("c1", "1"))
}

func TestSeenCache_ResetOnSwitch(t *testing.T) {
	ctx := context.Background()
	tr := New()
	seen := NewSeenCache(time.Minute)
	tr.OnSwitch(func(context.Context, core.ConversationContext, core.ConversationContext) { seen.Reset() })

	tr.SetContext(ctx, core.ConversationContext{ChatID: "c1"})
	seen.CheckAndMark("c1", "1")

	tr.SetContext(ctx, core.ConversationContext{ChatID: "c1", Title: "same chat"})
	assert.True(t, seen.CheckAndMark("c1", "1"), "metadata refresh keeps the cache")

	tr.SetContext(ctx, core.ConversationContext{ChatID: "c2"})
	assert.Equal(t, 0, seen.Len())
}
