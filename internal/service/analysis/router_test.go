package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/sandevgo/chatlens/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noon = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type fakeReader map[string][]core.Message

func (f fakeReader) GetMessages(chatID, dateKey string) []core.Message {
	var out []core.Message
	for _, msg := range f[chatID] {
		if dateKey == "" || core.DateKey(msg.Timestamp, time.UTC) == dateKey {
			out = append(out, msg)
		}
	}
	return out
}

type fakeContexts map[string]core.ConversationContext

func (f fakeContexts) Lookup(chatID string) (core.ConversationContext, bool) {
	cc, ok := f[chatID]
	return cc, ok
}

func at(id, sender, text string, ts time.Time) core.Message {
	return core.Message{ID: id, Sender: sender, Text: text, Timestamp: ts.UnixMilli(), ChatID: "c1"}
}

func newTestRouter(msgs ...core.Message) *Router {
	return NewRouter(
		fakeReader{"c1": msgs},
		fakeContexts{"c1": *cohort},
		nil,
		WithClock(func() time.Time { return noon }),
		WithLocation(time.UTC),
	)
}

func TestDetectMode(t *testing.T) {
	tests := []struct {
		task string
		want Mode
	}{
		{"what is the sentiment today", ModeSentiment},
		{"Summarize TODAY", ModeToday},
		{"what happened yesterday?", ModeYesterday},
		{"key points please", ModeRecent},
		{"", ModeRecent},
	}
	for _, tt := range tests {
		t.Run(tt.task, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectMode(tt.task))
		})
	}
}

func TestRouter_Process_NoMessages(t *testing.T) {
	r := newTestRouter()
	assert.Equal(t, "No messages found in the current chat.", r.Process(context.Background(), "today", "c1"))
}

func TestRouter_Process_TodaySortsBucket(t *testing.T) {
	r := newTestRouter(
		at("2", "Bob", "@Ann try checking your imports", noon.Add(5*time.Minute)),
		at("1", "Ann", "Can someone help with assignment 2, getting a value error", noon.Add(-time.Hour)),
	)

	got := r.Process(context.Background(), "summarize today", "c1")

	assert.Contains(t, got, "Chat: Cohort 7\n")
	assert.Contains(t, got, "from today:")
	assert.Contains(t, got, "  → Bob @Ann try checking your imports")
}

func TestRouter_Process_EmptyToday(t *testing.T) {
	yesterday := noon.AddDate(0, 0, -1)

	r := newTestRouter(at("1", "Ann", "old news", yesterday))
	assert.Equal(t, "No messages found for today (14/03/2026) in Cohort 7.",
		r.Process(context.Background(), "today", "c1"))

	untitled := NewRouter(fakeReader{"c1": {at("1", "Ann", "old news", yesterday)}}, nil, nil,
		WithClock(func() time.Time { return noon }), WithLocation(time.UTC))
	assert.Equal(t, "No messages found for today (14/03/2026) in this chat.",
		untitled.Process(context.Background(), "sentiment", "c1"))
}

func TestRouter_Process_Yesterday(t *testing.T) {
	r := newTestRouter(at("1", "Ann", "assignment 4 is out", noon))
	assert.Equal(t, "No messages found for yesterday (13/03/2026).",
		r.Process(context.Background(), "yesterday", "c1"))

	r = newTestRouter(at("1", "Ann", "assignment 4 is out", noon.AddDate(0, 0, -1)))
	got := r.Process(context.Background(), "yesterday", "c1")
	assert.Contains(t, got, "from yesterday:")
	assert.Contains(t, got, "* [Ann] assignment 4 is out")
}

func TestRouter_Process_YesterdayAcrossMonth(t *testing.T) {
	first := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	r := NewRouter(fakeReader{"c1": {at("1", "Ann", "x", first)}}, nil, nil,
		WithClock(func() time.Time { return first }), WithLocation(time.UTC))

	assert.Equal(t, "No messages found for yesterday (28/02/2026).",
		r.Process(context.Background(), "yesterday", "c1"))
}

func TestRouter_Process_Sentiment(t *testing.T) {
	r := newTestRouter(at("1", "Ann", "thanks, solved", noon))
	got := r.Process(context.Background(), "sentiment of today", "c1")
	assert.Contains(t, got, "**Overall Sentiment:** Positive")
}

func TestRouter_Process_RecentIsChronological(t *testing.T) {
	// "10/02/2026" sorts after "02/03/2026" as a string but is older
	r := newTestRouter(
		at("1", "Ann", "assignment 1 feedback", time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)),
		at("2", "Bob", "assignment 2 feedback", time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)),
	)

	got := r.Process(context.Background(), "key points", "c1")

	assert.Contains(t, got, "from 02/03/2026:")
	assert.Contains(t, got, "[Bob] assignment 2 feedback")
	assert.NotContains(t, got, "assignment 1")
}

func TestRouter_Groups(t *testing.T) {
	r := newTestRouter(
		at("1", "Ann", "assignment 3 is hard", noon),
		at("2", "Bob", "assignment 3 done", noon.Add(time.Minute)),
		at("3", "Cara", "assignment 1 done", noon.AddDate(0, 0, -1)),
	)

	groups := r.Groups("c1", "")
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Points, 2)
	assert.Equal(t, "Cohort 7", groups[0].Main.Conversation.Title)

	assert.Len(t, r.Groups("c1", "13/03/2026"), 1)
	assert.Equal(t, "14/03/2026", r.Today())
}
