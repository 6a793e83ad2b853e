package command

import (
	"context"
	"errors"
	"testing"

	"github.com/sandevgo/chatlens/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	active  *core.ConversationContext
	known   []core.ConversationContext
	tasks   []string
	queryFn func(task string) core.Result
	askFn   func(task string) core.Result
}

func (f *fakeEngine) SubmitMessage(context.Context, string, core.Message) core.Result {
	return core.Success("")
}

func (f *fakeEngine) SetActiveContext(_ context.Context, cc core.ConversationContext) core.Result {
	if cc.ChatID == "bad" {
		return core.Failure(errors.New("rejected"))
	}
	f.active = &cc
	return core.Success("")
}

func (f *fakeEngine) Query(_ context.Context, task, _ string) core.Result {
	f.tasks = append(f.tasks, task)
	if f.queryFn != nil {
		return f.queryFn(task)
	}
	return core.Success("report for " + task)
}

func (f *fakeEngine) Ask(_ context.Context, task, _ string) core.Result {
	f.tasks = append(f.tasks, task)
	if f.askFn != nil {
		return f.askFn(task)
	}
	return core.Success("answer to " + task)
}

func (f *fakeEngine) ActiveContext() (core.ConversationContext, bool) {
	if f.active == nil {
		return core.ConversationContext{}, false
	}
	return *f.active, true
}

func (f *fakeEngine) Contexts() []core.ConversationContext { return f.known }

func newTestRouter(e *fakeEngine) *Router {
	return New(NewCommands(e, core.PlatformTelegram))
}

func TestRouter_NotACommand(t *testing.T) {
	out, ok := newTestRouter(&fakeEngine{}).Execute(context.Background(), "1", "what happened?")
	assert.False(t, ok)
	assert.Empty(t, out)
}

func TestRouter_UnknownAndHelp(t *testing.T) {
	r := newTestRouter(&fakeEngine{})
	ctx := context.Background()

	out, ok := r.Execute(ctx, "1", "/nope")
	assert.True(t, ok)
	assert.Equal(t, "Unknown command: /nope", out)

	out, _ = r.Execute(ctx, "1", "/help")
	for _, name := range []string{"/ask", "/context", "/sentiment", "/summary", "/watch"} {
		assert.Contains(t, out, name)
	}
}

func TestRouter_ListCommandsSorted(t *testing.T) {
	var names []string
	for _, c := range newTestRouter(&fakeEngine{}).ListCommands() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"ask", "context", "sentiment", "summary", "watch"}, names)
}

func TestSummaryCommand_Tasks(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/summary", "key points"},
		{"/summary Yesterday", "key points yesterday"},
		{"/summary@chatlens_bot today", "key points today"},
		{"/sentiment", "sentiment"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e := &fakeEngine{}
			out, ok := newTestRouter(e).Execute(context.Background(), "1", tt.input)
			require.True(t, ok)
			assert.Equal(t, "report for "+tt.want, out)
			assert.Equal(t, []string{tt.want}, e.tasks)
		})
	}
}

func TestSummaryCommand_Error(t *testing.T) {
	e := &fakeEngine{queryFn: func(string) core.Result { return core.Failure(errors.New("no active conversation")) }}
	out, _ := newTestRouter(e).Execute(context.Background(), "1", "/summary")
	assert.Equal(t, "Error: no active conversation", out)
}

func TestWatchCommand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  core.ConversationContext
	}{
		{"current chat", "/watch", core.ConversationContext{ChatID: "-100", Platform: core.PlatformTelegram}},
		{"id only", "/watch 42", core.ConversationContext{ChatID: "42", Platform: core.PlatformTelegram}},
		{"id platform title", "/watch abc@g.us WhatsApp Python Cohort", core.ConversationContext{ChatID: "abc@g.us", Platform: core.PlatformWhatsApp, Title: "Python Cohort"}},
		{"id and title", "/watch 42 Study Group", core.ConversationContext{ChatID: "42", Platform: core.PlatformTelegram, Title: "Study Group"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &fakeEngine{}
			out, ok := newTestRouter(e).Execute(context.Background(), "-100", tt.input)
			require.True(t, ok)
			require.NotNil(t, e.active)
			assert.Equal(t, tt.want, *e.active)
			assert.Contains(t, out, "Now watching")
		})
	}
}

func TestWatchCommand_UsageAndError(t *testing.T) {
	e := &fakeEngine{}
	r := newTestRouter(e)

	out, _ := r.Execute(context.Background(), "", "/watch")
	assert.Contains(t, out, "**Usage**")
	assert.Nil(t, e.active)

	out, _ = r.Execute(context.Background(), "", "/watch bad")
	assert.Equal(t, "Error: rejected", out)
}

func TestAskCommand(t *testing.T) {
	e := &fakeEngine{}
	r := newTestRouter(e)

	out, _ := r.Execute(context.Background(), "1", "/ask")
	assert.Contains(t, out, "/ask <question>")

	out, _ = r.Execute(context.Background(), "1", "/ask any deadlines   this week?")
	assert.Equal(t, "answer to any deadlines this week?", out)
}

func TestContextCommand(t *testing.T) {
	e := &fakeEngine{}
	r := newTestRouter(e)

	out, _ := r.Execute(context.Background(), "1", "/context")
	assert.Contains(t, out, "none")

	e.active = &core.ConversationContext{ChatID: "7", Platform: core.PlatformWhatsApp, Title: "Cohort 7"}
	e.known = []core.ConversationContext{*e.active, {ChatID: "8"}}

	out, _ = r.Execute(context.Background(), "1", "/context")
	assert.Contains(t, out, "**Title**  ›  `Cohort 7`")
	assert.Contains(t, out, "**Platform**  ›  `whatsapp`")
	assert.Contains(t, out, "› 8 (8)")
}
