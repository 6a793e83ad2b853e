package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sandevgo/chatlens/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	active *core.ConversationContext
	known  []core.ConversationContext
	groups []core.Group
}

func (f *fakeEngine) SubmitMessage(context.Context, string, core.Message) core.Result {
	return core.Success("")
}

func (f *fakeEngine) SetActiveContext(_ context.Context, cc core.ConversationContext) core.Result {
	if !cc.Platform.Valid() {
		return core.Failure(errors.New("unknown platform"))
	}
	f.active = &cc
	f.known = append(f.known, cc)
	return core.Success("")
}

func (f *fakeEngine) Query(_ context.Context, task, chatID string) core.Result {
	if chatID == "" && f.active == nil {
		return core.Failure(errors.New("no active conversation"))
	}
	return core.Success("report: " + task)
}

func (f *fakeEngine) Ask(_ context.Context, task, _ string) core.Result {
	return core.Success("answer: " + task)
}

func (f *fakeEngine) ActiveContext() (core.ConversationContext, bool) {
	if f.active == nil {
		return core.ConversationContext{}, false
	}
	return *f.active, true
}

func (f *fakeEngine) Contexts() []core.ConversationContext { return f.known }

func (f *fakeEngine) Groups(chatID, _ string) ([]core.Group, error) {
	if chatID == "" && f.active == nil {
		return nil, errors.New("no active conversation")
	}
	return f.groups, nil
}

func newRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(r *mcp.CallToolResult) string {
	if r == nil {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestQueryTool(t *testing.T) {
	e := &fakeEngine{}
	s := NewServer(e)
	ctx := context.Background()

	res, err := s.handleQuery(ctx, newRequest(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, _ = s.handleQuery(ctx, newRequest(map[string]any{"task": "sentiment"}))
	assert.True(t, res.IsError)
	assert.Equal(t, "no active conversation", resultText(res))

	res, _ = s.handleQuery(ctx, newRequest(map[string]any{"task": "sentiment", "chat_id": "7"}))
	assert.False(t, res.IsError)
	assert.Equal(t, "report: sentiment", resultText(res))
}

func TestAskTool(t *testing.T) {
	s := NewServer(&fakeEngine{})
	res, err := s.handleAsk(context.Background(), newRequest(map[string]any{"task": "deadlines?"}))
	require.NoError(t, err)
	assert.Equal(t, "answer: deadlines?", resultText(res))
}

func TestSetContextAndContextsTools(t *testing.T) {
	e := &fakeEngine{}
	s := NewServer(e)
	ctx := context.Background()

	res, _ := s.handleContexts(ctx, newRequest(nil))
	assert.Equal(t, "No conversations captured yet.", resultText(res))

	res, _ = s.handleSetContext(ctx, newRequest(map[string]any{"chat_id": "7", "platform": "irc"}))
	assert.True(t, res.IsError)

	res, _ = s.handleSetContext(ctx, newRequest(map[string]any{"chat_id": "7", "platform": "telegram", "title": "Cohort 7"}))
	assert.False(t, res.IsError)
	assert.Equal(t, "Now watching Cohort 7 (telegram)", resultText(res))

	res, _ = s.handleContexts(ctx, newRequest(nil))
	assert.Equal(t, "* 7\ttelegram\tCohort 7", resultText(res))
}

func TestKeyPointsTool(t *testing.T) {
	main := core.KeyPoint{Type: core.PointTechnicalIssue, Sender: "Ann", Text: "import error in assignment 3"}
	reply := core.KeyPoint{Type: core.PointResponse, Sender: "Bob", Text: "check your imports", IsResponse: true}
	e := &fakeEngine{
		active: &core.ConversationContext{ChatID: "7", Platform: core.PlatformTelegram},
		groups: []core.Group{{Main: main, Points: []core.KeyPoint{main, reply}}},
	}
	s := NewServer(e)

	res, err := s.handleKeyPoints(context.Background(), newRequest(nil))
	require.NoError(t, err)
	assert.Equal(t,
		"1. [technical_issue] Ann: import error in assignment 3\n   - [response] Bob: check your imports",
		resultText(res))

	e.groups = nil
	res, _ = s.handleKeyPoints(context.Background(), newRequest(nil))
	assert.Equal(t, "No key points found.", resultText(res))
}
