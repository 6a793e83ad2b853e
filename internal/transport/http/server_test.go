package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sandevgo/chatlens/internal/config"
	"github.com/sandevgo/chatlens/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	submitted []core.Message
	chatIDs   []string
	active    *core.ConversationContext
	deadline  bool
}

func (f *fakeEngine) SubmitMessage(_ context.Context, chatID string, msg core.Message) core.Result {
	if msg.ID == "" {
		return core.Failure(errors.New("message id is required"))
	}
	f.chatIDs = append(f.chatIDs, chatID)
	f.submitted = append(f.submitted, msg)
	return core.Success("")
}

func (f *fakeEngine) SetActiveContext(_ context.Context, cc core.ConversationContext) core.Result {
	if !cc.Platform.Valid() {
		return core.Failure(errors.New("unknown platform"))
	}
	f.active = &cc
	return core.Success("")
}

func (f *fakeEngine) Query(_ context.Context, task, chatID string) core.Result {
	return core.Success(task + " for " + chatID)
}

func (f *fakeEngine) Ask(ctx context.Context, task, _ string) core.Result {
	_, f.deadline = ctx.Deadline()
	return core.Success("answer: " + task)
}

func (f *fakeEngine) ActiveContext() (core.ConversationContext, bool) {
	if f.active == nil {
		return core.ConversationContext{}, false
	}
	return *f.active, true
}

func (f *fakeEngine) Contexts() []core.ConversationContext {
	if f.active == nil {
		return nil
	}
	return []core.ConversationContext{*f.active}
}

func (f *fakeEngine) Groups(chatID, _ string) ([]core.Group, error) {
	if chatID == "missing" {
		return nil, errors.New("no active conversation")
	}
	main := core.KeyPoint{Type: core.PointTechnicalIssue, Text: "import error", Sender: "Ann"}
	return []core.Group{{Main: main, Points: []core.KeyPoint{main}}}, nil
}

func newTestServer(t *testing.T) (*Server, *fakeEngine) {
	t.Helper()
	e := &fakeEngine{}
	cfg := &config.HTTPConfig{Addr: ":0", BodyLimit: 1 << 20, ReadTimeout: time.Second, AskTimeout: time.Minute}
	return NewServer(context.Background(), cfg, e, prometheus.NewRegistry()), e
}

func do(t *testing.T, s *Server, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := s.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func TestServer_Health(t *testing.T) {
	s, _ := newTestServer(t)
	code, out := do(t, s, fiber.MethodGet, "/healthz", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "ok", out["status"])
}

func TestServer_SubmitMessage(t *testing.T) {
	s, e := newTestServer(t)

	body := `{"chatId":"42","url":"https://web.whatsapp.com/","message":{"id":"m1","text":"hi","sender":"Ann","timestamp":1773489600000}}`
	code, out := do(t, s, fiber.MethodPost, "/api/messages", body)

	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "success", out["status"])
	require.Len(t, e.submitted, 1)
	assert.Equal(t, "42", e.chatIDs[0])
	assert.Equal(t, "Ann", e.submitted[0].Sender)
}

func TestServer_SubmitMessage_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"bad json", `{`, fiber.StatusBadRequest},
		{"unknown platform", `{"chatId":"1","platform":"irc","message":{"id":"m1"}}`, fiber.StatusBadRequest},
		{"missing id", `{"chatId":"1","message":{"text":"hi"}}`, fiber.StatusUnprocessableEntity},
		{"unknown format", `{"chatId":"1","format":"rtf","message":{"id":"m1","text":"hi"}}`, fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t)
			code, out := do(t, s, fiber.MethodPost, "/api/messages", tt.body)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, "error", out["status"])
			assert.NotEmpty(t, out["error"])
		})
	}
}

func TestServer_SubmitMessage_Format(t *testing.T) {
	tests := []struct {
		name   string
		format string
		text   string
		want   string
	}{
		{"plain text keeps brackets", "", "expected <class 'int'> got str", "expected <class 'int'> got str"},
		{"explicit text keeps brackets", "text", "if a<b and c>d it fails", "if a<b and c>d it fails"},
		{"html is flattened", "html", "<div><span>Hello world</span></div>", "Hello world"},
		{"html entities are decoded", "html", "<span>expected &lt;class 'int'&gt; got str</span>", "expected <class 'int'> got str"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, e := newTestServer(t)

			msg, err := json.Marshal(core.Message{ID: "m1", Sender: "Ann", Text: tt.text, Timestamp: 1773489600000})
			require.NoError(t, err)
			body := fmt.Sprintf(`{"chatId":"42","format":%q,"message":%s}`, tt.format, msg)

			code, _ := do(t, s, fiber.MethodPost, "/api/messages", body)
			require.Equal(t, fiber.StatusOK, code)
			require.Len(t, e.submitted, 1)
			assert.Equal(t, tt.want, e.submitted[0].Text)
		})
	}
}

func TestServer_SubmitMessage_OtherPlatformIgnored(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		submitted int
	}{
		{"telegram tab while watching whatsapp", `{"chatId":"7","url":"https://web.telegram.org/k/#-7","message":{"id":"m1","text":"hi"}}`, 0},
		{"explicit platform mismatch", `{"chatId":"7","platform":"telegram","message":{"id":"m1","text":"hi"}}`, 0},
		{"same platform", `{"chatId":"7","url":"https://web.whatsapp.com/","message":{"id":"m1","text":"hi"}}`, 1},
		{"platform unknown", `{"chatId":"7","url":"https://example.com","message":{"id":"m1","text":"hi"}}`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, e := newTestServer(t)
			e.active = &core.ConversationContext{ChatID: "7", Platform: core.PlatformWhatsApp}

			code, out := do(t, s, fiber.MethodPost, "/api/messages", tt.body)
			assert.Equal(t, fiber.StatusOK, code)
			assert.Equal(t, "success", out["status"])
			assert.Len(t, e.submitted, tt.submitted)
		})
	}
}

func TestServer_SetContextDetectsPlatform(t *testing.T) {
	s, e := newTestServer(t)

	code, _ := do(t, s, fiber.MethodPost, "/api/context", `{"chatId":"7","title":"Cohort 7","url":"https://web.telegram.org/k/#-7"}`)
	require.Equal(t, fiber.StatusOK, code)
	require.NotNil(t, e.active)
	assert.Equal(t, core.PlatformTelegram, e.active.Platform)

	code, out := do(t, s, fiber.MethodGet, "/api/contexts", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "7", out["active"].(map[string]any)["chatId"])

	code, _ = do(t, s, fiber.MethodPost, "/api/context", `{"chatId":"8","url":"https://example.com"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
}

func TestServer_QueryAndAsk(t *testing.T) {
	s, e := newTestServer(t)

	code, out := do(t, s, fiber.MethodPost, "/api/query", `{"task":"key points","chatId":"7"}`)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "key points for 7", out["response"])

	code, out = do(t, s, fiber.MethodPost, "/api/ask", `{"task":"any deadlines?"}`)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "answer: any deadlines?", out["response"])
	assert.True(t, e.deadline)
}

func TestServer_Groups(t *testing.T) {
	s, _ := newTestServer(t)

	code, out := do(t, s, fiber.MethodGet, "/api/chats/7/groups?date=14%2F03%2F2026", "")
	assert.Equal(t, fiber.StatusOK, code)
	groups := out["groups"].([]any)
	require.Len(t, groups, 1)
	assert.Equal(t, "import error", groups[0].(map[string]any)["main"].(map[string]any)["text"])

	code, _ = do(t, s, fiber.MethodGet, "/api/chats/missing/groups", "")
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestServer_Metrics(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, fiber.MethodGet, "/healthz", "")

	req := httptest.NewRequest(fiber.MethodGet, "/metrics", nil)
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "chatlens_http_requests_total")
}

func TestDetectPlatform(t *testing.T) {
	assert.Equal(t, core.PlatformTelegram, detectPlatform("https://web.telegram.org/a/"))
	assert.Equal(t, core.PlatformWhatsApp, detectPlatform("https://web.whatsapp.com/"))
	assert.Equal(t, core.Platform(""), detectPlatform("https://example.com"))
}
