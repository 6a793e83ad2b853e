package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sandevgo/chatlens/internal/core"
)

type tool struct {
	def    mcp.Tool
	handle func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

func (s *Server) tools() []tool {
	return []tool{
		{
			def: mcp.NewTool("chatlens_query",
				mcp.WithDescription("Run an analysis request over a captured conversation. "+
					"Recognized requests: key points for today, 'yesterday', 'sentiment'."),
				mcp.WithString("task", mcp.Required(), mcp.Description("The request, e.g. 'summarize yesterday'")),
				mcp.WithString("chat_id", mcp.Description("Conversation id; the active one when omitted")),
			),
			handle: s.handleQuery,
		},
		{
			def: mcp.NewTool("chatlens_ask",
				mcp.WithDescription("Ask an open question about today's messages of a conversation."),
				mcp.WithString("task", mcp.Required(), mcp.Description("The question to answer")),
				mcp.WithString("chat_id", mcp.Description("Conversation id; the active one when omitted")),
			),
			handle: s.handleAsk,
		},
		{
			def: mcp.NewTool("chatlens_set_context",
				mcp.WithDescription("Make a conversation the active one. Only the active conversation is captured."),
				mcp.WithString("chat_id", mcp.Required(), mcp.Description("Conversation id")),
				mcp.WithString("platform", mcp.Required(), mcp.Enum(string(core.PlatformTelegram), string(core.PlatformWhatsApp))),
				mcp.WithString("title", mcp.Description("Display title")),
			),
			handle: s.handleSetContext,
		},
		{
			def: mcp.NewTool("chatlens_contexts",
				mcp.WithDescription("List known conversations and the active one."),
			),
			handle: s.handleContexts,
		},
		{
			def: mcp.NewTool("chatlens_key_points",
				mcp.WithDescription("Return the grouped key points of one day as a list."),
				mcp.WithString("chat_id", mcp.Description("Conversation id; the active one when omitted")),
				mcp.WithString("date", mcp.Description("Day as DD/MM/YYYY; today when omitted")),
			),
			handle: s.handleKeyPoints,
		},
	}
}

func (s *Server) handleQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	task, err := req.RequireString("task")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResult(s.engine.Query(ctx, task, req.GetString("chat_id", ""))), nil
}

func (s *Server) handleAsk(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	task, err := req.RequireString("task")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResult(s.engine.Ask(ctx, task, req.GetString("chat_id", ""))), nil
}

func (s *Server) handleSetContext(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chatID, err := req.RequireString("chat_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cc := core.ConversationContext{
		ChatID:   chatID,
		Platform: core.Platform(req.GetString("platform", "")),
		Title:    req.GetString("title", ""),
	}
	res := s.engine.SetActiveContext(ctx, cc)
	if !res.OK() {
		return mcp.NewToolResultError(res.Error), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Now watching %s (%s)", orID(cc.Title, cc.ChatID), cc.Platform)), nil
}

func (s *Server) handleContexts(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	active, ok := s.engine.ActiveContext()
	known := s.engine.Contexts()
	if len(known) == 0 {
		return mcp.NewToolResultText("No conversations captured yet."), nil
	}

	var b strings.Builder
	for _, cc := range known {
		marker := " "
		if ok && cc.ChatID == active.ChatID {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %s\t%s\t%s\n", marker, cc.ChatID, cc.Platform, cc.Title)
	}
	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}

func (s *Server) handleKeyPoints(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	groups, err := s.engine.Groups(req.GetString("chat_id", ""), req.GetString("date", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(groups) == 0 {
		return mcp.NewToolResultText("No key points found."), nil
	}

	var b strings.Builder
	for i, g := range groups {
		fmt.Fprintf(&b, "%d. [%s] %s: %s\n", i+1, g.Main.Type, g.Main.Sender, g.Main.Text)
		for j, p := range g.Points {
			if j == 0 {
				continue // main point
			}
			fmt.Fprintf(&b, "   - [%s] %s: %s\n", p.Type, p.Sender, p.Text)
		}
	}
	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}

func toolResult(res core.Result) *mcp.CallToolResult {
	if !res.OK() {
		return mcp.NewToolResultError(res.Error)
	}
	return mcp.NewToolResultText(res.Response)
}

func orID(title, id string) string {
	if title == "" {
		return id
	}
	return title
}
