// Package mcp serves the engine to MCP clients over stdio.
package mcp

import (
	"context"
	"io"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/chatlens/internal/core"
	"github.com/sandevgo/chatlens/internal/service/command"
	"github.com/sandevgo/chatlens/pkg/log"
)

// Engine is what the MCP tools need from the engine.
type Engine interface {
	command.Engine
	Groups(chatID, dateKey string) ([]core.Group, error)
}

type Server struct {
	mcp    *server.MCPServer
	engine Engine
	in     io.Reader
	out    io.Writer
}

func NewServer(engine Engine) *Server {
	s := &Server{
		engine: engine,
		in:     os.Stdin,
		out:    os.Stdout,
	}

	s.mcp = server.NewMCPServer(
		"chatlens",
		core.AppVersion,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	for _, t := range s.tools() {
		s.mcp.AddTool(t.def, t.handle)
	}
	return s
}

const instructions = "ChatLens keeps a bounded history of captured group chats. " +
	"Use chatlens_contexts to see known conversations, chatlens_set_context to pick one, " +
	"then chatlens_query for deterministic reports (key points, yesterday, sentiment) " +
	"or chatlens_ask for open questions answered by the configured AI model."

// Start serves MCP over stdio until ctx is done or the client disconnects.
func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("serving mcp over stdio")
	return server.NewStdioServer(s.mcp).Listen(ctx, s.in, s.out)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return nil
}

// Interactive ties the process lifetime to the stdio session.
func (s *Server) Interactive() bool { return true }
