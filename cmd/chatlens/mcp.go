package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/chatlens/internal/transport/mcp"
	"github.com/sandevgo/chatlens/pkg/log"
	"github.com/sandevgo/chatlens/pkg/srv"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve ChatLens tools over MCP stdio",
	Long:  `Runs an MCP server on stdin/stdout so assistants can query captured conversations. Logs go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// stdout carries the protocol
		var flushLog func()
		ctx, flushLog = setupLogger(ctx, log.WithOutput(os.Stderr))
		defer flushLog()

		rt := NewRuntime(ctx)
		services := append(rt.Services, mcp.NewServer(rt.Engine))

		srv.StartServices(ctx, services, stop)
		srv.ShutdownServices(ctx, services)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
