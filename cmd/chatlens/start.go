package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/chatlens/pkg/log"
	"github.com/sandevgo/chatlens/pkg/srv"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the ChatLens services",
	Long:  `Starts the enabled transports (HTTP, Telegram, console) together with the ingest workers and the retention sweep.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting chatlens")

		rt := NewRuntime(ctx)
		transports, err := rt.Transports(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize transports")
		}
		if len(transports) == 0 {
			logger.Warn().Msg("no transport enabled, nothing can reach the engine")
		}
		services := append(rt.Services, transports...)

		// Start services
		srv.StartServices(ctx, services, stop)

		// Wait for shutdown signal
		srv.ShutdownServices(ctx, services)
		logger.Info().Msg("chatlens has been shut down gracefully")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
