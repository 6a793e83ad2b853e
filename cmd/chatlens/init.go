package main

import (
	"fmt"
	"os"

	"github.com/sandevgo/chatlens/internal/config"
	"github.com/sandevgo/chatlens/pkg/env"
	"github.com/sandevgo/chatlens/pkg/log"
	"github.com/spf13/cobra"
)

var forceInit bool

const telegramTemplate = `
# Telegram transport (ENABLE_TELEGRAM=true)
# TELEGRAM_TOKEN=
# TELEGRAM_OWNER_ID=
`

var initCmd = &cobra.Command{
	Use:          "init",
	Short:        "Create the runtime directory and a default .env",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()
		logger := log.FromCtx(ctx)

		appCfg, err := config.LoadAppConfig()
		if err != nil {
			return err
		}
		envPath := appCfg.GetEnvPath()

		if _, err := os.Stat(envPath); err == nil && !forceInit {
			return fmt.Errorf("%s already exists, use --force to overwrite", envPath)
		}

		storeCfg, err := config.LoadStoreConfig()
		if err != nil {
			return err
		}
		aiCfg, err := config.LoadAIConfig()
		if err != nil {
			return err
		}
		httpCfg := config.NewHTTPConfig(ctx)

		content, err := env.MarshalEnv(appCfg, storeCfg, aiCfg, httpCfg)
		if err != nil {
			return fmt.Errorf("failed to render .env: %w", err)
		}

		if err := os.MkdirAll(appCfg.GetRuntimePath(), 0755); err != nil {
			return fmt.Errorf("failed to create runtime directory: %w", err)
		}
		if err := os.WriteFile(envPath, []byte(content+telegramTemplate), 0600); err != nil {
			return fmt.Errorf("failed to write .env: %w", err)
		}

		logger.Info().Msgf("initialized runtime directory at: %s", appCfg.GetRuntimePath())
		logger.Info().Msg("Edit the .env file, then run 'chatlens start'.")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "overwrite an existing .env")
	rootCmd.AddCommand(initCmd)
}
