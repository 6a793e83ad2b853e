package main

import (
	"context"
	"os"

	"github.com/sandevgo/chatlens/internal/config"
	"github.com/sandevgo/chatlens/internal/service/ui"
	"github.com/sandevgo/chatlens/pkg/log"
	"github.com/spf13/cobra"
)

var (
	debug   bool
	jsonLog bool
)

var rootCmd = &cobra.Command{
	Use:   "chatlens",
	Short: "ChatLens: conversation intelligence for group chats",
	Long: `ChatLens captures messages of the group chat you are watching and answers
questions about them: key points of the day, yesterday's summary, sentiment,
or open questions routed to an AI model.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "log-json", false, "write logs as JSON lines")
}

func setupLogger(ctx context.Context, opts ...log.Option) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	if jsonLog {
		opts = append(opts, log.WithJSON())
	}
	return log.NewContextWithLogger(ctx, isDebug, opts...)
}

func CustomizeHelp(rootCmd *cobra.Command) {
	cobra.AddTemplateFunc("StyleTitle", func(s string) string { return ui.TitleStyle.Render(s) })
	cobra.AddTemplateFunc("StyleUsage", func(s string) string { return ui.UsageStyle.Render(s) })
	cobra.AddTemplateFunc("StyleFlag", func(s string) string { return ui.FlagStyle.Render(s) })
	cobra.AddTemplateFunc("StyleDesc", func(s string) string { return ui.DescStyle.Render(s) })

	template := `
{{StyleTitle "USAGE"}}
  {{StyleUsage .UseLine}}
{{if gt (len .Commands) 0}}{{StyleTitle "AVAILABLE COMMANDS"}}
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding}} {{StyleDesc .Short}}{{end}}
{{end}}{{end}}
{{if .HasAvailableLocalFlags}}{{StyleTitle "FLAGS"}}
{{StyleFlag (.LocalFlags.FlagUsages | trimTrailingWhitespaces)}}
{{end}}
`
	rootCmd.SetHelpTemplate(template)
}
