package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askFlag bool

var queryCmd = &cobra.Command{
	Use:   "query <chat-id> <task...>",
	Short: "Run one analysis request against the stored history",
	Long: `Loads the persisted journal (PERSIST_ENABLED=true) and prints the report for the task,
for example: chatlens query -- -100123 summarize yesterday`,
	Args:         cobra.MinimumNArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		rt := NewRuntime(ctx)
		defer func() {
			for i := len(rt.Services) - 1; i >= 0; i-- {
				_ = rt.Services[i].Shutdown(ctx)
			}
		}()

		chatID, task := args[0], strings.Join(args[1:], " ")

		run := rt.Engine.Query
		if askFlag {
			run = rt.Engine.Ask
		}
		res := run(ctx, task, chatID)
		if !res.OK() {
			return errors.New(res.Error)
		}

		fmt.Fprintln(cmd.OutOrStdout(), res.Response)
		return nil
	},
}

func init() {
	queryCmd.Flags().BoolVar(&askFlag, "ask", false, "send the task to the AI model instead of the built-in reports")
	rootCmd.AddCommand(queryCmd)
}
