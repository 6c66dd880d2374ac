package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/iajur/internal/logger"
)

var askSession string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single question and print the result as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askSession, "session", "s", "cli", "session id used for conversational memory")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := logger.ContextWithLogger(cmd.Context(), log)
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	answer, err := a.services().ask.Ask(ctx, askSession, strings.Join(args, " "))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(answer)
}
