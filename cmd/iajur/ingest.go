package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/iajur/internal/logger"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file.jsonl>",
	Short: "Embed JSON Lines records and store them in the vector index",
	Long:  `Each line is an object with id, title, content and optional metadata. Use "-" to read standard input.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	in := os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	ctx := logger.ContextWithLogger(cmd.Context(), log)
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	svc := a.ingester()
	if err := svc.EnsureIndex(ctx); err != nil {
		return err
	}
	report, err := svc.Ingest(ctx, in)
	if err != nil {
		return err
	}

	log.Info("Ingest finished",
		zap.Int("read", report.Read),
		zap.Int("written", report.Written),
		zap.Int("skipped", report.Skipped),
	)
	return json.NewEncoder(cmd.OutOrStdout()).Encode(report)
}
