package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/iajur/internal/domain"
	"github.com/kailas-cloud/iajur/internal/domain/glossary"
)

var glossaryCmd = &cobra.Command{
	Use:   "glossary [term]",
	Short: "Print the legal glossary or a single entry",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := glossary.Default()
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		if len(args) == 0 {
			return enc.Encode(struct {
				Stats   glossary.Stats   `json:"stats"`
				Entries []glossary.Entry `json:"entries"`
			}{r.Stats(), r.Entries()})
		}

		entry, ok := r.Expand(args[0])
		if !ok {
			return fmt.Errorf("%q: %w", args[0], domain.ErrTermNotFound)
		}
		return enc.Encode(entry)
	},
}

func init() {
	rootCmd.AddCommand(glossaryCmd)
}
