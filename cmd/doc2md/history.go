// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doc2md/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded conversion runs",
	Long: `History lists past runs from the local run ledger, newest first.
Filter by status with --status and choose the output with --format
(table, json, or yaml).`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Ledger.Path == "" {
		return fmt.Errorf("no run ledger configured (set ledger.path)")
	}

	l, err := ledger.Open(cfg.Ledger)
	if err != nil {
		return err
	}
	defer l.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	status, _ := cmd.Flags().GetString("status")
	format, _ := cmd.Flags().GetString("format")
	q := ledger.Query{Limit: limit, Status: status}

	switch format {
	case "json", "yaml":
		return l.Export(cmd.Context(), cmd.OutOrStdout(), q, format == "json")
	case "table":
		entries, err := l.List(cmd.Context(), q)
		if err != nil {
			return err
		}
		printHistory(cmd.OutOrStdout(), entries)
		return nil
	default:
		return fmt.Errorf("unknown format %q: use table, json, or yaml", format)
	}
}

func printHistory(w io.Writer, entries []ledger.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no runs recorded")
		return
	}
	for _, e := range entries {
		detail := e.Output
		if e.FailedStage != "" {
			detail = fmt.Sprintf("%s: %s", e.FailedStage, e.Error)
		}
		fmt.Fprintf(w, "%s  %-7s  %7.2fs  %s  %s\n",
			e.RecordedAt.Local().Format(time.DateTime), e.Status, e.TotalSeconds, e.Source, detail)
	}
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum runs to list")
	historyCmd.Flags().String("status", "", "only runs with this status (success or failed)")
	historyCmd.Flags().String("format", "table", "output format: table, json, or yaml")

	rootCmd.AddCommand(historyCmd)
}
