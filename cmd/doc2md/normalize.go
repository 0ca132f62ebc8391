// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doc2md/internal/metadata"
	"github.com/pdiddy/doc2md/internal/normalize"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <file.md>",
	Short: "Normalize a local Markdown file",
	Long: `Normalize runs the Markdown optimizer over a local file and writes the
result to stdout or --out. Normalization stats go to stderr. Use "-" to read
from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runNormalize,
}

func runNormalize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var data []byte
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	out := normalize.New(cfg.Normalization).Optimize(string(data))
	content := out.Value.Content
	if toc, _ := cmd.Flags().GetBool("toc"); toc {
		content = normalize.InsertTableOfContents(content)
	}

	if path, _ := cmd.Flags().GetString("out"); path != "" {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	} else {
		fmt.Fprint(cmd.OutOrStdout(), content)
	}

	s := out.Value.Stats
	w := cmd.ErrOrStderr()
	if out.Degraded {
		fmt.Fprintf(w, "fallback: %s\n", out.Reason)
	}
	fmt.Fprintf(w, "applied:   %s\n", strings.Join(s.OptimizationsApplied, ", "))
	fmt.Fprintf(w, "headings:  %d\n", s.HeadingsProcessed)
	fmt.Fprintf(w, "tables:    %d\n", s.TablesProcessed)
	fmt.Fprintf(w, "links:     %d\n", s.LinksProcessed)
	fmt.Fprintf(w, "length:    %d -> %d (%.2f%%)\n", s.OriginalLength, s.OptimizedLength,
		metadata.OptimizationRatio(s.OriginalLength, s.OptimizedLength))

	if stats, _ := cmd.Flags().GetBool("stats"); stats {
		return writeJSON(w, normalize.ContentStatistics(content))
	}
	return nil
}

func init() {
	normalizeCmd.Flags().String("out", "", "write the result to this file instead of stdout")
	normalizeCmd.Flags().Bool("toc", false, "insert a table of contents")
	normalizeCmd.Flags().Bool("stats", false, "print content statistics as JSON to stderr")

	rootCmd.AddCommand(normalizeCmd)
}
