// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doc2md/internal/metadata"
	"github.com/pdiddy/doc2md/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert one PDF to Markdown",
	Long: `Convert fetches one PDF, converts it, and publishes the Markdown and the
optional metadata report. The request comes from flags or from a JSON event
file in the same shape the Lambda function accepts.

The result envelope is printed to stdout as JSON. The command exits non-zero
when the conversion fails.`,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	req, err := requestFromFlags(cmd, cfg.Options)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	res, report := a.pipeline.RunWithReport(ctx, req)
	if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("report-out"); path != "" {
		data, err := metadata.Encode(report)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	if summary, _ := cmd.Flags().GetBool("summary"); summary && res.OK() {
		fmt.Fprint(cmd.ErrOrStderr(), metadata.SummaryText(report))
	}

	if !res.OK() {
		return fmt.Errorf("conversion failed at %s stage", res.FailedStage)
	}
	return nil
}

// requestFromFlags builds the request from --event or the location flags.
// Option flags override the configured defaults only when set.
func requestFromFlags(cmd *cobra.Command, defaults types.ConversionOptions) (types.Request, error) {
	var req types.Request
	if path, _ := cmd.Flags().GetString("event"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return req, fmt.Errorf("reading event file: %w", err)
		}
		if req, err = types.DecodeRequest(data, defaults); err != nil {
			return req, err
		}
	} else {
		req.Options = defaults
		req.SourceBucket, _ = cmd.Flags().GetString("source-bucket")
		req.SourceKey, _ = cmd.Flags().GetString("source-key")
		req.OutputBucket, _ = cmd.Flags().GetString("output-bucket")
		req.OutputKey, _ = cmd.Flags().GetString("output-key")
		req.MetadataKey, _ = cmd.Flags().GetString("metadata-key")
	}

	overrides := []struct {
		flag string
		dst  *bool
	}{
		{"ocr", &req.Options.OCREnabled},
		{"tables", &req.Options.PreserveTables},
		{"formatting", &req.Options.PreserveFormatting},
		{"optimize", &req.Options.MarkdownOptimization},
		{"header", &req.Options.AddMetadataHeader},
		{"toc", &req.Options.GenerateTOC},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			*o.dst, _ = cmd.Flags().GetBool(o.flag)
		}
	}
	return req, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

func addOptionFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("ocr", true, "run OCR on pages without a text layer")
	cmd.Flags().Bool("tables", true, "preserve table structure")
	cmd.Flags().Bool("formatting", true, "preserve inline formatting")
	cmd.Flags().Bool("optimize", true, "normalize the rendered Markdown")
	cmd.Flags().Bool("header", false, "prepend a YAML metadata header")
	cmd.Flags().Bool("toc", false, "insert a table of contents")
}

func init() {
	convertCmd.Flags().String("event", "", "JSON event file holding the request")
	convertCmd.Flags().String("source-bucket", "", "bucket holding the PDF")
	convertCmd.Flags().String("source-key", "", "key of the PDF")
	convertCmd.Flags().String("output-bucket", "", "bucket for the Markdown and report")
	convertCmd.Flags().String("output-key", "", "key for the Markdown output")
	convertCmd.Flags().String("metadata-key", "", "key for the JSON metadata report (optional)")
	convertCmd.Flags().String("report-out", "", "also write the metadata report to this local file")
	convertCmd.Flags().Bool("summary", false, "print a readable report summary to stderr")
	addOptionFlags(convertCmd)

	rootCmd.AddCommand(convertCmd)
}
