// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doc2md/pkg/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch <manifest>",
	Short: "Convert every request in a manifest",
	Long: `Batch reads a YAML or JSON manifest holding a list of requests and runs
them concurrently. Each request has the same fields as a convert event;
requests without a configuration block use the configured defaults.

  requests:
    - source_bucket: inputs
      source_key: reports/q1.pdf
      output_bucket: outputs
      output_key: reports/q1.md
      metadata_key: reports/q1.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

// manifest is the batch file layout.
type manifest struct {
	Requests []yaml.Node `yaml:"requests"`
}

// loadManifest decodes path. Each request starts from defaults so a partial
// configuration block only overrides the options it names.
func loadManifest(path string, defaults types.ConversionOptions) ([]types.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	reqs := make([]types.Request, 0, len(m.Requests))
	for i := range m.Requests {
		req := types.Request{Options: defaults}
		if err := m.Requests[i].Decode(&req); err != nil {
			return nil, fmt.Errorf("parsing manifest request %d: %w", i+1, err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reqs, err := loadManifest(args[0], cfg.Options)
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		return fmt.Errorf("manifest %s has no requests", args[0])
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	result := a.pipeline.RunBatch(ctx, reqs, concurrency, cmd.OutOrStdout())

	if path, _ := cmd.Flags().GetString("results-out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("writing results: %w", err)
		}
		defer f.Close()
		if err := writeJSON(f, result.Results); err != nil {
			return err
		}
	}

	if result.HasFailures() {
		return fmt.Errorf("%d of %d conversion(s) failed", result.Failed, result.Total())
	}
	return nil
}

func init() {
	batchCmd.Flags().Int("concurrency", 4, "maximum conversions in flight")
	batchCmd.Flags().String("results-out", "", "write every result envelope to this JSON file")

	rootCmd.AddCommand(batchCmd)
}
