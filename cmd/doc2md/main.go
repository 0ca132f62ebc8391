// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the doc2md CLI and Lambda function.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc2md/internal/convert"
	"github.com/pdiddy/doc2md/internal/extract"
	"github.com/pdiddy/doc2md/internal/ledger"
	"github.com/pdiddy/doc2md/internal/normalize"
	"github.com/pdiddy/doc2md/internal/observe"
	"github.com/pdiddy/doc2md/internal/secrets"
	"github.com/pdiddy/doc2md/internal/storage"
	"github.com/pdiddy/doc2md/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the doc2md CLI.
var rootCmd = &cobra.Command{
	Use:   "doc2md",
	Short: "Convert PDF documents in object storage to normalized Markdown",
	Long: `doc2md fetches a PDF from S3 (or a local bucket directory), extracts its
structure, renders and normalizes Markdown, and publishes the Markdown with a
JSON metadata report describing the document and the run.

Run one conversion with convert, many with batch, or serve conversions as an
AWS Lambda function with lambda.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/", os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./doc2md.yaml or ~/.config/doc2md/doc2md.yaml)")
}

func setDefaults() {
	opts := types.DefaultConversionOptions()
	viper.SetDefault("storage.backend", string(types.StorageS3))
	viper.SetDefault("storage.region", "us-east-1")
	viper.SetDefault("storage.endpoint", "")
	viper.SetDefault("storage.path_style", false)
	viper.SetDefault("storage.local_root", "buckets")
	viper.SetDefault("storage.access_key_id", "")
	viper.SetDefault("storage.secret_access_key", "")
	viper.SetDefault("extraction.engine", string(types.EnginePdfcpu))
	viper.SetDefault("extraction.image", extract.DefaultDoclingImage)
	viper.SetDefault("extraction.max_file_size", int64(100<<20))
	viper.SetDefault("normalization.max_input_bytes", normalize.DefaultMaxInputBytes)
	viper.SetDefault("options.ocr_enabled", opts.OCREnabled)
	viper.SetDefault("options.preserve_tables", opts.PreserveTables)
	viper.SetDefault("options.preserve_formatting", opts.PreserveFormatting)
	viper.SetDefault("options.markdown_optimization", opts.MarkdownOptimization)
	viper.SetDefault("options.add_metadata_header", opts.AddMetadataHeader)
	viper.SetDefault("options.generate_toc", opts.GenerateTOC)
	viper.SetDefault("ledger.path", filepath.Join(".doc2md", "runs.db"))
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
	viper.SetDefault("temp_dir", "")
}

func initConfig() {
	setDefaults()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("doc2md")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "doc2md"))
		}
	}

	viper.SetEnvPrefix("DOC2MD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the merged flags, file, and environment settings.
func loadConfig() (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

// app is a wired pipeline plus the resources it holds open.
type app struct {
	pipeline *convert.Pipeline
	ledger   *ledger.Ledger
}

func (a *app) Close() error {
	if a.ledger != nil {
		return a.ledger.Close()
	}
	return nil
}

// newApp wires storage, the extraction engine, logging, and the run ledger
// from cfg. Log lines go to logOut.
func newApp(ctx context.Context, cfg types.PipelineConfig, logOut io.Writer) (*app, error) {
	logger, err := observe.NewLogger(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}

	creds := storage.Credentials{
		AccessKeyID:     secrets.Lookup(loadedSecrets, secrets.AWSAccessKeyID, viper.GetString("storage.access_key_id")),
		SecretAccessKey: secrets.Lookup(loadedSecrets, secrets.AWSSecretAccessKey, viper.GetString("storage.secret_access_key")),
		SessionToken:    secrets.Lookup(loadedSecrets, secrets.AWSSessionToken, ""),
	}
	store, err := storage.New(ctx, cfg.Storage, creds)
	if err != nil {
		return nil, err
	}

	engine, err := extract.NewEngine(ctx, cfg.Extraction)
	if err != nil {
		return nil, err
	}

	opts := []convert.Option{
		convert.WithObserver(observe.NewLogrus(logger)),
		convert.WithTempDir(cfg.TempDir),
		convert.WithVersion(version),
	}
	a := &app{}
	if cfg.Ledger.Path != "" {
		l, err := ledger.Open(cfg.Ledger)
		if err != nil {
			return nil, err
		}
		a.ledger = l
		opts = append(opts, convert.WithRecorder(l))
	}

	a.pipeline = convert.New(store, engine, normalize.New(cfg.Normalization), opts...)
	return a, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
