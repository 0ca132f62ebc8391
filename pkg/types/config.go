package types

// ConversionOptions are the per-request switches recognized in the input
// contract. Defaults come from DefaultConversionOptions, overridden by the
// config file and then by the request itself.
type ConversionOptions struct {
	// OCREnabled asks the engine to OCR image-only pages (default true).
	OCREnabled bool `json:"ocr_enabled" yaml:"ocr_enabled" mapstructure:"ocr_enabled"`

	// PreserveTables asks the engine to recover table structure (default true).
	PreserveTables bool `json:"preserve_tables" yaml:"preserve_tables" mapstructure:"preserve_tables"`

	// PreserveFormatting asks the engine to keep inline formatting (default true).
	PreserveFormatting bool `json:"preserve_formatting" yaml:"preserve_formatting" mapstructure:"preserve_formatting"`

	// MarkdownOptimization enables the normalization passes (default true).
	MarkdownOptimization bool `json:"markdown_optimization" yaml:"markdown_optimization" mapstructure:"markdown_optimization"`

	// AddMetadataHeader prepends YAML frontmatter to the Markdown output.
	AddMetadataHeader bool `json:"add_metadata_header" yaml:"add_metadata_header" mapstructure:"add_metadata_header"`

	// GenerateTOC inserts a table of contents built from the headings.
	GenerateTOC bool `json:"generate_toc" yaml:"generate_toc" mapstructure:"generate_toc"`
}

// DefaultConversionOptions returns the documented defaults.
func DefaultConversionOptions() ConversionOptions {
	return ConversionOptions{
		OCREnabled:           true,
		PreserveTables:       true,
		PreserveFormatting:   true,
		MarkdownOptimization: true,
	}
}

// StorageBackend selects the object storage adapter.
type StorageBackend string

const (
	StorageS3    StorageBackend = "s3"
	StorageLocal StorageBackend = "local"
)

// StorageConfig holds settings for the object storage adapter.
type StorageConfig struct {
	// Backend selects s3 or local.
	Backend StorageBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Region is the AWS region for the S3 client (default us-east-1).
	Region string `json:"region" yaml:"region" mapstructure:"region"`

	// Endpoint overrides the S3 endpoint (MinIO, LocalStack).
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" mapstructure:"endpoint"`

	// PathStyle forces path-style bucket addressing.
	PathStyle bool `json:"path_style" yaml:"path_style" mapstructure:"path_style"`

	// LocalRoot is the directory whose subdirectories act as buckets for
	// the local backend.
	LocalRoot string `json:"local_root" yaml:"local_root" mapstructure:"local_root"`
}

// ExtractionEngine identifies the structural extraction backend.
type ExtractionEngine string

const (
	EnginePdfcpu  ExtractionEngine = "pdfcpu"
	EngineDocling ExtractionEngine = "docling"
)

// ExtractionConfig holds settings for the extraction stage.
type ExtractionConfig struct {
	// Engine selects pdfcpu (pure Go) or docling (container).
	Engine ExtractionEngine `json:"engine" yaml:"engine" mapstructure:"engine"`

	// Image is the docling wrapper image (default doc2md-docling:latest).
	Image string `json:"image" yaml:"image" mapstructure:"image"`

	// MaxFileSize rejects larger source files before extraction, in bytes.
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size" mapstructure:"max_file_size"`
}

// NormalizationConfig holds settings for the Markdown optimizer.
type NormalizationConfig struct {
	// MaxInputBytes makes larger inputs fall back to the raw text.
	MaxInputBytes int `json:"max_input_bytes" yaml:"max_input_bytes" mapstructure:"max_input_bytes"`
}

// LedgerConfig holds settings for the run ledger. An empty Path disables it.
type LedgerConfig struct {
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Storage       StorageConfig       `json:"storage" yaml:"storage" mapstructure:"storage"`
	Extraction    ExtractionConfig    `json:"extraction" yaml:"extraction" mapstructure:"extraction"`
	Normalization NormalizationConfig `json:"normalization" yaml:"normalization" mapstructure:"normalization"`
	Options       ConversionOptions   `json:"options" yaml:"options" mapstructure:"options"`
	Ledger        LedgerConfig        `json:"ledger" yaml:"ledger" mapstructure:"ledger"`
	Log           LogConfig           `json:"log" yaml:"log" mapstructure:"log"`

	// TempDir is where acquisition creates scoped temporary files.
	TempDir string `json:"temp_dir" yaml:"temp_dir" mapstructure:"temp_dir"`
}
