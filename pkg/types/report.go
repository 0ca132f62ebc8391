// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Richness is the ordinal content-richness classification.
type Richness string

const (
	RichnessVeryLow  Richness = "Very Low"
	RichnessLow      Richness = "Low"
	RichnessMedium   Richness = "Medium"
	RichnessHigh     Richness = "High"
	RichnessVeryHigh Richness = "Very High"
)

// ObjectInfo is the storage metadata of the source object.
type ObjectInfo struct {
	URI           string     `json:"s3_uri" yaml:"s3_uri"`
	VersionID     string     `json:"version_id" yaml:"version_id"`
	ETag          string     `json:"etag" yaml:"etag"`
	LastModified  *time.Time `json:"last_modified,omitempty" yaml:"last_modified,omitempty"`
	ContentLength int64      `json:"content_length" yaml:"content_length"`
	ContentType   string     `json:"content_type" yaml:"content_type"`
}

// DocumentInfo identifies the run and its timing.
type DocumentInfo struct {
	Filename            string          `json:"filename" yaml:"filename"`
	RunID               string          `json:"run_id" yaml:"run_id"`
	ProcessedAt         time.Time       `json:"processed_at" yaml:"processed_at"`
	TotalProcessingTime float64         `json:"total_processing_time" yaml:"total_processing_time"`
	ProcessingBreakdown ProcessingTimes `json:"processing_breakdown" yaml:"processing_breakdown"`
	Source              *ObjectInfo     `json:"source_file,omitempty" yaml:"source_file,omitempty"`
}

// MarkdownOutput combines the normalizer's stats with derived figures.
type MarkdownOutput struct {
	NormalizationStats `yaml:",inline"`

	OptimizationRatio float64            `json:"optimization_ratio" yaml:"optimization_ratio"`
	OutputLength      int                `json:"output_length" yaml:"output_length"`
	Statistics        *ContentStatistics `json:"content_statistics,omitempty" yaml:"content_statistics,omitempty"`
}

// QualityIndicators summarize the document's structural complexity.
type QualityIndicators struct {
	HasTables       bool     `json:"has_tables" yaml:"has_tables"`
	HasHeadings     bool     `json:"has_headings" yaml:"has_headings"`
	HasLists        bool     `json:"has_lists" yaml:"has_lists"`
	HasFormulas     bool     `json:"has_formulas" yaml:"has_formulas"`
	RichnessScore   int      `json:"richness_score" yaml:"richness_score"`
	ContentRichness Richness `json:"content_richness" yaml:"content_richness"`
}

// PerformanceMetrics hold throughput figures.
type PerformanceMetrics struct {
	WordsPerSecond float64 `json:"words_per_second" yaml:"words_per_second"`
}

// SystemInfo identifies the software that produced the report.
type SystemInfo struct {
	Processor string `json:"processor" yaml:"processor"`
	Version   string `json:"version" yaml:"version"`
	Engine    string `json:"engine" yaml:"engine"`
}

// MetadataReport is the terminal record of one conversion run. It is built
// once by metadata.Synthesize and serialized verbatim.
type MetadataReport struct {
	Status             string             `json:"status" yaml:"status"`
	Error              string             `json:"error,omitempty" yaml:"error,omitempty"`
	DocumentInfo       DocumentInfo       `json:"document_info" yaml:"document_info"`
	ContentAnalysis    StructuralStats    `json:"content_analysis" yaml:"content_analysis"`
	MarkdownOutput     MarkdownOutput     `json:"markdown_output" yaml:"markdown_output"`
	ProcessingOptions  ConversionOptions  `json:"processing_options" yaml:"processing_options"`
	QualityIndicators  QualityIndicators  `json:"quality_indicators" yaml:"quality_indicators"`
	PerformanceMetrics PerformanceMetrics `json:"performance_metrics" yaml:"performance_metrics"`
	PageBreakdown      []PageStats        `json:"page_breakdown" yaml:"page_breakdown"`
	TableAnalysis      []TableInfo        `json:"table_analysis" yaml:"table_analysis"`
	SystemInfo         SystemInfo         `json:"system_info" yaml:"system_info"`
}

// ReportSummary is the subset of a report returned in the result envelope.
type ReportSummary struct {
	Filename            string      `json:"filename" yaml:"filename"`
	ProcessedAt         time.Time   `json:"processed_at" yaml:"processed_at"`
	TotalProcessingTime float64     `json:"total_processing_time" yaml:"total_processing_time"`
	PageCount           int         `json:"page_count" yaml:"page_count"`
	WordCount           int         `json:"word_count" yaml:"word_count"`
	TableCount          int         `json:"table_count" yaml:"table_count"`
	ContentLength       int         `json:"content_length" yaml:"content_length"`
	OptimizationRatio   float64     `json:"optimization_ratio" yaml:"optimization_ratio"`
	ContentRichness     Richness    `json:"content_richness" yaml:"content_richness"`
	WordsPerSecond      float64     `json:"words_per_second" yaml:"words_per_second"`
	Source              *ObjectInfo `json:"source_file,omitempty" yaml:"source_file,omitempty"`
}

// Summary extracts the envelope summary from the report.
func (r MetadataReport) Summary() ReportSummary {
	return ReportSummary{
		Filename:            r.DocumentInfo.Filename,
		ProcessedAt:         r.DocumentInfo.ProcessedAt,
		TotalProcessingTime: r.DocumentInfo.TotalProcessingTime,
		PageCount:           r.ContentAnalysis.PageCount,
		WordCount:           r.ContentAnalysis.TotalWords,
		TableCount:          r.ContentAnalysis.TableCount,
		ContentLength:       r.MarkdownOutput.OutputLength,
		OptimizationRatio:   r.MarkdownOutput.OptimizationRatio,
		ContentRichness:     r.QualityIndicators.ContentRichness,
		WordsPerSecond:      r.PerformanceMetrics.WordsPerSecond,
		Source:              r.DocumentInfo.Source,
	}
}
