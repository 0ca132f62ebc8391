// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ElementKind is the category an element label classifies into.
type ElementKind string

const (
	KindTable     ElementKind = "table"
	KindHeading   ElementKind = "heading"
	KindParagraph ElementKind = "paragraph"
	KindList      ElementKind = "list"
	KindFormula   ElementKind = "formula"
	KindOther     ElementKind = "other"
)

// StructuralStats are document-wide counters derived from a
// StructuredDocument in a single pass. ExtractionError is set only when the
// analysis degraded to zero counters.
type StructuralStats struct {
	PageCount       int    `json:"page_count" yaml:"page_count"`
	TableCount      int    `json:"table_count" yaml:"table_count"`
	HeadingCount    int    `json:"heading_count" yaml:"heading_count"`
	ParagraphCount  int    `json:"paragraph_count" yaml:"paragraph_count"`
	ListCount       int    `json:"list_count" yaml:"list_count"`
	FormulaCount    int    `json:"formula_count" yaml:"formula_count"`
	TotalCharacters int    `json:"total_characters" yaml:"total_characters"`
	TotalWords      int    `json:"total_words" yaml:"total_words"`
	ExtractionError string `json:"extraction_error,omitempty" yaml:"extraction_error,omitempty"`
}

// PageStats holds the same classification scoped to one page.
type PageStats struct {
	PageNumber     int `json:"page_number" yaml:"page_number"`
	ElementCount   int `json:"element_count" yaml:"element_count"`
	TableCount     int `json:"table_count" yaml:"table_count"`
	HeadingCount   int `json:"heading_count" yaml:"heading_count"`
	ParagraphCount int `json:"paragraph_count" yaml:"paragraph_count"`
	ListCount      int `json:"list_count" yaml:"list_count"`
	FormulaCount   int `json:"formula_count" yaml:"formula_count"`
	CharacterCount int `json:"character_count" yaml:"character_count"`
	WordCount      int `json:"word_count" yaml:"word_count"`
}

// TableInfo describes one table element. RowCount and ColumnCount are zero
// when the engine detected no grid; TextContent is kept either way.
type TableInfo struct {
	PageNumber    int    `json:"page_number" yaml:"page_number"`
	ElementNumber int    `json:"element_number" yaml:"element_number"`
	TableType     string `json:"table_type" yaml:"table_type"`
	TextContent   string `json:"text_content" yaml:"text_content"`
	RowCount      int    `json:"row_count" yaml:"row_count"`
	ColumnCount   int    `json:"column_count" yaml:"column_count"`
}

// Rule names recorded in NormalizationStats.OptimizationsApplied, in
// application order.
const (
	RuleWhitespace    = "whitespace_cleanup"
	RuleHeadings      = "heading_optimization"
	RuleTables        = "table_optimization"
	RuleLists         = "list_optimization"
	RuleLinks         = "link_optimization"
	RuleEmptySections = "empty_section_removal"
	RuleLineEndings   = "line_ending_normalization"
)

// NormalizationStats records what the Markdown optimizer did. Lengths are
// in runes. OptimizationsApplied is an append-only log, not a set.
type NormalizationStats struct {
	OriginalLength       int      `json:"original_length" yaml:"original_length"`
	OptimizedLength      int      `json:"optimized_length" yaml:"optimized_length"`
	TablesProcessed      int      `json:"tables_processed" yaml:"tables_processed"`
	HeadingsProcessed    int      `json:"headings_processed" yaml:"headings_processed"`
	LinksProcessed       int      `json:"links_processed" yaml:"links_processed"`
	OptimizationsApplied []string `json:"optimizations_applied" yaml:"optimizations_applied"`
	Fallback             bool     `json:"fallback,omitempty" yaml:"fallback,omitempty"`
	FallbackReason       string   `json:"fallback_reason,omitempty" yaml:"fallback_reason,omitempty"`
}

// Stage names a pipeline stage.
type Stage string

const (
	StageValidation    Stage = "validation"
	StageDownload      Stage = "download"
	StageExtraction    Stage = "extraction"
	StageNormalization Stage = "normalization"
	StageUpload        Stage = "upload"
)

// TimedStages lists the stages that carry an entry in ProcessingTimes.
var TimedStages = []Stage{StageDownload, StageExtraction, StageNormalization, StageUpload}

// ProcessingTimes maps a stage to its elapsed seconds. Each stage is written
// once by the orchestrator.
type ProcessingTimes map[Stage]float64

// Total returns the sum of all recorded stage durations.
func (p ProcessingTimes) Total() float64 {
	var total float64
	for _, s := range p {
		total += s
	}
	return total
}

// Clone returns an independent copy.
func (p ProcessingTimes) Clone() ProcessingTimes {
	out := make(ProcessingTimes, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// HeadingLevels counts Markdown headings by level.
type HeadingLevels struct {
	H1    int `json:"h1" yaml:"h1"`
	H2    int `json:"h2" yaml:"h2"`
	H3    int `json:"h3" yaml:"h3"`
	H4    int `json:"h4" yaml:"h4"`
	H5    int `json:"h5" yaml:"h5"`
	H6    int `json:"h6" yaml:"h6"`
	Total int `json:"total" yaml:"total"`
}

// ListCounts counts Markdown list items.
type ListCounts struct {
	Unordered int `json:"unordered" yaml:"unordered"`
	Ordered   int `json:"ordered" yaml:"ordered"`
}

// ContentStatistics describe a rendered Markdown text.
type ContentStatistics struct {
	TotalCharacters int           `json:"total_characters" yaml:"total_characters"`
	TotalWords      int           `json:"total_words" yaml:"total_words"`
	TotalLines      int           `json:"total_lines" yaml:"total_lines"`
	Headings        HeadingLevels `json:"headings" yaml:"headings"`
	Lists           ListCounts    `json:"lists" yaml:"lists"`
	TableRows       int           `json:"table_rows" yaml:"table_rows"`
	Links           int           `json:"links" yaml:"links"`
	Images          int           `json:"images" yaml:"images"`
	CodeBlocks      int           `json:"code_blocks" yaml:"code_blocks"`
	InlineCode      int           `json:"inline_code" yaml:"inline_code"`
}
