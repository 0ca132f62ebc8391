// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata assembles the per-run MetadataReport from the outputs of
// the earlier stages. Synthesis is pure: the same input always yields the
// same report.
package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/pdiddy/doc2md/pkg/types"
)

// Processor identifies this software in SystemInfo.
const Processor = "doc2md"

// Input gathers everything the report is built from. Err is set when the
// run failed; the report is still built from whatever the earlier stages
// produced.
type Input struct {
	RunID       string
	Filename    string
	ProcessedAt time.Time
	Times       types.ProcessingTimes
	Source      *types.ObjectInfo

	Structure     types.StructuralStats
	Normalization types.NormalizationStats
	Content       *types.ContentStatistics
	OutputLength  int

	Options types.ConversionOptions
	Pages   []types.PageStats
	Tables  []types.TableInfo

	Engine  string
	Version string
	Err     error
}

// Synthesize builds the report for in.
func Synthesize(in Input) types.MetadataReport {
	total := in.Times.Total()
	score := RichnessScore(in.Structure)

	report := types.MetadataReport{
		Status: types.StatusSuccess,
		DocumentInfo: types.DocumentInfo{
			Filename:            in.Filename,
			RunID:               in.RunID,
			ProcessedAt:         in.ProcessedAt.UTC(),
			TotalProcessingTime: round2(total),
			ProcessingBreakdown: in.Times.Clone(),
			Source:              in.Source,
		},
		ContentAnalysis: in.Structure,
		MarkdownOutput: types.MarkdownOutput{
			NormalizationStats: in.Normalization,
			OptimizationRatio:  OptimizationRatio(in.Normalization.OriginalLength, in.Normalization.OptimizedLength),
			OutputLength:       in.OutputLength,
			Statistics:         in.Content,
		},
		ProcessingOptions: in.Options,
		QualityIndicators: types.QualityIndicators{
			HasTables:       in.Structure.TableCount > 0,
			HasHeadings:     in.Structure.HeadingCount > 0,
			HasLists:        in.Structure.ListCount > 0,
			HasFormulas:     in.Structure.FormulaCount > 0,
			RichnessScore:   score,
			ContentRichness: Richness(score),
		},
		PerformanceMetrics: types.PerformanceMetrics{
			WordsPerSecond: WordsPerSecond(in.Structure.TotalWords, total),
		},
		PageBreakdown: cloned(in.Pages),
		TableAnalysis: cloned(in.Tables),
		SystemInfo: types.SystemInfo{
			Processor: Processor,
			Version:   in.Version,
			Engine:    in.Engine,
		},
	}
	report.MarkdownOutput.OptimizationsApplied = cloned(in.Normalization.OptimizationsApplied)
	if in.Err != nil {
		report.Status = types.StatusFailed
		report.Error = in.Err.Error()
	}
	return report
}

// OptimizationRatio is the percentage by which normalization shrank the
// text, rounded to two decimals. It is negative when the text grew and zero
// when there was no text.
func OptimizationRatio(original, optimized int) float64 {
	if original == 0 {
		return 0
	}
	return round2(float64(original-optimized) / float64(original) * 100)
}

// RichnessScore weighs structural variety and volume.
func RichnessScore(s types.StructuralStats) int {
	score := 0
	if s.TableCount > 0 {
		score += 2
	}
	if s.HeadingCount > 0 {
		score++
	}
	if s.ListCount > 0 {
		score++
	}
	if s.FormulaCount > 0 {
		score += 2
	}
	switch {
	case s.TotalWords > 10000:
		score += 3
	case s.TotalWords > 5000:
		score += 2
	case s.TotalWords > 1000:
		score++
	}
	return score
}

// Richness maps a score to its label.
func Richness(score int) types.Richness {
	switch {
	case score >= 7:
		return types.RichnessVeryHigh
	case score >= 5:
		return types.RichnessHigh
	case score >= 3:
		return types.RichnessMedium
	case score >= 1:
		return types.RichnessLow
	default:
		return types.RichnessVeryLow
	}
}

// WordsPerSecond is throughput over the whole run, rounded to two decimals.
func WordsPerSecond(words int, seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	return round2(float64(words) / seconds)
}

// Encode serializes the report as indented JSON. HTML characters are left
// unescaped so document text reads as written.
func Encode(r types.MetadataReport) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("encoding metadata report: %w", err)
	}
	return buf.Bytes(), nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// cloned copies s so the report does not share the caller's backing array.
// A nil slice becomes an empty one.
func cloned[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return slices.Clone(s)
}
