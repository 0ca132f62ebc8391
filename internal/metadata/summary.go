// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/doc2md/pkg/types"
)

// SummaryText renders a short Markdown digest of the report for people.
func SummaryText(r types.MetadataReport) string {
	var b strings.Builder
	writeSummary(&b, r)
	return b.String()
}

func writeSummary(w io.Writer, r types.MetadataReport) {
	info := r.DocumentInfo
	fmt.Fprintf(w, "# Processing Summary: %s\n\n", info.Filename)
	fmt.Fprintf(w, "- **Status:** %s\n", r.Status)
	if r.Error != "" {
		fmt.Fprintf(w, "- **Error:** %s\n", r.Error)
	}
	fmt.Fprintf(w, "- **Run:** %s\n", info.RunID)
	fmt.Fprintf(w, "- **Processed:** %s\n", info.ProcessedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(w, "- **Total time:** %.2fs\n", info.TotalProcessingTime)

	fmt.Fprintf(w, "\n## Timing\n\n")
	for _, stage := range types.TimedStages {
		if secs, ok := info.ProcessingBreakdown[stage]; ok {
			fmt.Fprintf(w, "- %s: %.2fs\n", stage, secs)
		}
	}

	c := r.ContentAnalysis
	fmt.Fprintf(w, "\n## Content\n\n")
	fmt.Fprintf(w, "- Pages: %d\n", c.PageCount)
	fmt.Fprintf(w, "- Words: %d\n", c.TotalWords)
	fmt.Fprintf(w, "- Characters: %d\n", c.TotalCharacters)
	fmt.Fprintf(w, "- Tables: %d\n", c.TableCount)
	fmt.Fprintf(w, "- Headings: %d\n", c.HeadingCount)
	fmt.Fprintf(w, "- Paragraphs: %d\n", c.ParagraphCount)
	fmt.Fprintf(w, "- Richness: %s (score %d)\n", r.QualityIndicators.ContentRichness, r.QualityIndicators.RichnessScore)

	m := r.MarkdownOutput
	fmt.Fprintf(w, "\n## Output\n\n")
	fmt.Fprintf(w, "- Markdown length: %d\n", m.OutputLength)
	fmt.Fprintf(w, "- Optimization: %.2f%%\n", m.OptimizationRatio)
	fmt.Fprintf(w, "- Rules applied: %d\n", len(m.OptimizationsApplied))
	if m.Fallback {
		fmt.Fprintf(w, "- Normalization fell back: %s\n", m.FallbackReason)
	}
	fmt.Fprintf(w, "- Words per second: %.2f\n", r.PerformanceMetrics.WordsPerSecond)
}
