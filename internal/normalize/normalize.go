// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize rewrites raw engine Markdown into a canonical form. The
// optimizer runs a fixed sequence of line-oriented passes; fenced code blocks
// are opaque to every pass except whitespace cleanup and line endings.
package normalize

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/pdiddy/doc2md/pkg/types"
)

// DefaultMaxInputBytes bounds the input the optimizer will attempt.
const DefaultMaxInputBytes = 64 << 20

// ErrInputTooLarge is the fallback reason for inputs over the size limit.
var ErrInputTooLarge = errors.New("input exceeds normalization limit")

// Result is normalized Markdown with the stats describing how it was
// produced.
type Result struct {
	Content string
	Stats   types.NormalizationStats
}

// Optimizer applies the normalization passes. It holds no per-call state
// and is safe for concurrent use.
type Optimizer struct {
	maxInput int
}

// New returns an optimizer configured by cfg.
func New(cfg types.NormalizationConfig) *Optimizer {
	limit := cfg.MaxInputBytes
	if limit <= 0 {
		limit = DefaultMaxInputBytes
	}
	return &Optimizer{maxInput: limit}
}

// pass is one rewriting step. It returns the rewritten text and whether its
// rule name belongs in the applied log.
type pass struct {
	rule  string
	apply func(text string, stats *types.NormalizationStats) (string, bool)
}

var passes = []pass{
	{types.RuleWhitespace, func(s string, _ *types.NormalizationStats) (string, bool) {
		return cleanWhitespace(s), true
	}},
	{types.RuleHeadings, func(s string, st *types.NormalizationStats) (string, bool) {
		out, n := normalizeHeadings(s)
		st.HeadingsProcessed = n
		return out, n > 0
	}},
	{types.RuleTables, func(s string, st *types.NormalizationStats) (string, bool) {
		out, n := normalizeTables(s)
		st.TablesProcessed = n
		return out, n > 0
	}},
	{types.RuleLists, func(s string, _ *types.NormalizationStats) (string, bool) {
		return normalizeLists(s)
	}},
	{types.RuleLinks, func(s string, st *types.NormalizationStats) (string, bool) {
		out, n := normalizeLinks(s)
		st.LinksProcessed = n
		return out, n > 0
	}},
	{types.RuleEmptySections, func(s string, _ *types.NormalizationStats) (string, bool) {
		return removeEmptySections(s), true
	}},
	{types.RuleLineEndings, func(s string, _ *types.NormalizationStats) (string, bool) {
		return normalizeLineEndings(s), true
	}},
}

// Optimize runs every pass over content in order. If any pass fails, or
// the input is over the size limit, the outcome is degraded and carries the
// untouched input.
func (o *Optimizer) Optimize(content string) (out types.Outcome[Result]) {
	original := utf8.RuneCountInString(content)

	if len(content) > o.maxInput {
		return fallback(content, original, fmt.Errorf("%w: %d bytes > %d", ErrInputTooLarge, len(content), o.maxInput))
	}

	defer func() {
		if r := recover(); r != nil {
			out = fallback(content, original, fmt.Errorf("normalization pass failed: %v", r))
		}
	}()

	stats := types.NormalizationStats{
		OriginalLength:       original,
		OptimizationsApplied: []string{},
	}
	text := content
	for _, p := range passes {
		var record bool
		text, record = p.apply(text, &stats)
		if record {
			stats.OptimizationsApplied = append(stats.OptimizationsApplied, p.rule)
		}
	}
	stats.OptimizedLength = utf8.RuneCountInString(text)
	return types.Ok(Result{Content: text, Stats: stats})
}

// Passthrough returns content unchanged with stats for a run where
// optimization was switched off.
func Passthrough(content string) Result {
	n := utf8.RuneCountInString(content)
	return Result{
		Content: content,
		Stats: types.NormalizationStats{
			OriginalLength:       n,
			OptimizedLength:      n,
			OptimizationsApplied: []string{},
		},
	}
}

func fallback(content string, length int, err error) types.Outcome[Result] {
	res := Passthrough(content)
	res.Stats.OriginalLength = length
	res.Stats.OptimizedLength = length
	res.Stats.Fallback = true
	res.Stats.FallbackReason = err.Error()
	return types.Degrade(res, err.Error())
}
