// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doc2md/pkg/types"
)

const mixedDocument = "Intro text\n#Heading One\nSome text with [ link ](http://a.b )\n" +
	"| a | b |\n|---|---|\n| 1 | 2 |\n- item\n  continued\n- item2\n" +
	"## Empty\n## Next\n```\n# code\n\n\n| not table |\n```\nend   \r\n"

func TestOptimize(t *testing.T) {
	opt := New(types.NormalizationConfig{})

	out := opt.Optimize("#Title\ntext\n\n\n\n- item1\n- item2\n")

	require.False(t, out.Degraded)
	assert.Equal(t, "# Title\n\ntext\n\n- item1\n- item2\n", out.Value.Content)
	assert.Equal(t, 1, out.Value.Stats.HeadingsProcessed)
	assert.Equal(t, []string{
		types.RuleWhitespace,
		types.RuleHeadings,
		types.RuleLists,
		types.RuleEmptySections,
		types.RuleLineEndings,
	}, out.Value.Stats.OptimizationsApplied)
}

func TestOptimizeMixedDocument(t *testing.T) {
	out := New(types.NormalizationConfig{}).Optimize(mixedDocument)
	require.False(t, out.Degraded)

	want := "Intro text\n\n# Heading One\n\nSome text with [link](http://a.b)\n\n" +
		"|a|b|\n|---|---|\n|1|2|\n\n- item\n  continued\n- item2\n\n" +
		"## Next\n\n```\n# code\n\n| not table |\n```\nend\n"
	assert.Equal(t, want, out.Value.Content)

	st := out.Value.Stats
	assert.Equal(t, 3, st.HeadingsProcessed)
	assert.Equal(t, 1, st.TablesProcessed)
	assert.Equal(t, 1, st.LinksProcessed)
	assert.Len(t, st.OptimizationsApplied, 7)
}

func TestOptimizeIdempotent(t *testing.T) {
	inputs := []string{
		"#Title\ntext\n\n\n\n- item1\n- item2\n",
		mixedDocument,
		"# A\n\n## B\n\n### C\n\n## D\n\n1. x\n2. y\nz",
		"",
		"   \n\n",
	}
	opt := New(types.NormalizationConfig{})
	for _, in := range inputs {
		once := opt.Optimize(in).Value.Content
		twice := opt.Optimize(once).Value.Content
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestOptimizeKeepsHeadingText(t *testing.T) {
	out := New(types.NormalizationConfig{}).Optimize("#Intro\nbody\n##  Methods and Data \nmore\n")
	require.False(t, out.Degraded)

	var headings []string
	for _, line := range strings.Split(out.Value.Content, "\n") {
		if _, text, ok := parseHeading(line); ok {
			headings = append(headings, text)
		}
	}
	assert.Equal(t, []string{"Intro", "Methods and Data"}, headings)
}

func TestOptimizeLengthsInRunes(t *testing.T) {
	out := New(types.NormalizationConfig{}).Optimize("# Café")
	assert.Equal(t, 6, out.Value.Stats.OriginalLength)
	assert.Equal(t, 7, out.Value.Stats.OptimizedLength)
}

func TestOptimizeFallback(t *testing.T) {
	input := "#Title\n\n\n\nsome long content"
	out := New(types.NormalizationConfig{MaxInputBytes: 10}).Optimize(input)

	require.True(t, out.Degraded)
	assert.Equal(t, input, out.Value.Content)
	assert.True(t, out.Value.Stats.Fallback)
	assert.Contains(t, out.Value.Stats.FallbackReason, ErrInputTooLarge.Error())
	assert.Empty(t, out.Value.Stats.OptimizationsApplied)
	assert.Equal(t, out.Value.Stats.OriginalLength, out.Value.Stats.OptimizedLength)
}

func TestPassthrough(t *testing.T) {
	res := Passthrough("#raw\n\n\n")
	assert.Equal(t, "#raw\n\n\n", res.Content)
	assert.Equal(t, 7, res.Stats.OriginalLength)
	assert.Equal(t, 7, res.Stats.OptimizedLength)
	assert.NotNil(t, res.Stats.OptimizationsApplied)
	assert.False(t, res.Stats.Fallback)
}
