// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanWhitespace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trailing whitespace and blank runs", "  a  \n\n\n\nb\t\n", "a\n\nb"},
		{"carriage returns count as breaks", "a\r\n\r\n\r\nb", "a\n\nb"},
		{"whitespace-only lines become blank", "a\n   \n\t\nb", "a\n\nb"},
		{"single blank line kept", "a\n\nb", "a\n\nb"},
		{"empty input", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanWhitespace(tt.input))
		})
	}
}

func TestNormalizeHeadings(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		wantCount int
	}{
		{"missing space after markers", "#Title\ntext", "# Title\n\ntext", 1},
		{"extra spacing and blank lines", "intro\n##   Setup  \n\n\n\nbody", "intro\n\n## Setup\n\nbody", 1},
		{"seven markers is not a heading", "####### seven", "####### seven", 0},
		{"bare marker is not a heading", "#\ntext", "#\ntext", 0},
		{"headings inside fences untouched", "```\n#not a heading\n```", "```\n#not a heading\n```", 0},
		{"heading at end gets no trailing blank", "text\n### End", "text\n\n### End", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := normalizeHeadings(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCount, n)
		})
	}
}

func TestNormalizeTables(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		wantCount int
	}{
		{
			name:      "cells trimmed and block separated",
			input:     "text\n|  a | b |\n|---|---|\n| 1 |  2 |\nafter",
			want:      "text\n\n|a|b|\n|---|---|\n|1|2|\n\nafter",
			wantCount: 1,
		},
		{
			name:      "blank line splits tables",
			input:     "| a |\n\n| b |",
			want:      "|a|\n\n|b|",
			wantCount: 2,
		},
		{
			name:      "escaped pipe stays inside its cell",
			input:     "| a \\| b | c |",
			want:      "|a \\| b|c|",
			wantCount: 1,
		},
		{
			name:      "empty cells survive",
			input:     "|  | x |",
			want:      "||x|",
			wantCount: 1,
		},
		{
			name:  "no tables",
			input: "a | b",
			want:  "a | b",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := normalizeTables(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCount, n)
		})
	}
}

func TestNormalizeLists(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		wantFound bool
	}{
		{"list separated from paragraphs", "para\n- one\n- two\nafter", "para\n\n- one\n- two\n\nafter", true},
		{"continuation lines stay in the list", "- one\n  more\n- two", "- one\n  more\n- two", true},
		{"ordered list", "intro\n1. first\n2. second", "intro\n\n1. first\n2. second", true},
		{"item content left alone", "*   spaced   item", "*   spaced   item", true},
		{"no list", "plain", "plain", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := normalizeLists(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantFound, found)
		})
	}
}

func TestNormalizeLinks(t *testing.T) {
	got, n := normalizeLinks("see [ docs ]( https://x.io ) and [a](b)\n```\n[ keep ]( me )\n```")
	assert.Equal(t, "see [docs](https://x.io) and [a](b)\n```\n[ keep ]( me )\n```", got)
	assert.Equal(t, 2, n)
}

func TestRemoveEmptySections(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty sibling removed",
			input: "# Doc\n\n## Empty\n\n## Full\n\ntext",
			want:  "# Doc\n\n## Full\n\ntext",
		},
		{
			name:  "chain of empty headings removed",
			input: "# Doc\n\n## Parent\n\n### Child\n\n## Next\n\ntext",
			want:  "# Doc\n\n## Next\n\ntext",
		},
		{
			name:  "heading directly above a deeper heading removed",
			input: "Intro\n\n## Chapter\n\n### Section\n\nbody",
			want:  "Intro\n\n### Section\n\nbody",
		},
		{
			name:  "heading with body before a deeper heading kept",
			input: "# Doc\n\n## A\n\nlead\n\n### A1\n\nbody",
			want:  "# Doc\n\n## A\n\nlead\n\n### A1\n\nbody",
		},
		{
			name:  "first heading of the document kept",
			input: "# Title\n\n# Other\n\ntext",
			want:  "# Title\n\n# Other\n\ntext",
		},
		{
			name:  "trailing heading kept",
			input: "# Doc\n\ntext\n\n## Tail",
			want:  "# Doc\n\ntext\n\n## Tail",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, removeEmptySections(tt.input))
		})
	}
}

func TestNormalizeLineEndings(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a\r\nb\rc", "a\nb\nc\n"},
		{"a\n\n\n", "a\n"},
		{"", "\n"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeLineEndings(tt.input))
	}
}
