// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"fmt"
	"strings"
	"unicode"

	"go.yaml.in/yaml/v3"
)

// Frontmatter is the YAML header prepended when a request asks for one.
type Frontmatter struct {
	Title          string `yaml:"title"`
	Source         string `yaml:"source"`
	Generated      string `yaml:"generated"`
	Pages          int    `yaml:"pages"`
	Tables         int    `yaml:"tables"`
	ProcessingTime string `yaml:"processing_time,omitempty"`
	Engine         string `yaml:"engine"`
}

// AddFrontmatter prepends fm as a YAML block delimited by --- lines.
func AddFrontmatter(content string, fm Frontmatter) (string, error) {
	data, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("marshaling frontmatter: %w", err)
	}
	var b strings.Builder
	b.WriteString("---\n")
	b.Write(data)
	b.WriteString("---\n\n")
	b.WriteString(content)
	return b.String(), nil
}

// TableOfContents builds a nested bullet list of links to every heading in
// content. It returns "" when there are no headings.
func TableOfContents(content string) string {
	lines := splitLines(content)
	var f fence
	var entries []string
	for _, line := range lines {
		if f.scan(line) {
			continue
		}
		level, text, ok := parseHeading(line)
		if !ok {
			continue
		}
		entries = append(entries, fmt.Sprintf("%s- [%s](#%s)", strings.Repeat("  ", level-1), text, anchor(text)))
	}
	if len(entries) == 0 {
		return ""
	}
	return "## Table of Contents\n\n" + strings.Join(entries, "\n")
}

// InsertTableOfContents places the table of contents after a leading title
// heading, or at the top when the document has none.
func InsertTableOfContents(content string) string {
	toc := TableOfContents(content)
	if toc == "" {
		return content
	}
	first, rest, _ := strings.Cut(content, "\n")
	if _, _, ok := parseHeading(first); ok {
		return first + "\n\n" + toc + "\n\n" + strings.TrimLeft(rest, "\n")
	}
	return toc + "\n\n" + content
}

// anchor derives a GitHub-style fragment from heading text.
func anchor(text string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(text) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_', r == '-':
			b.WriteRune(unicode.ToLower(r))
		case r == ' ':
			b.WriteRune('-')
		}
	}
	return b.String()
}
