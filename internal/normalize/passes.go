// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	bulletItem  = regexp.MustCompile(`^\s*[-*+]\s+\S`)
	orderedItem = regexp.MustCompile(`^\s*\d+\.\s+\S`)
	inlineLink  = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

// splitLines splits on LF, CRLF and lone CR.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func trimTrailingBlank(lines []string) []string {
	for len(lines) > 0 && isBlank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// fence tracks fenced code blocks while scanning lines in order.
type fence struct {
	marker string
}

// scan reports whether line opens, closes or sits inside a fenced block.
func (f *fence) scan(line string) bool {
	t := strings.TrimLeft(line, " \t")
	if f.marker != "" {
		if strings.HasPrefix(t, f.marker) {
			f.marker = ""
		}
		return true
	}
	for _, m := range []string{"```", "~~~"} {
		if strings.HasPrefix(t, m) {
			f.marker = m
			return true
		}
	}
	return false
}

// parseHeading recognizes an ATX heading at the start of a line, with or
// without a space after the markers.
func parseHeading(line string) (level int, text string, ok bool) {
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return 0, "", false
	}
	text = strings.TrimSpace(line[level:])
	if text == "" {
		return 0, "", false
	}
	return level, text, true
}

func isListItem(line string) bool {
	return bulletItem.MatchString(line) || orderedItem.MatchString(line)
}

func isIndented(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}

// cleanWhitespace strips trailing whitespace from every line, collapses
// runs of blank lines to one and trims the document.
func cleanWhitespace(s string) string {
	lines := splitLines(s)
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// normalizeHeadings renders every heading as markers, one space and the
// trimmed text, with exactly one blank line on each side.
func normalizeHeadings(s string) (string, int) {
	lines := splitLines(s)
	out := make([]string, 0, len(lines))
	var f fence
	count := 0
	pending := false
	for _, line := range lines {
		if !f.scan(line) {
			if level, text, ok := parseHeading(line); ok {
				out = trimTrailingBlank(out)
				if len(out) > 0 {
					out = append(out, "")
				}
				out = append(out, strings.Repeat("#", level)+" "+text)
				count++
				pending = true
				continue
			}
		}
		if pending {
			if isBlank(line) {
				continue
			}
			out = append(out, "")
			pending = false
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n"), count
}

// normalizeTables trims the cells of every pipe-table row and surrounds each
// run of rows with blank lines. It returns the number of tables.
func normalizeTables(s string) (string, int) {
	lines := splitLines(s)
	out := make([]string, 0, len(lines))
	var f fence
	count := 0
	inTable := false
	for _, line := range lines {
		row := !f.scan(line) && strings.HasPrefix(strings.TrimSpace(line), "|")
		switch {
		case row && !inTable:
			inTable = true
			count++
			if len(out) > 0 && !isBlank(out[len(out)-1]) {
				out = append(out, "")
			}
			out = append(out, cleanRow(line))
		case row:
			out = append(out, cleanRow(line))
		default:
			if inTable && !isBlank(line) {
				out = append(out, "")
			}
			inTable = false
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n"), count
}

// cleanRow trims each cell of a table row. Empty edge cells survive, so a
// row keeps its leading and trailing pipes.
func cleanRow(row string) string {
	cells := splitCells(row)
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return strings.Join(cells, "|")
}

// splitCells splits on pipes not escaped with a backslash.
func splitCells(row string) []string {
	var cells []string
	start := 0
	for i := 0; i < len(row); i++ {
		switch row[i] {
		case '\\':
			i++
		case '|':
			cells = append(cells, row[start:i])
			start = i + 1
		}
	}
	return append(cells, row[start:])
}

// normalizeLists puts a blank line before and after every list. A list is a
// run of items plus the indented lines that continue them. Item content is
// left alone. It reports whether any list was seen.
func normalizeLists(s string) (string, bool) {
	lines := splitLines(s)
	out := make([]string, 0, len(lines))
	var f fence
	found := false
	inList := false
	for _, line := range lines {
		if f.scan(line) {
			if inList {
				out = append(out, "")
				inList = false
			}
			out = append(out, line)
			continue
		}
		switch {
		case isListItem(line):
			found = true
			if !inList && len(out) > 0 && !isBlank(out[len(out)-1]) {
				out = append(out, "")
			}
			inList = true
		case isBlank(line):
			inList = false
		case inList && isIndented(line):
		case inList:
			out = append(out, "")
			inList = false
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n"), found
}

// normalizeLinks trims the text and target of inline links. It returns the
// number of links seen.
func normalizeLinks(s string) (string, int) {
	lines := splitLines(s)
	var f fence
	count := 0
	for i, line := range lines {
		if f.scan(line) {
			continue
		}
		lines[i] = inlineLink.ReplaceAllStringFunc(line, func(m string) string {
			count++
			parts := inlineLink.FindStringSubmatch(m)
			return "[" + strings.TrimSpace(parts[1]) + "](" + strings.TrimSpace(parts[2]) + ")"
		})
	}
	return strings.Join(lines, "\n"), count
}

// removeEmptySections drops headings followed only by blank lines before
// the next heading, whatever its level, along with those blank lines. The
// first line of the document is always kept. Removal repeats until nothing
// changes.
func removeEmptySections(s string) string {
	lines := splitLines(s)
	for {
		levels := headingLevels(lines)
		first := 0
		for first < len(lines) && isBlank(lines[first]) {
			first++
		}

		out := make([]string, 0, len(lines))
		removed := false
		for i := 0; i < len(lines); i++ {
			if levels[i] > 0 && i != first {
				j := i + 1
				for j < len(lines) && isBlank(lines[j]) {
					j++
				}
				if j < len(lines) && levels[j] > 0 {
					removed = true
					i = j - 1
					continue
				}
			}
			out = append(out, lines[i])
		}
		lines = out
		if !removed {
			return strings.Join(lines, "\n")
		}
	}
}

// headingLevels maps each line to its heading level, zero for non-headings
// and for anything inside a fenced block.
func headingLevels(lines []string) []int {
	levels := make([]int, len(lines))
	var f fence
	for i, line := range lines {
		if f.scan(line) {
			continue
		}
		if level, _, ok := parseHeading(line); ok {
			levels[i] = level
		}
	}
	return levels
}

// normalizeLineEndings converts every line break to LF and ends the text
// with exactly one newline.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimRight(s, "\n") + "\n"
}
