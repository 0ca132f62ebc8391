// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/doc2md/pkg/types"
)

// Labels assigned by the layout heuristics.
const (
	LabelTitle    = "title"
	LabelHeading  = "section_heading"
	LabelText     = "text"
	LabelListItem = "list_item"
	LabelTable    = "table"
	LabelFormula  = "formula"
)

const maxHeadingRunes = 80

var (
	orderedItemPrefix = regexp.MustCompile(`^\d+[.)]\s+\S`)
	numberedHeading   = regexp.MustCompile(`^(\d+(\.\d+)+\.?|\d+|[IVX]+\.)\s+\p{Lu}`)
	bulletPrefixes    = []string{"•", "◦", "▪", "‣", "- ", "* ", "– "}
)

// layoutPage groups the text lines of one page into labeled elements.
// first marks the first page with content, whose opening line becomes the
// title. With tables off, tabular runs are emitted as plain text.
func layoutPage(lines []string, first, tables bool) []types.DocElement {
	var (
		elems []types.DocElement
		para  []string
	)
	flush := func() {
		if len(para) > 0 {
			elems = append(elems, types.NewElement(LabelText, strings.Join(para, " ")))
			para = nil
		}
	}
	width := 0
	for _, l := range lines {
		width = max(width, utf8.RuneCountInString(l))
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if tables {
			if end := tableEnd(lines, i); end-i >= 2 {
				flush()
				elems = append(elems, tableElement(lines[i:end]))
				i = end - 1
				continue
			}
		}

		text := strings.ReplaceAll(line, "\t", " ")
		switch {
		case first && len(elems) == 0 && len(para) == 0 && isHeadingLine(text, true):
			elems = append(elems, types.NewElement(LabelTitle, text))
		case isListLine(text):
			flush()
			elems = append(elems, types.NewElement(LabelListItem, text))
		case isHeadingLine(text, false):
			flush()
			elems = append(elems, types.NewElement(LabelHeading, text))
		case isFormulaLine(text):
			flush()
			elems = append(elems, types.NewElement(LabelFormula, text))
		default:
			para = append(para, text)
			if endsParagraph(text, width) {
				flush()
			}
		}
	}
	flush()
	return elems
}

// tableEnd returns the end of the run of tab-separated rows starting at i
// that share the same column count.
func tableEnd(lines []string, i int) int {
	cols := strings.Count(lines[i], "\t") + 1
	if cols < 2 {
		return i
	}
	j := i
	for j < len(lines) && strings.Count(lines[j], "\t")+1 == cols {
		j++
	}
	return j
}

func tableElement(rows []string) types.DocElement {
	grid := make([][]string, len(rows))
	text := make([]string, len(rows))
	for i, r := range rows {
		grid[i] = strings.Split(r, "\t")
		text[i] = strings.Join(grid[i], " ")
	}
	el := types.NewElement(LabelTable, strings.Join(text, "\n"))
	el.Grid = grid
	return el
}

func isListLine(line string) bool {
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return orderedItemPrefix.MatchString(line)
}

// isHeadingLine accepts short lines without closing punctuation that are
// numbered or set in capitals. Titles only need to be short.
func isHeadingLine(line string, title bool) bool {
	n := utf8.RuneCountInString(line)
	if n == 0 || n > maxHeadingRunes || strings.ContainsAny(line[len(line)-1:], ".,;") {
		return false
	}
	letters, upper := 0, 0
	for _, r := range line {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters == 0 {
		return false
	}
	if title {
		return true
	}
	return numberedHeading.MatchString(line) || (letters >= 3 && upper == letters)
}

// isFormulaLine flags lines dominated by symbols around an equals sign.
func isFormulaLine(line string) bool {
	if !strings.Contains(line, "=") {
		return false
	}
	letters, other := 0, 0
	for _, r := range line {
		switch {
		case unicode.IsSpace(r):
		case unicode.IsLetter(r):
			letters++
		default:
			other++
		}
	}
	return other > letters
}

// endsParagraph reports a short line ending a sentence, which usually
// closes a paragraph in justified text.
func endsParagraph(line string, width int) bool {
	if !strings.ContainsAny(line[len(line)-1:], ".!?:") {
		return false
	}
	return utf8.RuneCountInString(line)*10 < width*7
}
