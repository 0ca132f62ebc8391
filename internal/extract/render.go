// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"strings"

	"github.com/pdiddy/doc2md/pkg/types"
)

var listMarkers = []string{"- ", "* ", "+ ", "• ", "◦ "}

// RenderMarkdown writes doc as raw Markdown, one block per element in
// reading order. The output is deliberately unpolished; the normalizer
// owns spacing and heading syntax.
func RenderMarkdown(doc types.StructuredDocument) string {
	if doc == nil {
		return ""
	}
	var blocks []string
	for _, p := range doc.Pages() {
		for _, el := range p.Elements() {
			if b := renderElement(el); b != "" {
				blocks = append(blocks, b)
			}
		}
	}
	return strings.Join(blocks, "\n\n")
}

func renderElement(el types.Element) string {
	text, _ := el.Text()
	text = strings.TrimSpace(text)
	switch Classify(el.Label()) {
	case types.KindTable:
		if te, ok := el.(types.TableElement); ok && len(te.TableData()) > 0 {
			return renderTable(te.TableData())
		}
		return text
	case types.KindHeading:
		if text == "" {
			return ""
		}
		if strings.Contains(strings.ToLower(el.Label()), "title") {
			return "# " + text
		}
		return "## " + text
	case types.KindList:
		if text == "" {
			return ""
		}
		return renderListItem(text)
	case types.KindFormula:
		if text == "" {
			return ""
		}
		return "$$\n" + text + "\n$$"
	default:
		return text
	}
}

func renderListItem(text string) string {
	for _, m := range listMarkers {
		if strings.HasPrefix(text, m) {
			return "- " + strings.TrimSpace(strings.TrimPrefix(text, m))
		}
	}
	if orderedItemPrefix.MatchString(text) {
		return text
	}
	return "- " + text
}

// renderTable writes grid as a pipe table whose first row is the header.
func renderTable(grid [][]string) string {
	_, cols := gridSize(grid)
	if cols == 0 {
		return ""
	}
	var b strings.Builder
	writeRow := func(row []string) {
		b.WriteString("|")
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = strings.ReplaceAll(strings.TrimSpace(row[i]), "|", `\|`)
				cell = strings.ReplaceAll(cell, "\n", " ")
			}
			fmt.Fprintf(&b, " %s |", cell)
		}
		b.WriteString("\n")
	}
	writeRow(grid[0])
	b.WriteString("|" + strings.Repeat(" --- |", cols) + "\n")
	for _, row := range grid[1:] {
		writeRow(row)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
