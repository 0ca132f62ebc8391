// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/doc2md/pkg/types"
)

// Classify maps a free-text element label to its kind. Matching is
// case-insensitive and substring-based; the first category that matches
// wins, in the order table, heading/title, paragraph/text, list,
// formula/equation.
func Classify(label string) types.ElementKind {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "table"):
		return types.KindTable
	case strings.Contains(l, "heading"), strings.Contains(l, "title"):
		return types.KindHeading
	case strings.Contains(l, "paragraph"), strings.Contains(l, "text"):
		return types.KindParagraph
	case strings.Contains(l, "list"):
		return types.KindList
	case strings.Contains(l, "formula"), strings.Contains(l, "equation"):
		return types.KindFormula
	default:
		return types.KindOther
	}
}

// tally accumulates counters for a run of elements.
type tally struct {
	elements, tables, headings, paragraphs, lists, formulas int
	chars, words                                            int
}

func (t *tally) add(el types.Element) {
	t.elements++
	switch Classify(el.Label()) {
	case types.KindTable:
		t.tables++
	case types.KindHeading:
		t.headings++
	case types.KindParagraph:
		t.paragraphs++
	case types.KindList:
		t.lists++
	case types.KindFormula:
		t.formulas++
	}
	if text, ok := el.Text(); ok {
		t.chars += utf8.RuneCountInString(text)
		t.words += len(strings.Fields(text))
	}
}

// ComputeStructuralStats counts pages, element kinds, characters and words
// in one pass over doc. If the document adapter fails part way, the outcome
// is degraded to zero counters with ExtractionError set. A nil document
// yields zero counters without error.
func ComputeStructuralStats(doc types.StructuredDocument) (out types.Outcome[types.StructuralStats]) {
	defer func() {
		if r := recover(); r != nil {
			reason := fmt.Sprintf("structural analysis failed: %v", r)
			out = types.Degrade(types.StructuralStats{ExtractionError: reason}, reason)
		}
	}()

	if doc == nil {
		return types.Ok(types.StructuralStats{})
	}
	pages := doc.Pages()
	var t tally
	for _, p := range pages {
		for _, el := range p.Elements() {
			t.add(el)
		}
	}
	return types.Ok(types.StructuralStats{
		PageCount:       len(pages),
		TableCount:      t.tables,
		HeadingCount:    t.headings,
		ParagraphCount:  t.paragraphs,
		ListCount:       t.lists,
		FormulaCount:    t.formulas,
		TotalCharacters: t.chars,
		TotalWords:      t.words,
	})
}

// ComputePageBreakdown applies the same classification per page. Page
// numbers are 1-based.
func ComputePageBreakdown(doc types.StructuredDocument) (out types.Outcome[[]types.PageStats]) {
	defer func() {
		if r := recover(); r != nil {
			out = types.Degrade([]types.PageStats{}, fmt.Sprintf("page breakdown failed: %v", r))
		}
	}()

	breakdown := []types.PageStats{}
	if doc == nil {
		return types.Ok(breakdown)
	}
	for i, p := range doc.Pages() {
		var t tally
		for _, el := range p.Elements() {
			t.add(el)
		}
		breakdown = append(breakdown, types.PageStats{
			PageNumber:     i + 1,
			ElementCount:   t.elements,
			TableCount:     t.tables,
			HeadingCount:   t.headings,
			ParagraphCount: t.paragraphs,
			ListCount:      t.lists,
			FormulaCount:   t.formulas,
			CharacterCount: t.chars,
			WordCount:      t.words,
		})
	}
	return types.Ok(breakdown)
}

// ExtractTables describes every table element in reading order. Tables
// without grid data are kept with zero row and column counts.
func ExtractTables(doc types.StructuredDocument) (out types.Outcome[[]types.TableInfo]) {
	defer func() {
		if r := recover(); r != nil {
			out = types.Degrade([]types.TableInfo{}, fmt.Sprintf("table analysis failed: %v", r))
		}
	}()

	tables := []types.TableInfo{}
	if doc == nil {
		return types.Ok(tables)
	}
	for pi, p := range doc.Pages() {
		for ei, el := range p.Elements() {
			if Classify(el.Label()) != types.KindTable {
				continue
			}
			text, _ := el.Text()
			info := types.TableInfo{
				PageNumber:    pi + 1,
				ElementNumber: ei + 1,
				TableType:     el.Label(),
				TextContent:   text,
			}
			if te, ok := el.(types.TableElement); ok {
				info.RowCount, info.ColumnCount = gridSize(te.TableData())
			}
			tables = append(tables, info)
		}
	}
	return types.Ok(tables)
}

func gridSize(grid [][]string) (rows, cols int) {
	for _, row := range grid {
		cols = max(cols, len(row))
	}
	return len(grid), cols
}
