// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the records shared by every conversion stage: the
// structured document abstraction, derived statistics, the metadata report
// and the request/result envelopes.
package types

// StructuredDocument is the extraction engine's output: an ordered sequence
// of pages in reading order. Implementations return an empty slice, never
// nil-with-meaning, when a document has no pages.
type StructuredDocument interface {
	Pages() []Page
}

// Page is one page of a StructuredDocument.
type Page interface {
	Elements() []Element
}

// Element is a labeled unit of page content. Label is a free-text
// classification such as "section_header" or "table". Text reports false
// when the element carries no text.
type Element interface {
	Label() string
	Text() (string, bool)
}

// TableElement is implemented by elements that expose a structured grid.
// Rows are returned in order; a nil grid means no structure was detected.
type TableElement interface {
	Element
	TableData() [][]string
}

// Document is the concrete StructuredDocument produced by the bundled
// engines and decoded from the docling container's JSON output.
type Document struct {
	PageList []DocPage `json:"pages" yaml:"pages"`

	// Markdown is the engine's own rendering, when it provides one.
	Markdown string `json:"markdown,omitempty" yaml:"markdown,omitempty"`
}

// Pages implements StructuredDocument.
func (d *Document) Pages() []Page {
	if d == nil {
		return nil
	}
	pages := make([]Page, len(d.PageList))
	for i := range d.PageList {
		pages[i] = &d.PageList[i]
	}
	return pages
}

// DocPage is a page of a Document.
type DocPage struct {
	ElementList []DocElement `json:"elements" yaml:"elements"`
}

// Elements implements Page.
func (p *DocPage) Elements() []Element {
	elems := make([]Element, len(p.ElementList))
	for i := range p.ElementList {
		elems[i] = &p.ElementList[i]
	}
	return elems
}

// DocElement is an element of a DocPage.
type DocElement struct {
	Kind    string     `json:"label" yaml:"label"`
	Content *string    `json:"text,omitempty" yaml:"text,omitempty"`
	Grid    [][]string `json:"table_data,omitempty" yaml:"table_data,omitempty"`
}

// NewElement returns a DocElement with the given label and text. An empty
// text is stored as absent.
func NewElement(label, text string) DocElement {
	e := DocElement{Kind: label}
	if text != "" {
		e.Content = &text
	}
	return e
}

// Label implements Element.
func (e *DocElement) Label() string { return e.Kind }

// Text implements Element.
func (e *DocElement) Text() (string, bool) {
	if e.Content == nil {
		return "", false
	}
	return *e.Content, true
}

// TableData implements TableElement.
func (e *DocElement) TableData() [][]string { return e.Grid }
