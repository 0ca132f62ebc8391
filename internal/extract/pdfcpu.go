// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/pdiddy/doc2md/pkg/types"
)

const enginePdfcpu = "pdfcpu"

// Pdfcpu extracts the text layer of a PDF in-process. It performs no OCR;
// image-only pages produce a warning instead of content.
type Pdfcpu struct {
	maxFileSize int64
}

// NewPdfcpu returns a pdfcpu engine. A positive maxFileSize rejects larger
// files before parsing.
func NewPdfcpu(maxFileSize int64) *Pdfcpu {
	return &Pdfcpu{maxFileSize: maxFileSize}
}

// Name implements Engine.
func (p *Pdfcpu) Name() string { return enginePdfcpu }

// Extract implements Engine.
func (p *Pdfcpu) Extract(ctx context.Context, path string, opts types.ConversionOptions) (*Extraction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	if p.maxFileSize > 0 {
		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("stat PDF %s: %w", path, err)
		}
		if info.Size() > p.maxFileSize {
			return nil, fmt.Errorf("PDF %s is %d bytes, limit is %d", path, info.Size(), p.maxFileSize)
		}
	}

	pdf, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("reading PDF %s: %w", path, err)
	}

	doc := &types.Document{PageList: make([]types.DocPage, 0, pdf.PageCount)}
	var warnings []string
	first := true
	for pageNr := 1; pageNr <= pdf.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		lines, err := readPageLines(pdf, pageNr)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("page %d: %v", pageNr, err))
		}
		if len(lines) == 0 && opts.OCREnabled && len(pdfcpu.ImageObjNrs(pdf, pageNr)) > 0 {
			warnings = append(warnings, fmt.Sprintf("page %d has no text layer; OCR requires the docling engine", pageNr))
		}

		elems := layoutPage(lines, first, opts.PreserveTables)
		if len(elems) > 0 {
			first = false
		}
		doc.PageList = append(doc.PageList, types.DocPage{ElementList: elems})
	}
	return &Extraction{Document: doc, Warnings: warnings}, nil
}

// Render implements Engine.
func (p *Pdfcpu) Render(doc types.StructuredDocument, format Format) (string, error) {
	if format != FormatMarkdown {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return RenderMarkdown(doc), nil
}

func readPageLines(pdf *model.Context, pageNr int) ([]string, error) {
	r, err := pdfcpu.ExtractPageContent(pdf, pageNr)
	if err != nil {
		return nil, fmt.Errorf("extracting content: %w", err)
	}
	if r == nil {
		return nil, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	return pageLines(data), nil
}
