// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns a PDF into a structured document of labeled
// elements and derives structural statistics from it. Two engines are
// provided: pdfcpu (in-process, text layer only) and docling (container).
package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/doc2md/internal/container"
	"github.com/pdiddy/doc2md/pkg/types"
)

// Format names a render target.
type Format string

// FormatMarkdown is the only render target the pipeline uses.
const FormatMarkdown Format = "markdown"

// ErrUnsupportedFormat is returned by Render for unknown formats.
var ErrUnsupportedFormat = errors.New("unsupported render format")

// Engine converts a PDF file into a structured document and renders that
// document as text.
type Engine interface {
	// Name identifies the engine in reports and logs.
	Name() string

	// Extract reads the PDF at path.
	Extract(ctx context.Context, path string, opts types.ConversionOptions) (*Extraction, error)

	// Render serializes a document produced by this engine.
	Render(doc types.StructuredDocument, format Format) (string, error)
}

// Extraction is the engine's output. Warnings are non-fatal observations
// such as pages that needed OCR the engine could not perform.
type Extraction struct {
	Document types.StructuredDocument
	Warnings []string
}

// NewEngine builds the engine selected by cfg. The docling engine needs a
// container runtime and its image present locally.
func NewEngine(ctx context.Context, cfg types.ExtractionConfig) (Engine, error) {
	switch cfg.Engine {
	case types.EnginePdfcpu, "":
		return NewPdfcpu(cfg.MaxFileSize), nil
	case types.EngineDocling:
		rt, err := container.DetectRuntime(ctx)
		if err != nil {
			return nil, fmt.Errorf("docling engine: %w", err)
		}
		return NewDocling(ctx, rt, cfg.Image)
	default:
		return nil, fmt.Errorf("unknown extraction engine %q", cfg.Engine)
	}
}
