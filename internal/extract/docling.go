// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pdiddy/doc2md/internal/container"
	"github.com/pdiddy/doc2md/pkg/types"
)

const (
	engineDocling = "docling"

	// DefaultDoclingImage is the wrapper image run when none is configured.
	DefaultDoclingImage = "doc2md-docling:latest"
)

// Docling pipes PDFs through a docling wrapper container. The container
// reads the PDF on stdin and writes the document as JSON on stdout.
type Docling struct {
	runtime container.Runtime
	image   string
}

// NewDocling verifies that image exists in rt before returning.
func NewDocling(ctx context.Context, rt container.Runtime, image string) (*Docling, error) {
	if image == "" {
		image = DefaultDoclingImage
	}
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("docling image not available in %s: %w", rt.Name(), err)
	}
	return &Docling{runtime: rt, image: image}, nil
}

// Name implements Engine.
func (d *Docling) Name() string { return engineDocling }

// Extract implements Engine.
func (d *Docling) Extract(ctx context.Context, path string, opts types.ConversionOptions) (*Extraction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := d.runtime.Run(ctx, d.image, doclingArgs(opts), f, &out); err != nil {
		return nil, fmt.Errorf("converting %s with docling: %w", path, err)
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("docling produced empty output for %s", path)
	}

	var doc types.Document
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		return nil, fmt.Errorf("decoding docling output for %s: %w", path, err)
	}
	return &Extraction{Document: &doc}, nil
}

// Render implements Engine. The container's own Markdown is preferred; a
// document without one is rendered locally.
func (d *Docling) Render(doc types.StructuredDocument, format Format) (string, error) {
	if format != FormatMarkdown {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if dd, ok := doc.(*types.Document); ok && dd != nil && dd.Markdown != "" {
		return dd.Markdown, nil
	}
	return RenderMarkdown(doc), nil
}

func doclingArgs(opts types.ConversionOptions) []string {
	flag := func(on bool, name string) string {
		if on {
			return "--" + name
		}
		return "--no-" + name
	}
	return []string{
		flag(opts.OCREnabled, "ocr"),
		flag(opts.PreserveTables, "tables"),
		flag(opts.PreserveFormatting, "formatting"),
	}
}
