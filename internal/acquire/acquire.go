// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire fetches the source PDF from object storage into a scoped
// temporary file that the caller releases when the run ends.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/pdiddy/doc2md/internal/storage"
	"github.com/pdiddy/doc2md/pkg/types"
)

const tempPattern = "doc2md-*"

// TempFile is a local copy of a source object. Release removes it; only
// the first call does any work.
type TempFile struct {
	Path string
	Size int64

	once       sync.Once
	releaseErr error
}

// Release deletes the file. A file that is already gone is not an error.
func (t *TempFile) Release() error {
	t.once.Do(func() {
		if err := os.Remove(t.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			t.releaseErr = fmt.Errorf("removing temp file %s: %w", t.Path, err)
		}
	})
	return t.releaseErr
}

// Acquire downloads loc into a new temporary file under dir (the system
// temp directory when dir is empty). On error nothing is left on disk.
func Acquire(ctx context.Context, store storage.Store, loc types.Location, dir string) (*TempFile, error) {
	ext := strings.ToLower(path.Ext(loc.Key))
	tmp, err := os.CreateTemp(dir, tempPattern+ext)
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	n, copyErr := store.Download(ctx, loc, tmp)
	closeErr := tmp.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("downloading %s: %w", loc.URI(), copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("closing temp file: %w", closeErr)
	}
	return &TempFile{Path: tmpPath, Size: n}, nil
}
