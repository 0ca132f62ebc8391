// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/doc2md/pkg/types"
)

// Local maps buckets to subdirectories of a root directory and keys to
// paths below them.
type Local struct {
	root string
}

// NewLocal returns a store rooted at root, creating it if needed.
func NewLocal(root string) (*Local, error) {
	if root == "" {
		return nil, errors.New("local storage root not configured")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage root %s: %w", root, err)
	}
	return &Local{root: root}, nil
}

// path resolves loc below the root, refusing keys that would escape it.
func (l *Local) path(loc types.Location) (string, error) {
	if loc.Bucket == "" || loc.Bucket == "." || loc.Bucket == ".." || strings.ContainsAny(loc.Bucket, `/\`) {
		return "", fmt.Errorf("invalid bucket name %q", loc.Bucket)
	}
	bucketDir := filepath.Join(l.root, loc.Bucket)
	p := filepath.Join(bucketDir, filepath.FromSlash(loc.Key))
	rel, err := filepath.Rel(bucketDir, p)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("location %s escapes storage root", loc.URI())
	}
	return p, nil
}

// Stat implements Store. The ETag is the MD5 of the content, as S3 reports
// for single-part uploads.
func (l *Local) Stat(_ context.Context, loc types.Location) (types.ObjectInfo, error) {
	p, err := l.path(loc)
	if err != nil {
		return types.ObjectInfo{}, err
	}
	f, err := os.Open(p)
	if err != nil {
		return types.ObjectInfo{}, fmt.Errorf("stat %s: %w", loc.URI(), notFound(err))
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return types.ObjectInfo{}, fmt.Errorf("stat %s: %w", loc.URI(), err)
	}
	if fi.IsDir() {
		return types.ObjectInfo{}, fmt.Errorf("stat %s: %w", loc.URI(), ErrNotFound)
	}
	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return types.ObjectInfo{}, fmt.Errorf("hashing %s: %w", loc.URI(), err)
	}

	mod := fi.ModTime().UTC()
	return types.ObjectInfo{
		URI:           loc.URI(),
		VersionID:     unversioned,
		ETag:          hex.EncodeToString(h.Sum(nil)),
		LastModified:  &mod,
		ContentLength: fi.Size(),
		ContentType:   contentTypeOf(p),
	}, nil
}

// Download implements Store.
func (l *Local) Download(_ context.Context, loc types.Location, w io.Writer) (int64, error) {
	p, err := l.path(loc)
	if err != nil {
		return 0, err
	}
	f, err := os.Open(p)
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", loc.URI(), notFound(err))
	}
	defer f.Close()

	n, err := io.Copy(w, f)
	if err != nil {
		return n, fmt.Errorf("reading %s: %w", loc.URI(), err)
	}
	return n, nil
}

// Upload implements Store. The object is written to a temporary file and
// renamed into place so readers never see a partial object.
func (l *Local) Upload(_ context.Context, loc types.Location, body []byte, _ string) error {
	p, err := l.path(loc)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(body)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", loc.URI(), writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Rename(tmpPath, p); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return errors.Join(ErrNotFound, err)
	}
	return err
}

func contentTypeOf(path string) string {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".md":
		return "text/markdown"
	case ".pdf":
		return "application/pdf"
	default:
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}
		return "application/octet-stream"
	}
}
