// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package storage reads and writes conversion inputs and outputs in object
// storage. S3 is the production backend; a local directory tree stands in
// for it in development and tests.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pdiddy/doc2md/pkg/types"
)

// ErrNotFound is returned when the addressed object does not exist.
var ErrNotFound = errors.New("object not found")

// Store is the object storage client used by the pipeline. Implementations
// are safe for concurrent use.
type Store interface {
	// Stat returns the object's storage metadata.
	Stat(ctx context.Context, loc types.Location) (types.ObjectInfo, error)

	// Download copies the object's bytes to w and returns the byte count.
	Download(ctx context.Context, loc types.Location, w io.Writer) (int64, error)

	// Upload writes body as the object at loc.
	Upload(ctx context.Context, loc types.Location, body []byte, contentType string) error
}

// Credentials are static AWS credentials. When empty the SDK's default
// chain (environment, shared config, instance role) is used.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// Empty reports whether no static key pair was supplied.
func (c Credentials) Empty() bool {
	return c.AccessKeyID == "" || c.SecretAccessKey == ""
}

// New builds the backend selected by cfg.
func New(ctx context.Context, cfg types.StorageConfig, creds Credentials) (Store, error) {
	switch cfg.Backend {
	case types.StorageS3, "":
		return NewS3(ctx, cfg, creds)
	case types.StorageLocal:
		return NewLocal(cfg.LocalRoot)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
