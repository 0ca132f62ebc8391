// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"strings"

	"github.com/pdiddy/doc2md/pkg/types"
)

const (
	minBucketLen = 3
	maxBucketLen = 63
	maxKeyLen    = 1024
)

// Validate checks a request before any I/O happens. The returned error
// wraps ErrValidation.
func Validate(req types.Request) error {
	if err := validate(req); err != nil {
		return stageErr(types.StageValidation, ErrValidation, err)
	}
	return nil
}

func validate(req types.Request) error {
	required := []struct{ field, value string }{
		{"source_bucket", req.SourceBucket},
		{"source_key", req.SourceKey},
		{"output_bucket", req.OutputBucket},
		{"output_key", req.OutputKey},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("missing required field: %s", r.field)
		}
	}

	if !strings.HasSuffix(strings.ToLower(req.SourceKey), ".pdf") {
		return fmt.Errorf("source key must be a PDF file: %q", req.SourceKey)
	}
	if !strings.HasSuffix(strings.ToLower(req.OutputKey), ".md") {
		return fmt.Errorf("output key must be a Markdown file: %q", req.OutputKey)
	}

	for _, b := range []string{req.SourceBucket, req.OutputBucket} {
		if err := checkBucket(b); err != nil {
			return err
		}
	}
	keys := []string{req.SourceKey, req.OutputKey}
	if req.MetadataKey != "" {
		keys = append(keys, req.MetadataKey)
	}
	for _, k := range keys {
		if err := checkKey(k); err != nil {
			return err
		}
	}
	return nil
}

func checkBucket(name string) error {
	if len(name) < minBucketLen || len(name) > maxBucketLen {
		return fmt.Errorf("invalid bucket name length: %q", name)
	}
	return nil
}

func checkKey(key string) error {
	if len(key) == 0 || len(key) > maxKeyLen {
		return fmt.Errorf("invalid key length: %d", len(key))
	}
	if strings.Contains(key, "//") || strings.HasPrefix(key, "/") || strings.HasSuffix(key, "/") {
		return fmt.Errorf("invalid key format: %q", key)
	}
	return nil
}
