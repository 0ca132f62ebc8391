// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/pdiddy/doc2md/pkg/types"
)

// Stage sentinels. A StageError wraps one of these together with the cause,
// so callers can test either with errors.Is.
var (
	ErrValidation    = errors.New("invalid input")
	ErrAcquisition   = errors.New("acquiring source failed")
	ErrExtraction    = errors.New("extraction failed")
	ErrNormalization = errors.New("normalization failed")
	ErrPublication   = errors.New("publication failed")
)

// StageError is a fatal failure of one pipeline stage.
type StageError struct {
	Stage types.Stage
	Kind  error
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap exposes both the sentinel and the cause.
func (e *StageError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// StatusCode maps the failure to the response status: 400 for validation,
// 500 for everything later.
func (e *StageError) StatusCode() int {
	if errors.Is(e.Kind, ErrValidation) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func stageErr(stage types.Stage, kind, err error) *StageError {
	return &StageError{Stage: stage, Kind: kind, Err: err}
}
