// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Location addresses one object in object storage.
type Location struct {
	Bucket string `json:"bucket" yaml:"bucket"`
	Key    string `json:"key" yaml:"key"`
}

// URI renders the location as s3://bucket/key.
func (l Location) URI() string {
	return fmt.Sprintf("s3://%s/%s", l.Bucket, l.Key)
}

// Request is the input contract handed to the pipeline by the invocation
// harness. MetadataKey is optional; when empty no report is published.
type Request struct {
	SourceBucket string            `json:"source_bucket" yaml:"source_bucket"`
	SourceKey    string            `json:"source_key" yaml:"source_key"`
	OutputBucket string            `json:"output_bucket" yaml:"output_bucket"`
	OutputKey    string            `json:"output_key" yaml:"output_key"`
	MetadataKey  string            `json:"metadata_key,omitempty" yaml:"metadata_key,omitempty"`
	Options      ConversionOptions `json:"configuration" yaml:"configuration"`
}

// Source returns the location of the PDF to convert.
func (r Request) Source() Location {
	return Location{Bucket: r.SourceBucket, Key: r.SourceKey}
}

// Output returns the location of the Markdown output.
func (r Request) Output() Location {
	return Location{Bucket: r.OutputBucket, Key: r.OutputKey}
}

// Metadata returns the location of the metadata report, if one was asked for.
// The report is written to the output bucket.
func (r Request) Metadata() (Location, bool) {
	if r.MetadataKey == "" {
		return Location{}, false
	}
	return Location{Bucket: r.OutputBucket, Key: r.MetadataKey}, true
}

// DecodeRequest parses a JSON event. Options absent from the event keep the
// values in defaults. Unknown fields are rejected.
func DecodeRequest(data []byte, defaults ConversionOptions) (Request, error) {
	req := Request{Options: defaults}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return Request{}, fmt.Errorf("decoding request: %w", err)
	}
	return req, nil
}

// Outputs lists the locations written by a successful run. MetadataURI is
// empty when no report was published.
type Outputs struct {
	MarkdownURI string `json:"markdown_s3_uri" yaml:"markdown_s3_uri"`
	MetadataURI string `json:"metadata_s3_uri,omitempty" yaml:"metadata_s3_uri,omitempty"`
}

// Result statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Result is the envelope returned to the invocation harness. StatusCode is
// 200 on success, 400 for validation failures and 500 for any later stage.
type Result struct {
	StatusCode      int             `json:"status_code" yaml:"status_code"`
	Status          string          `json:"status" yaml:"status"`
	RunID           string          `json:"request_id" yaml:"request_id"`
	Outputs         *Outputs        `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Summary         *ReportSummary  `json:"processing_summary,omitempty" yaml:"processing_summary,omitempty"`
	ProcessingTimes ProcessingTimes `json:"processing_times" yaml:"processing_times"`
	Warnings        []string        `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	FailedStage Stage  `json:"failed_stage,omitempty" yaml:"failed_stage,omitempty"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
	Message     string `json:"message,omitempty" yaml:"message,omitempty"`
}

// OK reports whether the run succeeded.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}
