// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doc2md/pkg/types"
)

func testLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(types.LedgerConfig{Path: filepath.Join(t.TempDir(), "state", "runs.db")})
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	l := testLedger(t)

	require.NoError(t, l.Record(ctx, Entry{RunID: "a", Status: types.StatusSuccess, Source: "s3://in/a.pdf", Pages: 3, RecordedAt: base}))
	require.NoError(t, l.Record(ctx, Entry{RunID: "b", Status: types.StatusFailed, Source: "s3://in/b.pdf", FailedStage: types.StageExtraction, Error: "boom", RecordedAt: base.Add(time.Minute)}))
	require.NoError(t, l.Record(ctx, Entry{RunID: "c", Status: types.StatusSuccess, Source: "s3://in/c.pdf", RecordedAt: base.Add(2 * time.Minute)}))

	all, err := l.List(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{all[0].RunID, all[1].RunID, all[2].RunID})
	assert.Equal(t, types.StageExtraction, all[1].FailedStage)
	assert.Equal(t, "boom", all[1].Error)
	assert.True(t, base.Equal(all[2].RecordedAt))
	assert.Equal(t, 3, all[2].Pages)

	failed, err := l.List(ctx, Query{Status: types.StatusFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "b", failed[0].RunID)

	limited, err := l.List(ctx, Query{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "c", limited[0].RunID)
}

func TestRecordReplacesRun(t *testing.T) {
	ctx := context.Background()
	l := testLedger(t)

	require.NoError(t, l.Record(ctx, Entry{RunID: "a", Status: types.StatusFailed, Source: "s3://in/a.pdf", RecordedAt: base}))
	require.NoError(t, l.Record(ctx, Entry{RunID: "a", Status: types.StatusSuccess, Source: "s3://in/a.pdf", RecordedAt: base}))

	entries, err := l.List(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, types.StatusSuccess, entries[0].Status)

	assert.Error(t, l.Record(ctx, Entry{}))
}

func TestListEmpty(t *testing.T) {
	entries, err := testLedger(t).List(context.Background(), Query{})
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestOpenMemory(t *testing.T) {
	l, err := Open(types.LedgerConfig{Path: ":memory:"})
	require.NoError(t, err)
	defer l.Close()
	require.NoError(t, l.Record(context.Background(), Entry{RunID: "m", Status: types.StatusSuccess, Source: "s3://in/m.pdf", RecordedAt: base}))

	entries, err := l.List(context.Background(), Query{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = Open(types.LedgerConfig{})
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	l := testLedger(t)
	require.NoError(t, l.Record(ctx, Entry{RunID: "a", Status: types.StatusSuccess, Source: "s3://in/a.pdf", Engine: "pdfcpu", RecordedAt: base}))

	var y bytes.Buffer
	require.NoError(t, l.Export(ctx, &y, Query{}, false))
	var fromYAML []Entry
	require.NoError(t, yaml.Unmarshal(y.Bytes(), &fromYAML))
	require.Len(t, fromYAML, 1)
	assert.Equal(t, "pdfcpu", fromYAML[0].Engine)

	var j bytes.Buffer
	require.NoError(t, l.Export(ctx, &j, Query{}, true))
	var fromJSON []Entry
	require.NoError(t, json.Unmarshal(j.Bytes(), &fromJSON))
	require.Len(t, fromJSON, 1)
	assert.Equal(t, "s3://in/a.pdf", fromJSON[0].Source)
}

func TestFromResult(t *testing.T) {
	req := types.Request{SourceBucket: "in", SourceKey: "a.pdf", OutputBucket: "out", OutputKey: "a.md"}
	res := types.Result{
		RunID:           "r1",
		Status:          types.StatusSuccess,
		Outputs:         &types.Outputs{MarkdownURI: "s3://out/a.md"},
		Summary:         &types.ReportSummary{PageCount: 2, WordCount: 50, TableCount: 1},
		ProcessingTimes: types.ProcessingTimes{types.StageDownload: 1, types.StageExtraction: 2},
	}

	e := FromResult(req, res, "docling", base)
	assert.Equal(t, Entry{
		RunID:        "r1",
		Status:       types.StatusSuccess,
		Source:       "s3://in/a.pdf",
		Output:       "s3://out/a.md",
		Engine:       "docling",
		Pages:        2,
		Words:        50,
		Tables:       1,
		TotalSeconds: 3,
		RecordedAt:   base,
	}, e)
}
