// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package observe

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/doc2md/pkg/types"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.LogConfig
		wantErr string
	}{
		{name: "defaults"},
		{name: "text debug", cfg: types.LogConfig{Level: "debug", Format: "text"}},
		{name: "bad level", cfg: types.LogConfig{Level: "loud"}, wantErr: "parsing log level"},
		{name: "bad format", cfg: types.LogConfig{Format: "xml"}, wantErr: "unknown log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.cfg, &bytes.Buffer{})
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestLogrusObserve(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(types.LogConfig{Level: "info"}, &buf)
	require.NoError(t, err)
	obs := NewLogrus(logger)

	obs.Observe(Event{RunID: "r1", Stage: types.StageDownload, Result: ResultStart})
	obs.Observe(Event{RunID: "r1", Stage: types.StageDownload, Result: ResultSuccess, Elapsed: 1500 * time.Millisecond})
	obs.Observe(Event{RunID: "r1", Stage: types.StageExtraction, Result: ResultFail, Err: errors.New("engine crashed")})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2, "start events are debug level")

	var success map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &success))
	assert.Equal(t, "doc2md", success["service"])
	assert.Equal(t, "r1", success["run_id"])
	assert.Equal(t, "download", success["action"])
	assert.Equal(t, "success", success["result"])
	assert.Equal(t, 1.5, success["processing_time"])
	assert.Equal(t, "info", success["level"])

	var fail map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &fail))
	assert.Equal(t, "error", fail["level"])
	assert.Equal(t, "engine crashed", fail["error"])
	assert.Equal(t, "extraction fail", fail["msg"])
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Observe(Event{Stage: types.StageUpload, Result: ResultStart})
	r.Observe(Event{Stage: types.StageUpload, Result: ResultWarning, Message: "metadata"})

	assert.Len(t, r.Events(), 2)
	warnings := r.Find(types.StageUpload, ResultWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, "metadata", warnings[0].Message)

	Nop{}.Observe(Event{})
}
