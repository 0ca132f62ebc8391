// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package observe reports pipeline stage events. The logrus observer writes
// one structured line per event; Recorder keeps events in memory.
package observe

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/doc2md/pkg/types"
)

// Service is the service field on every log line.
const Service = "doc2md"

// StageRun tags events about a run as a whole.
const StageRun types.Stage = "run"

// Result is the outcome carried by an event.
type Result string

const (
	ResultStart    Result = "start"
	ResultSuccess  Result = "success"
	ResultFail     Result = "fail"
	ResultDegraded Result = "degraded"
	ResultWarning  Result = "warning"
)

// Event is one stage boundary or notable condition within a run.
type Event struct {
	RunID   string
	Stage   types.Stage
	Result  Result
	Elapsed time.Duration
	Err     error
	Message string
}

// Observer receives pipeline events. Implementations must be safe for
// concurrent use; batch runs share one observer.
type Observer interface {
	Observe(Event)
}

// Nop discards events.
type Nop struct{}

// Observe implements Observer.
func (Nop) Observe(Event) {}

// NewLogger builds a logrus logger writing to w. Format is json (default)
// or text.
func NewLogger(cfg types.LogConfig, w io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)

	level := logrus.InfoLevel
	if cfg.Level != "" {
		var err error
		if level, err = logrus.ParseLevel(cfg.Level); err != nil {
			return nil, fmt.Errorf("parsing log level: %w", err)
		}
	}
	logger.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "", "json":
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return logger, nil
}

// Logrus writes events through a logrus logger.
type Logrus struct {
	log *logrus.Logger
}

// NewLogrus wraps logger.
func NewLogrus(logger *logrus.Logger) *Logrus {
	return &Logrus{log: logger}
}

// Observe implements Observer.
func (l *Logrus) Observe(e Event) {
	fields := logrus.Fields{
		"service": Service,
		"run_id":  e.RunID,
		"action":  string(e.Stage),
		"result":  string(e.Result),
	}
	if e.Elapsed > 0 {
		fields["processing_time"] = e.Elapsed.Seconds()
	}
	entry := l.log.WithFields(fields)
	if e.Err != nil {
		entry = entry.WithError(e.Err)
	}

	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("%s %s", e.Stage, e.Result)
	}
	switch e.Result {
	case ResultFail:
		entry.Error(msg)
	case ResultDegraded, ResultWarning:
		entry.Warn(msg)
	case ResultStart:
		entry.Debug(msg)
	default:
		entry.Info(msg)
	}
}

// Recorder keeps every event it observes.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Observe implements Observer.
func (r *Recorder) Observe(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events in order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Find returns the recorded events for stage with the given result.
func (r *Recorder) Find(stage types.Stage, result Result) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Stage == stage && e.Result == result {
			out = append(out, e)
		}
	}
	return out
}
