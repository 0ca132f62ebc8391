// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records one row per conversion run in a SQLite database so
// that past runs can be listed and exported.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doc2md/pkg/types"
)

const (
	defaultLimit = 20
	memoryPath   = ":memory:"
)

// Entry is one recorded run.
type Entry struct {
	RunID        string      `json:"run_id" yaml:"run_id"`
	Status       string      `json:"status" yaml:"status"`
	Source       string      `json:"source" yaml:"source"`
	Output       string      `json:"output,omitempty" yaml:"output,omitempty"`
	Metadata     string      `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Engine       string      `json:"engine" yaml:"engine"`
	FailedStage  types.Stage `json:"failed_stage,omitempty" yaml:"failed_stage,omitempty"`
	Error        string      `json:"error,omitempty" yaml:"error,omitempty"`
	Pages        int         `json:"pages" yaml:"pages"`
	Words        int         `json:"words" yaml:"words"`
	Tables       int         `json:"tables" yaml:"tables"`
	TotalSeconds float64     `json:"total_seconds" yaml:"total_seconds"`
	RecordedAt   time.Time   `json:"recorded_at" yaml:"recorded_at"`
}

// FromResult builds an entry from a finished run.
func FromResult(req types.Request, res types.Result, engine string, at time.Time) Entry {
	e := Entry{
		RunID:        res.RunID,
		Status:       res.Status,
		Source:       req.Source().URI(),
		Engine:       engine,
		FailedStage:  res.FailedStage,
		Error:        res.Message,
		TotalSeconds: res.ProcessingTimes.Total(),
		RecordedAt:   at.UTC(),
	}
	if res.Outputs != nil {
		e.Output = res.Outputs.MarkdownURI
		e.Metadata = res.Outputs.MetadataURI
	}
	if res.Summary != nil {
		e.Pages = res.Summary.PageCount
		e.Words = res.Summary.WordCount
		e.Tables = res.Summary.TableCount
	}
	return e
}

// Query filters List. A zero Limit means the default page size.
type Query struct {
	Limit  int
	Status string
}

// Ledger is the run history database. It is safe for concurrent use.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger at cfg.Path. The path ":memory:" keeps
// the ledger in process memory.
func Open(cfg types.LedgerConfig) (*Ledger, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("ledger path is empty")
	}

	dsn := memoryPath
	if cfg.Path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
		dsn = cfg.Path + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	if cfg.Path == memoryPath {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	l := &Ledger{db: db}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			source TEXT NOT NULL,
			output TEXT,
			metadata TEXT,
			engine TEXT,
			failed_stage TEXT,
			error TEXT,
			pages INTEGER,
			words INTEGER,
			tables INTEGER,
			total_seconds REAL,
			recorded_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_recorded_at ON runs(recorded_at)`,
	}
	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores e, replacing any earlier row with the same run ID.
func (l *Ledger) Record(ctx context.Context, e Entry) error {
	if e.RunID == "" {
		return fmt.Errorf("recording run: empty run ID")
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, status, source, output, metadata, engine, failed_stage, error, pages, words, tables, total_seconds, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(run_id) DO UPDATE SET
			status=excluded.status, source=excluded.source, output=excluded.output,
			metadata=excluded.metadata, engine=excluded.engine, failed_stage=excluded.failed_stage,
			error=excluded.error, pages=excluded.pages, words=excluded.words, tables=excluded.tables,
			total_seconds=excluded.total_seconds, recorded_at=excluded.recorded_at`,
		e.RunID, e.Status, e.Source, e.Output, e.Metadata, e.Engine,
		string(e.FailedStage), e.Error, e.Pages, e.Words, e.Tables,
		e.TotalSeconds, e.RecordedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", e.RunID, err)
	}
	return nil
}

// List returns entries newest first.
func (l *Ledger) List(ctx context.Context, q Query) ([]Entry, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	var (
		where []string
		args  []any
	)
	if q.Status != "" {
		where = append(where, "status = ?")
		args = append(args, q.Status)
	}
	query := `SELECT run_id, status, source, output, metadata, engine, failed_stage, error, pages, words, tables, total_seconds, recorded_at FROM runs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY recorded_at DESC, run_id LIMIT ?"
	args = append(args, limit)

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e           Entry
			failedStage string
			recordedAt  string
		)
		if err := rows.Scan(&e.RunID, &e.Status, &e.Source, &e.Output, &e.Metadata, &e.Engine,
			&failedStage, &e.Error, &e.Pages, &e.Words, &e.Tables, &e.TotalSeconds, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		e.FailedStage = types.Stage(failedStage)
		if e.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt); err != nil {
			return nil, fmt.Errorf("parsing recorded_at for %s: %w", e.RunID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Export writes the entries matching q to w as YAML, or JSON when asJSON.
func (l *Ledger) Export(ctx context.Context, w io.Writer, q Query, asJSON bool) error {
	entries, err := l.List(ctx, q)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		return nil
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}
