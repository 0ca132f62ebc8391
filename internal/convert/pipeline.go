// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs the conversion pipeline: validate the request, fetch
// the PDF, extract a structured document, normalize the rendered Markdown,
// and publish the Markdown and its metadata report.
package convert

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/doc2md/internal/acquire"
	"github.com/pdiddy/doc2md/internal/extract"
	"github.com/pdiddy/doc2md/internal/ledger"
	"github.com/pdiddy/doc2md/internal/metadata"
	"github.com/pdiddy/doc2md/internal/normalize"
	"github.com/pdiddy/doc2md/internal/observe"
	"github.com/pdiddy/doc2md/internal/storage"
	"github.com/pdiddy/doc2md/pkg/types"
)

const (
	contentTypeMarkdown = "text/markdown"
	contentTypeJSON     = "application/json"
)

// Recorder keeps a history of runs.
type Recorder interface {
	Record(ctx context.Context, e ledger.Entry) error
}

// Pipeline holds the collaborators shared by every run. A Pipeline has no
// per-run state, so one value serves concurrent runs.
type Pipeline struct {
	store     storage.Store
	engine    extract.Engine
	optimizer *normalize.Optimizer
	observer  observe.Observer
	recorder  Recorder
	tempDir   string
	version   string

	now   func() time.Time
	newID func() string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithObserver sets the stage event sink.
func WithObserver(o observe.Observer) Option {
	return func(p *Pipeline) { p.observer = o }
}

// WithRecorder sets the run ledger.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

// WithTempDir sets where source PDFs are staged.
func WithTempDir(dir string) Option {
	return func(p *Pipeline) { p.tempDir = dir }
}

// WithVersion sets the version stamped on reports.
func WithVersion(v string) Option {
	return func(p *Pipeline) { p.version = v }
}

// New builds a pipeline over store and engine.
func New(store storage.Store, engine extract.Engine, optimizer *normalize.Optimizer, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:     store,
		engine:    engine,
		optimizer: optimizer,
		observer:  observe.Nop{},
		version:   "dev",
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run converts one document and returns the response envelope. It never
// returns a Go error; failures are described by the result.
func (p *Pipeline) Run(ctx context.Context, req types.Request) types.Result {
	res, _ := p.RunWithReport(ctx, req)
	return res
}

// RunWithReport is Run that also returns the metadata report. The report is
// built for failed runs too, from whatever the completed stages produced,
// but only a successful run publishes it.
func (p *Pipeline) RunWithReport(ctx context.Context, req types.Request) (types.Result, types.MetadataReport) {
	r := &run{
		Pipeline: p,
		req:      req,
		id:       p.newID(),
		started:  p.now(),
		times:    types.ProcessingTimes{},
	}
	p.observer.Observe(observe.Event{RunID: r.id, Stage: observe.StageRun, Result: observe.ResultStart,
		Message: "conversion started " + req.Source().URI()})

	res, report := r.execute(ctx)

	if p.recorder != nil {
		entry := ledger.FromResult(req, res, p.engine.Name(), p.now())
		if err := p.recorder.Record(ctx, entry); err != nil {
			msg := fmt.Sprintf("recording run: %v", err)
			res.Warnings = append(res.Warnings, msg)
			r.emit(observe.StageRun, observe.ResultWarning, 0, err, msg)
		}
	}

	result := observe.ResultSuccess
	if !res.OK() {
		result = observe.ResultFail
	}
	p.observer.Observe(observe.Event{RunID: r.id, Stage: observe.StageRun, Result: result,
		Elapsed: p.now().Sub(r.started), Message: "conversion finished " + req.Source().URI()})
	return res, report
}

// run is the state of one conversion. Each stage reads what the previous
// stage left here.
type run struct {
	*Pipeline

	req      types.Request
	id       string
	started  time.Time
	times    types.ProcessingTimes
	warnings []string

	source *types.ObjectInfo
	tmp    *acquire.TempFile

	structure types.StructuralStats
	pages     []types.PageStats
	tables    []types.TableInfo
	rendered  string

	normStats types.NormalizationStats
	content   *types.ContentStatistics
	markdown  string
}

func (r *run) execute(ctx context.Context) (res types.Result, report types.MetadataReport) {
	if err := Validate(r.req); err != nil {
		return r.fail(err)
	}

	defer func() {
		if r.tmp == nil {
			return
		}
		if err := r.tmp.Release(); err != nil {
			res.Warnings = append(res.Warnings, err.Error())
			r.emit(types.StageDownload, observe.ResultWarning, 0, err, "temp file cleanup failed")
		}
	}()

	steps := []struct {
		stage types.Stage
		fn    func(context.Context) error
	}{
		{types.StageDownload, r.download},
		{types.StageExtraction, r.extract},
		{types.StageNormalization, r.normalize},
		{types.StageUpload, r.publish},
	}
	for _, s := range steps {
		if err := r.timed(ctx, s.stage, s.fn); err != nil {
			return r.fail(err)
		}
	}

	report = r.report(nil)
	outputs := &types.Outputs{MarkdownURI: r.req.Output().URI()}
	if loc, ok := r.req.Metadata(); ok {
		if err := r.publishMetadata(ctx, loc, report); err != nil {
			r.warn(types.StageUpload, err, "metadata upload failed: %v", err)
		} else {
			outputs.MetadataURI = loc.URI()
		}
	}

	summary := report.Summary()
	return types.Result{
		StatusCode:      http.StatusOK,
		Status:          types.StatusSuccess,
		RunID:           r.id,
		Outputs:         outputs,
		Summary:         &summary,
		ProcessingTimes: r.times.Clone(),
		Warnings:        r.warnings,
	}, report
}

// timed runs one stage and records its duration when it succeeds.
func (r *run) timed(ctx context.Context, stage types.Stage, fn func(context.Context) error) error {
	r.emit(stage, observe.ResultStart, 0, nil, "")
	start := r.now()
	if err := fn(ctx); err != nil {
		return err
	}
	elapsed := r.now().Sub(start)
	r.times[stage] = elapsed.Seconds()
	r.emit(stage, observe.ResultSuccess, elapsed, nil, "")
	return nil
}

func (r *run) fail(err error) (types.Result, types.MetadataReport) {
	var se *StageError
	if !errors.As(err, &se) {
		se = stageErr(types.StageUpload, ErrPublication, err)
	}
	r.emit(se.Stage, observe.ResultFail, 0, se.Err, "")

	label := "Processing failed"
	if se.StatusCode() == http.StatusBadRequest {
		label = "Invalid input"
	}
	return types.Result{
		StatusCode:      se.StatusCode(),
		Status:          types.StatusFailed,
		RunID:           r.id,
		ProcessingTimes: r.times.Clone(),
		Warnings:        r.warnings,
		FailedStage:     se.Stage,
		Error:           label,
		Message:         se.Error(),
	}, r.report(se)
}

func (r *run) download(ctx context.Context) error {
	src := r.req.Source()
	if info, err := r.store.Stat(ctx, src); err != nil {
		r.warn(types.StageDownload, err, "source object info unavailable: %v", err)
	} else {
		r.source = &info
	}

	tmp, err := acquire.Acquire(ctx, r.store, src, r.tempDir)
	if err != nil {
		return stageErr(types.StageDownload, ErrAcquisition, err)
	}
	r.tmp = tmp
	return nil
}

func (r *run) extract(ctx context.Context) error {
	ext, err := r.engine.Extract(ctx, r.tmp.Path, r.req.Options)
	if err != nil {
		return stageErr(types.StageExtraction, ErrExtraction, err)
	}
	for _, w := range ext.Warnings {
		r.warnings = append(r.warnings, w)
		r.emit(types.StageExtraction, observe.ResultWarning, 0, nil, w)
	}

	stats := extract.ComputeStructuralStats(ext.Document)
	r.degraded(types.StageExtraction, stats.Degraded, stats.Reason)
	r.structure = stats.Value

	pages := extract.ComputePageBreakdown(ext.Document)
	r.degraded(types.StageExtraction, pages.Degraded, pages.Reason)
	r.pages = pages.Value

	tables := extract.ExtractTables(ext.Document)
	r.degraded(types.StageExtraction, tables.Degraded, tables.Reason)
	r.tables = tables.Value

	md, err := r.engine.Render(ext.Document, extract.FormatMarkdown)
	if err != nil {
		return stageErr(types.StageExtraction, ErrExtraction, fmt.Errorf("rendering markdown: %w", err))
	}
	r.rendered = md
	return nil
}

func (r *run) normalize(context.Context) error {
	opts := r.req.Options

	var res normalize.Result
	if opts.MarkdownOptimization {
		out := r.optimizer.Optimize(r.rendered)
		r.degraded(types.StageNormalization, out.Degraded, out.Reason)
		res = out.Value
	} else {
		res = normalize.Passthrough(r.rendered)
	}

	content := res.Content
	if opts.GenerateTOC {
		content = normalize.InsertTableOfContents(content)
	}
	if opts.AddMetadataHeader {
		if withHeader, err := normalize.AddFrontmatter(content, r.frontmatter()); err != nil {
			r.warn(types.StageNormalization, err, "metadata header skipped: %v", err)
		} else {
			content = withHeader
		}
	}

	stats := normalize.ContentStatistics(content)
	r.normStats = res.Stats
	r.content = &stats
	r.markdown = content
	return nil
}

func (r *run) frontmatter() normalize.Frontmatter {
	return normalize.Frontmatter{
		Title:          strings.TrimSuffix(r.filename(), path.Ext(r.filename())),
		Source:         r.req.Source().URI(),
		Generated:      r.now().UTC().Format(time.RFC3339),
		Pages:          r.structure.PageCount,
		Tables:         r.structure.TableCount,
		ProcessingTime: fmt.Sprintf("%.2fs", r.times.Total()),
		Engine:         r.engine.Name(),
	}
}

func (r *run) publish(ctx context.Context) error {
	if err := r.store.Upload(ctx, r.req.Output(), []byte(r.markdown), contentTypeMarkdown); err != nil {
		return stageErr(types.StageUpload, ErrPublication, err)
	}
	return nil
}

func (r *run) publishMetadata(ctx context.Context, loc types.Location, report types.MetadataReport) error {
	data, err := metadata.Encode(report)
	if err != nil {
		return err
	}
	if err := r.store.Upload(ctx, loc, data, contentTypeJSON); err != nil {
		return fmt.Errorf("uploading %s: %w", loc.URI(), err)
	}
	return nil
}

func (r *run) report(err error) types.MetadataReport {
	return metadata.Synthesize(metadata.Input{
		RunID:         r.id,
		Filename:      r.filename(),
		ProcessedAt:   r.now(),
		Times:         r.times,
		Source:        r.source,
		Structure:     r.structure,
		Normalization: r.normStats,
		Content:       r.content,
		OutputLength:  len([]rune(r.markdown)),
		Options:       r.req.Options,
		Pages:         r.pages,
		Tables:        r.tables,
		Engine:        r.engine.Name(),
		Version:       r.version,
		Err:           err,
	})
}

func (r *run) filename() string {
	return path.Base(r.req.SourceKey)
}

func (r *run) warn(stage types.Stage, err error, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.warnings = append(r.warnings, msg)
	r.emit(stage, observe.ResultWarning, 0, err, msg)
}

func (r *run) degraded(stage types.Stage, degraded bool, reason string) {
	if !degraded {
		return
	}
	r.warnings = append(r.warnings, reason)
	r.emit(stage, observe.ResultDegraded, 0, nil, reason)
}

func (r *run) emit(stage types.Stage, result observe.Result, elapsed time.Duration, err error, msg string) {
	r.observer.Observe(observe.Event{
		RunID:   r.id,
		Stage:   stage,
		Result:  result,
		Elapsed: elapsed,
		Err:     err,
		Message: msg,
	})
}
