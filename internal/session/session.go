// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session runs one analysis request end to end: normalize, embed,
// group, fetch outlines, and assemble the report. Each request builds a
// fresh State; nothing is cached between runs.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/keyword-engine/internal/cluster"
	"github.com/pdiddy/keyword-engine/internal/embed"
	"github.com/pdiddy/keyword-engine/internal/input"
	"github.com/pdiddy/keyword-engine/internal/normalize"
	"github.com/pdiddy/keyword-engine/internal/report"
	"github.com/pdiddy/keyword-engine/pkg/types"
)

// NoKeywordsMessage is shown when a request carries no usable keyword.
const NoKeywordsMessage = "Please enter or upload at least one keyword to begin."

// ErrNoKeywords is returned by Analyze when the cleaned set is empty.
var ErrNoKeywords = errors.New(NoKeywordsMessage)

// OutlineFetcher fills group outlines and returns how many fell back.
type OutlineFetcher interface {
	FetchGroups(ctx context.Context, groups []types.Group) int
}

// Recorder stores a written report. archive.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, r types.Report, path string, format types.ReportFormat) (int64, error)
}

// State is the result of one request.
type State struct {
	Mode      types.InputMode
	Raw       []string
	Cleaned   []string
	Groups    []types.Group
	Report    types.Report
	Fallbacks int
}

// Engine holds the collaborators shared by requests.
type Engine struct {
	Embedder embed.Embedder
	Fetcher  OutlineFetcher
	Cluster  cluster.Options
	Title    string
	Logger   *zap.Logger

	// PDFFont, when set, replaces the bundled PDF font.
	PDFFont []byte

	// Recorder, when set, archives every report written.
	Recorder Recorder

	// Now defaults to time.Now.
	Now func() time.Time
}

// AnalyzeSource collects raw keywords from src and analyzes them.
func (e *Engine) AnalyzeSource(ctx context.Context, src input.Source) (*State, error) {
	raw, err := input.Collect(src)
	if err != nil {
		return nil, err
	}
	st, err := e.Analyze(ctx, raw)
	if st != nil {
		st.Mode = src.Mode
	}
	return st, err
}

// Analyze runs the pipeline over raw. When no keyword survives cleaning it
// returns a State holding only Raw together with ErrNoKeywords.
func (e *Engine) Analyze(ctx context.Context, raw []string) (*State, error) {
	log := e.logger()
	st := &State{Raw: raw, Cleaned: normalize.Keywords(raw)}
	if len(st.Cleaned) == 0 {
		return st, ErrNoKeywords
	}
	if e.Embedder == nil {
		return nil, fmt.Errorf("%w: no embedder configured", embed.ErrInvalidConfig)
	}

	start := time.Now()
	vectors, err := e.Embedder.Embed(ctx, st.Cleaned)
	if err != nil {
		return nil, fmt.Errorf("embedding keywords: %w", err)
	}
	log.Debug("embedded keywords",
		zap.Int("count", len(st.Cleaned)),
		zap.String("embedder", e.Embedder.Name()),
		zap.Duration("elapsed", time.Since(start)))

	groups, err := cluster.Group(st.Cleaned, vectors, e.Cluster)
	if err != nil {
		return nil, fmt.Errorf("grouping keywords: %w", err)
	}
	if e.Fetcher != nil {
		st.Fallbacks = e.Fetcher.FetchGroups(ctx, groups)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	st.Groups = groups
	st.Report = report.Assemble(e.Title, raw, st.Cleaned, groups, e.now())
	log.Info("analysis complete",
		zap.Int("raw", len(raw)),
		zap.Int("cleaned", len(st.Cleaned)),
		zap.Int("groups", len(groups)),
		zap.Int("fallbacks", st.Fallbacks))
	return st, nil
}

// WriteReport saves st.Report to path. An empty format is inferred from the
// path extension. When a Recorder is set the report is archived after it has
// been written; an archive failure is logged and does not fail the write.
func (e *Engine) WriteReport(ctx context.Context, st *State, path string, format types.ReportFormat) error {
	if st == nil || len(st.Cleaned) == 0 {
		return ErrNoKeywords
	}
	if path == "" {
		path = types.DefaultReportPath
	}
	if format == "" {
		format = report.FormatFromPath(path)
	}
	w, err := report.NewWriter(format)
	if err != nil {
		return err
	}
	if pw, ok := w.(report.PDFWriter); ok && e.PDFFont != nil {
		pw.Font = e.PDFFont
		w = pw
	}
	if err := report.Save(path, w, st.Report); err != nil {
		return err
	}
	e.logger().Info("report written", zap.String("path", path), zap.String("format", string(format)))

	if e.Recorder != nil {
		id, err := e.Recorder.Record(ctx, st.Report, path, format)
		if err != nil {
			e.logger().Warn("archiving report failed", zap.Error(err))
			return nil
		}
		e.logger().Debug("report archived", zap.Int64("run_id", id))
	}
	return nil
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) logger() *zap.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return zap.NewNop()
}
