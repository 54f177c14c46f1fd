// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report assembles post ideas and outlines into a report and
// serializes it as PDF, Markdown, JSON, or YAML.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/keyword-engine/pkg/types"
)

// PostIdea returns the comparison-style post suggestion naming every
// keyword in g.
func PostIdea(g types.Group) string {
	return fmt.Sprintf("Write a detailed post of comparing %s, including use cases, pros, and trends.",
		strings.Join(g.Keywords, ", "))
}

// Assemble builds the report and fills each group's post idea. groups is
// modified in place.
func Assemble(title string, raw, cleaned []string, groups []types.Group, now time.Time) types.Report {
	if title == "" {
		title = types.DefaultReportTitle
	}
	for i := range groups {
		groups[i].PostIdea = PostIdea(groups[i])
	}
	return types.Report{
		Title:       title,
		Keywords:    raw,
		Cleaned:     cleaned,
		Groups:      groups,
		GeneratedAt: now.UTC(),
	}
}

// Writer serializes a report.
type Writer interface {
	Write(w io.Writer, r types.Report) error
}

// NewWriter returns the writer for format. An empty format means PDF.
func NewWriter(format types.ReportFormat) (Writer, error) {
	switch format {
	case types.FormatPDF, "":
		return PDFWriter{Compress: true}, nil
	case types.FormatMarkdown:
		return MarkdownWriter{}, nil
	case types.FormatJSON:
		return JSONWriter{}, nil
	case types.FormatYAML:
		return YAMLWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported report format %q: use pdf, markdown, json, or yaml", format)
	}
}

// FormatFromPath infers the format from the file extension, defaulting to PDF.
func FormatFromPath(path string) types.ReportFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return types.FormatMarkdown
	case ".json":
		return types.FormatJSON
	case ".yaml", ".yml":
		return types.FormatYAML
	default:
		return types.FormatPDF
	}
}

// Save writes r to path with w, replacing any existing file. The content
// goes to a temporary file in the same directory first and is renamed
// into place.
func Save(path string, w Writer, r types.Report) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp report: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := w.Write(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("writing report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing report: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("setting report permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

type line struct {
	heading bool
	text    string
}

// reportLines flattens the report into the ordered text lines the PDF
// writer emits.
func reportLines(r types.Report) []line {
	out := []line{
		{heading: true, text: r.Title},
		{text: "Input Keywords: " + strings.Join(r.Keywords, "; ")},
		{text: "Cleaned Keywords: " + strings.Join(r.Cleaned, "; ")},
	}
	for _, g := range r.Groups {
		out = append(out,
			line{heading: true, text: fmt.Sprintf("Group %d: %s", g.Index+1, strings.Join(g.Keywords, ", "))},
			line{text: "Post Idea: " + g.PostIdea},
		)
		for _, o := range g.Outlines {
			out = append(out,
				line{text: fmt.Sprintf("Outline for %s:", o.Keyword)},
				line{text: "Intro: " + o.Intro},
				line{text: "Sections: " + strings.Join(o.Sections, "; ")},
				line{text: "Conclusion: " + o.Conclusion},
			)
		}
	}
	return out
}
