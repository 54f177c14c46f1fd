// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/keyword-engine/internal/outline"
	"github.com/pdiddy/keyword-engine/pkg/types"
)

func sampleReport() types.Report {
	groups := []types.Group{
		{Index: 0, Keywords: []string{"seo", "content marketing"}},
		{Index: 1, Keywords: []string{"ads"}},
	}
	for gi := range groups {
		for _, kw := range groups[gi].Keywords {
			o := outline.Scaffold(kw)
			o.Intro = outline.FailedIntro(kw)
			o.Source = types.SourceFallback
			groups[gi].Outlines = append(groups[gi].Outlines, o)
		}
	}
	return Assemble("", []string{"SEO", "Content Marketing!", "seo", "Ads"},
		[]string{"seo", "content marketing", "ads"}, groups,
		time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
}

func TestPostIdea(t *testing.T) {
	got := PostIdea(types.Group{Keywords: []string{"seo", "marketing"}})
	assert.Equal(t, "Write a detailed post of comparing seo, marketing, including use cases, pros, and trends.", got)
}

func TestAssemble(t *testing.T) {
	r := sampleReport()
	assert.Equal(t, types.DefaultReportTitle, r.Title)
	require.Len(t, r.Groups, 2)
	for _, g := range r.Groups {
		for _, kw := range g.Keywords {
			assert.Contains(t, g.PostIdea, kw)
		}
	}
	assert.Equal(t, time.UTC, r.GeneratedAt.Location())
}

func TestNewWriter(t *testing.T) {
	for _, f := range []types.ReportFormat{"", types.FormatPDF, types.FormatMarkdown, types.FormatJSON, types.FormatYAML} {
		w, err := NewWriter(f)
		require.NoError(t, err, f)
		assert.NotNil(t, w)
	}
	_, err := NewWriter("docx")
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]types.ReportFormat{
		"keyword_report.pdf": types.FormatPDF,
		"out/report.MD":      types.FormatMarkdown,
		"report.json":        types.FormatJSON,
		"report.yml":         types.FormatYAML,
		"report":             types.FormatPDF,
	}
	for path, want := range tests {
		assert.Equal(t, want, FormatFromPath(path), path)
	}
}

// pdfText returns s as it appears in an uncompressed content stream drawn
// with a UTF-8 font: UTF-16BE with PDF string escapes.
func pdfText(s string) string {
	var b []byte
	for _, r := range s {
		b = append(b, byte(r>>8), byte(r))
	}
	out := strings.ReplaceAll(string(b), "\\", "\\\\")
	out = strings.ReplaceAll(out, "(", "\\(")
	out = strings.ReplaceAll(out, ")", "\\)")
	return strings.ReplaceAll(out, "\r", "\\r")
}

func TestPDFContainsEveryKeyword(t *testing.T) {
	r := sampleReport()
	var buf bytes.Buffer
	require.NoError(t, PDFWriter{Compress: false}.Write(&buf, r))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "%PDF-"))
	for _, kw := range r.Keywords {
		assert.Contains(t, out, pdfText(kw), "raw keyword %q missing", kw)
	}
	for _, kw := range r.Cleaned {
		assert.Contains(t, out, pdfText(kw), "cleaned keyword %q missing", kw)
	}
	assert.Contains(t, out, pdfText("Post Idea: "))
	assert.Contains(t, out, pdfText("Introduction about ads."))
}

func TestPDFNonLatinKeywords(t *testing.T) {
	raw := []string{"Café", "Поиск", "λέξη"}
	cleaned := []string{"café", "поиск", "λέξη"}
	groups := []types.Group{{Index: 0, Keywords: cleaned}}
	r := Assemble("", raw, cleaned, groups, time.Now())

	var buf bytes.Buffer
	require.NoError(t, PDFWriter{}.Write(&buf, r))
	out := buf.String()
	for _, kw := range append(raw, cleaned...) {
		assert.Contains(t, out, pdfText(kw), "keyword %q missing", kw)
	}
}

func TestPDFUnsupportedTextFails(t *testing.T) {
	r := Assemble("", []string{"日本語", "café"}, []string{"日本語", "café"},
		[]types.Group{{Index: 0, Keywords: []string{"日本語", "café"}}}, time.Now())

	var buf bytes.Buffer
	err := PDFWriter{}.Write(&buf, r)
	require.ErrorIs(t, err, ErrUnsupportedText)
	assert.Contains(t, err.Error(), "日本語")
	assert.Zero(t, buf.Len(), "nothing written on failure")
}

func TestPDFCustomFont(t *testing.T) {
	path := filepath.Join(t.TempDir(), "font.ttf")
	require.NoError(t, os.WriteFile(path, dejaVuRegular, 0o644))

	ttf, err := LoadFont(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, PDFWriter{Font: ttf}.Write(&buf, sampleReport()))
	assert.Contains(t, buf.String(), pdfText("content marketing"))
}

func TestLoadFontErrors(t *testing.T) {
	_, err := LoadFont(filepath.Join(t.TempDir(), "missing.ttf"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "junk.ttf")
	require.NoError(t, os.WriteFile(path, []byte("not a font"), 0o644))
	_, err = LoadFont(path)
	assert.Error(t, err)
}

func TestCmapCoverage(t *testing.T) {
	for _, ttf := range [][]byte{dejaVuRegular, dejaVuBold} {
		covers, err := cmapCoverage(ttf)
		require.NoError(t, err)
		for _, r := range "aZé;!пλ " {
			assert.True(t, covers(r), "%q", r)
		}
		for _, r := range "日本" {
			assert.False(t, covers(r), "%q", r)
		}
	}
}

func TestPDFCompressed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDFWriter{Compress: true}.Write(&buf, sampleReport()))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
}

func TestPDFManyGroupsPaginates(t *testing.T) {
	var groups []types.Group
	for i := 0; i < 40; i++ {
		o := outline.Scaffold("kw")
		o.Intro = strings.Repeat("long intro text ", 30)
		groups = append(groups, types.Group{Index: i, Keywords: []string{"kw"}, Outlines: []types.Outline{o}})
	}
	r := Assemble("Big", []string{"kw"}, []string{"kw"}, groups, time.Now())

	var buf bytes.Buffer
	require.NoError(t, PDFWriter{}.Write(&buf, r))
	assert.Greater(t, strings.Count(buf.String(), "/Type /Page\n"), 1)
}

func TestMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MarkdownWriter{}.Write(&buf, sampleReport()))
	out := buf.String()
	assert.Contains(t, out, "# Keyword Research Report\n")
	assert.Contains(t, out, "**Input Keywords:** SEO; Content Marketing!; seo; Ads")
	assert.Contains(t, out, "## Group 1: seo, content marketing")
	assert.Contains(t, out, "### Outline for ads")
	assert.Contains(t, out, "- Future of ads\n")
	assert.Contains(t, out, "_Summary for ads_")
}

func TestJSONAndYAMLRoundTripFields(t *testing.T) {
	r := sampleReport()

	var jb bytes.Buffer
	require.NoError(t, JSONWriter{}.Write(&jb, r))
	var fromJSON types.Report
	require.NoError(t, json.Unmarshal(jb.Bytes(), &fromJSON))
	assert.Equal(t, r.Cleaned, fromJSON.Cleaned)
	assert.Equal(t, types.SourceFallback, fromJSON.Groups[0].Outlines[0].Source)

	var yb bytes.Buffer
	require.NoError(t, YAMLWriter{}.Write(&yb, r))
	var fromYAML types.Report
	require.NoError(t, yaml.Unmarshal(yb.Bytes(), &fromYAML))
	assert.Equal(t, r.Keywords, fromYAML.Keywords)
	assert.Equal(t, r.Groups[1].PostIdea, fromYAML.Groups[1].PostIdea)
}

func TestSaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "keyword_report.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	require.NoError(t, Save(path, MarkdownWriter{}, sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
	assert.Contains(t, string(data), "Cleaned Keywords")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestSaveCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "report.json")
	require.NoError(t, Save(path, JSONWriter{}, sampleReport()))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}
