// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/keyword-engine/pkg/types"
)

// MarkdownWriter renders the report as Markdown.
type MarkdownWriter struct{}

// Write renders r to w.
func (MarkdownWriter) Write(w io.Writer, r types.Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Title)
	fmt.Fprintf(&b, "**Input Keywords:** %s\n\n", strings.Join(r.Keywords, "; "))
	fmt.Fprintf(&b, "**Cleaned Keywords:** %s\n\n", strings.Join(r.Cleaned, "; "))
	for _, g := range r.Groups {
		fmt.Fprintf(&b, "## Group %d: %s\n\n", g.Index+1, strings.Join(g.Keywords, ", "))
		fmt.Fprintf(&b, "**Post Idea:** %s\n\n", g.PostIdea)
		for _, o := range g.Outlines {
			fmt.Fprintf(&b, "### Outline for %s\n\n", o.Keyword)
			fmt.Fprintf(&b, "%s\n\n", o.Intro)
			for _, s := range o.Sections {
				fmt.Fprintf(&b, "- %s\n", s)
			}
			fmt.Fprintf(&b, "\n_%s_\n\n", o.Conclusion)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// JSONWriter renders the report as indented JSON.
type JSONWriter struct{}

// Write renders r to w.
func (JSONWriter) Write(w io.Writer, r types.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// YAMLWriter renders the report as YAML.
type YAMLWriter struct{}

// Write renders r to w.
func (YAMLWriter) Write(w io.Writer, r types.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}
