// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the keyword-engine pipeline:
// input modes, keyword groups, outlines, and the final report.
package types

import "time"

// InputMode identifies where the raw keywords came from.
type InputMode string

const (
	ModeManual InputMode = "manual"
	ModeCSV    InputMode = "csv"
	ModePaste  InputMode = "paste"
)

// Label returns the human-readable name of the mode.
func (m InputMode) Label() string {
	switch m {
	case ModeManual:
		return "Manual Entry"
	case ModeCSV:
		return "Upload CSV"
	case ModePaste:
		return "Paste Keywords"
	default:
		return string(m)
	}
}

// OutlineSource records whether an outline intro was fetched or defaulted.
type OutlineSource string

const (
	SourceRemote   OutlineSource = "remote"
	SourceFallback OutlineSource = "fallback"
)

// Outline is the writing scaffold for one keyword.
type Outline struct {
	// Keyword is the normalized keyword the outline was built for.
	Keyword string `json:"keyword" yaml:"keyword"`

	// Intro is the fetched summary, or a fallback sentence.
	Intro string `json:"intro" yaml:"intro"`

	// Sections holds the four heading strings.
	Sections []string `json:"sections" yaml:"sections"`

	// Conclusion is the closing line.
	Conclusion string `json:"conclusion" yaml:"conclusion"`

	// Source tells callers whether Intro came from the remote lookup.
	Source OutlineSource `json:"source" yaml:"source"`
}

// Fetched reports whether the intro came from the remote lookup.
func (o Outline) Fetched() bool { return o.Source == SourceRemote }

// Group is one cluster of semantically similar keywords.
type Group struct {
	// Index is the zero-based cluster index.
	Index int `json:"index" yaml:"index"`

	// Keywords lists the members in embedding-input order.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// PostIdea is the comparison-style post suggestion for the group.
	PostIdea string `json:"post_idea,omitempty" yaml:"post_idea,omitempty"`

	// Outlines holds one outline per member, in member order.
	Outlines []Outline `json:"outlines,omitempty" yaml:"outlines,omitempty"`
}

// Report is the terminal artifact of one run.
type Report struct {
	Title       string    `json:"title" yaml:"title"`
	Keywords    []string  `json:"keywords" yaml:"keywords"`
	Cleaned     []string  `json:"cleaned" yaml:"cleaned"`
	Groups      []Group   `json:"groups" yaml:"groups"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
}
