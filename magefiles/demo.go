//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// demoKeywords is a small mixed set that splits into several groups.
var demoKeywords = []string{"seo tools", "keyword research", "email marketing", "newsletter tips"}

// Demo builds the CLI and analyzes a sample keyword set with the TF-IDF
// embedder, writing out/demo_report.md.
func Demo() error {
	mg.Deps(Init, Build)
	args := []string{"analyze", "--provider", "tfidf", "--output", "out/demo_report.md"}
	for _, kw := range demoKeywords {
		args = append(args, "--keyword", kw)
	}
	return sh.RunV("bin/keyword-engine", args...)
}
