// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize cleans raw keywords into their canonical form and
// deduplicates them.
package normalize

import (
	"regexp"
	"strings"
)

// nonWord matches a maximal run of runes that are not letters, digits, or
// underscore.
var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// Clean lowercases kw, collapses each run of non-word characters into a
// single space, and trims the result. Clean is idempotent.
func Clean(kw string) string {
	return strings.TrimSpace(nonWord.ReplaceAllString(strings.ToLower(kw), " "))
}

// Keywords cleans every raw keyword and returns the distinct non-empty
// results in first-occurrence order.
func Keywords(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	var out []string
	for _, kw := range raw {
		c := Clean(kw)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
