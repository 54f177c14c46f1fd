// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"fmt"

	"github.com/pdiddy/keyword-engine/pkg/types"
)

// FailedIntro is the intro used when the lookup errors or returns non-200.
func FailedIntro(kw string) string { return fmt.Sprintf("Introduction about %s.", kw) }

// MissingIntro is the intro used when the page has no extract.
func MissingIntro(kw string) string { return fmt.Sprintf("Brief intro about %s.", kw) }

// Headings returns the four fixed section headings for kw.
func Headings(kw string) []string {
	return []string{
		fmt.Sprintf("What is %s?", kw),
		fmt.Sprintf("Key Insights about %s", kw),
		fmt.Sprintf("Applications of %s", kw),
		fmt.Sprintf("Future of %s", kw),
	}
}

// Conclusion returns the fixed closing line for kw.
func Conclusion(kw string) string { return fmt.Sprintf("Summary for %s", kw) }

// Scaffold returns an outline with headings and conclusion set and no intro.
func Scaffold(kw string) types.Outline {
	return types.Outline{
		Keyword:    kw,
		Sections:   Headings(kw),
		Conclusion: Conclusion(kw),
	}
}
