package model

import (
	"fmt"
	"strings"
)

// Warning records a non-fatal problem encountered during conversion, such
// as a page that could not be decoded or an image that could not be
// extracted. Failures are isolated to the smallest possible unit, so
// warnings accumulate beside results instead of aborting the document
type Warning struct {
	// Page is the 1-based page number the warning relates to,
	// or 0 for document-level warnings
	Page int

	// Message is a human-readable description of the problem
	Message string
}

// String returns a human-readable representation of the warning
func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, w.Message)
	}
	return w.Message
}

// FormatWarnings joins warnings into a single readable string
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}

	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
