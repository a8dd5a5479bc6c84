// Package pdf2md converts PDF documents to Markdown with layout-aware
// reading order, header/footer denoising, and typographic classification
// of headings, lists, code blocks and quotes.
//
// Basic usage:
//
//	result, err := pdf2md.Open("report.pdf").Convert(ctx, "out")
//	if err != nil {
//	    // handle error
//	}
//	if len(result.Warnings) > 0 {
//	    log.Println("Warnings:", pdf2md.FormatWarnings(result.Warnings))
//	}
//
// With options:
//
//	result, err := pdf2md.Open("report.pdf").
//	    ExtractImages().
//	    Overwrite().
//	    Convert(ctx, "out")
//
// The lower-level extract, layout, semantic and markdown packages are also
// available for callers that need one pipeline stage in isolation
package pdf2md

import (
	"github.com/tsawler/pdf2md/model"
)

// Warning records a non-fatal problem encountered during conversion
type Warning = model.Warning

// FormatWarnings joins warnings into a single readable string
func FormatWarnings(warnings []Warning) string {
	return model.FormatWarnings(warnings)
}

// Open prepares a PDF file for conversion and returns a Converter for
// fluent configuration. Nothing is read until a terminal operation like
// Convert runs.
//
// Example:
//
//	result, err := pdf2md.Open("document.pdf").Convert(ctx, "out")
func Open(filename string) *Converter {
	return &Converter{
		filename: filename,
		options:  defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	result := pdf2md.Must(pdf2md.Open("document.pdf").Convert(ctx, "out"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
