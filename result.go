package pdf2md

import "github.com/tsawler/pdf2md/model"

// Status is the per-document conversion outcome
type Status int

const (
	// StatusSuccess means every page converted cleanly
	StatusSuccess Status = iota

	// StatusPartial means conversion produced output but some pages or
	// images were skipped; Warnings hold the details
	StatusPartial

	// StatusFailed means no output could be produced
	StatusFailed
)

// String returns a string representation of the status
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusPartial:
		return "partial"
	default:
		return "failed"
	}
}

// Result holds the outcome of one document's conversion
type Result struct {
	// Markdown is the serialized output text
	Markdown string

	// OutputPath is the path of the written Markdown file
	OutputPath string

	// Metadata is the source document's metadata
	Metadata model.DocumentMetadata

	// Images lists the relative paths of persisted image files
	Images []string

	// Warnings are the non-fatal problems encountered
	Warnings []Warning

	// Status summarizes the conversion outcome
	Status Status

	// Reason is a human-readable explanation for partial or failed status
	Reason string
}
