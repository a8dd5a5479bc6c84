package model

import "time"

// DocumentMetadata describes the source document. It is captured once when
// extraction starts and attached read-only to the formatter's output
type DocumentMetadata struct {
	// SourcePath is the absolute path of the source PDF
	SourcePath string

	// SourceName is the base filename of the source PDF
	SourceName string

	// Title and Author come from the PDF info dictionary (may be empty)
	Title  string
	Author string

	// PageCount is the number of pages in the document
	PageCount int

	// FileSize is the source file size in bytes
	FileSize int64

	// ImageCount is the number of images persisted during extraction
	ImageCount int

	// ConvertedAt is the conversion timestamp
	ConvertedAt time.Time
}

// FileSizeKB returns the file size in kilobytes
func (m DocumentMetadata) FileSizeKB() float64 {
	return float64(m.FileSize) / 1024.0
}
