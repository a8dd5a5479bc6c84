package pdf2md

import (
	"github.com/tsawler/pdf2md/layout"
	"github.com/tsawler/pdf2md/markdown"
	"github.com/tsawler/pdf2md/ocr"
	"github.com/tsawler/pdf2md/semantic"
)

// convertOptions holds configuration for a conversion
type convertOptions struct {
	// Feature flags
	extractImages bool
	overwrite     bool

	// OCR collaborator for scanned pages; nil disables the fallback
	recognizer ocr.Recognizer

	// Stage configuration
	layout    layout.Config
	semantic  semantic.Config
	formatter markdown.Config
}

// defaultOptions returns the default conversion options
func defaultOptions() convertOptions {
	return convertOptions{
		extractImages: false,
		overwrite:     false,
		recognizer:    nil,
		layout:        layout.DefaultConfig(),
		semantic:      semantic.DefaultConfig(),
		formatter:     markdown.DefaultConfig(),
	}
}

// clone creates a copy of convertOptions
func (o convertOptions) clone() convertOptions {
	return convertOptions{
		extractImages: o.extractImages,
		overwrite:     o.overwrite,
		recognizer:    o.recognizer,
		layout:        o.layout,
		semantic:      o.semantic,
		formatter:     o.formatter,
	}
}
