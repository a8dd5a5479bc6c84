// Package ocr provides the OCR collaborator used for scanned pages that
// yield no extractable text. The conversion pipeline has no compiled
// dependency on OCR availability: it consumes the Recognizer interface,
// and the Tesseract-backed implementation is only built with the "ocr"
// build tag. Without the tag a stub is compiled that reports
// ErrUnavailable
package ocr

import (
	"errors"
	"time"
)

// ErrUnavailable is returned when OCR support is not compiled in or the
// Tesseract engine cannot be used. Rebuild with -tags ocr to enable OCR
var ErrUnavailable = errors.New("OCR support not available; rebuild with -tags ocr")

// ErrTimeout is returned when recognition exceeds the configured timeout
var ErrTimeout = errors.New("OCR recognition timed out")

// Recognizer converts a page raster into recognized text. Implementations
// return the text as a single string without position data
type Recognizer interface {
	// Recognize performs OCR on image data (PNG, JPEG, TIFF)
	Recognize(imageData []byte) (string, error)
}

// Config holds OCR settings shared by the real and stub clients
type Config struct {
	// Language is the Tesseract language hint, e.g. "eng" or "eng+fra".
	// Default: "eng"
	Language string

	// Timeout bounds a single recognition call. Zero means no timeout
	Timeout time.Duration
}

// DefaultConfig returns the default OCR configuration
func DefaultConfig() Config {
	return Config{
		Language: "eng",
		Timeout:  0,
	}
}
