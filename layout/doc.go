// Package layout implements document layout analysis: whitespace-gap
// column detection, reading order reconstruction, and removal of repeating
// header/footer noise.
//
// Noise detection is a whole-document, two-pass process: every page is
// observed before any page is denoised, so the analyzer consumes all page
// fragment sets up front and emits reading-ordered content blocks per page
package layout
