// Package extract implements the block extractor: it reads a PDF one page
// at a time and produces positioned text and image fragments with font
// metadata. Embedded images are persisted to the output directory as they
// are found, and only references travel through the rest of the pipeline,
// keeping memory bounded per page.
//
// Pages with no extractable text (scanned pages) are surfaced to an
// injected OCR collaborator; the resulting fragments carry synthetic
// bounding boxes spanning the full page and no font metadata
package extract
