package pdf2md

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/pdf2md/extract"
	"github.com/tsawler/pdf2md/layout"
	"github.com/tsawler/pdf2md/markdown"
	"github.com/tsawler/pdf2md/model"
	"github.com/tsawler/pdf2md/ocr"
	"github.com/tsawler/pdf2md/semantic"
)

// Converter provides a fluent interface for converting a PDF document to
// Markdown. Each configuration method returns a new Converter instance,
// making it safe for concurrent use and allowing method chaining
type Converter struct {
	filename string
	options  convertOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a copy of the Converter with copied options. This ensures
// immutability: each chain method returns a new instance
func (c *Converter) clone() *Converter {
	return &Converter{
		filename: c.filename,
		options:  c.options.clone(),
		err:      c.err,
	}
}

// ExtractImages enables persisting embedded images to an images/ subfolder
// of the output directory and referencing them from the Markdown
func (c *Converter) ExtractImages() *Converter {
	next := c.clone()
	next.options.extractImages = true
	return next
}

// Overwrite allows replacing an existing output file
func (c *Converter) Overwrite() *Converter {
	next := c.clone()
	next.options.overwrite = true
	return next
}

// WithOCR injects an OCR collaborator used for pages with no extractable
// text. Without one, scanned pages produce an empty-page warning instead
func (c *Converter) WithOCR(r ocr.Recognizer) *Converter {
	next := c.clone()
	next.options.recognizer = r
	return next
}

// WithLayoutConfig overrides the layout analyzer configuration
func (c *Converter) WithLayoutConfig(config layout.Config) *Converter {
	next := c.clone()
	next.options.layout = config
	return next
}

// WithSemanticConfig overrides the semantic converter configuration
func (c *Converter) WithSemanticConfig(config semantic.Config) *Converter {
	next := c.clone()
	next.options.semantic = config
	return next
}

// WithFormatterConfig overrides the Markdown formatter configuration
func (c *Converter) WithFormatterConfig(config markdown.Config) *Converter {
	next := c.clone()
	next.options.formatter = config
	return next
}

// Convert runs the full pipeline and writes one Markdown file (same base
// name as the source) plus an optional images/ subfolder into outDir.
//
// Page-level failures never abort the document: a corrupt page leaves a
// placeholder note and a warning, and the result reports partial status.
// Cancellation is honored between pages, never mid-page
func (c *Converter) Convert(ctx context.Context, outDir string) (*Result, error) {
	if c.err != nil {
		return nil, c.err
	}

	base := strings.TrimSuffix(filepath.Base(c.filename), filepath.Ext(c.filename))
	outPath := filepath.Join(outDir, base+".md")

	if !c.options.overwrite {
		if _, err := os.Stat(outPath); err == nil {
			return nil, fmt.Errorf("output file already exists: %s", outPath)
		}
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create output directory: %w", err)
	}

	config := extract.DefaultConfig()
	config.ExtractImages = c.options.extractImages
	config.ImagesDir = filepath.Join(outDir, config.ImagesSubdir)

	ext, err := extract.Open(c.filename, config)
	if err != nil {
		return &Result{Status: StatusFailed, Reason: err.Error()}, err
	}
	defer ext.Close()

	if c.options.recognizer != nil {
		ext.SetRecognizer(c.options.recognizer)
	}

	analyzer := layout.NewWithConfig(c.options.layout)
	var warnings []Warning
	var placeholders []model.ContentBlock

	for i := 0; i < ext.PageCount(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		set, pageWarnings, err := ext.ExtractPage(i)
		warnings = append(warnings, pageWarnings...)
		if err != nil {
			warnings = append(warnings, Warning{Page: i + 1, Message: err.Error()})
			placeholders = append(placeholders, placeholderBlock(i))
			continue
		}
		if len(set.Fragments) == 0 {
			// A page that contributed nothing (a scanned page whose OCR
			// failed or was unavailable) still keeps its position
			placeholders = append(placeholders, emptyPageBlock(i))
		}
		analyzer.AddPage(set)
	}

	blocks := analyzer.Analyze()
	blocks = append(blocks, placeholders...)
	model.SortBlocksByRank(blocks)

	nodes := semantic.NewWithConfig(c.options.semantic).Convert(blocks)
	meta := ext.Metadata()
	text := markdown.NewWithConfig(c.options.formatter).Format(meta, nodes)

	if err := os.WriteFile(outPath, []byte(text), 0644); err != nil {
		return &Result{
			Markdown: text,
			Metadata: meta,
			Warnings: warnings,
			Status:   StatusFailed,
			Reason:   err.Error(),
		}, fmt.Errorf("cannot write output file: %w", err)
	}

	result := &Result{
		Markdown:   text,
		OutputPath: outPath,
		Metadata:   meta,
		Images:     imagePaths(nodes),
		Warnings:   warnings,
		Status:     StatusSuccess,
	}
	if len(warnings) > 0 {
		result.Status = StatusPartial
		result.Reason = FormatWarnings(warnings)
	}
	return result, nil
}

// placeholderBlock is the in-document note left where a page could not be
// decoded
func placeholderBlock(pageIndex int) model.ContentBlock {
	return model.ContentBlock{
		Kind:      model.BlockParagraphLine,
		Text:      fmt.Sprintf("*[Page %d could not be read]*", pageIndex+1),
		PageIndex: pageIndex,
	}
}

// emptyPageBlock marks a page that yielded no content at all, so the page
// keeps its position in the output
func emptyPageBlock(pageIndex int) model.ContentBlock {
	return model.ContentBlock{
		Kind:      model.BlockParagraphLine,
		Text:      fmt.Sprintf("*[Page %d has no extractable text]*", pageIndex+1),
		PageIndex: pageIndex,
	}
}

// imagePaths collects the relative paths of every image node
func imagePaths(nodes []model.MarkdownNode) []string {
	var paths []string
	for _, n := range nodes {
		if n.Kind == model.NodeImage {
			paths = append(paths, n.ImagePath)
		}
	}
	return paths
}
