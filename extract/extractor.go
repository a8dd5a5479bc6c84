package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/pdf2md/model"
	"github.com/tsawler/pdf2md/ocr"
)

// Config holds configuration for the block extractor
type Config struct {
	// ExtractImages enables persisting embedded images to ImagesDir.
	// Default: true
	ExtractImages bool

	// ImagesDir is the directory where embedded images are written
	ImagesDir string

	// ImagesSubdir is the relative directory prefix used in image
	// references inside the Markdown output. Default: "images"
	ImagesSubdir string

	// MinImageDim is the minimum width and height, in pixels, for an
	// embedded image to be kept; smaller images are treated as icons or
	// decoration and skipped. Default: 50
	MinImageDim int

	// MaxOCRWidth is the maximum raster width, in pixels, handed to the
	// OCR collaborator; wider rasters are downscaled first. Default: 2000
	MaxOCRWidth int
}

// DefaultConfig returns sensible default extractor configuration
func DefaultConfig() Config {
	return Config{
		ExtractImages: true,
		ImagesSubdir:  "images",
		MinImageDim:   50,
		MaxOCRWidth:   2000,
	}
}

// Extractor reads one page at a time from a PDF document and produces
// that page's fragment set. It is not safe for concurrent use
type Extractor struct {
	path     string
	baseName string

	file   *os.File
	reader *pdf.Reader

	config     Config
	recognizer ocr.Recognizer

	meta       model.DocumentMetadata
	imageCount int
}

// Open opens a PDF document for extraction. It fails with ErrDocumentOpen
// when the file is unreadable, encrypted, or structurally broken
func Open(path string, config Config) (*Extractor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDocumentOpen, path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	file, reader, err := openReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDocumentOpen, path, err)
	}

	e := &Extractor{
		path:     abs,
		baseName: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		file:     file,
		reader:   reader,
		config:   config,
	}

	e.meta = model.DocumentMetadata{
		SourcePath:  abs,
		SourceName:  filepath.Base(path),
		PageCount:   reader.NumPage(),
		FileSize:    info.Size(),
		ConvertedAt: time.Now(),
	}
	e.readInfoDict()

	return e, nil
}

// openReader wraps pdf.Open, converting parser panics on malformed
// cross-reference tables into errors
func openReader(path string) (file *os.File, reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			if file != nil {
				_ = file.Close()
			}
			file, reader = nil, nil
			err = fmt.Errorf("malformed document: %v", r)
		}
	}()

	return pdf.Open(path)
}

// Close releases the underlying file handle
func (e *Extractor) Close() error {
	if e.file != nil {
		return e.file.Close()
	}
	return nil
}

// SetRecognizer injects the OCR collaborator used for pages that yield no
// extractable text. A nil recognizer disables the OCR fallback
func (e *Extractor) SetRecognizer(r ocr.Recognizer) {
	e.recognizer = r
}

// Metadata returns the document metadata captured at open time. ImageCount
// reflects the images persisted so far
func (e *Extractor) Metadata() model.DocumentMetadata {
	meta := e.meta
	meta.ImageCount = e.imageCount
	return meta
}

// PageCount returns the number of pages in the document
func (e *Extractor) PageCount() int {
	return e.reader.NumPage()
}

// BaseName returns the source file's base name without extension, used for
// image file naming
func (e *Extractor) BaseName() string {
	return e.baseName
}

// readInfoDict pulls title and author from the document info dictionary
func (e *Extractor) readInfoDict() {
	defer func() {
		// A damaged info dictionary is not worth failing the document for
		_ = recover()
	}()

	info := e.reader.Trailer().Key("Info")
	if info.IsNull() {
		return
	}
	e.meta.Title = strings.TrimSpace(info.Key("Title").Text())
	e.meta.Author = strings.TrimSpace(info.Key("Author").Text())
}

// ExtractPage extracts the fragment set for one page (0-based index).
// It fails with ErrCorruptPage when the page content stream cannot be
// decoded. Image extraction problems never fail the page; they are
// reported as warnings. When the page has no extractable text and an OCR
// recognizer is set, the page's dominant raster is recognized and the
// returned set carries synthetic full-page fragments
func (e *Extractor) ExtractPage(pageIndex int) (set model.PageFragmentSet, warnings []model.Warning, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: page %d: %v", ErrCorruptPage, pageIndex+1, r)
		}
	}()

	page := e.reader.Page(pageIndex + 1)
	if page.V.IsNull() {
		return set, nil, fmt.Errorf("%w: page %d not present", ErrCorruptPage, pageIndex+1)
	}

	width, height := e.pageSize(page)
	set = model.PageFragmentSet{
		PageIndex:  pageIndex,
		PageWidth:  width,
		PageHeight: height,
	}

	content := page.Content()
	set.Fragments = buildTextFragments(content.Text, pageIndex)

	needOCR := len(set.Fragments) == 0 && e.recognizer != nil

	if e.config.ExtractImages || needOCR {
		imageFrags, raster, imgWarnings := e.extractPageImages(page, pageIndex, needOCR)
		warnings = append(warnings, imgWarnings...)
		set.Fragments = append(set.Fragments, imageFrags...)

		if needOCR {
			ocrSet, w := e.recognizePage(raster, pageIndex, width, height)
			warnings = append(warnings, w...)
			set.Fragments = append(ocrSet, set.Fragments...)
			set.FromOCR = len(ocrSet) > 0
		}
	}

	return set, warnings, nil
}

// recognizePage runs the OCR collaborator over the page raster and builds
// synthetic fragments from the recognized text
func (e *Extractor) recognizePage(raster []byte, pageIndex int, width, height float64) ([]model.Fragment, []model.Warning) {
	if raster == nil {
		return nil, []model.Warning{{
			Page:    pageIndex + 1,
			Message: "scanned page has no usable raster for OCR",
		}}
	}

	text, err := e.recognizer.Recognize(raster)
	if err != nil {
		return nil, []model.Warning{{
			Page:    pageIndex + 1,
			Message: fmt.Sprintf("OCR failed: %v", err),
		}}
	}

	return SyntheticFragments(text, pageIndex, width, height), nil
}

// SyntheticFragments builds full-page-width text fragments from OCR output.
// The text carries no position data, so lines are stacked top to bottom
// across the page and font metadata is omitted
func SyntheticFragments(text string, pageIndex int, pageWidth, pageHeight float64) []model.Fragment {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	if len(lines) == 0 {
		return nil
	}

	lineHeight := pageHeight / float64(len(lines)+1)
	fragments := make([]model.Fragment, 0, len(lines))
	for i, line := range lines {
		top := pageHeight - float64(i)*lineHeight
		fragments = append(fragments, model.Fragment{
			Kind:      model.FragmentText,
			Text:      line,
			PageIndex: pageIndex,
			BBox:      model.NewBBox(0, top-lineHeight, pageWidth, lineHeight),
		})
	}
	return fragments
}

// pageSize resolves the page dimensions from the MediaBox, following
// inheritance through Parent entries
func (e *Extractor) pageSize(page pdf.Page) (width, height float64) {
	v := page.V
	for i := 0; i < 16 && !v.IsNull(); i++ {
		mb := v.Key("MediaBox")
		if mb.Kind() == pdf.Array && mb.Len() == 4 {
			x0, y0 := numValue(mb.Index(0)), numValue(mb.Index(1))
			x1, y1 := numValue(mb.Index(2)), numValue(mb.Index(3))
			return x1 - x0, y1 - y0
		}
		v = v.Key("Parent")
	}
	return 612, 792 // US Letter
}

// numValue converts an integer or real PDF value to float64
func numValue(v pdf.Value) float64 {
	switch v.Kind() {
	case pdf.Integer:
		return float64(v.Int64())
	case pdf.Real:
		return v.Float64()
	}
	return 0
}

// buildTextFragments assembles the raw glyph runs of a page content stream
// into line-level styled runs: consecutive glyphs that share a baseline,
// font and size become one fragment, with spaces inserted at significant
// horizontal gaps. A new fragment also starts at very large gaps so that
// column boundaries are not glued together
func buildTextFragments(texts []pdf.Text, pageIndex int) []model.Fragment {
	glyphs := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		glyphs = append(glyphs, t)
	}
	if len(glyphs) == 0 {
		return nil
	}

	// Sort top to bottom, then left to right within a baseline band
	sort.SliceStable(glyphs, func(i, j int) bool {
		tol := rowTolerance(glyphs[i].FontSize, glyphs[j].FontSize)
		if d := glyphs[i].Y - glyphs[j].Y; d > tol || d < -tol {
			return glyphs[i].Y > glyphs[j].Y
		}
		return glyphs[i].X < glyphs[j].X
	})

	var fragments []model.Fragment
	var run []pdf.Text

	flush := func() {
		if len(run) > 0 {
			fragments = append(fragments, runToFragment(run, pageIndex))
			run = nil
		}
	}

	for _, g := range glyphs {
		if len(run) == 0 {
			run = append(run, g)
			continue
		}
		last := run[len(run)-1]

		sameRow := abs(g.Y-last.Y) <= rowTolerance(g.FontSize, last.FontSize)
		sameStyle := g.Font == last.Font && abs(g.FontSize-last.FontSize) < 0.1
		gap := g.X - (last.X + last.W)
		hugeGap := gap > g.FontSize*2.5

		if sameRow && sameStyle && !hugeGap {
			run = append(run, g)
		} else {
			flush()
			run = append(run, g)
		}
	}
	flush()

	return fragments
}

// runToFragment joins a styled glyph run into a single fragment
func runToFragment(run []pdf.Text, pageIndex int) model.Fragment {
	first := run[0]
	last := run[len(run)-1]

	var sb strings.Builder
	for i, g := range run {
		if i > 0 {
			prev := run[i-1]
			if gap := g.X - (prev.X + prev.W); gap > g.FontSize*0.3 {
				sb.WriteString(" ")
			}
		}
		sb.WriteString(g.S)
	}

	minY := first.Y
	for _, g := range run {
		if g.Y < minY {
			minY = g.Y
		}
	}

	bold, italic, mono := StyleFlags(first.Font)

	return model.Fragment{
		Kind:      model.FragmentText,
		Text:      sb.String(),
		PageIndex: pageIndex,
		BBox:      model.NewBBox(first.X, minY, last.X+last.W-first.X, first.FontSize),
		FontName:  first.Font,
		FontSize:  first.FontSize,
		Bold:      bold,
		Italic:    italic,
		Monospace: mono,
	}
}

// rowTolerance is the Y distance within which two glyphs share a baseline
func rowTolerance(a, b float64) float64 {
	size := a
	if b > size {
		size = b
	}
	if size <= 0 {
		return 2.0
	}
	return size * 0.4
}

// StyleFlags infers bold, italic and monospace flags from a PDF font name
func StyleFlags(fontName string) (bold, italic, mono bool) {
	name := strings.ToLower(fontName)

	bold = strings.Contains(name, "bold") ||
		strings.Contains(name, "black") ||
		strings.Contains(name, "heavy") ||
		strings.Contains(name, "semibold") ||
		strings.Contains(name, "demibold")

	italic = strings.Contains(name, "italic") ||
		strings.Contains(name, "oblique")

	mono = strings.Contains(name, "mono") ||
		strings.Contains(name, "courier") ||
		strings.Contains(name, "consolas") ||
		strings.Contains(name, "menlo") ||
		strings.Contains(name, "typewriter")

	return bold, italic, mono
}

// abs returns the absolute value of a float64
func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
