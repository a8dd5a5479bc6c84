package model

// FragmentKind distinguishes the two kinds of extracted page content
type FragmentKind int

const (
	// FragmentText is a positioned run of text
	FragmentText FragmentKind = iota

	// FragmentImage is a reference to an embedded image persisted to disk
	FragmentImage
)

// String returns a string representation of the fragment kind
func (k FragmentKind) String() string {
	if k == FragmentImage {
		return "image"
	}
	return "text"
}

// Fragment is one atomic piece of extracted content on a page: a text run
// with font metadata, or a reference to an embedded image. Fragments are
// immutable once extracted
type Fragment struct {
	// Kind is the fragment kind (text run or image reference)
	Kind FragmentKind

	// Text is the text content (empty for image fragments)
	Text string

	// BBox is the fragment's bounding box on the page
	BBox BBox

	// PageIndex is the 0-based page this fragment came from
	PageIndex int

	// FontName is the PDF font name (empty when font metadata is unavailable,
	// e.g. for OCR-sourced fragments)
	FontName string

	// FontSize is the font size in points
	FontSize float64

	// Bold, Italic and Monospace are style flags inferred from the font name
	Bold      bool
	Italic    bool
	Monospace bool

	// ImageRef is the relative path of the persisted image file
	// (image fragments only)
	ImageRef string

	// ImageIndex is the 1-based running image index within the document
	// (image fragments only)
	ImageIndex int
}

// IsText reports whether the fragment is a text run
func (f Fragment) IsText() bool {
	return f.Kind == FragmentText
}

// IsImage reports whether the fragment is an image reference
func (f Fragment) IsImage() bool {
	return f.Kind == FragmentImage
}

// PageFragmentSet holds all fragments extracted from a single page, together
// with the page geometry needed by layout analysis. It is produced by the
// block extractor and consumed exactly once by the layout analyzer
type PageFragmentSet struct {
	// PageIndex is the 0-based page index
	PageIndex int

	// PageWidth and PageHeight are the page dimensions in points
	PageWidth  float64
	PageHeight float64

	// Fragments are the extracted fragments in document order
	Fragments []Fragment

	// FromOCR indicates the text fragments were produced by OCR on a
	// scanned page; their bounding boxes are synthetic and font metadata
	// is absent
	FromOCR bool
}

// TextFragments returns only the text fragments of the set
func (s PageFragmentSet) TextFragments() []Fragment {
	var result []Fragment
	for _, f := range s.Fragments {
		if f.IsText() {
			result = append(result, f)
		}
	}
	return result
}

// ImageFragments returns only the image fragments of the set
func (s PageFragmentSet) ImageFragments() []Fragment {
	var result []Fragment
	for _, f := range s.Fragments {
		if f.IsImage() {
			result = append(result, f)
		}
	}
	return result
}
