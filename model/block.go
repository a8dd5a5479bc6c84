package model

import (
	"sort"
	"strings"
)

// BlockKind classifies a content block emitted by layout analysis
type BlockKind int

const (
	// BlockParagraphLine is a single reading-ordered line of body text
	BlockParagraphLine BlockKind = iota

	// BlockCandidateHeading is a line whose typography suggests a heading;
	// final classification happens in the semantic converter
	BlockCandidateHeading

	// BlockImageRef is a reference to a persisted page image
	BlockImageRef
)

// String returns a string representation of the block kind
func (k BlockKind) String() string {
	switch k {
	case BlockCandidateHeading:
		return "candidate-heading"
	case BlockImageRef:
		return "image-ref"
	default:
		return "paragraph-line"
	}
}

// ContentBlock is a denoised, reading-ordered unit on a page. Blocks within
// a page are totally ordered by Rank, and that order matches natural reading
// order for the detected column layout
type ContentBlock struct {
	// Kind is the block kind
	Kind BlockKind

	// Text is the assembled line text (empty for image blocks)
	Text string

	// Fragments are the originating fragments, left to right
	Fragments []Fragment

	// BBox is the bounding box of the block
	BBox BBox

	// PageIndex is the 0-based page index
	PageIndex int

	// Column is the 0-based column index the block belongs to;
	// -1 for blocks spanning the full page width (titles, images)
	Column int

	// Rank is the block's reading-order position within its page (0-based)
	Rank int

	// FontSize is the dominant font size of the block's fragments
	FontSize float64

	// Bold and Monospace summarize the block's dominant style flags
	Bold      bool
	Monospace bool
}

// Indent returns the block's left offset, used for list nesting and
// quote-by-indent detection
func (b ContentBlock) Indent() float64 {
	return b.BBox.X
}

// SortBlocksByRank sorts blocks in place by page then reading-order rank
func SortBlocksByRank(blocks []ContentBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].PageIndex != blocks[j].PageIndex {
			return blocks[i].PageIndex < blocks[j].PageIndex
		}
		return blocks[i].Rank < blocks[j].Rank
	})
}

// AssembleText joins fragment texts left to right, inserting a space where
// the horizontal gap between adjacent fragments is significant
func AssembleText(fragments []Fragment) string {
	var sb strings.Builder
	for i, frag := range fragments {
		if i > 0 {
			prev := fragments[i-1]
			gap := frag.BBox.X - prev.BBox.Right()
			if gap > frag.BBox.Height*0.1 {
				sb.WriteString(" ")
			}
		}
		sb.WriteString(frag.Text)
	}
	return sb.String()
}
