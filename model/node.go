package model

// NodeKind identifies the variant of a MarkdownNode
type NodeKind int

const (
	NodeParagraph NodeKind = iota
	NodeHeading
	NodeListItem
	NodeCodeBlock
	NodeQuote
	NodeImage
)

// String returns a string representation of the node kind
func (k NodeKind) String() string {
	switch k {
	case NodeHeading:
		return "heading"
	case NodeListItem:
		return "list-item"
	case NodeCodeBlock:
		return "code-block"
	case NodeQuote:
		return "quote"
	case NodeImage:
		return "image"
	default:
		return "paragraph"
	}
}

// MarkdownNode is a typed unit ready for serialization. It is a tagged
// variant: Kind selects which of the optional fields are meaningful.
// Document order of the originating content blocks is preserved in the
// node sequence
type MarkdownNode struct {
	// Kind selects the variant
	Kind NodeKind

	// Text is the rendered text content (headings, list items, quotes,
	// paragraphs; empty for code blocks and images)
	Text string

	// PageIndex is the 0-based page the node originates from
	PageIndex int

	// Level is the heading level, 1-3 (heading nodes only)
	Level int

	// Ordered indicates a numbered list item (list-item nodes only)
	Ordered bool

	// Depth is the list nesting depth, 0 = top level (list-item nodes only)
	Depth int

	// Lines holds verbatim code lines with internal line breaks preserved
	// (code-block nodes only)
	Lines []string

	// ImagePath is the relative path to the persisted image file
	// (image nodes only)
	ImagePath string

	// ImageAlt is the alt text for the image (image nodes only)
	ImageAlt string
}
