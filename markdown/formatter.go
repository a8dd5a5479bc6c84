package markdown

import (
	"fmt"
	"strings"

	"github.com/tsawler/pdf2md/model"
)

// Config holds configuration for the formatter
type Config struct {
	// Fence is the code fence delimiter. Default: "```"
	Fence string

	// UnorderedMarker is the bullet used for unordered list items.
	// Default: "-"
	UnorderedMarker string

	// IndentWidth is the number of spaces per list nesting level.
	// Default: 2
	IndentWidth int

	// TimeFormat renders the conversion timestamp in the metadata header.
	// Default: "2006-01-02 15:04:05"
	TimeFormat string
}

// DefaultConfig returns sensible default formatter configuration
func DefaultConfig() Config {
	return Config{
		Fence:           "```",
		UnorderedMarker: "-",
		IndentWidth:     2,
		TimeFormat:      "2006-01-02 15:04:05",
	}
}

// Formatter serializes a node sequence to Markdown text
type Formatter struct {
	config Config
}

// New creates a formatter with default configuration
func New() *Formatter {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a formatter with custom configuration
func NewWithConfig(config Config) *Formatter {
	return &Formatter{config: config}
}

// Format renders the metadata header followed by every node. Consecutive
// list items of the same list are emitted without blank lines between
// them; everything else is separated by one blank line
func (f *Formatter) Format(meta model.DocumentMetadata, nodes []model.MarkdownNode) string {
	var sb strings.Builder
	sb.WriteString(f.renderHeader(meta))

	counters := newListCounters()
	for i, n := range nodes {
		if i == 0 || !joinsPreviousListItem(nodes[i-1], n) {
			sb.WriteString("\n")
			counters.reset()
		}
		sb.WriteString(f.renderNode(n, counters))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderHeader renders the metadata block-quote followed by a horizontal
// rule. The structure is literal; only the values vary
func (f *Formatter) renderHeader(meta model.DocumentMetadata) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "> **Source:** %s\n", meta.SourceName)
	fmt.Fprintf(&sb, "> **Path:** %s\n", meta.SourcePath)
	fmt.Fprintf(&sb, "> **Author:** %s\n", meta.Author)
	fmt.Fprintf(&sb, "> **Pages:** %d\n", meta.PageCount)
	fmt.Fprintf(&sb, "> **Size:** %.1f KB\n", meta.FileSizeKB())
	fmt.Fprintf(&sb, "> **Converted:** %s\n", meta.ConvertedAt.Format(f.config.TimeFormat))
	fmt.Fprintf(&sb, "> **Images:** %d\n", meta.ImageCount)
	sb.WriteString("\n---\n")
	return sb.String()
}

// joinsPreviousListItem reports whether two adjacent nodes are items of
// the same list and must not be separated by a blank line
func joinsPreviousListItem(prev, current model.MarkdownNode) bool {
	return prev.Kind == model.NodeListItem && current.Kind == model.NodeListItem
}

// renderNode renders one node without surrounding blank lines
func (f *Formatter) renderNode(n model.MarkdownNode, counters *listCounters) string {
	switch n.Kind {
	case model.NodeHeading:
		return strings.Repeat("#", n.Level) + " " + n.Text

	case model.NodeListItem:
		indent := strings.Repeat(" ", n.Depth*f.config.IndentWidth)
		if n.Ordered {
			return fmt.Sprintf("%s%d. %s", indent, counters.next(n.Depth), n.Text)
		}
		counters.touch(n.Depth)
		return indent + f.config.UnorderedMarker + " " + n.Text

	case model.NodeCodeBlock:
		return f.config.Fence + "\n" + strings.Join(n.Lines, "\n") + "\n" + f.config.Fence

	case model.NodeQuote:
		lines := strings.Split(n.Text, "\n")
		for i, line := range lines {
			lines[i] = "> " + line
		}
		return strings.Join(lines, "\n")

	case model.NodeImage:
		return fmt.Sprintf("![%s](%s)", n.ImageAlt, EncodePath(n.ImagePath))

	default:
		return n.Text
	}
}

// listCounters numbers ordered items per nesting depth; entering a
// shallower depth discards the deeper counters
type listCounters struct {
	byDepth []int
}

func newListCounters() *listCounters {
	return &listCounters{}
}

func (c *listCounters) reset() {
	c.byDepth = c.byDepth[:0]
}

// touch trims counters deeper than the current depth so a later ordered
// sibling restarts correctly
func (c *listCounters) touch(depth int) {
	for len(c.byDepth) <= depth {
		c.byDepth = append(c.byDepth, 0)
	}
	c.byDepth = c.byDepth[:depth+1]
}

func (c *listCounters) next(depth int) int {
	c.touch(depth)
	c.byDepth[depth]++
	return c.byDepth[depth]
}

// EncodePath percent-encodes a relative image path, leaving slashes as
// segment separators. Everything outside the RFC 3986 unreserved set is
// escaped, including parentheses, which would otherwise terminate the
// Markdown link early. Decoding with net/url's PathUnescape recovers the
// original path exactly
func EncodePath(path string) string {
	var sb strings.Builder
	for i := 0; i < len(path); i++ {
		c := path[i]
		if c == '/' || isUnreserved(c) {
			sb.WriteByte(c)
		} else {
			fmt.Fprintf(&sb, "%%%02X", c)
		}
	}
	return sb.String()
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	}
	return false
}
