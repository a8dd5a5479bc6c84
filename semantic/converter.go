package semantic

import (
	"fmt"
	"strings"

	"github.com/tsawler/pdf2md/model"
)

// Config holds configuration for the semantic converter
type Config struct {
	// HeadingSizeRatio is how much larger than body text a distinct font
	// size must be to claim a heading level. This is a tunable heuristic;
	// validate against representative documents. Default: 1.2
	HeadingSizeRatio float64

	// ListIndentTolerance is the indent slack, in points, within which two
	// list items count as the same nesting level. Default: 6
	ListIndentTolerance float64

	// QuoteIndent is how far, in points, a block must be indented beyond
	// the body indent to be read as a quote. Default: 24
	QuoteIndent float64

	// ParagraphGapRatio closes a paragraph when the vertical gap to the
	// next line exceeds this multiple of the font size. Default: 0.8
	ParagraphGapRatio float64
}

// DefaultConfig returns sensible default converter configuration
func DefaultConfig() Config {
	return Config{
		HeadingSizeRatio:    1.2,
		ListIndentTolerance: 6.0,
		QuoteIndent:         24.0,
		ParagraphGapRatio:   0.8,
	}
}

// Converter classifies content blocks into Markdown nodes
type Converter struct {
	config Config
}

// New creates a converter with default configuration
func New() *Converter {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a converter with custom configuration
func NewWithConfig(config Config) *Converter {
	return &Converter{config: config}
}

// Convert classifies the document's blocks in order. Priority per block:
// code run, heading, quote, list item, image, paragraph. Document order is
// preserved; classification never fails
func (c *Converter) Convert(blocks []model.ContentBlock) []model.MarkdownNode {
	scale := buildHeadingScale(blocks, c.config.HeadingSizeRatio)
	bases := columnBodyIndents(blocks)

	// Indents only mean anything relative to the column a line sits in;
	// comparing absolute offsets would read a whole right column as quoted
	rel := func(b model.ContentBlock) float64 {
		return b.Indent() - bases[pageColumn{b.PageIndex, b.Column}]
	}

	var nodes []model.MarkdownNode
	var para *paragraphRun
	var list *listState

	flushPara := func() {
		if para != nil {
			nodes = append(nodes, para.node())
			para = nil
		}
	}
	closeList := func() {
		list = nil
	}

	for i := 0; i < len(blocks); {
		b := blocks[i]

		switch {
		case isCodeLine(b):
			flushPara()
			closeList()
			end := codeRunEnd(blocks, i)
			nodes = append(nodes, model.MarkdownNode{
				Kind:      model.NodeCodeBlock,
				PageIndex: b.PageIndex,
				Lines:     codeLines(blocks[i:end]),
			})
			i = end

		case b.Kind == model.BlockCandidateHeading:
			flushPara()
			closeList()
			nodes = append(nodes, model.MarkdownNode{
				Kind:      model.NodeHeading,
				Text:      lineText(b),
				PageIndex: b.PageIndex,
				Level:     scale.levelFor(b),
			})
			i++

		case list != nil && c.continuesListItem(b, list, rel(b)):
			// A wrapped line of the previous item, not a new block
			nodes[len(nodes)-1].Text += " " + lineText(b)
			i++

		case list == nil && c.isQuote(b, rel(b)):
			flushPara()
			end, text := c.quoteRun(blocks, i, rel)
			nodes = append(nodes, model.MarkdownNode{
				Kind:      model.NodeQuote,
				Text:      text,
				PageIndex: b.PageIndex,
			})
			i = end

		case c.isListItem(b):
			flushPara()
			if list == nil {
				list = newListState(c.config.ListIndentTolerance)
			}
			rest, ordered, _ := listMarker(lineText(b))
			nodes = append(nodes, model.MarkdownNode{
				Kind:      model.NodeListItem,
				Text:      rest,
				PageIndex: b.PageIndex,
				Ordered:   ordered,
				Depth:     list.depthFor(rel(b)),
			})
			i++

		case b.Kind == model.BlockImageRef:
			flushPara()
			closeList()
			f := b.Fragments[0]
			nodes = append(nodes, model.MarkdownNode{
				Kind:      model.NodeImage,
				PageIndex: b.PageIndex,
				ImagePath: f.ImageRef,
				ImageAlt:  fmt.Sprintf("Image %d on page %d", f.ImageIndex, b.PageIndex+1),
			})
			i++

		default:
			closeList()
			if para != nil && !para.accepts(b, c.config.ParagraphGapRatio) {
				flushPara()
			}
			if para == nil {
				para = &paragraphRun{page: b.PageIndex, column: b.Column}
			}
			para.add(b)
			i++
		}
	}

	flushPara()
	return nodes
}

// isListItem reports whether a block opens or continues a list
func (c *Converter) isListItem(b model.ContentBlock) bool {
	if b.Kind != model.BlockParagraphLine {
		return false
	}
	_, _, ok := listMarker(b.Text)
	return ok
}

// continuesListItem reports whether a plain block is the wrapped
// continuation of the list item before it. relIndent is the block's
// indent relative to its own column's body indent
func (c *Converter) continuesListItem(b model.ContentBlock, list *listState, relIndent float64) bool {
	if b.Kind != model.BlockParagraphLine || b.Monospace {
		return false
	}
	if _, _, ok := listMarker(b.Text); ok {
		return false
	}
	top := list.indents[len(list.indents)-1]
	return relIndent > top+1.0
}

// isQuote reports whether a block reads as quoted material: it starts with
// a quote marker, or sits deeper than its column's body indent
func (c *Converter) isQuote(b model.ContentBlock, relIndent float64) bool {
	if b.Kind != model.BlockParagraphLine || b.Monospace {
		return false
	}
	if strings.HasPrefix(strings.TrimSpace(b.Text), ">") {
		return true
	}
	if _, _, ok := listMarker(b.Text); ok {
		return false
	}
	return relIndent >= c.config.QuoteIndent
}

// quoteRun consumes consecutive quote lines on the same page into one
// quote node, one rendered line per source line
func (c *Converter) quoteRun(blocks []model.ContentBlock, i int, rel func(model.ContentBlock) float64) (end int, text string) {
	var lines []string
	j := i
	for j < len(blocks) &&
		blocks[j].PageIndex == blocks[i].PageIndex &&
		c.isQuote(blocks[j], rel(blocks[j])) {
		line := lineText(blocks[j])
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), ">"))
		lines = append(lines, line)
		j++
	}
	return j, strings.Join(lines, "\n")
}

// paragraphRun accumulates contiguous plain lines into one paragraph
type paragraphRun struct {
	texts  []string
	page   int
	column int
	last   model.ContentBlock
}

// accepts reports whether the block continues this paragraph: same page
// and column, and no vertical gap wider than the configured multiple of
// the line's font size
func (p *paragraphRun) accepts(b model.ContentBlock, gapRatio float64) bool {
	if b.PageIndex != p.page || b.Column != p.column {
		return false
	}
	size := b.FontSize
	if size <= 0 {
		size = p.last.BBox.Height
	}
	if size <= 0 {
		return true
	}
	gap := p.last.BBox.Bottom() - b.BBox.Top()
	return gap <= size*gapRatio
}

func (p *paragraphRun) add(b model.ContentBlock) {
	p.texts = append(p.texts, lineText(b))
	p.last = b
}

func (p *paragraphRun) node() model.MarkdownNode {
	return model.MarkdownNode{
		Kind:      model.NodeParagraph,
		Text:      strings.Join(p.texts, " "),
		PageIndex: p.page,
	}
}

// pageColumn keys indent statistics to one column of one page
type pageColumn struct {
	page, column int
}

// columnBodyIndents estimates the dominant left indent of body lines in
// each column of each page, as the width-weighted mode rounded to the point
func columnBodyIndents(blocks []model.ContentBlock) map[pageColumn]float64 {
	weights := make(map[pageColumn]map[float64]float64)
	for _, b := range blocks {
		if b.Kind != model.BlockParagraphLine {
			continue
		}
		key := pageColumn{b.PageIndex, b.Column}
		if weights[key] == nil {
			weights[key] = make(map[float64]float64)
		}
		weights[key][float64(int(b.Indent()+0.5))] += b.BBox.Width
	}

	bases := make(map[pageColumn]float64, len(weights))
	for key, byIndent := range weights {
		var best, bestWeight float64
		for indent, weight := range byIndent {
			if weight > bestWeight || (weight == bestWeight && indent < best) {
				best, bestWeight = indent, weight
			}
		}
		bases[key] = best
	}
	return bases
}

// lineText renders one line's fragments, inserting spaces at significant
// gaps and wrapping superscript/subscript fragments with ^ and ~
func lineText(b model.ContentBlock) string {
	if len(b.Fragments) == 0 {
		return b.Text
	}

	baseline := b.BBox.Bottom()
	for _, f := range b.Fragments {
		if f.FontSize >= b.FontSize-0.1 {
			baseline = f.BBox.Bottom()
			break
		}
	}

	var sb strings.Builder
	for i, f := range b.Fragments {
		if i > 0 {
			prev := b.Fragments[i-1]
			if f.BBox.X-prev.BBox.Right() > f.BBox.Height*0.1 {
				sb.WriteString(" ")
			}
		}
		sb.WriteString(decorateScript(f, b.FontSize, baseline))
	}
	return sb.String()
}

// decorateScript wraps fragments rendered well below body size as
// superscript (^x^) or subscript (~x~) based on their baseline shift
func decorateScript(f model.Fragment, bodySize, baseline float64) string {
	if f.FontSize <= 0 || bodySize <= 0 || f.FontSize > bodySize*0.8 {
		return f.Text
	}
	switch {
	case f.BBox.Bottom() > baseline+bodySize*0.2:
		return "^" + f.Text + "^"
	case f.BBox.Bottom() < baseline-bodySize*0.1:
		return "~" + f.Text + "~"
	}
	return f.Text
}
