package semantic

import (
	"strings"

	"github.com/tsawler/pdf2md/model"
)

// isCodeLine reports whether a block belongs to a code run
func isCodeLine(b model.ContentBlock) bool {
	return b.Kind == model.BlockParagraphLine && b.Monospace
}

// codeRunEnd returns the index one past the maximal run of consecutive
// monospace lines starting at i. The run does not cross pages or columns
func codeRunEnd(blocks []model.ContentBlock, i int) int {
	j := i + 1
	for j < len(blocks) &&
		isCodeLine(blocks[j]) &&
		blocks[j].PageIndex == blocks[i].PageIndex &&
		blocks[j].Column == blocks[i].Column {
		j++
	}
	return j
}

// codeLines renders a monospace run verbatim: one string per line, with
// leading indentation reconstructed from each line's X offset relative to
// the leftmost line of the run. No re-wrapping
func codeLines(run []model.ContentBlock) []string {
	left := run[0].BBox.Left()
	for _, b := range run[1:] {
		if b.BBox.Left() < left {
			left = b.BBox.Left()
		}
	}

	lines := make([]string, 0, len(run))
	for _, b := range run {
		lines = append(lines, codeIndent(b, left)+b.Text)
	}
	return lines
}

// codeIndent converts a line's X offset into leading spaces, assuming the
// usual 0.6em advance width of monospace fonts
func codeIndent(b model.ContentBlock, left float64) string {
	if b.FontSize <= 0 {
		return ""
	}

	advance := b.FontSize * 0.6
	spaces := int((b.BBox.Left()-left)/advance + 0.5)
	if spaces <= 0 {
		return ""
	}
	return strings.Repeat(" ", spaces)
}
