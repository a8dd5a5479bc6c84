package layout

import (
	"sort"

	"github.com/tsawler/pdf2md/model"
)

// line is a group of fragments sharing a baseline band, left to right
type line struct {
	fragments []model.Fragment
	bbox      model.BBox
}

// groupLines groups fragments into baseline lines, top to bottom. Fragments
// within half a line height of each other share a line
func groupLines(fragments []model.Fragment) []line {
	if len(fragments) == 0 {
		return nil
	}

	sorted := make([]model.Fragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].BBox.Top() != sorted[j].BBox.Top() {
			return sorted[i].BBox.Top() > sorted[j].BBox.Top()
		}
		return sorted[i].BBox.Left() < sorted[j].BBox.Left()
	})

	var lines []line
	for _, f := range sorted {
		if len(lines) > 0 {
			last := &lines[len(lines)-1]
			tolerance := last.bbox.Height * 0.5
			if tolerance < 2.0 {
				tolerance = 2.0
			}
			if last.bbox.Top()-f.BBox.Top() <= tolerance {
				last.fragments = append(last.fragments, f)
				last.bbox = last.bbox.Union(f.BBox)
				continue
			}
		}
		lines = append(lines, line{
			fragments: []model.Fragment{f},
			bbox:      f.BBox,
		})
	}

	for i := range lines {
		sort.SliceStable(lines[i].fragments, func(a, b int) bool {
			return lines[i].fragments[a].BBox.Left() < lines[i].fragments[b].BBox.Left()
		})
	}
	return lines
}

// toBlock converts a line to a content block with width-weighted dominant
// style flags
func (l line) toBlock(pageIndex, column int) model.ContentBlock {
	var totalWidth, boldWidth, monoWidth float64
	var sizeOf float64
	var widest float64

	for _, f := range l.fragments {
		w := f.BBox.Width
		totalWidth += w
		if f.Bold {
			boldWidth += w
		}
		if f.Monospace {
			monoWidth += w
		}
		if w >= widest {
			widest = w
			sizeOf = f.FontSize
		}
	}

	return model.ContentBlock{
		Kind:      model.BlockParagraphLine,
		Text:      model.AssembleText(l.fragments),
		Fragments: l.fragments,
		BBox:      l.bbox,
		PageIndex: pageIndex,
		Column:    column,
		FontSize:  sizeOf,
		Bold:      totalWidth > 0 && boldWidth > totalWidth/2,
		Monospace: totalWidth > 0 && monoWidth > totalWidth/2,
	}
}

// orderPage flattens a page's column layout into reading order.
//
// Single-column pages read top to bottom. Multi-column pages are split into
// vertical bands at each spanning line: a spanning line is emitted as its
// own row, then the band below it reads column by column, left to right,
// each column top to bottom
func orderPage(layout *ColumnLayout, pageIndex int) []model.ContentBlock {
	if layout == nil || len(layout.Columns) == 0 {
		return nil
	}

	var blocks []model.ContentBlock

	if !layout.IsMultiColumn() && len(layout.Spanning) == 0 {
		for _, ln := range groupLines(layout.Columns[0].Fragments) {
			blocks = append(blocks, ln.toBlock(pageIndex, 0))
		}
		return rank(blocks)
	}

	spanningLines := groupLines(layout.Spanning)

	columnLines := make([][]line, len(layout.Columns))
	for i, col := range layout.Columns {
		columnLines[i] = groupLines(col.Fragments)
	}

	// Band k holds the column content between spanning line k-1 and
	// spanning line k (band 0 is everything above the first spanning line).
	// A column line overlapping a spanning line's vertical extent belongs
	// below it; the spanning row reads first at that position
	bandOf := func(top float64) int {
		for k, sp := range spanningLines {
			if top > sp.bbox.Top() {
				return k
			}
		}
		return len(spanningLines)
	}

	for band := 0; band <= len(spanningLines); band++ {
		if band > 0 {
			sp := spanningLines[band-1]
			b := sp.toBlock(pageIndex, -1)
			blocks = append(blocks, b)
		}
		for col := range columnLines {
			for _, ln := range columnLines[col] {
				if bandOf(ln.bbox.Top()) == band {
					blocks = append(blocks, ln.toBlock(pageIndex, col))
				}
			}
		}
	}

	return rank(blocks)
}

// rank assigns sequential reading-order ranks
func rank(blocks []model.ContentBlock) []model.ContentBlock {
	for i := range blocks {
		blocks[i].Rank = i
	}
	return blocks
}
