package layout

import (
	"sort"

	"github.com/tsawler/pdf2md/model"
)

// Column represents a detected text column on a page
type Column struct {
	// BBox is the bounding box of the column's content
	BBox model.BBox

	// Fragments contained in this column
	Fragments []model.Fragment

	// Index of the column (0-based, left to right)
	Index int
}

// ColumnLayout represents the detected column structure of a page.
// Fragments that cross a column gap (titles, full-width figures) are kept
// apart as spanning fragments; they belong to no column
type ColumnLayout struct {
	// Columns detected on the page, sorted left to right
	Columns []Column

	// Spanning holds fragments that cross a column boundary
	Spanning []model.Fragment

	// Page dimensions
	PageWidth  float64
	PageHeight float64
}

// ColumnConfig holds configuration for column detection
type ColumnConfig struct {
	// MinColumnWidth is the minimum width for a region to count as a column.
	// Default: 50 points
	MinColumnWidth float64

	// MinGapWidth is the minimum whitespace gap width to count as a column
	// separator. Default: 18 points
	MinGapWidth float64

	// MinGapHeightRatio is the minimum fraction of the text's vertical
	// extent a gap must be clear over. A real gutter is nearly fully clear;
	// only spanning titles and figures cross it. Default: 0.8
	MinGapHeightRatio float64

	// MaxColumns is the maximum number of columns to detect. Default: 4
	MaxColumns int
}

// DefaultColumnConfig returns sensible default configuration
func DefaultColumnConfig() ColumnConfig {
	return ColumnConfig{
		MinColumnWidth:    50.0,
		MinGapWidth:       18.0,
		MinGapHeightRatio: 0.8,
		MaxColumns:        4,
	}
}

// ColumnDetector detects multi-column page layouts from whitespace gaps.
// When the evidence is ambiguous it prefers fewer columns: a page with no
// sufficiently tall gap degrades to a single column rather than guessing
type ColumnDetector struct {
	config ColumnConfig
}

// NewColumnDetector creates a column detector with default configuration
func NewColumnDetector() *ColumnDetector {
	return &ColumnDetector{config: DefaultColumnConfig()}
}

// NewColumnDetectorWithConfig creates a column detector with custom
// configuration
func NewColumnDetectorWithConfig(config ColumnConfig) *ColumnDetector {
	return &ColumnDetector{config: config}
}

// Detect analyzes text fragments and returns the page's column layout
func (d *ColumnDetector) Detect(fragments []model.Fragment, pageWidth, pageHeight float64) *ColumnLayout {
	layout := &ColumnLayout{
		PageWidth:  pageWidth,
		PageHeight: pageHeight,
	}
	if len(fragments) == 0 {
		return layout
	}

	gaps := d.findVerticalGaps(fragments)
	if len(gaps) == 0 {
		layout.Columns = []Column{{
			BBox:      model.FragmentsBBox(fragments),
			Fragments: fragments,
			Index:     0,
		}}
		return layout
	}

	// Fragments crossing a gap center span the whole layout
	var columnFrags []model.Fragment
	for _, f := range fragments {
		if crossesGap(f, gaps) {
			layout.Spanning = append(layout.Spanning, f)
		} else {
			columnFrags = append(columnFrags, f)
		}
	}

	columns := d.assignColumns(columnFrags, gaps)
	columns = d.validateColumns(columns)

	// A degenerate split collapses back to a single column
	if len(columns) <= 1 {
		layout.Columns = []Column{{
			BBox:      model.FragmentsBBox(fragments),
			Fragments: fragments,
			Index:     0,
		}}
		layout.Spanning = nil
		return layout
	}

	layout.Columns = columns
	return layout
}

// IsMultiColumn reports whether more than one column was detected
func (l *ColumnLayout) IsMultiColumn() bool {
	return l != nil && len(l.Columns) > 1
}

// gap is a vertical whitespace corridor between covered X ranges
type gap struct {
	left, right float64
}

func (g gap) center() float64 {
	return (g.left + g.right) / 2
}

// findVerticalGaps finds whitespace corridors wide enough and tall enough
// to separate columns. Candidate corridors come from the X breakpoints of
// fragment edges, so a title straddling the gutter does not hide it; the
// corridor just needs to be clear over most of the text's vertical extent
func (d *ColumnDetector) findVerticalGaps(fragments []model.Fragment) []gap {
	xs := make([]float64, 0, len(fragments)*2)
	textTop, textBottom := fragments[0].BBox.Top(), fragments[0].BBox.Bottom()
	for _, f := range fragments {
		xs = append(xs, f.BBox.Left(), f.BBox.Right())
		if f.BBox.Top() > textTop {
			textTop = f.BBox.Top()
		}
		if f.BBox.Bottom() < textBottom {
			textBottom = f.BBox.Bottom()
		}
	}
	sort.Float64s(xs)

	textExtent := textTop - textBottom
	if textExtent <= 0 {
		return nil
	}

	// Walk adjacent breakpoint intervals, merging consecutive clear ones
	var gaps []gap
	open := false
	for i := 0; i < len(xs)-1; i++ {
		g := gap{left: xs[i], right: xs[i+1]}
		if g.right-g.left <= 0 {
			continue
		}
		isClear := d.gapVerticalExtent(fragments, g, textExtent) >= d.config.MinGapHeightRatio
		if !isClear {
			open = false
			continue
		}
		if open && gaps[len(gaps)-1].right == g.left {
			gaps[len(gaps)-1].right = g.right
		} else {
			gaps = append(gaps, g)
			open = true
		}
	}

	wide := gaps[:0]
	for _, g := range gaps {
		if g.right-g.left >= d.config.MinGapWidth {
			wide = append(wide, g)
		}
	}

	// Prefer fewer columns: keep only the widest gutters
	if len(wide) >= d.config.MaxColumns {
		sort.Slice(wide, func(i, j int) bool {
			return wide[i].right-wide[i].left > wide[j].right-wide[j].left
		})
		wide = wide[:d.config.MaxColumns-1]
		sort.Slice(wide, func(i, j int) bool {
			return wide[i].left < wide[j].left
		})
	}
	return wide
}

// gapVerticalExtent measures the fraction of the text's vertical extent
// over which the corridor is free of crossing fragments. Titles and
// figures that straddle the corridor reduce the extent but do not
// disqualify a tall enough gap
func (d *ColumnDetector) gapVerticalExtent(fragments []model.Fragment, g gap, textExtent float64) float64 {
	type yRange struct{ bottom, top float64 }
	var crossing []yRange
	for _, f := range fragments {
		if f.BBox.Right() > g.left && f.BBox.Left() < g.right {
			crossing = append(crossing, yRange{bottom: f.BBox.Bottom(), top: f.BBox.Top()})
		}
	}
	if len(crossing) == 0 {
		return 1.0
	}

	sort.Slice(crossing, func(i, j int) bool {
		return crossing[i].bottom < crossing[j].bottom
	})

	merged := []yRange{crossing[0]}
	for _, current := range crossing[1:] {
		last := &merged[len(merged)-1]
		if current.bottom <= last.top {
			if current.top > last.top {
				last.top = current.top
			}
		} else {
			merged = append(merged, current)
		}
	}

	blocked := 0.0
	for _, r := range merged {
		blocked += r.top - r.bottom
	}
	return (textExtent - blocked) / textExtent
}

// crossesGap reports whether a fragment straddles any gap center
func crossesGap(f model.Fragment, gaps []gap) bool {
	for _, g := range gaps {
		if f.BBox.Left() < g.center() && f.BBox.Right() > g.center() {
			return true
		}
	}
	return false
}

// assignColumns buckets fragments into the regions between gap centers
func (d *ColumnDetector) assignColumns(fragments []model.Fragment, gaps []gap) []Column {
	sort.Slice(gaps, func(i, j int) bool {
		return gaps[i].left < gaps[j].left
	})

	// Region boundaries: -inf, gap centers, +inf
	boundaries := make([]float64, 0, len(gaps))
	for _, g := range gaps {
		boundaries = append(boundaries, g.center())
	}

	columns := make([]Column, len(boundaries)+1)
	for i := range columns {
		columns[i].Index = i
	}

	for _, f := range fragments {
		center := f.BBox.Center().X
		idx := sort.SearchFloat64s(boundaries, center)
		columns[idx].Fragments = append(columns[idx].Fragments, f)
	}

	for i := range columns {
		if len(columns[i].Fragments) > 0 {
			columns[i].BBox = model.FragmentsBBox(columns[i].Fragments)
		}
	}
	return columns
}

// validateColumns drops empty or implausibly narrow columns and re-indexes
// the remainder
func (d *ColumnDetector) validateColumns(columns []Column) []Column {
	var valid []Column
	for _, col := range columns {
		if len(col.Fragments) == 0 {
			continue
		}
		if col.BBox.Width < d.config.MinColumnWidth {
			continue
		}
		valid = append(valid, col)
	}
	for i := range valid {
		valid[i].Index = i
	}
	return valid
}
