package semantic

import (
	"sort"

	"github.com/tsawler/pdf2md/model"
)

// maxHeadingLevel caps the deepest heading emitted
const maxHeadingLevel = 3

// headingScale maps distinct large font sizes to heading levels. It is
// built once per document from the observed size distribution: the largest
// distinct size becomes level 1, the next level 2, and everything else
// level 3. The mapping is monotonic: a larger size never gets a deeper
// level than a smaller one
type headingScale struct {
	bodySize float64
	levels   map[float64]int
}

// buildHeadingScale computes the document's size-to-level lookup. Only
// candidate-heading blocks whose size clears bodySize*ratio contribute a
// distinct size; bold candidates at body size are handled by levelFor
func buildHeadingScale(blocks []model.ContentBlock, ratio float64) headingScale {
	scale := headingScale{
		bodySize: documentBodySize(blocks),
		levels:   make(map[float64]int),
	}

	distinct := make(map[float64]bool)
	for _, b := range blocks {
		if b.Kind != model.BlockCandidateHeading || b.FontSize <= 0 {
			continue
		}
		size := roundHalf(b.FontSize)
		if scale.bodySize > 0 && size >= scale.bodySize*ratio {
			distinct[size] = true
		}
	}

	sizes := make([]float64, 0, len(distinct))
	for size := range distinct {
		sizes = append(sizes, size)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))

	for i, size := range sizes {
		level := i + 1
		if level > maxHeadingLevel {
			level = maxHeadingLevel
		}
		scale.levels[size] = level
	}
	return scale
}

// levelFor returns the heading level for a candidate block. Candidates
// whose size is not in the scale (bold lines at body size) sit below every
// sized heading
func (s headingScale) levelFor(b model.ContentBlock) int {
	if level, ok := s.levels[roundHalf(b.FontSize)]; ok {
		return level
	}

	level := len(s.levels) + 1
	if level > maxHeadingLevel {
		level = maxHeadingLevel
	}
	if level < 1 {
		level = 1
	}
	return level
}

// documentBodySize estimates the document's body font size as the
// width-weighted mode over plain paragraph lines
func documentBodySize(blocks []model.ContentBlock) float64 {
	weights := make(map[float64]float64)
	for _, b := range blocks {
		if b.Kind == model.BlockParagraphLine && b.FontSize > 0 {
			weights[roundHalf(b.FontSize)] += b.BBox.Width
		}
	}

	var best, bestWeight float64
	for size, weight := range weights {
		if weight > bestWeight || (weight == bestWeight && size < best) {
			best, bestWeight = size, weight
		}
	}
	if best == 0 {
		return 12
	}
	return best
}

// roundHalf rounds a font size to the nearest half point so near-identical
// sizes from different fonts group together
func roundHalf(size float64) float64 {
	return float64(int(size*2+0.5)) / 2
}
