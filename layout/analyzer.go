package layout

import (
	"sort"

	"github.com/tsawler/pdf2md/model"
)

// Config holds configuration for the layout analyzer
type Config struct {
	// Columns configures column detection
	Columns ColumnConfig

	// Noise configures header/footer noise detection
	Noise NoiseConfig

	// HeadingSizeRatio is how much larger than the page's body font size a
	// line must be to be marked as a candidate heading. Default: 1.15
	HeadingSizeRatio float64
}

// DefaultConfig returns sensible default analyzer configuration
func DefaultConfig() Config {
	return Config{
		Columns:          DefaultColumnConfig(),
		Noise:            DefaultNoiseConfig(),
		HeadingSizeRatio: 1.15,
	}
}

// Analyzer turns page fragment sets into denoised, reading-ordered content
// blocks. All pages must be added before Analyze is called, because noise
// detection needs to see the whole document first
type Analyzer struct {
	config  Config
	columns *ColumnDetector
	noise   *NoiseDetector
	pages   []model.PageFragmentSet
}

// New creates an analyzer with default configuration
func New() *Analyzer {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates an analyzer with custom configuration
func NewWithConfig(config Config) *Analyzer {
	return &Analyzer{
		config:  config,
		columns: NewColumnDetectorWithConfig(config.Columns),
		noise:   NewNoiseDetectorWithConfig(config.Noise),
	}
}

// AddPage records one page for analysis
func (a *Analyzer) AddPage(set model.PageFragmentSet) {
	a.noise.Observe(set)
	a.pages = append(a.pages, set)
}

// Analyze produces the document's content blocks in reading order: noise
// lines removed, columns resolved, ranks assigned per page, candidate
// headings marked, and image references appended after each page's text
func (a *Analyzer) Analyze() []model.ContentBlock {
	sort.SliceStable(a.pages, func(i, j int) bool {
		return a.pages[i].PageIndex < a.pages[j].PageIndex
	})

	var blocks []model.ContentBlock
	for _, page := range a.pages {
		blocks = append(blocks, a.analyzePage(page)...)
	}
	return blocks
}

// analyzePage runs the per-page pipeline: denoise, detect columns, order,
// mark candidate headings, append images
func (a *Analyzer) analyzePage(page model.PageFragmentSet) []model.ContentBlock {
	var kept []model.Fragment
	for _, ln := range groupLines(page.TextFragments()) {
		if a.noise.IsNoise(ln, page.PageHeight) {
			continue
		}
		kept = append(kept, ln.fragments...)
	}

	layout := a.columns.Detect(kept, page.PageWidth, page.PageHeight)
	blocks := orderPage(layout, page.PageIndex)

	if !page.FromOCR {
		a.markCandidateHeadings(blocks)
	}

	for _, img := range page.ImageFragments() {
		blocks = append(blocks, model.ContentBlock{
			Kind:      model.BlockImageRef,
			Fragments: []model.Fragment{img},
			BBox:      img.BBox,
			PageIndex: page.PageIndex,
			Column:    -1,
			Rank:      len(blocks),
		})
	}
	return blocks
}

// markCandidateHeadings flags lines whose typography stands out from the
// page's body text. Final heading levels are decided downstream with
// document-wide font statistics
func (a *Analyzer) markCandidateHeadings(blocks []model.ContentBlock) {
	body := bodyFontSize(blocks)
	if body <= 0 {
		return
	}

	for i := range blocks {
		if blocks[i].Kind != model.BlockParagraphLine || blocks[i].Monospace {
			continue
		}
		larger := blocks[i].FontSize >= body*a.config.HeadingSizeRatio
		boldAtBody := blocks[i].Bold && blocks[i].FontSize >= body
		if larger || boldAtBody {
			blocks[i].Kind = model.BlockCandidateHeading
		}
	}
}

// bodyFontSize estimates the dominant body font size of a page as the
// width-weighted mode of block font sizes
func bodyFontSize(blocks []model.ContentBlock) float64 {
	weights := make(map[float64]float64)
	for _, b := range blocks {
		if b.FontSize > 0 {
			weights[roundHalf(b.FontSize)] += b.BBox.Width
		}
	}

	var best float64
	var bestWeight float64
	for size, weight := range weights {
		if weight > bestWeight || (weight == bestWeight && size < best) {
			best, bestWeight = size, weight
		}
	}
	return best
}

// roundHalf rounds a font size to the nearest half point so near-identical
// sizes from different fonts group together
func roundHalf(size float64) float64 {
	return float64(int(size*2+0.5)) / 2
}
