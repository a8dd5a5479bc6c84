package layout

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/pdf2md/model"
)

// Bucket identifies the vertical region of a page a line sits in. Patterns
// are counted per bucket so a phrase repeated in footers does not suppress
// the same phrase in body text
type Bucket int

const (
	// BucketTop is the top margin region (headers)
	BucketTop Bucket = iota

	// BucketBottom is the bottom margin region (footers, page numbers)
	BucketBottom

	// BucketBody is everything between the margins
	BucketBody
)

// String returns a string representation of the bucket
func (b Bucket) String() string {
	switch b {
	case BucketTop:
		return "top"
	case BucketBottom:
		return "bottom"
	default:
		return "body"
	}
}

// NoiseConfig holds configuration for header/footer noise detection
type NoiseConfig struct {
	// MarginRatio is the fraction of page height counted as top or bottom
	// margin. Default: 0.1
	MarginRatio float64

	// MinPageRatio is the fraction of observed pages a pattern must repeat
	// on to count as noise. Default: 0.6
	MinPageRatio float64

	// MinPages is the minimum document length, in pages, before repetition
	// analysis applies; shorter documents keep everything. Default: 3
	MinPages int

	// MaxPatternLength caps the normalized length of a body-bucket noise
	// pattern, so repeated genuine sentences are never removed. Margin
	// buckets are not length-limited. Default: 80
	MaxPatternLength int
}

// DefaultNoiseConfig returns sensible default configuration
func DefaultNoiseConfig() NoiseConfig {
	return NoiseConfig{
		MarginRatio:      0.1,
		MinPageRatio:     0.6,
		MinPages:         3,
		MaxPatternLength: 80,
	}
}

// pageNumberPattern matches margin lines that are page markers regardless
// of repetition: "4", "- 4 -", "4 / 12", "page 4", "page 4 of 12".
// Digits are already collapsed to '#' by normalization
var pageNumberPattern = regexp.MustCompile(`^(-\s*)?(page\s+)?#+(\s*(of|/)\s*#+)?(\s*-)?$`)

// patternKey identifies a repeated line: its normalized text plus the
// page region it appears in
type patternKey struct {
	text   string
	bucket Bucket
}

// NoiseDetector finds lines that repeat across pages in the same page
// region (running headers, footers, page numbers, watermarks). Detection
// is two-pass: observe every page first, then ask per line.
//
// Detection is idempotent: running it again over already-denoised pages
// finds nothing new to remove
type NoiseDetector struct {
	config NoiseConfig

	seenOn    map[patternKey]map[int]bool
	pagesSeen map[int]bool
	noiseKeys map[patternKey]bool
	finalized bool
}

// NewNoiseDetector creates a noise detector with default configuration
func NewNoiseDetector() *NoiseDetector {
	return NewNoiseDetectorWithConfig(DefaultNoiseConfig())
}

// NewNoiseDetectorWithConfig creates a noise detector with custom
// configuration
func NewNoiseDetectorWithConfig(config NoiseConfig) *NoiseDetector {
	return &NoiseDetector{
		config:    config,
		seenOn:    make(map[patternKey]map[int]bool),
		pagesSeen: make(map[int]bool),
	}
}

// Observe records one page's lines for repetition analysis (pass one)
func (d *NoiseDetector) Observe(set model.PageFragmentSet) {
	d.finalized = false
	d.pagesSeen[set.PageIndex] = true

	for _, ln := range groupLines(set.TextFragments()) {
		key := d.keyFor(ln, set.PageHeight)
		if key.text == "" {
			continue
		}
		if d.seenOn[key] == nil {
			d.seenOn[key] = make(map[int]bool)
		}
		d.seenOn[key][set.PageIndex] = true
	}
}

// IsNoise reports whether a line should be dropped (pass two). It must not
// be called before every page has been observed
func (d *NoiseDetector) IsNoise(ln line, pageHeight float64) bool {
	if !d.finalized {
		d.finalize()
	}

	key := d.keyFor(ln, pageHeight)
	if key.text == "" {
		return false
	}
	return d.noiseKeys[key]
}

// finalize computes the noise pattern set from observations
func (d *NoiseDetector) finalize() {
	d.noiseKeys = make(map[patternKey]bool)
	d.finalized = true

	totalPages := len(d.pagesSeen)
	if totalPages < d.config.MinPages {
		return
	}

	threshold := float64(totalPages) * d.config.MinPageRatio
	for key, pages := range d.seenOn {
		if key.bucket == BucketBody && len(key.text) > d.config.MaxPatternLength {
			continue
		}
		if float64(len(pages)) >= threshold {
			d.noiseKeys[key] = true
			continue
		}
		// Page markers in the margins are noise regardless of how many
		// pages they repeat on
		if key.bucket != BucketBody && pageNumberPattern.MatchString(key.text) {
			d.noiseKeys[key] = true
		}
	}
}

// keyFor builds the pattern key for a line
func (d *NoiseDetector) keyFor(ln line, pageHeight float64) patternKey {
	return patternKey{
		text:   NormalizeNoise(model.AssembleText(ln.fragments)),
		bucket: d.bucketFor(ln.bbox, pageHeight),
	}
}

// bucketFor assigns a line to the top margin, bottom margin or body region
func (d *NoiseDetector) bucketFor(bbox model.BBox, pageHeight float64) Bucket {
	margin := pageHeight * d.config.MarginRatio
	switch {
	case bbox.Bottom() >= pageHeight-margin:
		return BucketTop
	case bbox.Top() <= margin:
		return BucketBottom
	default:
		return BucketBody
	}
}

// NormalizeNoise canonicalizes a line for repetition matching: Unicode
// compatibility normalization, case folding, whitespace collapsing, and
// digit runs replaced by '#' so "Page 3" and "Page 17" share a pattern
func NormalizeNoise(text string) string {
	text = norm.NFKC.String(text)
	text = strings.ToLower(text)

	var sb strings.Builder
	lastSpace := false
	lastHash := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			if !lastSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			lastSpace, lastHash = true, false
		case unicode.IsDigit(r):
			if !lastHash {
				sb.WriteByte('#')
			}
			lastSpace, lastHash = false, true
		default:
			sb.WriteRune(r)
			lastSpace, lastHash = false, false
		}
	}
	return strings.TrimSpace(sb.String())
}
