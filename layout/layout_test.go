package layout

import (
	"fmt"
	"strings"
	"testing"

	"github.com/tsawler/pdf2md/model"
)

const (
	pageWidth  = 612.0
	pageHeight = 792.0
)

// frag builds a text fragment for tests
func frag(text string, x, y, width, size float64) model.Fragment {
	return model.Fragment{
		Kind:     model.FragmentText,
		Text:     text,
		BBox:     model.NewBBox(x, y, width, size),
		FontName: "Helvetica",
		FontSize: size,
	}
}

func page(index int, fragments ...model.Fragment) model.PageFragmentSet {
	for i := range fragments {
		fragments[i].PageIndex = index
	}
	return model.PageFragmentSet{
		PageIndex:  index,
		PageWidth:  pageWidth,
		PageHeight: pageHeight,
		Fragments:  fragments,
	}
}

func blockTexts(blocks []model.ContentBlock) []string {
	var texts []string
	for _, b := range blocks {
		if b.Kind != model.BlockImageRef {
			texts = append(texts, b.Text)
		}
	}
	return texts
}

func TestColumnDetectorSingleColumn(t *testing.T) {
	fragments := []model.Fragment{
		frag("first line", 72, 700, 400, 12),
		frag("second line", 72, 680, 400, 12),
	}

	layout := NewColumnDetector().Detect(fragments, pageWidth, pageHeight)
	if layout.IsMultiColumn() {
		t.Fatalf("expected single column, got %d", len(layout.Columns))
	}
	if len(layout.Columns[0].Fragments) != 2 {
		t.Errorf("expected 2 fragments in column, got %d", len(layout.Columns[0].Fragments))
	}
}

func TestColumnDetectorTwoColumns(t *testing.T) {
	var fragments []model.Fragment
	for y := 700.0; y > 100; y -= 20 {
		fragments = append(fragments,
			frag("left", 50, y, 230, 12),
			frag("right", 330, y, 230, 12),
		)
	}

	layout := NewColumnDetector().Detect(fragments, pageWidth, pageHeight)
	if !layout.IsMultiColumn() {
		t.Fatal("expected two columns")
	}
	if len(layout.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(layout.Columns))
	}
	if layout.Columns[0].BBox.Left() >= layout.Columns[1].BBox.Left() {
		t.Error("columns not ordered left to right")
	}
}

func TestColumnDetectorNarrowGapIsNotAColumnBreak(t *testing.T) {
	// A 10-point gap is normal word spacing territory, not a column gutter
	var fragments []model.Fragment
	for y := 700.0; y > 100; y -= 20 {
		fragments = append(fragments,
			frag("left", 50, y, 250, 12),
			frag("right", 310, y, 250, 12),
		)
	}

	layout := NewColumnDetector().Detect(fragments, pageWidth, pageHeight)
	if layout.IsMultiColumn() {
		t.Errorf("expected single column for a narrow gap, got %d", len(layout.Columns))
	}
}

func TestColumnDetectorSpanningTitle(t *testing.T) {
	fragments := []model.Fragment{
		frag("Full Width Title", 50, 700, 510, 18),
	}
	for y := 650.0; y > 100; y -= 20 {
		fragments = append(fragments,
			frag("left", 50, y, 230, 12),
			frag("right", 330, y, 230, 12),
		)
	}

	layout := NewColumnDetector().Detect(fragments, pageWidth, pageHeight)
	if !layout.IsMultiColumn() {
		t.Fatal("expected two columns under the title")
	}
	if len(layout.Spanning) != 1 || layout.Spanning[0].Text != "Full Width Title" {
		t.Fatalf("expected title as spanning fragment, got %v", layout.Spanning)
	}
}

func TestReadingOrderTwoColumnPage(t *testing.T) {
	// Title spans both columns; reading order is title, whole left column,
	// then whole right column
	fragments := []model.Fragment{
		frag("Title", 50, 700, 510, 18),
		frag("Intro", 50, 600, 230, 12),
		frag("continues", 50, 580, 230, 12),
		frag("Right col", 330, 600, 230, 12),
	}
	// Extra body lines so the gutter is established over enough of the page
	for y := 560.0; y > 150; y -= 20 {
		fragments = append(fragments,
			frag("l", 50, y, 230, 12),
			frag("r", 330, y, 230, 12),
		)
	}

	analyzer := New()
	analyzer.AddPage(page(0, fragments...))
	blocks := analyzer.Analyze()

	texts := blockTexts(blocks)
	if len(texts) < 4 {
		t.Fatalf("expected at least 4 blocks, got %d", len(texts))
	}
	pos := func(want string) int {
		for i, text := range texts {
			if text == want {
				return i
			}
		}
		t.Fatalf("block %q missing from %v", want, texts)
		return -1
	}
	if pos("Title") != 0 {
		t.Errorf("spanning title must come first, got %v", texts[0])
	}
	// The whole left column reads before the right column starts
	if !(pos("Intro") < pos("continues") && pos("continues") < pos("Right col")) {
		t.Errorf("reading order violated: %v", texts)
	}
	for _, text := range texts {
		if text == "r" && pos(text) < pos("Right col") {
			t.Error("right column content leaked before its first line")
		}
	}

	if blocks[0].Column != -1 {
		t.Errorf("expected spanning title in column -1, got %d", blocks[0].Column)
	}
	for i := 1; i < len(blocks); i++ {
		if blocks[i].Rank <= blocks[i-1].Rank {
			t.Fatal("ranks must strictly increase within the page")
		}
	}
}

func TestSpanningLineReadsBeforeOverlappingColumnLine(t *testing.T) {
	// The first right-column line starts at the spanning head's vertical
	// position; the head still reads first
	fragments := []model.Fragment{
		frag("Section head", 50, 700, 510, 24),
		frag("Right overlap", 330, 706, 200, 12),
	}
	for i := 0; i < 6; i++ {
		fragments = append(fragments, frag("l", 50, 660-float64(i)*20, 200, 12))
	}
	for i := 0; i < 4; i++ {
		fragments = append(fragments, frag("r", 330, 660-float64(i)*20, 200, 12))
	}

	analyzer := New()
	analyzer.AddPage(page(0, fragments...))
	texts := blockTexts(analyzer.Analyze())

	head, overlap := -1, -1
	for i, text := range texts {
		switch text {
		case "Section head":
			head = i
		case "Right overlap":
			overlap = i
		}
	}
	if head < 0 || overlap < 0 {
		t.Fatalf("expected both lines in output, got %v", texts)
	}
	if head > overlap {
		t.Errorf("spanning head must read before the overlapping column line: %v", texts)
	}
}

func TestReadingOrderDegradesToSingleColumn(t *testing.T) {
	analyzer := New()
	analyzer.AddPage(page(0,
		frag("only line", 72, 700, 200, 12),
	))

	blocks := analyzer.Analyze()
	if len(blocks) != 1 || blocks[0].Text != "only line" {
		t.Fatalf("unexpected blocks: %v", blockTexts(blocks))
	}
	if blocks[0].Column != 0 {
		t.Errorf("expected column 0, got %d", blocks[0].Column)
	}
}

func TestNormalizeNoise(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Page 3", "page #"},
		{"Page 17", "page #"},
		{"  ANNUAL   Report\t2024 ", "annual report #"},
		{"3", "#"},
		{"123 / 456", "# / #"},
		{"", ""},
		{"ﬁle", "file"}, // NFKC expands the ligature
	}

	for _, tt := range tests {
		if got := NormalizeNoise(tt.in); got != tt.want {
			t.Errorf("NormalizeNoise(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNoiseDetectorRemovesRepeatingPageNumbers(t *testing.T) {
	// A page number in the bottom margin of 9 out of 10 pages must be
	// removed from every page it appears on
	analyzer := New()
	bodyWords := []string{"alpha", "beta", "gamma", "delta", "epsilon",
		"zeta", "eta", "theta", "iota", "kappa"}

	for i := 0; i < 10; i++ {
		fragments := []model.Fragment{
			frag("Body "+bodyWords[i], 72, 400, 300, 12),
		}
		if i < 9 {
			fragments = append(fragments, frag(fmt.Sprintf("%d", i+1), 300, 20, 10, 10))
		}
		analyzer.AddPage(page(i, fragments...))
	}

	blocks := analyzer.Analyze()
	if len(blocks) != 10 {
		t.Fatalf("expected 10 body blocks, got %d: %v", len(blocks), blockTexts(blocks))
	}
	for _, b := range blocks {
		if !strings.HasPrefix(b.Text, "Body ") {
			t.Errorf("page number survived denoising: %q", b.Text)
		}
	}
}

func TestNoiseDetectorPageMarkerBelowThreshold(t *testing.T) {
	// "Page N of 10" in the margin is a page marker even when it repeats on
	// too few pages to clear the ratio threshold
	analyzer := New()
	words := []string{"one", "two", "three", "four", "five",
		"six", "seven", "eight", "nine", "ten"}

	for i := 0; i < 10; i++ {
		fragments := []model.Fragment{
			frag("Content "+words[i], 72, 400, 300, 12),
		}
		if i < 2 {
			fragments = append(fragments, frag(fmt.Sprintf("Page %d of 10", i+1), 250, 20, 80, 10))
		}
		analyzer.AddPage(page(i, fragments...))
	}

	for _, b := range analyzer.Analyze() {
		if strings.HasPrefix(b.Text, "Page ") {
			t.Errorf("page marker survived denoising: %q", b.Text)
		}
	}
}

func TestNoiseDetectorKeepsBodyText(t *testing.T) {
	// A long sentence repeated in the body (a quoted refrain, boilerplate)
	// must not be removed
	refrain := strings.Repeat("all work and no play makes a dull module ", 3)

	analyzer := New()
	for i := 0; i < 5; i++ {
		analyzer.AddPage(page(i, frag(refrain, 72, 400, 450, 12)))
	}

	blocks := analyzer.Analyze()
	if len(blocks) != 5 {
		t.Fatalf("body refrain was removed: %d blocks", len(blocks))
	}
}

func TestNoiseDetectorShortDocumentKeepsEverything(t *testing.T) {
	analyzer := New()
	for i := 0; i < 2; i++ {
		analyzer.AddPage(page(i,
			frag("Body text", 72, 400, 300, 12),
			frag("Footer", 72, 20, 100, 10),
		))
	}

	blocks := analyzer.Analyze()
	if len(blocks) != 4 {
		t.Fatalf("expected all 4 blocks kept on a 2-page document, got %d", len(blocks))
	}
}

func TestDenoisingIsIdempotent(t *testing.T) {
	// Analyzing already-clean pages removes nothing, so denoising twice
	// yields the same content as denoising once
	clean := func() *Analyzer {
		analyzer := New()
		words := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
		for i := 0; i < 5; i++ {
			analyzer.AddPage(page(i, frag("Body "+words[i], 72, 400, 300, 12)))
		}
		return analyzer
	}

	first := blockTexts(clean().Analyze())
	second := blockTexts(clean().Analyze())

	if len(first) != 5 || len(second) != len(first) {
		t.Fatalf("expected 5 blocks from clean pages, got %d then %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("block %d differs: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestCandidateHeadingMarking(t *testing.T) {
	analyzer := New()
	fragments := []model.Fragment{
		frag("Chapter Heading", 72, 700, 200, 18),
	}
	for y := 660.0; y > 400; y -= 20 {
		fragments = append(fragments, frag("body text line", 72, y, 400, 12))
	}
	analyzer.AddPage(page(0, fragments...))

	blocks := analyzer.Analyze()
	if blocks[0].Kind != model.BlockCandidateHeading {
		t.Errorf("expected candidate heading for 18pt line, got %v", blocks[0].Kind)
	}
	for _, b := range blocks[1:] {
		if b.Kind != model.BlockParagraphLine {
			t.Errorf("body line misclassified as %v: %q", b.Kind, b.Text)
		}
	}
}

func TestImageBlocksAppendedAfterText(t *testing.T) {
	analyzer := New()
	set := page(0, frag("caption text", 72, 400, 300, 12))
	set.Fragments = append(set.Fragments, model.Fragment{
		Kind:       model.FragmentImage,
		PageIndex:  0,
		ImageRef:   "images/report_p1_img1.png",
		ImageIndex: 1,
	})
	analyzer.AddPage(set)

	blocks := analyzer.Analyze()
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	last := blocks[len(blocks)-1]
	if last.Kind != model.BlockImageRef {
		t.Fatalf("expected trailing image block, got %v", last.Kind)
	}
	if last.Fragments[0].ImageRef != "images/report_p1_img1.png" {
		t.Errorf("image reference lost: %q", last.Fragments[0].ImageRef)
	}
	if last.Rank <= blocks[0].Rank {
		t.Error("image block must rank after text blocks")
	}
}

func TestGroupLines(t *testing.T) {
	fragments := []model.Fragment{
		frag("world", 150, 700, 60, 12),
		frag("hello", 72, 701, 60, 12),
		frag("below", 72, 650, 60, 12),
	}

	lines := groupLines(fragments)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if got := model.AssembleText(lines[0].fragments); got != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", got)
	}
	if got := model.AssembleText(lines[1].fragments); got != "below" {
		t.Errorf("expected %q, got %q", "below", got)
	}
}
