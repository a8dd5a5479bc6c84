package model

import "testing"

func TestBBoxUnion(t *testing.T) {
	a := NewBBox(0, 0, 10, 10)
	b := NewBBox(20, 5, 10, 10)

	u := a.Union(b)

	if u.X != 0 || u.Y != 0 {
		t.Errorf("expected origin (0,0), got (%v,%v)", u.X, u.Y)
	}
	if u.Width != 30 {
		t.Errorf("expected width 30, got %v", u.Width)
	}
	if u.Height != 15 {
		t.Errorf("expected height 15, got %v", u.Height)
	}
}

func TestBBoxIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b BBox
		want bool
	}{
		{"overlapping", NewBBox(0, 0, 10, 10), NewBBox(5, 5, 10, 10), true},
		{"disjoint horizontal", NewBBox(0, 0, 10, 10), NewBBox(20, 0, 10, 10), false},
		{"disjoint vertical", NewBBox(0, 0, 10, 10), NewBBox(0, 20, 10, 10), false},
		{"touching edges", NewBBox(0, 0, 10, 10), NewBBox(10, 0, 10, 10), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFragmentsBBox(t *testing.T) {
	fragments := []Fragment{
		{BBox: NewBBox(10, 700, 100, 12)},
		{BBox: NewBBox(10, 680, 200, 12)},
		{BBox: NewBBox(300, 690, 50, 12)},
	}

	bbox := FragmentsBBox(fragments)

	if bbox.X != 10 {
		t.Errorf("expected left 10, got %v", bbox.X)
	}
	if bbox.Right() != 350 {
		t.Errorf("expected right 350, got %v", bbox.Right())
	}
	if bbox.Y != 680 {
		t.Errorf("expected bottom 680, got %v", bbox.Y)
	}
	if bbox.Top() != 712 {
		t.Errorf("expected top 712, got %v", bbox.Top())
	}
}

func TestAssembleText(t *testing.T) {
	fragments := []Fragment{
		{Text: "Hello", BBox: NewBBox(0, 0, 50, 12)},
		{Text: "world", BBox: NewBBox(55, 0, 50, 12)}, // 5pt gap -> space
		{Text: "!", BBox: NewBBox(105, 0, 5, 12)},     // no gap -> no space
	}

	got := AssembleText(fragments)
	want := "Hello world!"
	if got != want {
		t.Errorf("AssembleText() = %q, want %q", got, want)
	}
}

func TestPageFragmentSetSplit(t *testing.T) {
	set := PageFragmentSet{
		Fragments: []Fragment{
			{Kind: FragmentText, Text: "a"},
			{Kind: FragmentImage, ImageRef: "images/x.png"},
			{Kind: FragmentText, Text: "b"},
		},
	}

	if n := len(set.TextFragments()); n != 2 {
		t.Errorf("expected 2 text fragments, got %d", n)
	}
	if n := len(set.ImageFragments()); n != 1 {
		t.Errorf("expected 1 image fragment, got %d", n)
	}
}

func TestSortBlocksByRank(t *testing.T) {
	blocks := []ContentBlock{
		{PageIndex: 1, Rank: 0, Text: "c"},
		{PageIndex: 0, Rank: 1, Text: "b"},
		{PageIndex: 0, Rank: 0, Text: "a"},
	}

	SortBlocksByRank(blocks)

	got := blocks[0].Text + blocks[1].Text + blocks[2].Text
	if got != "abc" {
		t.Errorf("expected order abc, got %s", got)
	}
}
