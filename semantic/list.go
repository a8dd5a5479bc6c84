package semantic

import (
	"regexp"
	"strings"
)

var (
	bulletMarker  = regexp.MustCompile(`^\s*([•·‣▪◦○●]|[-–—*]\s)\s*`)
	orderedMarker = regexp.MustCompile(`^\s*(\d{1,3}|[a-zA-Z])[.)]\s+`)
)

// listMarker reports whether a line starts with a list marker, and returns
// the text with the marker stripped
func listMarker(text string) (rest string, ordered, ok bool) {
	if m := bulletMarker.FindString(text); m != "" {
		return strings.TrimSpace(text[len(m):]), false, true
	}
	if m := orderedMarker.FindString(text); m != "" {
		return strings.TrimSpace(text[len(m):]), true, true
	}
	return text, false, false
}

// listState tracks the indent stack of the list being built. Each stack
// entry is the marker indent of one nesting level; depth is the entry's
// position. A dedent pops back to the closest enclosing level, and a
// non-list block closes the whole list
type listState struct {
	indents   []float64
	tolerance float64
}

func newListState(tolerance float64) *listState {
	return &listState{tolerance: tolerance}
}

// depthFor resolves the nesting depth of an item at the given indent,
// adjusting the stack. The first item establishes depth 0 at its indent
func (s *listState) depthFor(indent float64) int {
	if len(s.indents) == 0 {
		s.indents = []float64{indent}
		return 0
	}

	top := s.indents[len(s.indents)-1]
	if indent > top+s.tolerance {
		s.indents = append(s.indents, indent)
		return len(s.indents) - 1
	}

	// Same level or a dedent: pop deeper levels until the indent fits
	for len(s.indents) > 1 && indent < s.indents[len(s.indents)-1]-s.tolerance {
		s.indents = s.indents[:len(s.indents)-1]
	}
	return len(s.indents) - 1
}
