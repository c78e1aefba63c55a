package menu

import "github.com/GriffinCanCode/appshell/internal/shared/errcode"

// Position places a new node relative to its siblings.
type Position string

const (
	PositionDefault        Position = ""
	PositionBefore         Position = "before"
	PositionAfter          Position = "after"
	PositionFirst          Position = "first"
	PositionLast           Position = "last"
	PositionFirstInSection Position = "firstInSection"
	PositionLastInSection  Position = "lastInSection"
)

// Valid reports whether p is a known position.
func (p Position) Valid() bool {
	switch p {
	case PositionDefault, PositionBefore, PositionAfter, PositionFirst, PositionLast,
		PositionFirstInSection, PositionLastInSection:
		return true
	}
	return false
}

// InSection reports whether p is relative to a separator-delimited section.
func (p Position) InSection() bool {
	return p == PositionFirstInSection || p == PositionLastInSection
}

// NeedsRelative reports whether p uses the relative id.
func (p Position) NeedsRelative() bool {
	return p == PositionBefore || p == PositionAfter || p.InSection()
}

// insert places id into siblings. Callers hold t.mu.
func (t *Tree) insert(siblings []string, id string, position Position, relativeID string) ([]string, errcode.Code) {
	at := len(siblings)

	switch position {
	case PositionFirst:
		at = 0
	case PositionDefault, PositionLast:
		at = len(siblings)
	default:
		rel := index(siblings, relativeID)
		if rel < 0 {
			return append(siblings, id), errcode.ErrNotFound
		}
		switch position {
		case PositionBefore:
			at = rel
		case PositionAfter:
			at = rel + 1
		case PositionFirstInSection:
			at = t.sectionStart(siblings, rel)
		case PositionLastInSection:
			at = t.sectionEnd(siblings, rel)
		}
	}

	siblings = append(siblings, "")
	copy(siblings[at+1:], siblings[at:])
	siblings[at] = id
	return siblings, errcode.NoError
}

// sectionStart returns the index just after the separator preceding rel.
// A separator as rel opens the section that follows it.
func (t *Tree) sectionStart(siblings []string, rel int) int {
	if t.isSeparator(siblings[rel]) {
		return rel + 1
	}
	for i := rel - 1; i >= 0; i-- {
		if t.isSeparator(siblings[i]) {
			return i + 1
		}
	}
	return 0
}

// sectionEnd returns the index of the separator following rel, or the end.
func (t *Tree) sectionEnd(siblings []string, rel int) int {
	for i := rel + 1; i < len(siblings); i++ {
		if t.isSeparator(siblings[i]) {
			return i
		}
	}
	return len(siblings)
}

func (t *Tree) isSeparator(id string) bool {
	node, ok := t.nodes[id]
	return ok && node.Kind == KindSeparator
}
