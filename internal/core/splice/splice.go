// Package splice contains the pure logic for inserting generated fragments
// into existing files next to an anchor marker.
package splice

import "strings"

// Position says which side of the anchor a fragment lands on.
type Position int

const (
	After Position = iota
	Before
)

// Outcome describes what Apply did.
type Outcome int

const (
	Inserted Outcome = iota
	AlreadyPresent
	AnchorMissing
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case AlreadyPresent:
		return "already present"
	case AnchorMissing:
		return "anchor missing"
	default:
		return "unknown"
	}
}

// Apply inserts fragment plus a newline next to the first occurrence of
// anchor. Content already holding the fragment is returned unchanged, as is
// content without the anchor.
func Apply(content, anchor, fragment string, pos Position) (string, Outcome) {
	if strings.Contains(content, fragment) {
		return content, AlreadyPresent
	}

	idx := strings.Index(content, anchor)
	if anchor == "" || idx < 0 {
		return content, AnchorMissing
	}

	at := idx
	if pos == After {
		at = idx + len(anchor)
	}
	return content[:at] + fragment + "\n" + content[at:], Inserted
}
