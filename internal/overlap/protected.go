// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package overlap

// ProtectedRanges are the document regions that must stay intact when the
// host inserts or moves text.
type ProtectedRanges struct {
	// Citations are the reference marks of citation groups.
	Citations []Holder

	// Bibliography is the bibliography section; nil Range when absent.
	Bibliography Holder

	// Cursor is the user's selection; nil Range when absent.
	Cursor Holder

	// FootnoteAnchors are the anchors of footnotes holding citations.
	FootnoteAnchors []Holder
}

// All returns every present protected range.
func (p ProtectedRanges) All() []Holder {
	out := make([]Holder, 0, len(p.Citations)+len(p.FootnoteAnchors)+2)
	out = append(out, p.Citations...)
	if p.Bibliography.Range != nil {
		out = append(out, p.Bibliography)
	}
	if p.Cursor.Range != nil {
		out = append(out, p.Cursor)
	}
	return append(out, p.FootnoteAnchors...)
}

// CheckRegion reports protected ranges that candidate would overlap or
// touch. The cursor is left out: candidates are normally taken from it.
func CheckRegion(candidate Holder, protected ProtectedRanges, atMost int) []Report {
	others := protected
	others.Cursor = Holder{}
	return FindBetween([]Holder{candidate}, others.All(), atMost, true)
}

// CheckMarks reports citation marks and footnote anchors that overlap each
// other. Touching marks are allowed.
func CheckMarks(protected ProtectedRanges, atMost int) []Report {
	holders := append(append([]Holder{}, protected.Citations...), protected.FootnoteAnchors...)
	return FindWithin(holders, atMost, false)
}
