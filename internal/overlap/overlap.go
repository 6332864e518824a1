// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package overlap checks host document ranges for overlapping or touching
// regions before the document structure is changed.
//
// Ranges are opaque to the engine. A Range knows which text flow it lives
// in (body text, a footnote, a table cell) and can compare its boundaries
// with another Range from the same host. Ranges in different flows never
// overlap.
package overlap

import (
	"cmp"
	"fmt"
	"slices"
)

// Range is a host document range.
type Range interface {
	// TextFlow identifies the text the range lives in.
	TextFlow() string

	// CompareStarts compares the start of this range with the start of other.
	CompareStarts(other Range) int

	// CompareEnds compares the end of this range with the end of other.
	CompareEnds(other Range) int

	// CompareEndToStart compares the end of this range with the start of
	// other.
	CompareEndToStart(other Range) int
}

// Span is a Range over integer offsets. It is what file-backed hosts and
// tests use; Span values only compare with other Spans.
type Span struct {
	Flow  string `yaml:"flow" json:"flow"`
	Start int    `yaml:"start" json:"start"`
	End   int    `yaml:"end" json:"end"`
}

// TextFlow implements Range.
func (s Span) TextFlow() string { return s.Flow }

// CompareStarts implements Range.
func (s Span) CompareStarts(other Range) int { return cmp.Compare(s.Start, asSpan(other).Start) }

// CompareEnds implements Range.
func (s Span) CompareEnds(other Range) int { return cmp.Compare(s.End, asSpan(other).End) }

// CompareEndToStart implements Range.
func (s Span) CompareEndToStart(other Range) int { return cmp.Compare(s.End, asSpan(other).Start) }

func (s Span) String() string { return fmt.Sprintf("%s[%d,%d]", s.Flow, s.Start, s.End) }

func asSpan(r Range) Span {
	switch v := r.(type) {
	case Span:
		return v
	case *Span:
		return *v
	}
	panic(fmt.Sprintf("overlap: cannot compare Span with %T", r))
}

// Holder pairs a range with a description for reports, e.g. the group id
// of a citation mark.
type Holder struct {
	Range       Range
	Description string
}

// Kind classifies how two ranges relate.
type Kind int

const (
	Disjoint Kind = iota
	Touch
	Overlap
	Equal
)

func (k Kind) String() string {
	switch k {
	case Disjoint:
		return "disjoint"
	case Touch:
		return "touch"
	case Overlap:
		return "overlap"
	case Equal:
		return "equal"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Classify reports how a and b relate. Ranges in different text flows are
// disjoint. Ranges that only share a boundary touch.
func Classify(a, b Range) Kind {
	if a.TextFlow() != b.TextFlow() {
		return Disjoint
	}
	if a.CompareStarts(b) > 0 {
		a, b = b, a
	}
	if a.CompareStarts(b) == 0 && a.CompareEnds(b) == 0 {
		return Equal
	}
	switch c := a.CompareEndToStart(b); {
	case c < 0:
		return Disjoint
	case c == 0:
		return Touch
	}
	return Overlap
}

// Report is one non-disjoint relationship between two ranges.
type Report struct {
	Kind Kind
	A, B Holder
}

func (r Report) String() string {
	return fmt.Sprintf("%s: %s and %s", r.Kind, r.A.Description, r.B.Description)
}

func (r Report) counts(includeTouching bool) bool {
	return r.Kind == Equal || r.Kind == Overlap || (includeTouching && r.Kind == Touch)
}

// Partition groups holders by text flow and sorts each partition by start,
// then end. Partitions are returned in order of first appearance of their
// flow; holders with equal boundaries keep their input order.
func Partition(holders []Holder) [][]Holder {
	var flows []string
	byFlow := make(map[string][]Holder)
	for _, h := range holders {
		f := h.Range.TextFlow()
		if _, ok := byFlow[f]; !ok {
			flows = append(flows, f)
		}
		byFlow[f] = append(byFlow[f], h)
	}
	out := make([][]Holder, len(flows))
	for i, f := range flows {
		part := byFlow[f]
		slices.SortStableFunc(part, compareHolders)
		out[i] = part
	}
	return out
}

func compareHolders(a, b Holder) int {
	if c := a.Range.CompareStarts(b.Range); c != 0 {
		return c
	}
	return a.Range.CompareEnds(b.Range)
}

// FindWithin scans the sorted partitions of holders and reports adjacent
// pairs that are equal or overlap, and touching pairs when includeTouching
// is set. At most atMost reports are returned; atMost <= 0 means no limit.
func FindWithin(holders []Holder, atMost int, includeTouching bool) []Report {
	var out []Report
	for _, part := range Partition(holders) {
		for i := 1; i < len(part); i++ {
			r := Report{Kind: Classify(part[i-1].Range, part[i].Range), A: part[i-1], B: part[i]}
			if !r.counts(includeTouching) {
				continue
			}
			out = append(out, r)
			if atMost > 0 && len(out) >= atMost {
				return out
			}
		}
	}
	return out
}

// FindBetween reports candidates that are equal to, overlap, or (with
// includeTouching) touch a protected range. Candidates are not checked
// against each other. A report's A is the candidate and B the protected
// range.
func FindBetween(candidates, protected []Holder, atMost int, includeTouching bool) []Report {
	byFlow := make(map[string][]Holder)
	for _, part := range Partition(protected) {
		byFlow[part[0].Range.TextFlow()] = part
	}

	var out []Report
	for _, c := range candidates {
		for _, p := range byFlow[c.Range.TextFlow()] {
			if c.Range.CompareEndToStart(p.Range) < 0 {
				// p and every later range start after c ends.
				break
			}
			r := Report{Kind: Classify(c.Range, p.Range), A: c, B: p}
			if !r.counts(includeTouching) {
				continue
			}
			out = append(out, r)
			if atMost > 0 && len(out) >= atMost {
				return out
			}
		}
	}
	return out
}
