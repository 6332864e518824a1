// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markers

import (
	"slices"
	"strconv"
	"strings"

	"github.com/pdiddy/citation-engine/internal/ootext"
	"github.com/pdiddy/citation-engine/internal/style"
)

// unresolvedNumber stands in for the missing number of an unresolved
// citation when sorting.
const unresolvedNumber = 0

// NumericEntry is one citation in a numeric marker.
type NumericEntry struct {
	Key string

	// Number is the bibliography number; 0 marks an unresolved citation.
	Number int

	PageInfo ootext.Text
}

func (e NumericEntry) resolved() bool { return e.Number != unresolvedNumber }

// NumericOptions are the style settings CompressNumeric needs.
type NumericOptions struct {
	BracketBefore           string
	BracketAfter            string
	CitationSeparator       string
	GroupedNumbersSeparator string
	PageInfoSeparator       string
	MinimumGroupingCount    int
}

// NumericOptionsFrom extracts the numeric marker settings of s.
func NumericOptionsFrom(s *style.Style) NumericOptions {
	return NumericOptions{
		BracketBefore:           s.BracketBefore,
		BracketAfter:            s.BracketAfter,
		CitationSeparator:       s.CitationSeparator,
		GroupedNumbersSeparator: s.GroupedNumbersSeparator,
		PageInfoSeparator:       s.PageInfoSeparator,
		MinimumGroupingCount:    s.MinimumGroupingCount,
	}
}

func compareNumericEntries(a, b NumericEntry) int {
	if c := a.Number - b.Number; c != 0 {
		if c < 0 {
			return -1
		}
		return 1
	}
	if c := ootext.ComparePageInfo(a.PageInfo, b.PageInfo); c != 0 {
		return c
	}
	return strings.Compare(a.Key, b.Key)
}

// CompressNumeric renders a numeric citation marker such as "[2-4,7]".
//
// Entries are sorted by (number, page info) and walked once. A run of
// consecutive numbers without page info forms a block; blocks of at least
// MinimumGroupingCount render as "first-last", shorter ones list their
// numbers. Duplicate (number, page info) pairs render once; the same
// number with different page info renders once per page info. Unresolved
// entries render as "??key".
func CompressNumeric(entries []NumericEntry, opts NumericOptions) ootext.Text {
	sorted := make([]NumericEntry, len(entries))
	for i, e := range entries {
		e.PageInfo = ootext.NormalizePageInfo(e.PageInfo)
		if e.Number < 0 {
			e.Number = unresolvedNumber
		}
		sorted[i] = e
	}
	slices.SortFunc(sorted, compareNumericEntries)

	var blocks [][]NumericEntry
	for i, e := range sorted {
		if i > 0 && compareNumericEntries(sorted[i-1], e) == 0 {
			continue
		}
		if n := len(blocks); n > 0 {
			block := blocks[n-1]
			prev := block[len(block)-1]
			if prev.resolved() && e.resolved() &&
				prev.PageInfo.IsEmpty() && e.PageInfo.IsEmpty() &&
				e.Number == prev.Number+1 {
				blocks[n-1] = append(block, e)
				continue
			}
		}
		blocks = append(blocks, []NumericEntry{e})
	}

	parts := make([]ootext.Text, len(blocks))
	for i, block := range blocks {
		parts[i] = renderBlock(block, opts)
	}
	return ootext.Concat(
		ootext.FromString(opts.BracketBefore),
		ootext.Join(opts.CitationSeparator, parts),
		ootext.FromString(opts.BracketAfter),
	)
}

func renderBlock(block []NumericEntry, opts NumericOptions) ootext.Text {
	first, last := block[0], block[len(block)-1]
	switch {
	case len(block) == 1:
		t := numberText(first)
		if !first.PageInfo.IsEmpty() {
			t = ootext.Concat(t, ootext.FromString(opts.PageInfoSeparator), first.PageInfo)
		}
		return t
	case len(block) >= opts.MinimumGroupingCount:
		return ootext.Concat(numberText(first), ootext.FromString(opts.GroupedNumbersSeparator), numberText(last))
	}
	parts := make([]ootext.Text, len(block))
	for i, e := range block {
		parts[i] = numberText(e)
	}
	return ootext.Join(opts.CitationSeparator, parts)
}

func numberText(e NumericEntry) ootext.Text {
	if !e.resolved() {
		return ootext.Concat("??", ootext.Escape(e.Key))
	}
	return ootext.FromString(strconv.Itoa(e.Number))
}

// NumericLabel renders the label of a numbered bibliography entry, e.g. "[3]".
func NumericLabel(n int, s *style.Style) ootext.Text {
	return ootext.FromString(s.BracketBeforeInList + strconv.Itoa(n) + s.BracketAfterInList)
}
