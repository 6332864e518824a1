// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package style

import (
	"strconv"
	"strings"

	"github.com/pdiddy/citation-engine/internal/citation"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// AuthorYearTitle orders entries by author family names, then year, then
// title. Ties are broken by citation key so the order is total.
func (s *Style) AuthorYearTitle() citation.EntryComparator {
	return func(a, b types.BibEntry) int {
		if c := s.compareAuthors(a, b); c != 0 {
			return c
		}
		if c := compareYears(a.Year, b.Year); c != 0 {
			return c
		}
		if c := s.collator.CompareString(a.Title, b.Title); c != 0 {
			return c
		}
		return strings.Compare(a.CitationKey, b.CitationKey)
	}
}

// YearAuthorTitle orders entries chronologically, then by author and title.
func (s *Style) YearAuthorTitle() citation.EntryComparator {
	return func(a, b types.BibEntry) int {
		if c := compareYears(a.Year, b.Year); c != 0 {
			return c
		}
		if c := s.compareAuthors(a, b); c != 0 {
			return c
		}
		if c := s.collator.CompareString(a.Title, b.Title); c != 0 {
			return c
		}
		return strings.Compare(a.CitationKey, b.CitationKey)
	}
}

// MultiCiteComparator returns the comparator used to order citations inside
// one group.
func (s *Style) MultiCiteComparator() citation.EntryComparator {
	if s.MultiCiteChronological {
		return s.YearAuthorTitle()
	}
	return s.AuthorYearTitle()
}

func (s *Style) compareAuthors(a, b types.BibEntry) int {
	return s.collator.CompareString(authorSortKey(a), authorSortKey(b))
}

func authorSortKey(e types.BibEntry) string {
	names := EntryAuthors(e)
	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = FamilyName(n)
	}
	return strings.Join(keys, " ")
}

// compareYears compares numerically when both years are numbers. Missing
// years sort first.
func compareYears(a, b string) int {
	ya, errA := strconv.Atoi(Year(a))
	yb, errB := strconv.Atoi(Year(b))
	if errA == nil && errB == nil {
		switch {
		case ya < yb:
			return -1
		case ya > yb:
			return 1
		}
		return 0
	}
	return strings.Compare(strings.TrimSpace(a), strings.TrimSpace(b))
}
