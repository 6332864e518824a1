// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markers

import (
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/citation-engine/internal/citation"
	"github.com/pdiddy/citation-engine/internal/ootext"
	"github.com/pdiddy/citation-engine/internal/style"
	"github.com/pdiddy/citation-engine/pkg/types"
)

type authorYearStrategy struct {
	style *style.Style
}

// NormalizedMarker is the parenthesized marker of a single entry without
// brackets, unique letter or page info, e.g. "Smith, 2000". Entries whose
// normalized markers are equal need unique letters.
func NormalizedMarker(s *style.Style, e types.BibEntry) string {
	authors := s.AuthorList(style.EntryAuthors(e), s.MaxAuthors, s.AuthorLastSeparator)
	return norm.NFC.String(authors + s.YearSeparator + style.Year(e.Year))
}

func (a authorYearStrategy) Prepare(store *citation.Store) error {
	cited, err := store.CitedKeysInAppearanceOrder()
	if err != nil {
		return err
	}
	for _, ck := range cited.Values() {
		if ck.IsResolved() {
			ck.NormalizedMarker = NormalizedMarker(a.style, ck.Lookup.Entry)
		}
	}
	store.AssignUniqueLetters(cited)
	if err := store.CreatePlainBibliographySortedByComparator(a.style.AuthorYearTitle()); err != nil {
		return err
	}
	return store.MarkFirstAppearances()
}

func (a authorYearStrategy) Markers(store *citation.Store) (map[citation.GroupID]ootext.Text, error) {
	if err := requireBibliography(store); err != nil {
		return nil, err
	}
	out := make(map[citation.GroupID]ootext.Text, store.NumberOfGroups())
	for _, g := range store.GroupsUnordered() {
		inText := g.Type() == types.CitationAuthorYear
		out[g.ID()] = wrapMarker(AuthorYearMarker(g.CitationsInLocalOrder(), inText, a.style), a.style)
	}
	return out, nil
}

// markerItem is one rendered position inside an author-year marker. Merged
// citations share authors and year and differ only in unique letter.
type markerItem struct {
	unresolvedKey string
	authors       string
	year          string
	letters       []string
	pageInfo      ootext.Text
}

func (m *markerItem) canAbsorb(next markerItem) bool {
	return m.unresolvedKey == "" && next.unresolvedKey == "" &&
		m.authors == next.authors && m.year == next.year &&
		len(m.letters) > 0 && len(next.letters) > 0 &&
		m.pageInfo.IsEmpty()
}

// AuthorYearMarker renders the marker of one group from its citations in
// local order. inText selects "Smith et al. (2000a)" over
// "(Smith et al., 2000a)". Consecutive citations of the same authors and
// year are merged into one item with joined unique letters: "(Smith, 2000a,b)".
func AuthorYearMarker(cits []citation.Citation, inText bool, s *style.Style) ootext.Text {
	lastSep := s.AuthorLastSeparator
	if inText {
		lastSep = s.AuthorLastSeparatorInText
	}

	var items []markerItem
	for _, cit := range cits {
		item := markerItem{pageInfo: cit.PageInfo()}
		if e, ok := cit.Entry(); ok {
			item.authors = s.AuthorList(style.EntryAuthors(e), s.MaxAuthorsFor(cit.IsFirstAppearanceOfSource()), lastSep)
			item.year = style.Year(e.Year)
			if l, ok := cit.UniqueLetter(); ok {
				item.letters = []string{l}
			}
		} else {
			item.unresolvedKey = cit.Key()
		}

		if n := len(items); n > 0 && items[n-1].canAbsorb(item) {
			items[n-1].letters = append(items[n-1].letters, item.letters...)
			items[n-1].pageInfo = item.pageInfo
			continue
		}
		items = append(items, item)
	}

	parts := make([]ootext.Text, len(items))
	for i, item := range items {
		parts[i] = renderItem(item, inText, s)
	}
	joined := ootext.Join(s.CitationSeparator, parts)
	if inText {
		return joined
	}
	return ootext.Concat(ootext.FromString(s.BracketBefore), joined, ootext.FromString(s.BracketAfter))
}

func renderItem(item markerItem, inText bool, s *style.Style) ootext.Text {
	var page ootext.Text
	if !item.pageInfo.IsEmpty() {
		page = ootext.Concat(ootext.FromString(s.PageInfoSeparator), item.pageInfo)
	}

	if item.unresolvedKey != "" {
		return ootext.Concat(unresolvedText(item.unresolvedKey), page)
	}

	year := ootext.Escape(item.year)
	for i, l := range item.letters {
		if i > 0 {
			year = ootext.Concat(year, ootext.FromString(s.UniquefierSeparator))
		}
		year = ootext.Concat(year, ootext.FromString(l))
	}

	authors := ootext.Escape(item.authors)
	if inText {
		return ootext.Concat(authors, ootext.FromString(s.InTextYearSeparator),
			ootext.FromString(s.BracketBefore), year, page, ootext.FromString(s.BracketAfter))
	}
	return ootext.Concat(authors, ootext.FromString(s.YearSeparator), year, page)
}
