// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markers

import (
	"cmp"
	"slices"
	"strings"

	"github.com/pdiddy/citation-engine/internal/citation"
	"github.com/pdiddy/citation-engine/internal/ootext"
	"github.com/pdiddy/citation-engine/internal/style"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// BibliographyOptions tunes bibliography rendering.
type BibliographyOptions struct {
	// CitedOnPages appends page-number cross references to the reference
	// marks of every group citing the entry.
	CitedOnPages bool
}

// FormatBibliography renders the heading and the body of the store's
// bibliography.
func FormatBibliography(store *citation.Store, s *style.Style, opts BibliographyOptions) (ootext.Text, error) {
	body, err := FormatBibliographyBody(store, s, opts)
	if err != nil {
		return "", err
	}
	header := ootext.Paragraph(ootext.Escape(s.ReferenceHeaderText), s.ReferenceHeaderParagraphFormat)
	return ootext.Concat(header, body), nil
}

// FormatBibliographyBody renders one paragraph per cited key, in
// bibliography order.
func FormatBibliographyBody(store *citation.Store, s *style.Style, opts BibliographyOptions) (ootext.Text, error) {
	bib, ok := store.Bibliography()
	if !ok {
		return "", ErrNotPrepared
	}
	var parts []ootext.Text
	for _, ck := range bib.Values() {
		parts = append(parts, FormatBibliographyEntry(store, ck, s, opts))
	}
	return ootext.Concat(parts...), nil
}

// FormatBibliographyEntry renders one bibliography paragraph.
func FormatBibliographyEntry(store *citation.Store, ck *citation.CitedKey, s *style.Style, opts BibliographyOptions) ootext.Text {
	var t ootext.Text
	switch {
	case s.IsNumeric() && ck.Number > 0:
		t = ootext.Concat(NumericLabel(ck.Number, s), " ")
	case s.IsCitationKey():
		t = ootext.Concat(ootext.FromString(s.BracketBeforeInList), ootext.Escape(ck.Key),
			ootext.FromString(s.BracketAfterInList), " ")
	}

	if ck.IsResolved() {
		t = ootext.Concat(t, FullReference(ck.Lookup.Entry, ck.UniqueLetter, s))
	} else {
		t = ootext.Concat(t, unresolvedText(ck.Key))
	}

	if opts.CitedOnPages {
		if refs := citedOnPages(store, ck); !refs.IsEmpty() {
			t = ootext.Concat(t, " Cited on pages: ", refs)
		}
	}
	return ootext.Paragraph(t, s.ReferenceParagraphFormat)
}

// citedOnPages links to the reference marks of the groups citing ck, in
// document order. Groups without a reference mark are skipped.
func citedOnPages(store *citation.Store, ck *citation.CitedKey) ootext.Text {
	type mark struct {
		index int
		name  string
	}
	var marks []mark
	seen := make(map[citation.GroupID]bool)
	for _, p := range ck.Where {
		if seen[p.Group] {
			continue
		}
		seen[p.Group] = true
		g, err := store.Group(p.Group)
		if err != nil || g.ReferenceMarkName == "" {
			continue
		}
		idx, ok := g.IndexInGlobalOrder()
		if !ok {
			idx = len(marks)
		}
		marks = append(marks, mark{index: idx, name: g.ReferenceMarkName})
	}
	slices.SortStableFunc(marks, func(a, b mark) int { return cmp.Compare(a.index, b.index) })

	refs := make([]ootext.Text, len(marks))
	for i, m := range marks {
		refs[i] = ootext.ReferenceToPageNumber(m.name)
	}
	return ootext.Join(", ", refs)
}

// FullReference renders the body of a bibliography entry:
//
//	Smith, A. & Jones, B. (2000a). <i>Title</i>. Venue, 12, 1-10. Publisher. doi:10.1/x.
func FullReference(e types.BibEntry, uniqueLetter string, s *style.Style) ootext.Text {
	var sentences []ootext.Text

	head := ootext.Escape(joinNames(style.EntryAuthors(e), s))
	if len(e.Authors) == 0 && len(e.Editors) > 0 {
		head = ootext.Concat(head, " (Ed.)")
	}
	if year := style.Year(e.Year); year != "" {
		if !head.IsEmpty() {
			head = ootext.Concat(head, " ")
		}
		head = ootext.Concat(head, "(", ootext.Escape(year), ootext.FromString(uniqueLetter), ")")
	}
	if !head.IsEmpty() {
		sentences = append(sentences, head)
	}

	if e.Title != "" {
		sentences = append(sentences, ootext.Italic(ootext.Escape(strings.TrimRight(e.Title, "."))))
	}

	var venue []string
	for _, v := range []string{e.Venue, e.Volume, e.Pages} {
		if v = strings.TrimSpace(v); v != "" {
			venue = append(venue, v)
		}
	}
	if len(venue) > 0 {
		sentences = append(sentences, ootext.Escape(strings.Join(venue, ", ")))
	}
	if e.Publisher != "" {
		sentences = append(sentences, ootext.Escape(e.Publisher))
	}
	if e.DOI != "" {
		sentences = append(sentences, ootext.Concat("doi:", ootext.Escape(e.DOI)))
	}
	if len(sentences) == 0 {
		return ootext.Escape(e.CitationKey)
	}
	return ootext.Concat(ootext.Join(". ", sentences), ".")
}

func joinNames(names []string, s *style.Style) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return strings.TrimSpace(names[0])
	}
	trimmed := make([]string, len(names))
	for i, n := range names {
		trimmed[i] = strings.TrimSpace(n)
	}
	return strings.Join(trimmed[:len(trimmed)-1], s.AuthorSeparator) + s.AuthorLastSeparator + trimmed[len(trimmed)-1]
}
