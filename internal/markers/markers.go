// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markers turns the citation groups of a Store into citation
// marker text and bibliography text.
//
// Produce drives a Store through its states: citations are looked up,
// ordered inside each group, numbered or lettered by the style's Strategy,
// and the bibliography is built. Markers are then emitted per group.
package markers

import (
	"errors"
	"fmt"

	"github.com/pdiddy/citation-engine/internal/citation"
	"github.com/pdiddy/citation-engine/internal/ootext"
	"github.com/pdiddy/citation-engine/internal/style"
)

// ErrNotPrepared is returned when markers are requested from a store whose
// bibliography has not been built by a Strategy.
var ErrNotPrepared = errors.New("markers: bibliography not built")

// Strategy is one way of numbering, lettering and rendering citations.
type Strategy interface {
	// Prepare assigns numbers or letters and builds the bibliography.
	// The store must have a global order and local orders imposed.
	Prepare(store *citation.Store) error

	// Markers renders the marker of every group. It does not modify the
	// store, so repeated calls return identical text.
	Markers(store *citation.Store) (map[citation.GroupID]ootext.Text, error)
}

// StrategyFor returns the strategy selected by the style's marker kind.
func StrategyFor(s *style.Style) Strategy {
	switch {
	case s.IsCitationKey():
		return citationKeyStrategy{style: s}
	case s.IsNumeric():
		return numericStrategy{style: s}
	}
	return authorYearStrategy{style: s}
}

// Options tunes Produce.
type Options struct {
	// UnresolvedFirst places unresolved citations first inside a group.
	UnresolvedFirst bool
}

// Result holds everything Produce computed.
type Result struct {
	Markers      map[citation.GroupID]ootext.Text
	Bibliography *citation.CitedKeys
}

// Produce resolves, orders, numbers or letters the citations of store and
// renders the marker of every group. The store must have a global order
// and no bibliography yet; both preconditions are checked before anything
// is changed.
func Produce(store *citation.Store, dbs []citation.Database, s *style.Style, opts Options) (*Result, error) {
	if !store.HasGlobalOrder() {
		return nil, fmt.Errorf("producing markers: %w", citation.ErrOrdering)
	}
	if _, ok := store.Bibliography(); ok {
		return nil, fmt.Errorf("producing markers: %w", citation.ErrStaleBibliography)
	}
	if err := store.LookupCitations(dbs); err != nil {
		return nil, fmt.Errorf("producing markers: %w", err)
	}
	store.ImposeLocalOrder(s.MultiCiteComparator(), opts.UnresolvedFirst)

	strategy := StrategyFor(s)
	if err := strategy.Prepare(store); err != nil {
		return nil, fmt.Errorf("producing markers: %w", err)
	}
	m, err := strategy.Markers(store)
	if err != nil {
		return nil, fmt.Errorf("producing markers: %w", err)
	}
	bib, _ := store.Bibliography()
	return &Result{Markers: m, Bibliography: bib}, nil
}

func requireBibliography(store *citation.Store) error {
	if _, ok := store.Bibliography(); !ok {
		return ErrNotPrepared
	}
	return nil
}

// wrapMarker applies the style's citation character format.
func wrapMarker(t ootext.Text, s *style.Style) ootext.Text {
	return ootext.CharStyle(t, s.CitationCharacterFormat)
}

func unresolvedText(key string) ootext.Text {
	return ootext.Concat("Unresolved(", ootext.Escape(key), ")")
}

// --- citation-key strategy ---

type citationKeyStrategy struct {
	style *style.Style
}

func (c citationKeyStrategy) Prepare(store *citation.Store) error {
	return store.CreatePlainBibliographySortedByComparator(c.style.AuthorYearTitle())
}

func (c citationKeyStrategy) Markers(store *citation.Store) (map[citation.GroupID]ootext.Text, error) {
	if err := requireBibliography(store); err != nil {
		return nil, err
	}
	out := make(map[citation.GroupID]ootext.Text, store.NumberOfGroups())
	for _, g := range store.GroupsUnordered() {
		cits := g.CitationsInLocalOrder()
		keys := make([]ootext.Text, len(cits))
		for i, cit := range cits {
			keys[i] = ootext.Escape(cit.Key())
		}
		m := ootext.Concat(
			ootext.FromString(c.style.CitationGroupMarkupBefore),
			ootext.Join(",", keys),
			ootext.FromString(c.style.CitationGroupMarkupAfter),
		)
		out[g.ID()] = wrapMarker(m, c.style)
	}
	return out, nil
}

// --- numeric strategy ---

type numericStrategy struct {
	style *style.Style
}

func (n numericStrategy) Prepare(store *citation.Store) error {
	if n.style.SortByPosition {
		return store.CreateNumberedBibliographySortedInOrderOfAppearance()
	}
	return store.CreateNumberedBibliographySortedByComparator(n.style.AuthorYearTitle())
}

func (n numericStrategy) Markers(store *citation.Store) (map[citation.GroupID]ootext.Text, error) {
	if err := requireBibliography(store); err != nil {
		return nil, err
	}
	opts := NumericOptionsFrom(n.style)
	out := make(map[citation.GroupID]ootext.Text, store.NumberOfGroups())
	for _, g := range store.GroupsUnordered() {
		cits := g.CitationsInLocalOrder()
		entries := make([]NumericEntry, len(cits))
		for i, cit := range cits {
			num, _ := cit.Number()
			entries[i] = NumericEntry{Key: cit.Key(), Number: num, PageInfo: cit.PageInfo()}
		}
		out[g.ID()] = wrapMarker(CompressNumeric(entries, opts), n.style)
	}
	return out, nil
}
