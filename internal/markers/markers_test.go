// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citation-engine/internal/citation"
	"github.com/pdiddy/citation-engine/internal/ootext"
	"github.com/pdiddy/citation-engine/internal/style"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// --- test helpers ---

type groupSpec struct {
	id    string
	typ   types.CitationType
	keys  []string
	pages []string
}

// orderedStore builds a store whose global order is the order of specs.
func orderedStore(t *testing.T, specs ...groupSpec) *citation.Store {
	t.Helper()
	groups := make([]*citation.Group, len(specs))
	order := make([]citation.GroupID, len(specs))
	for i, sp := range specs {
		var pages []ootext.Text
		for _, p := range sp.pages {
			pages = append(pages, ootext.Text(p))
		}
		g, err := citation.NewGroup(citation.GroupID(sp.id), sp.typ, sp.keys, pages, "")
		require.NoError(t, err)
		groups[i] = g
		order[i] = g.ID()
	}
	store, err := citation.NewStoreFromGroups(groups)
	require.NoError(t, err)
	require.NoError(t, store.SetGlobalOrder(order))
	return store
}

func numericStyle(t *testing.T, sortByPosition bool) *style.Style {
	t.Helper()
	cfg := style.DefaultConfig(types.MarkerNumeric)
	cfg.SortByPosition = sortByPosition
	s, err := style.New(cfg)
	require.NoError(t, err)
	return s
}

func db(entries ...types.BibEntry) []citation.Database {
	return []citation.Database{citation.NewMemoryDatabase("main", entries...)}
}

func bib(key, author, year, title string) types.BibEntry {
	return types.BibEntry{CitationKey: key, Authors: []string{author}, Year: year, Title: title}
}

func numeric(id string, keys ...string) groupSpec {
	return groupSpec{id: id, typ: types.CitationNumeric, keys: keys}
}

// --- Produce ---

func TestProduceNumericInOrderOfAppearance(t *testing.T) {
	store := orderedStore(t, numeric("G1", "keyA"), numeric("G2", "keyB"), numeric("G3", "keyA"))
	dbs := db(bib("keyA", "Zed Zimmer", "2001", "A"), bib("keyB", "Ann Adams", "1999", "B"))

	res, err := Produce(store, dbs, numericStyle(t, true), Options{})
	require.NoError(t, err)

	assert.Equal(t, ootext.Text("[1]"), res.Markers["G1"])
	assert.Equal(t, ootext.Text("[2]"), res.Markers["G2"])
	assert.Equal(t, ootext.Text("[1]"), res.Markers["G3"])
	assert.Equal(t, []string{"keyA", "keyB"}, res.Bibliography.Keys())
}

func TestProduceNumericSortedByAuthor(t *testing.T) {
	store := orderedStore(t, numeric("G1", "keyA"), numeric("G2", "keyB", "keyA"))
	dbs := db(bib("keyA", "Zed Zimmer", "2001", "A"), bib("keyB", "Ann Adams", "1999", "B"))

	res, err := Produce(store, dbs, numericStyle(t, false), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"keyB", "keyA"}, res.Bibliography.Keys())
	assert.Equal(t, ootext.Text("[2]"), res.Markers["G1"])
	assert.Equal(t, ootext.Text("[1,2]"), res.Markers["G2"])
}

func TestProduceNumericUnresolved(t *testing.T) {
	store := orderedStore(t, numeric("G1", "nowhere", "keyA"))

	res, err := Produce(store, db(bib("keyA", "Ann Adams", "1999", "A")), numericStyle(t, true), Options{})
	require.NoError(t, err)

	assert.Equal(t, ootext.Text("[??nowhere,1]"), res.Markers["G1"])
	ck, ok := res.Bibliography.Get("nowhere")
	require.True(t, ok)
	assert.False(t, ck.IsResolved())
	assert.Zero(t, ck.Number)
}

func TestProduceCitationKeys(t *testing.T) {
	store := orderedStore(t,
		groupSpec{id: "G1", typ: types.CitationKeys, keys: []string{"beta", "alpha"}},
		groupSpec{id: "G2", typ: types.CitationKeys, keys: []string{"missing"}},
	)
	s := style.Default(types.MarkerCitationKey)
	dbs := db(bib("alpha", "Ann Adams", "1999", "A"), bib("beta", "Bob Brown", "1990", "B"))

	res, err := Produce(store, dbs, s, Options{})
	require.NoError(t, err)
	assert.Equal(t, ootext.Text("[alpha,beta]"), res.Markers["G1"])
	assert.Equal(t, ootext.Text("[missing]"), res.Markers["G2"])

	again, err := StrategyFor(s).Markers(store)
	require.NoError(t, err)
	assert.Equal(t, res.Markers, again)
}

func TestProduceCharacterFormat(t *testing.T) {
	cfg := style.DefaultConfig(types.MarkerNumeric)
	cfg.CitationCharacterFormat = "Citation"
	s, err := style.New(cfg)
	require.NoError(t, err)

	store := orderedStore(t, numeric("G1", "keyA"))
	res, err := Produce(store, db(bib("keyA", "Ann Adams", "1999", "A")), s, Options{})
	require.NoError(t, err)
	assert.Equal(t, ootext.Text(`<span oo:CharStyleName="Citation">[1]</span>`), res.Markers["G1"])
}

func TestProduceUnresolvedFirst(t *testing.T) {
	store := orderedStore(t, groupSpec{id: "G1", typ: types.CitationAuthorYearInParens, keys: []string{"keyA", "nowhere"}})
	s := style.Default(types.MarkerAuthorYear)

	res, err := Produce(store, db(bib("keyA", "Ann Adams", "1999", "A")), s, Options{UnresolvedFirst: true})
	require.NoError(t, err)
	assert.Equal(t, ootext.Text("(Unresolved(nowhere); Adams, 1999)"), res.Markers["G1"])
}

func TestProducePreconditions(t *testing.T) {
	t.Run("no global order", func(t *testing.T) {
		g, err := citation.NewGroup("G1", types.CitationNumeric, []string{"keyA"}, nil, "")
		require.NoError(t, err)
		store, err := citation.NewStoreFromGroups([]*citation.Group{g})
		require.NoError(t, err)

		_, err = Produce(store, db(), numericStyle(t, true), Options{})
		assert.ErrorIs(t, err, citation.ErrOrdering)
		_, ok := store.Bibliography()
		assert.False(t, ok)
	})

	t.Run("bibliography already built", func(t *testing.T) {
		store := orderedStore(t, numeric("G1", "keyA"))
		_, err := Produce(store, db(), numericStyle(t, true), Options{})
		require.NoError(t, err)

		_, err = Produce(store, db(), numericStyle(t, true), Options{})
		assert.ErrorIs(t, err, citation.ErrStaleBibliography)
	})

	t.Run("markers before prepare", func(t *testing.T) {
		store := orderedStore(t, numeric("G1", "keyA"))
		_, err := StrategyFor(numericStyle(t, true)).Markers(store)
		assert.ErrorIs(t, err, ErrNotPrepared)
	})
}

func TestStrategyFor(t *testing.T) {
	assert.IsType(t, numericStrategy{}, StrategyFor(style.Default(types.MarkerNumeric)))
	assert.IsType(t, citationKeyStrategy{}, StrategyFor(style.Default(types.MarkerCitationKey)))
	assert.IsType(t, authorYearStrategy{}, StrategyFor(style.Default(types.MarkerAuthorYear)))
}
