// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citation-engine/internal/ootext"
	"github.com/pdiddy/citation-engine/pkg/types"
)

func TestNewGroupValidation(t *testing.T) {
	tests := []struct {
		name      string
		id        GroupID
		typ       types.CitationType
		keys      []string
		pageInfos []ootext.Text
		groupPage ootext.Text
		wantErr   error
	}{
		{name: "valid", id: "g1", typ: types.CitationNumeric, keys: []string{"a", "b"}},
		{name: "empty id", id: "", typ: types.CitationNumeric, keys: []string{"a"}, wantErr: ErrInvalidGroup},
		{name: "no keys", id: "g1", typ: types.CitationNumeric, wantErr: ErrInvalidGroup},
		{name: "blank key", id: "g1", typ: types.CitationNumeric, keys: []string{" "}, wantErr: ErrInvalidGroup},
		{name: "unknown type", id: "g1", typ: "footnote", keys: []string{"a"}, wantErr: ErrInvalidGroup},
		{
			name: "page info count mismatch", id: "g1", typ: types.CitationNumeric,
			keys: []string{"a", "b"}, pageInfos: pageInfos("p. 1"), wantErr: ErrInvalidGroup,
		},
		{
			name: "both page info layouts", id: "g1", typ: types.CitationAuthorYear,
			keys: []string{"a", "b"}, pageInfos: pageInfos("", "p. 1"), groupPage: "p. 2",
			wantErr: ErrDataModelConflict,
		},
		{
			name: "blank citation page info with group page info", id: "g1", typ: types.CitationAuthorYear,
			keys: []string{"a", "b"}, pageInfos: pageInfos(" ", ""), groupPage: "p. 2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGroup(tt.id, tt.typ, tt.keys, tt.pageInfos, tt.groupPage)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "error %v is not %v", err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []int{0, 1}, g.LocalOrder())
			_, ok := g.IndexInGlobalOrder()
			assert.False(t, ok)
		})
	}
}

func TestImposeLocalOrderIsPermutation(t *testing.T) {
	s := mustStore(t, mustGroup(t, "g1", "c", "missing", "a", "b", "a"))
	require.NoError(t, s.LookupCitations(testDB(entry("a", "2001"), entry("b", "1999"), entry("c", "2000"))))
	g, err := s.Group("g1")
	require.NoError(t, err)

	for _, cmp := range []EntryComparator{byKey, byYear} {
		for _, unresolvedFirst := range []bool{true, false} {
			g.ImposeLocalOrder(cmp, unresolvedFirst)
			assert.True(t, isPermutation(g.LocalOrder(), g.NumberOfCitations()), "order %v", g.LocalOrder())
		}
	}
}

func TestImposeLocalOrderUnresolvedPlacement(t *testing.T) {
	s := mustStore(t, mustGroup(t, "g1", "b", "zzz", "a"))
	require.NoError(t, s.LookupCitations(testDB(entry("a", "2001"), entry("b", "1999"))))
	g, _ := s.Group("g1")

	g.ImposeLocalOrder(byKey, true)
	assert.Equal(t, []int{1, 2, 0}, g.LocalOrder())

	g.ImposeLocalOrder(byKey, false)
	assert.Equal(t, []int{2, 0, 1}, g.LocalOrder())

	g.ImposeLocalOrder(byYear, false)
	assert.Equal(t, []int{0, 2, 1}, g.LocalOrder())
}

func TestImposeLocalOrderPageInfoTieBreak(t *testing.T) {
	g, err := NewGroup("g1", types.CitationNumeric, []string{"a", "a", "a"}, pageInfos("p. 9", "", "p. 2"), "")
	require.NoError(t, err)
	s := mustStore(t, g)
	require.NoError(t, s.LookupCitations(testDB(entry("a", "2000"))))

	g.ImposeLocalOrder(byKey, true)
	assert.Equal(t, []int{1, 2, 0}, g.LocalOrder())
}

func TestLegacyPageInfoFollowsLastCitation(t *testing.T) {
	g, err := NewGroup("g1", types.CitationAuthorYearInParens, []string{"b", "a", "c"}, nil, " p. 12 ")
	require.NoError(t, err)
	s := mustStore(t, g)
	assert.Equal(t, DataModelLegacy, s.Model())
	require.NoError(t, s.LookupCitations(testDB(entry("a", "2000"), entry("b", "2001"), entry("c", "1999"))))

	countPageInfo := func() (int, int) {
		n, last := 0, -1
		for i, c := range g.CitationsInLocalOrder() {
			if !c.PageInfo().IsEmpty() {
				n++
				last = i
			}
		}
		return n, last
	}

	// Before sorting the page info sits on storage index 2 ("c").
	assert.Equal(t, ootext.Text("p. 12"), g.PageInfoAt(2))
	n, last := countPageInfo()
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, last)

	g.ImposeLocalOrder(byKey, true)
	assert.Equal(t, []int{1, 0, 2}, g.LocalOrder())
	n, last = countPageInfo()
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, last)

	g.ImposeLocalOrder(byYear, true)
	assert.Equal(t, []int{2, 1, 0}, g.LocalOrder())
	assert.Equal(t, ootext.Text("p. 12"), g.PageInfoAt(0), "page info moves to the new last citation")
	assert.Empty(t, g.PageInfoAt(2))
	n, last = countPageInfo()
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, last)
}

func TestCompareCitations(t *testing.T) {
	resolved := Citation{key: "a", lookup: &LookupResult{Entry: entry("a", "2000")}}
	unresolved := Citation{key: "x"}

	assert.Equal(t, -1, CompareCitations(unresolved, resolved, byKey, true))
	assert.Equal(t, 1, CompareCitations(resolved, unresolved, byKey, true))
	assert.Equal(t, 1, CompareCitations(unresolved, resolved, byKey, false))
	assert.Equal(t, -1, CompareCitations(resolved, unresolved, byKey, false))
	assert.Equal(t, -1, CompareCitations(Citation{key: "a"}, Citation{key: "b"}, byKey, true))

	withPage := resolved
	withPage.pageInfo = "p. 3"
	assert.Equal(t, -1, CompareCitations(resolved, withPage, byKey, true))
}

func TestDetectDataModel(t *testing.T) {
	legacy, err := NewGroup("legacy", types.CitationAuthorYear, []string{"a"}, nil, "p. 1")
	require.NoError(t, err)
	perCitation, err := NewGroup("per", types.CitationAuthorYear, []string{"a"}, pageInfos("p. 2"), "")
	require.NoError(t, err)
	plain := mustGroup(t, "plain", "a")

	m, err := DetectDataModel([]*Group{plain, legacy})
	require.NoError(t, err)
	assert.Equal(t, DataModelLegacy, m)

	m, err = DetectDataModel([]*Group{plain, perCitation})
	require.NoError(t, err)
	assert.Equal(t, DataModelPerCitation, m)

	m, err = DetectDataModel([]*Group{plain})
	require.NoError(t, err)
	assert.Equal(t, DataModelPerCitation, m)

	_, err = DetectDataModel([]*Group{legacy, plain, perCitation})
	assert.ErrorIs(t, err, ErrDataModelConflict)

	_, err = NewStoreFromGroups([]*Group{perCitation, legacy})
	assert.ErrorIs(t, err, ErrDataModelConflict)
}

func TestDataModelString(t *testing.T) {
	assert.Equal(t, "legacy", DataModelLegacy.String())
	assert.Equal(t, "per-citation", DataModelPerCitation.String())
	assert.Equal(t, "DataModel(7)", DataModel(7).String())
}
