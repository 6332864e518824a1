// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citation-engine/internal/ootext"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// --- test helpers ---

func mustGroup(t *testing.T, id string, keys ...string) *Group {
	t.Helper()
	g, err := NewGroup(GroupID(id), types.CitationNumeric, keys, nil, "")
	require.NoError(t, err)
	return g
}

func mustStore(t *testing.T, groups ...*Group) *Store {
	t.Helper()
	s, err := NewStoreFromGroups(groups)
	require.NoError(t, err)
	return s
}

// byKey compares entries by citation key.
func byKey(a, b types.BibEntry) int {
	return strings.Compare(a.CitationKey, b.CitationKey)
}

// byYear compares entries by year only.
func byYear(a, b types.BibEntry) int {
	return strings.Compare(a.Year, b.Year)
}

func entry(key, year string) types.BibEntry {
	return types.BibEntry{CitationKey: key, Year: year, Authors: []string{"Ann Smith"}}
}

func testDB(entries ...types.BibEntry) []Database {
	return []Database{NewMemoryDatabase("main", entries...)}
}

type failingDB struct{}

func (failingDB) Name() string { return "broken" }

func (failingDB) EntryByKey(string) (types.BibEntry, bool, error) {
	return types.BibEntry{}, false, errors.New("disk on fire")
}

func pageInfos(s ...string) []ootext.Text {
	out := make([]ootext.Text, len(s))
	for i, p := range s {
		out[i] = ootext.Text(p)
	}
	return out
}

func isPermutation(order []int, n int) bool {
	if len(order) != n {
		return false
	}
	seen := make([]bool, n)
	for _, i := range order {
		if i < 0 || i >= n || seen[i] {
			return false
		}
		seen[i] = true
	}
	return true
}
