// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibstore

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-engine/internal/citation"
	"github.com/pdiddy/citation-engine/pkg/types"
)

var _ citation.Database = (*Store)(nil)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.EngineConfig{DatabaseDir: t.TempDir()}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func smith() types.BibEntry {
	return types.BibEntry{
		CitationKey: "Smith2000",
		Type:        "article",
		Authors:     []string{"Ann Smith", "Bob Jones"},
		Title:       "Alpha",
		Year:        "2000",
		Venue:       "J. Tests",
		DOI:         "10.1/x",
	}
}

func TestOpenRequiresDirectory(t *testing.T) {
	_, err := Open(types.EngineConfig{}, nil)
	assert.Error(t, err)
}

func TestImportAndLookup(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var out bytes.Buffer
	summary, err := s.Import(ctx, []types.BibEntry{
		smith(),
		{CitationKey: "Lee1999", Editors: []string{"Eve Lee"}, Title: "Collected", Year: "1999"},
		{Title: "No key"},
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Added: 2, Failed: 1}, summary)
	assert.Equal(t, 3, summary.Total())
	assert.Contains(t, out.String(), "added   Smith2000")
	assert.Contains(t, out.String(), "added: 2, updated: 0, unchanged: 0, failed: 1")

	got, ok, err := s.EntryByKey("Smith2000")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, smith(), got)

	lee, ok, err := s.EntryByKey("Lee1999")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, lee.Authors)
	assert.Equal(t, []string{"Eve Lee"}, lee.Editors)

	_, ok, err = s.EntryByKey("Nobody2020")
	require.NoError(t, err)
	assert.False(t, ok)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Lee1999", "Smith2000"}, keys)
}

func TestImportUpdates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Import(ctx, []types.BibEntry{smith()}, io.Discard)
	require.NoError(t, err)

	changed := smith()
	changed.Title = "Alpha, revised"
	summary, err := s.Import(ctx, []types.BibEntry{smith(), changed}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Unchanged: 1, Updated: 1}, summary)

	got, _, err := s.EntryByKey("Smith2000")
	require.NoError(t, err)
	assert.Equal(t, "Alpha, revised", got.Title)
}

func TestImportCancelled(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Import(ctx, []types.BibEntry{smith()}, io.Discard)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStoreServesLookup(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Import(context.Background(), []types.BibEntry{smith()}, io.Discard)
	require.NoError(t, err)

	res, err := citation.Lookup([]citation.Database{s}, "Smith2000")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, s.Name(), res.Database)
	assert.Equal(t, "Alpha", res.Entry.Title)
}

func TestReopenKeepsEntries(t *testing.T) {
	dir := t.TempDir()
	cfg := types.EngineConfig{DatabaseDir: dir}

	s, err := Open(cfg, nil)
	require.NoError(t, err)
	_, err = s.Import(context.Background(), []types.BibEntry{smith()}, io.Discard)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(cfg, nil)
	require.NoError(t, err)
	defer s.Close()
	_, ok, err := s.EntryByKey("Smith2000")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.FileExists(t, filepath.Join(dir, "bibliography.db"))
}

func TestLoadReferences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "references.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`papers:
  - citation_key: Vaswani2017
    title: Attention Is All You Need
    authors: [Ashish Vaswani, Noam Shazeer]
    year: 2017
    venue: NeurIPS
    type: inproceedings
  - citation_key: smith-notes
    title: Notes
`), 0o644))

	refs, err := LoadReferences(path)
	require.NoError(t, err)
	entries, err := Entries(refs)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2017", entries[0].Year)
	assert.Equal(t, "inproceedings", entries[0].Type)
	assert.Equal(t, "article", entries[1].Type)
	assert.Empty(t, entries[1].Year)

	_, err = LoadReferences(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEntriesRejectsBadKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []string
	}{
		{"space", []string{"Smith 2000"}},
		{"empty", []string{""}},
		{"digits only", []string{"2000"}},
		{"duplicate", []string{"Smith2000", "Smith2000"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			refs := &types.ReferencesFile{}
			for _, k := range tc.keys {
				refs.Papers = append(refs.Papers, types.ReferenceEntry{CitationKey: k})
			}
			_, err := Entries(refs)
			assert.Error(t, err)
		})
	}
}

func TestIsCitationKey(t *testing.T) {
	for _, k := range []string{"Smith2000", "smith_2000a", "doe:2001", "J.Doe-99"} {
		assert.True(t, IsCitationKey(k), k)
	}
	for _, k := range []string{"", "2000", "a b", "x{y}"} {
		assert.False(t, IsCitationKey(k), k)
	}
}

func TestWriteBibTeX(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, WriteBibTeX(&b, []types.BibEntry{
		smith(),
		{CitationKey: "Conf2001", Type: "inproceedings", Title: "Talk", Venue: "ConfX"},
	}))
	want := "@article{Smith2000,\n" +
		"  title = {Alpha},\n" +
		"  author = {Ann Smith and Bob Jones},\n" +
		"  year = {2000},\n" +
		"  journal = {J. Tests},\n" +
		"  doi = {10.1/x},\n" +
		"}\n\n" +
		"@inproceedings{Conf2001,\n" +
		"  title = {Talk},\n" +
		"  booktitle = {ConfX},\n" +
		"}\n\n"
	assert.Equal(t, want, b.String())
}

func TestCSLName(t *testing.T) {
	tests := []struct {
		in   string
		want CSLName
	}{
		{"Ann Smith", CSLName{Given: "Ann", Family: "Smith"}},
		{"Smith, Ann B.", CSLName{Family: "Smith", Given: "Ann B."}},
		{"Plato", CSLName{Literal: "Plato"}},
		{"{World Health Organization}", CSLName{Literal: "World Health Organization"}},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, cslName(tc.in))
		})
	}
}

func TestWriteCSL(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, WriteCSL(&b, []types.BibEntry{smith(), {CitationKey: "Misc", Year: "n.d."}}))
	out := b.String()
	assert.Contains(t, out, "id: Smith2000")
	assert.Contains(t, out, "type: article-journal")
	assert.Contains(t, out, "container-title: J. Tests")
	assert.Contains(t, out, "family: Jones")
	assert.Contains(t, out, "type: document")
	assert.Contains(t, out, "DOI: 10.1/x")

	var items []CSLItem
	require.NoError(t, yaml.Unmarshal(b.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, [][]int{{2000}}, items[0].Issued.DateParts)
	assert.Nil(t, items[1].Issued)
}
