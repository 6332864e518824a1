// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citation-engine/internal/citation"
	"github.com/pdiddy/citation-engine/internal/style"
	"github.com/pdiddy/citation-engine/pkg/types"
)

func TestFullReference(t *testing.T) {
	s := style.Default(types.MarkerAuthorYear)
	tests := []struct {
		name   string
		entry  types.BibEntry
		letter string
		want   string
	}{
		{
			name: "article",
			entry: types.BibEntry{
				CitationKey: "smith2000",
				Authors:     []string{"Ann Smith", "Bob Jones"},
				Year:        "2000",
				Title:       "Alpha.",
				Venue:       "J. Tests",
				Volume:      "3",
				Pages:       "1-10",
				DOI:         "10.1/x",
			},
			want: "Ann Smith &amp; Bob Jones (2000). <i>Alpha</i>. J. Tests, 3, 1-10. doi:10.1/x.",
		},
		{
			name:   "book with letter",
			entry:  types.BibEntry{Authors: []string{"Ann Smith"}, Year: "2000", Title: "Beta", Publisher: "Acme"},
			letter: "b",
			want:   "Ann Smith (2000b). <i>Beta</i>. Acme.",
		},
		{
			name:  "edited",
			entry: types.BibEntry{Editors: []string{"Eve Editor"}, Title: "Collected"},
			want:  "Eve Editor (Ed.). <i>Collected</i>.",
		},
		{
			name:  "nothing but a key",
			entry: types.BibEntry{CitationKey: "bare"},
			want:  "bare",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FullReference(tc.entry, tc.letter, s).String())
		})
	}
}

func TestFormatBibliographyNumeric(t *testing.T) {
	store := orderedStore(t, numeric("G1", "keyB"), numeric("G2", "keyA", "nowhere"))
	dbs := db(bib("keyA", "Ann Adams", "1999", "A"), bib("keyB", "Bob Brown", "1990", "B"))
	s := numericStyle(t, true)

	_, err := Produce(store, dbs, s, Options{})
	require.NoError(t, err)

	got, err := FormatBibliography(store, s, BibliographyOptions{})
	require.NoError(t, err)
	want := `<p oo:ParaStyleName="Heading 1">References</p>` +
		`<p oo:ParaStyleName="Bibliography 1">[1] Bob Brown (1990). <i>B</i>.</p>` +
		`<p oo:ParaStyleName="Bibliography 1">[2] Ann Adams (1999). <i>A</i>.</p>` +
		`<p oo:ParaStyleName="Bibliography 1">Unresolved(nowhere)</p>`
	assert.Equal(t, want, got.String())
}

func TestFormatBibliographyCitationKeys(t *testing.T) {
	store := orderedStore(t, groupSpec{id: "G1", typ: types.CitationKeys, keys: []string{"keyA"}})
	s := style.Default(types.MarkerCitationKey)

	_, err := Produce(store, db(bib("keyA", "Ann Adams", "1999", "A")), s, Options{})
	require.NoError(t, err)

	got, err := FormatBibliographyBody(store, s, BibliographyOptions{})
	require.NoError(t, err)
	assert.Equal(t, `<p oo:ParaStyleName="Bibliography 1">[keyA] Ann Adams (1999). <i>A</i>.</p>`, got.String())
}

func TestFormatBibliographyCitedOnPages(t *testing.T) {
	store := orderedStore(t, numeric("G1", "keyA"), numeric("G2", "keyA"), numeric("G3", "keyA"))
	marks := map[citation.GroupID]string{"G1": "RM1", "G3": "RM3"}
	for id, name := range marks {
		g, err := store.Group(id)
		require.NoError(t, err)
		g.ReferenceMarkName = name
	}
	// Reverse document order: the cross references follow it.
	require.NoError(t, store.SetGlobalOrder([]citation.GroupID{"G3", "G2", "G1"}))

	s := numericStyle(t, true)
	_, err := Produce(store, db(bib("keyA", "Ann Adams", "1999", "A")), s, Options{})
	require.NoError(t, err)

	got, err := FormatBibliographyBody(store, s, BibliographyOptions{CitedOnPages: true})
	require.NoError(t, err)
	assert.Equal(t,
		`<p oo:ParaStyleName="Bibliography 1">[1] Ann Adams (1999). <i>A</i>. Cited on pages: `+
			`<oo:referenceToPageNumberOfReferenceMark target="RM3">, `+
			`<oo:referenceToPageNumberOfReferenceMark target="RM1"></p>`,
		got.String())
}

func TestFormatBibliographyNotPrepared(t *testing.T) {
	store := orderedStore(t, numeric("G1", "keyA"))
	_, err := FormatBibliography(store, numericStyle(t, true), BibliographyOptions{})
	assert.ErrorIs(t, err, ErrNotPrepared)
}
