// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docfile

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citation-engine/internal/citation"
	"github.com/pdiddy/citation-engine/internal/ootext"
	"github.com/pdiddy/citation-engine/internal/overlap"
	"github.com/pdiddy/citation-engine/internal/session"
	"github.com/pdiddy/citation-engine/internal/style"
	"github.com/pdiddy/citation-engine/pkg/types"
)

var _ session.Host = (*Document)(nil)

const sampleDoc = `
cursor: {flow: body, start: 200, end: 200}
bibliography: {flow: body, start: 1000, end: 1400}
groups:
  - id: late
    type: author-year-in-parens
    keys: [smith2000a, smith2000b]
    flow: body
    start: 300
    end: 310
    y: 900
  - id: early
    type: author-year
    keys: [smith2000b]
    page_infos: ["p. 4"]
    flow: body
    start: 10
    end: 20
    y: 100
    reference_mark: RM_early
  - id: note
    type: author-year-in-parens
    keys: [jones]
    flow: footnote-1
    start: 0
    end: 5
    y: 2000
    footnote_anchor: {flow: body, start: 150, end: 151, y: 500}
`

func sampleDBs() []citation.Database {
	return []citation.Database{citation.NewMemoryDatabase("refs",
		types.BibEntry{CitationKey: "smith2000a", Authors: []string{"Ann Smith"}, Year: "2000", Title: "Alpha"},
		types.BibEntry{CitationKey: "smith2000b", Authors: []string{"Ann Smith"}, Year: "2000", Title: "Beta"},
		types.BibEntry{CitationKey: "jones", Authors: []string{"Bob Jones"}, Year: "1999", Title: "Gamma"},
	)}
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)
	require.True(t, doc.HasDocument())

	specs, err := doc.Groups()
	require.NoError(t, err)
	require.Len(t, specs, 3)
	assert.Equal(t, citation.GroupID("early"), specs[1].ID)
	assert.Equal(t, []ootext.Text{"p. 4"}, specs[1].PageInfos)
	assert.Nil(t, specs[0].PageInfos)

	r, ok, err := doc.GroupRange("note")
	require.NoError(t, err)
	require.True(t, ok)
	anchor, ok := doc.FootnoteAnchor(r)
	require.True(t, ok)
	pos, err := doc.VisualPosition(anchor)
	require.NoError(t, err)
	assert.Equal(t, overlap.Point{X: 150, Y: 500}, pos)

	_, ok, err = doc.GroupRange("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"invalid yaml", "groups: [unclosed"},
		{"missing id", "groups: [{keys: [a]}]"},
		{"duplicate id", "groups: [{id: a, keys: [a]}, {id: a, keys: [b]}]"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			assert.Error(t, err)
		})
	}
}

func TestZeroDocument(t *testing.T) {
	var doc Document
	assert.False(t, doc.HasDocument())
	_, err := doc.Groups()
	assert.ErrorIs(t, err, session.ErrNoDocument)
	_, err = doc.ProtectedRanges()
	assert.ErrorIs(t, err, session.ErrNoDocument)
}

func TestRenderThroughSession(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	s := session.New(doc, quiet())
	rendered, err := s.Refresh(sampleDBs(), style.Default(types.MarkerAuthorYear), session.Options{})
	require.NoError(t, err)

	order, ok := s.Store().GlobalOrder()
	require.True(t, ok)
	assert.Equal(t, []citation.GroupID{"early", "note", "late"}, order)

	// Letters follow first appearance: smith2000b is cited first.
	assert.Equal(t, "Smith (2000a; p. 4)", rendered.Markers["early"].String())
	assert.Equal(t, "(Jones, 1999)", rendered.Markers["note"].String())
	assert.Equal(t, "(Smith, 2000b,a)", rendered.Markers["late"].String())

	out := NewOutput("default", order, rendered)
	assert.Equal(t, "early", out.Markers[0].ID)
	require.Len(t, out.References, 3)
	assert.Equal(t, "jones", out.References[0].Key)
	assert.Equal(t, "refs", out.References[0].Database)

	var buf bytes.Buffer
	require.NoError(t, WriteOutput(&buf, out, false))
	assert.Contains(t, buf.String(), "text: Smith (2000a; p. 4)")

	buf.Reset()
	require.NoError(t, WriteOutput(&buf, out, true))
	var decoded Output
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, out, decoded)
}

func TestCreateAndRemoveGroup(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)
	s := session.New(doc, quiet())

	at := overlap.Span{Flow: "body", Start: 200, End: 200}
	id, err := s.InsertCitation([]string{"jones"}, nil, types.CitationAuthorYearInParens, at)
	require.NoError(t, err)

	_, err = uuid.Parse(string(id))
	assert.NoError(t, err)
	created := doc.File().Groups[len(doc.File().Groups)-1]
	assert.Equal(t, "CIT_"+string(id), created.ReferenceMark)

	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, doc.Save(path))
	reloaded, err := Load(path)
	require.NoError(t, err)
	specs, err := reloaded.Groups()
	require.NoError(t, err)
	assert.Len(t, specs, 4)

	require.NoError(t, s.RemoveCitation(id))
	assert.Len(t, doc.File().Groups, 3)
	assert.ErrorIs(t, doc.RemoveGroup(id), citation.ErrUnknownGroup)
}

func TestInsertRejectedInsideBibliography(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)
	s := session.New(doc, quiet())

	_, err = s.InsertCitation([]string{"jones"}, nil, types.CitationAuthorYearInParens,
		overlap.Span{Flow: "body", Start: 1200, End: 1200})
	assert.ErrorIs(t, err, session.ErrProtectedRange)
	assert.Len(t, doc.File().Groups, 3)
}

func TestProtectedRanges(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)
	p, err := doc.ProtectedRanges()
	require.NoError(t, err)
	assert.Len(t, p.Citations, 3)
	assert.Len(t, p.FootnoteAnchors, 1)
	assert.Equal(t, "bibliography", p.Bibliography.Description)
	assert.Equal(t, "cursor", p.Cursor.Description)
}
