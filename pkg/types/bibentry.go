// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// BibEntry is a bibliographic record as seen by the citation engine. The
// engine never parses bibliography files; entries arrive already structured
// from a database (see internal/bibstore).
type BibEntry struct {
	// CitationKey is the unique label the document cites (e.g. "Vaswani2017").
	CitationKey string `json:"citation_key" yaml:"citation_key"`

	// Type is the entry type (article, book, inproceedings, ...).
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Authors lists author names in source order, either "Given Family" or
	// "Family, Given".
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Editors is used in place of Authors when the entry has no authors.
	Editors []string `json:"editors,omitempty" yaml:"editors,omitempty"`

	// Title is the work's title.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Year is the publication year as written in the source.
	Year string `json:"year,omitempty" yaml:"year,omitempty"`

	// Venue is the journal, conference, or book title.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// Publisher is the publishing house, if any.
	Publisher string `json:"publisher,omitempty" yaml:"publisher,omitempty"`

	// Volume, Pages and DOI are printed in the bibliography when present.
	Volume string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Pages  string `json:"pages,omitempty" yaml:"pages,omitempty"`
	DOI    string `json:"doi,omitempty" yaml:"doi,omitempty"`
}

// ReferenceEntry records a cited paper in references.yaml.
type ReferenceEntry struct {
	// CitationKey is the inline citation label (e.g. "Vaswani2017").
	CitationKey string `json:"citation_key" yaml:"citation_key"`

	// PaperID is an optional slug identifying the paper elsewhere.
	PaperID string `json:"paper_id,omitempty" yaml:"paper_id,omitempty"`

	// Title is the cited paper's title.
	Title string `json:"title" yaml:"title"`

	// Authors lists author names.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year.
	Year int `json:"year" yaml:"year"`

	// Venue is the journal or conference (optional).
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// Type is the entry type; empty means "article".
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// DOI is the digital object identifier (optional).
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`
}

// ReferencesFile holds all cited papers from references.yaml.
type ReferencesFile struct {
	// Papers lists every cited paper.
	Papers []ReferenceEntry `json:"papers" yaml:"papers"`
}

// CitationType records how a citation group was inserted into the document.
type CitationType string

const (
	// CitationAuthorYear is an in-text author-year citation: Smith (2000).
	CitationAuthorYear CitationType = "author-year"

	// CitationAuthorYearInParens is a parenthesized citation: (Smith, 2000).
	CitationAuthorYearInParens CitationType = "author-year-in-parens"

	// CitationKeys renders the raw citation keys.
	CitationKeys CitationType = "citation-keys"

	// CitationNumeric is a numbered citation: [1].
	CitationNumeric CitationType = "numeric"
)

// Valid reports whether t is one of the known citation types.
func (t CitationType) Valid() bool {
	switch t {
	case CitationAuthorYear, CitationAuthorYearInParens, CitationKeys, CitationNumeric:
		return true
	}
	return false
}
