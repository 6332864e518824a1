// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citation models the citation groups of one document and the
// cross-group views derived from them.
//
// A Store owns every Group. Each Group holds its Citations in storage order
// plus a local (presentation) order. Citations sharing a citation key are
// aggregated into CitedKeys, which address individual citations only
// through Paths (group id + storage index); lookup results, numbers and
// unique letters are always written back through those paths.
//
// The Store is not safe for concurrent mutation. Callers serialize all
// mutating calls through one owner.
package citation

import (
	"github.com/pdiddy/citation-engine/internal/ootext"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// LookupResult is a resolved citation: the entry and the name of the
// database it came from.
type LookupResult struct {
	Entry    types.BibEntry
	Database string
}

// Citation is one reference instance inside a group.
type Citation struct {
	key             string
	lookup          *LookupResult
	number          int
	uniqueLetter    string
	pageInfo        ootext.Text
	firstAppearance bool
}

// Key returns the citation key.
func (c Citation) Key() string { return c.key }

// LookupResult returns the resolved entry, or nil for an unresolved citation.
func (c Citation) LookupResult() *LookupResult { return c.lookup }

// Entry returns the resolved entry.
func (c Citation) Entry() (types.BibEntry, bool) {
	if c.lookup == nil {
		return types.BibEntry{}, false
	}
	return c.lookup.Entry, true
}

// IsResolved reports whether a database entry was found for the key.
func (c Citation) IsResolved() bool { return c.lookup != nil }

// Number returns the citation number assigned by a numeric bibliography.
func (c Citation) Number() (int, bool) { return c.number, c.number > 0 }

// UniqueLetter returns the disambiguating letter of an author-year marker.
func (c Citation) UniqueLetter() (string, bool) { return c.uniqueLetter, c.uniqueLetter != "" }

// PageInfo returns the page info presented with this citation. Citations
// returned by a Group carry the effective value for either data model.
func (c Citation) PageInfo() ootext.Text { return c.pageInfo }

// IsFirstAppearanceOfSource reports whether this is the first citation of
// its key in document order. Set by Store.MarkFirstAppearances.
func (c Citation) IsFirstAppearanceOfSource() bool { return c.firstAppearance }

// Path addresses one citation: its group and its storage index.
type Path struct {
	Group GroupID
	Index int
}
