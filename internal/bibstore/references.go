// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibstore

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// LoadReferences reads a references.yaml file.
func LoadReferences(path string) (*types.ReferencesFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading references: %w", err)
	}
	var refs types.ReferencesFile
	if err := yaml.Unmarshal(data, &refs); err != nil {
		return nil, fmt.Errorf("parsing references: %w", err)
	}
	return &refs, nil
}

// Entries converts references to bibliographic entries. Every citation key
// must be valid and unique.
func Entries(refs *types.ReferencesFile) ([]types.BibEntry, error) {
	out := make([]types.BibEntry, 0, len(refs.Papers))
	seen := make(map[string]bool, len(refs.Papers))
	for i, r := range refs.Papers {
		if !IsCitationKey(r.CitationKey) {
			return nil, fmt.Errorf("reference %d: invalid citation key %q", i+1, r.CitationKey)
		}
		if seen[r.CitationKey] {
			return nil, fmt.Errorf("reference %d: duplicate citation key %q", i+1, r.CitationKey)
		}
		seen[r.CitationKey] = true

		e := types.BibEntry{
			CitationKey: r.CitationKey,
			Type:        r.Type,
			Authors:     r.Authors,
			Title:       r.Title,
			Venue:       r.Venue,
			DOI:         r.DOI,
		}
		if e.Type == "" {
			e.Type = "article"
		}
		if r.Year > 0 {
			e.Year = strconv.Itoa(r.Year)
		}
		out = append(out, e)
	}
	return out, nil
}

// IsCitationKey reports whether s looks like a citation key: letters,
// digits, hyphens, underscores, colons and dots, with at least one letter.
func IsCitationKey(s string) bool {
	hasLetter := false
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			hasLetter = true
		case c >= '0' && c <= '9':
		case strings.ContainsRune("-_:.", c):
		default:
			return false
		}
	}
	return hasLetter
}
