// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package style

import (
	"regexp"
	"strings"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// yearRe matches a 4-digit year.
var yearRe = regexp.MustCompile(`\b(\d{4})\b`)

// Year returns the first 4-digit year in s, or s trimmed when it has none.
func Year(s string) string {
	if m := yearRe.FindStringSubmatch(s); len(m) >= 2 {
		return m[1]
	}
	return strings.TrimSpace(s)
}

// EntryAuthors returns the authors of e, or its editors when it has no
// authors.
func EntryAuthors(e types.BibEntry) []string {
	if len(e.Authors) > 0 {
		return e.Authors
	}
	return e.Editors
}

// FamilyName extracts the family name from "Family, Given" or
// "Given Family". Braced names ("{World Health Organization}") are
// institutional and returned whole without braces.
func FamilyName(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "{") && strings.HasSuffix(name, "}") {
		return strings.TrimSpace(name[1 : len(name)-1])
	}
	if i := strings.Index(name, ","); i >= 0 {
		return strings.TrimSpace(name[:i])
	}
	if i := strings.LastIndex(name, " "); i >= 0 {
		return name[i+1:]
	}
	return name
}

// AuthorList formats family names for a marker. Lists longer than
// maxAuthors become the first family name followed by EtAlString; a
// negative maxAuthors never truncates. lastSep joins the final two names.
func (s *Style) AuthorList(names []string, maxAuthors int, lastSep string) string {
	switch {
	case len(names) == 0:
		return ""
	case maxAuthors >= 0 && len(names) > maxAuthors:
		return FamilyName(names[0]) + s.EtAlString
	case len(names) == 1:
		return FamilyName(names[0])
	}
	families := make([]string, len(names))
	for i, n := range names {
		families[i] = FamilyName(n)
	}
	return strings.Join(families[:len(families)-1], s.AuthorSeparator) + lastSep + families[len(families)-1]
}

// MaxAuthorsFor returns the author limit for a citation, which is larger on
// the first appearance of a source when MaxAuthorsFirst says so.
func (s *Style) MaxAuthorsFor(firstAppearance bool) int {
	if firstAppearance && s.MaxAuthorsFirst != 0 {
		return s.MaxAuthorsFirst
	}
	return s.MaxAuthors
}
