// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibstore

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// WriteBibTeX writes entries as BibTeX records.
func WriteBibTeX(w io.Writer, entries []types.BibEntry) error {
	var b strings.Builder
	for _, e := range entries {
		typ := e.Type
		if typ == "" {
			typ = "article"
		}
		fmt.Fprintf(&b, "@%s{%s,\n", typ, e.CitationKey)
		field(&b, "title", e.Title)
		field(&b, "author", strings.Join(e.Authors, " and "))
		field(&b, "editor", strings.Join(e.Editors, " and "))
		field(&b, "year", e.Year)
		field(&b, venueField(typ), e.Venue)
		field(&b, "publisher", e.Publisher)
		field(&b, "volume", e.Volume)
		field(&b, "pages", e.Pages)
		field(&b, "doi", e.DOI)
		b.WriteString("}\n\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func field(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "  %s = {%s},\n", name, value)
}

func venueField(typ string) string {
	switch typ {
	case "inproceedings", "incollection":
		return "booktitle"
	case "book":
		return "series"
	}
	return "journal"
}
