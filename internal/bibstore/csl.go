// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibstore

import (
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// CSLItem is a bibliographic entry in CSL-YAML form, readable by Pandoc and
// reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title,omitempty"`
	Author         []CSLName `yaml:"author,omitempty"`
	Editor         []CSLName `yaml:"editor,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Publisher      string    `yaml:"publisher,omitempty"`
	Volume         string    `yaml:"volume,omitempty"`
	Page           string    `yaml:"page,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
}

// CSLName is a person or institution name.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate is a date as CSL date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// cslTypes maps BibTeX entry types to CSL item types.
var cslTypes = map[string]string{
	"article":       "article-journal",
	"book":          "book",
	"inproceedings": "paper-conference",
	"incollection":  "chapter",
	"phdthesis":     "thesis",
	"mastersthesis": "thesis",
	"techreport":    "report",
	"patent":        "patent",
}

// WriteCSL writes entries as a CSL-YAML list.
func WriteCSL(w io.Writer, entries []types.BibEntry) error {
	items := make([]CSLItem, len(entries))
	for i, e := range entries {
		items[i] = toCSLItem(e)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

func toCSLItem(e types.BibEntry) CSLItem {
	item := CSLItem{
		ID:             e.CitationKey,
		Type:           "document",
		Title:          e.Title,
		ContainerTitle: e.Venue,
		Publisher:      e.Publisher,
		Volume:         e.Volume,
		Page:           e.Pages,
		DOI:            e.DOI,
	}
	if t, ok := cslTypes[strings.ToLower(e.Type)]; ok {
		item.Type = t
	}
	for _, a := range e.Authors {
		item.Author = append(item.Author, cslName(a))
	}
	for _, ed := range e.Editors {
		item.Editor = append(item.Editor, cslName(ed))
	}
	if y, err := strconv.Atoi(strings.TrimSpace(e.Year)); err == nil {
		item.Issued = &CSLDate{DateParts: [][]int{{y}}}
	}
	return item
}

// cslName splits "Family, Given" or "Given Family". Braced and single-token
// names become literals.
func cslName(name string) CSLName {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "{") && strings.HasSuffix(name, "}") {
		return CSLName{Literal: strings.TrimSpace(name[1 : len(name)-1])}
	}
	if family, given, ok := strings.Cut(name, ","); ok {
		return CSLName{Family: strings.TrimSpace(family), Given: strings.TrimSpace(given)}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{Given: name[:idx], Family: name[idx+1:]}
}
