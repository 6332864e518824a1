// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the citation engine:
// bibliographic entries, citation types, style and engine configuration.
package types

// MarkerKind selects the citation marker strategy of a style.
type MarkerKind string

const (
	MarkerAuthorYear  MarkerKind = "author-year"
	MarkerNumeric     MarkerKind = "numeric"
	MarkerCitationKey MarkerKind = "citation-key"
)

// StyleConfig holds the settings of a citation style. Zero-valued fields
// in a style file keep the defaults from style.DefaultConfig.
type StyleConfig struct {
	// Name is a human-readable style name.
	Name string `json:"name" yaml:"name"`

	// Kind selects the marker strategy: author-year, numeric, or citation-key.
	Kind MarkerKind `json:"kind" yaml:"kind"`

	// Locale is the BCP 47 tag used to collate author names and titles
	// (default "en").
	Locale string `json:"locale" yaml:"locale"`

	// SortByPosition numbers a numeric bibliography in order of first
	// appearance instead of sorting it by author, year and title.
	SortByPosition bool `json:"sort_by_position" yaml:"sort_by_position"`

	// MultiCiteChronological orders citations inside one group by year
	// first instead of by author first.
	MultiCiteChronological bool `json:"multi_cite_chronological" yaml:"multi_cite_chronological"`

	// MinimumGroupingCount is the smallest run of consecutive numbers that
	// is compressed to "first-last" (default 3).
	MinimumGroupingCount int `json:"minimum_grouping_count" yaml:"minimum_grouping_count"`

	// BracketBefore and BracketAfter wrap a citation marker.
	BracketBefore string `json:"bracket_before" yaml:"bracket_before"`
	BracketAfter  string `json:"bracket_after" yaml:"bracket_after"`

	// BracketBeforeInList and BracketAfterInList wrap a numeric label in
	// the bibliography.
	BracketBeforeInList string `json:"bracket_before_in_list" yaml:"bracket_before_in_list"`
	BracketAfterInList  string `json:"bracket_after_in_list" yaml:"bracket_after_in_list"`

	// CitationSeparator separates citations inside one marker.
	CitationSeparator string `json:"citation_separator" yaml:"citation_separator"`

	// GroupedNumbersSeparator joins the ends of a compressed numeric range.
	GroupedNumbersSeparator string `json:"grouped_numbers_separator" yaml:"grouped_numbers_separator"`

	// PageInfoSeparator precedes page info inside a marker.
	PageInfoSeparator string `json:"page_info_separator" yaml:"page_info_separator"`

	// YearSeparator separates authors from year in parenthesized markers.
	YearSeparator string `json:"year_separator" yaml:"year_separator"`

	// InTextYearSeparator separates authors from the bracketed year in
	// in-text markers.
	InTextYearSeparator string `json:"in_text_year_separator" yaml:"in_text_year_separator"`

	// AuthorSeparator, AuthorLastSeparator and AuthorLastSeparatorInText
	// join author names.
	AuthorSeparator           string `json:"author_separator" yaml:"author_separator"`
	AuthorLastSeparator       string `json:"author_last_separator" yaml:"author_last_separator"`
	AuthorLastSeparatorInText string `json:"author_last_separator_in_text" yaml:"author_last_separator_in_text"`

	// EtAlString follows the first author when the list is truncated.
	EtAlString string `json:"et_al_string" yaml:"et_al_string"`

	// UniquefierSeparator joins unique letters of merged citations (2000a,b).
	UniquefierSeparator string `json:"uniquefier_separator" yaml:"uniquefier_separator"`

	// MaxAuthors is the number of authors spelled out before "et al."; a
	// negative value never truncates.
	MaxAuthors int `json:"max_authors" yaml:"max_authors"`

	// MaxAuthorsFirst applies instead of MaxAuthors on the first appearance
	// of a source in the document.
	MaxAuthorsFirst int `json:"max_authors_first" yaml:"max_authors_first"`

	// CitationGroupMarkupBefore and CitationGroupMarkupAfter wrap
	// citation-key markers.
	CitationGroupMarkupBefore string `json:"citation_group_markup_before" yaml:"citation_group_markup_before"`
	CitationGroupMarkupAfter  string `json:"citation_group_markup_after" yaml:"citation_group_markup_after"`

	// CitationCharacterFormat is a character style applied to every marker.
	CitationCharacterFormat string `json:"citation_character_format,omitempty" yaml:"citation_character_format,omitempty"`

	// ReferenceHeaderText is the bibliography heading.
	ReferenceHeaderText string `json:"reference_header_text" yaml:"reference_header_text"`

	// ReferenceHeaderParagraphFormat and ReferenceParagraphFormat name the
	// paragraph styles of the heading and the entries.
	ReferenceHeaderParagraphFormat string `json:"reference_header_paragraph_format" yaml:"reference_header_paragraph_format"`
	ReferenceParagraphFormat       string `json:"reference_paragraph_format" yaml:"reference_paragraph_format"`
}

// EngineConfig holds settings for a rendering session.
type EngineConfig struct {
	// DatabaseDir is the directory holding bibliography.db.
	DatabaseDir string `json:"database_dir" yaml:"database_dir"`

	// StylePath is the style file; empty selects the built-in default for
	// the document's citation types.
	StylePath string `json:"style_path" yaml:"style_path"`

	// UnresolvedFirst places unresolved citations before resolved ones
	// inside a group (default true).
	UnresolvedFirst bool `json:"unresolved_first" yaml:"unresolved_first"`

	// CitedOnPages appends "Cited on pages" cross references to
	// bibliography entries when reference marks are available.
	CitedOnPages bool `json:"cited_on_pages" yaml:"cited_on_pages"`

	// MaxOverlapReports caps the number of overlapping ranges reported
	// by a region check (default 10).
	MaxOverlapReports int `json:"max_overlap_reports" yaml:"max_overlap_reports"`
}
