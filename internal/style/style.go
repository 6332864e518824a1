// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package style holds citation style settings and the entry comparators and
// name formatting shared by all marker strategies.
package style

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pdiddy/citation-engine/pkg/types"
)

const (
	defaultLocale               = "en"
	defaultMinimumGroupingCount = 3
)

// Style is a loaded citation style ready for formatting. A Style keeps a
// collator and is not safe for concurrent use.
type Style struct {
	types.StyleConfig

	collator *collate.Collator
}

// DefaultConfig returns the built-in settings for a marker kind. Unknown
// kinds fall back to author-year.
func DefaultConfig(kind types.MarkerKind) types.StyleConfig {
	cfg := types.StyleConfig{
		Name:                           "default " + string(kind),
		Kind:                           kind,
		Locale:                         defaultLocale,
		MinimumGroupingCount:           defaultMinimumGroupingCount,
		BracketBefore:                  "(",
		BracketAfter:                   ")",
		BracketBeforeInList:            "[",
		BracketAfterInList:             "]",
		CitationSeparator:              "; ",
		GroupedNumbersSeparator:        "-",
		PageInfoSeparator:              "; ",
		YearSeparator:                  ", ",
		InTextYearSeparator:            " ",
		AuthorSeparator:                ", ",
		AuthorLastSeparator:            " & ",
		AuthorLastSeparatorInText:      " and ",
		EtAlString:                     " et al.",
		UniquefierSeparator:            ",",
		MaxAuthors:                     2,
		MaxAuthorsFirst:                3,
		CitationGroupMarkupBefore:      "[",
		CitationGroupMarkupAfter:       "]",
		ReferenceHeaderText:            "References",
		ReferenceHeaderParagraphFormat: "Heading 1",
		ReferenceParagraphFormat:       "Bibliography 1",
	}
	switch kind {
	case types.MarkerNumeric:
		cfg.BracketBefore = "["
		cfg.BracketAfter = "]"
		cfg.CitationSeparator = ","
	case types.MarkerCitationKey:
		cfg.BracketBefore = "["
		cfg.BracketAfter = "]"
		cfg.CitationSeparator = ","
	default:
		cfg.Kind = types.MarkerAuthorYear
		cfg.Name = "default " + string(types.MarkerAuthorYear)
	}
	return cfg
}

// Default returns a Style with the built-in settings for kind.
func Default(kind types.MarkerKind) *Style {
	s, err := New(DefaultConfig(kind))
	if err != nil {
		// The built-in configurations are always valid.
		panic(err)
	}
	return s
}

// New validates cfg and returns a Style.
func New(cfg types.StyleConfig) (*Style, error) {
	switch cfg.Kind {
	case types.MarkerAuthorYear, types.MarkerNumeric, types.MarkerCitationKey:
	default:
		return nil, fmt.Errorf("style %q: unknown marker kind %q", cfg.Name, cfg.Kind)
	}
	if cfg.MinimumGroupingCount <= 0 {
		cfg.MinimumGroupingCount = defaultMinimumGroupingCount
	}
	if cfg.Locale == "" {
		cfg.Locale = defaultLocale
	}
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("style %q: parsing locale %q: %w", cfg.Name, cfg.Locale, err)
	}
	return &Style{StyleConfig: cfg, collator: collate.New(tag)}, nil
}

// Load reads a YAML style file. Settings missing from the file keep the
// defaults of the file's kind.
func Load(path string) (*Style, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading style: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML style document.
func Parse(data []byte) (*Style, error) {
	var head struct {
		Kind types.MarkerKind `yaml:"kind"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parsing style: %w", err)
	}
	if head.Kind == "" {
		head.Kind = types.MarkerAuthorYear
	}
	cfg := DefaultConfig(head.Kind)
	cfg.Kind = head.Kind
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing style: %w", err)
	}
	return New(cfg)
}

// IsNumeric reports whether the style numbers its citations.
func (s *Style) IsNumeric() bool { return s.Kind == types.MarkerNumeric }

// IsCitationKey reports whether markers show raw citation keys.
func (s *Style) IsCitationKey() bool { return s.Kind == types.MarkerCitationKey }

// IsAuthorYear reports whether the style uses author-year markers.
func (s *Style) IsAuthorYear() bool { return s.Kind == types.MarkerAuthorYear }
