// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docfile

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-engine/internal/citation"
	"github.com/pdiddy/citation-engine/internal/session"
)

// Marker is the rendered marker of one group.
type Marker struct {
	ID   string `yaml:"id" json:"id"`
	Text string `yaml:"text" json:"text"`
}

// Reference is one bibliography entry of the output.
type Reference struct {
	Key          string `yaml:"key" json:"key"`
	Number       int    `yaml:"number,omitempty" json:"number,omitempty"`
	UniqueLetter string `yaml:"unique_letter,omitempty" json:"unique_letter,omitempty"`
	Database     string `yaml:"database,omitempty" json:"database,omitempty"`
	Resolved     bool   `yaml:"resolved" json:"resolved"`
}

// Output is the result document of a render.
type Output struct {
	Style        string      `yaml:"style" json:"style"`
	Markers      []Marker    `yaml:"markers" json:"markers"`
	References   []Reference `yaml:"references" json:"references"`
	Bibliography string      `yaml:"bibliography" json:"bibliography"`
}

// NewOutput collects rendered markers in document order. order is the
// store's global order.
func NewOutput(styleName string, order []citation.GroupID, r *session.Rendered) Output {
	out := Output{Style: styleName, Bibliography: r.Bibliography.String()}
	for _, id := range order {
		out.Markers = append(out.Markers, Marker{ID: string(id), Text: r.Markers[id].String()})
	}
	for _, ck := range r.Cited.Values() {
		ref := Reference{Key: ck.Key, Number: ck.Number, UniqueLetter: ck.UniqueLetter, Resolved: ck.IsResolved()}
		if ck.Lookup != nil {
			ref.Database = ck.Lookup.Database
		}
		out.References = append(out.References, ref)
	}
	return out
}

// WriteOutput encodes out to w as YAML, or as indented JSON when asJSON is
// set.
func WriteOutput(w io.Writer, out Output, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		return nil
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
