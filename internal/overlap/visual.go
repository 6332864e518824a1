// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package overlap

import (
	"cmp"
	"slices"

	"github.com/pdiddy/citation-engine/internal/citation"
)

// Point is a position on the rendered page. Y grows downwards.
type Point struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// Positioned is a citation group with the visual position of its range.
// Groups inside footnotes are positioned at their footnote anchor.
type Positioned struct {
	ID  citation.GroupID
	Pos Point
}

// VisualSort orders groups top to bottom, then left to right. Groups at the
// same position keep their input order.
func VisualSort(items []Positioned) []citation.GroupID {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b Positioned) int {
		if c := cmp.Compare(a.Pos.Y, b.Pos.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.Pos.X, b.Pos.X)
	})
	out := make([]citation.GroupID, len(sorted))
	for i, p := range sorted {
		out[i] = p.ID
	}
	return out
}
