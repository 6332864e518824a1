// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pdiddy/citation-engine/internal/ootext"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// GroupID is the host-assigned identifier of a citation group.
type GroupID string

// EntryComparator orders bibliographic entries.
type EntryComparator func(a, b types.BibEntry) int

// Group is a set of citations inserted together at one point in the
// document.
type Group struct {
	id         GroupID
	typ        types.CitationType
	citations  []Citation
	localOrder []int

	// pageInfo is set only under the legacy data model, where the group owns
	// a single page info presented after its last citation.
	pageInfo ootext.Text

	globalIndex int

	// ReferenceMarkName is the host's name for the marked range of this
	// group, used for "Cited on pages" cross references. Empty when the
	// host cannot link to it.
	ReferenceMarkName string
}

// NewGroup builds a group from host input. pageInfos is either nil or has
// one (possibly empty) element per key. groupPageInfo is the legacy
// group-owned page info; combining it with any citation page info fails
// with ErrDataModelConflict.
func NewGroup(id GroupID, typ types.CitationType, keys []string, pageInfos []ootext.Text, groupPageInfo ootext.Text) (*Group, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty group id", ErrInvalidGroup)
	}
	if !typ.Valid() {
		return nil, &GroupError{Op: "new group", ID: id, Err: fmt.Errorf("%w: citation type %q", ErrInvalidGroup, typ)}
	}
	if len(keys) == 0 {
		return nil, &GroupError{Op: "new group", ID: id, Err: fmt.Errorf("%w: no citation keys", ErrInvalidGroup)}
	}
	if pageInfos != nil && len(pageInfos) != len(keys) {
		return nil, &GroupError{Op: "new group", ID: id,
			Err: fmt.Errorf("%w: %d page infos for %d keys", ErrInvalidGroup, len(pageInfos), len(keys))}
	}

	groupPageInfo = ootext.NormalizePageInfo(groupPageInfo)
	g := &Group{
		id:          id,
		typ:         typ,
		citations:   make([]Citation, len(keys)),
		localOrder:  make([]int, len(keys)),
		pageInfo:    groupPageInfo,
		globalIndex: -1,
	}
	for i, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, &GroupError{Op: "new group", ID: id, Err: fmt.Errorf("%w: empty citation key", ErrInvalidGroup)}
		}
		g.citations[i] = Citation{key: key}
		if pageInfos != nil {
			g.citations[i].pageInfo = ootext.NormalizePageInfo(pageInfos[i])
		}
		g.localOrder[i] = i
	}
	if !groupPageInfo.IsEmpty() && g.hasCitationPageInfo() {
		return nil, &GroupError{Op: "new group", ID: id, Err: ErrDataModelConflict}
	}
	return g, nil
}

// ID returns the group id.
func (g *Group) ID() GroupID { return g.id }

// Type returns the citation type the group was inserted with.
func (g *Group) Type() types.CitationType { return g.typ }

// NumberOfCitations returns the number of citations in the group.
func (g *Group) NumberOfCitations() int { return len(g.citations) }

// PageInfo returns the group-owned page info (legacy data model only).
func (g *Group) PageInfo() ootext.Text { return g.pageInfo }

// IndexInGlobalOrder returns the position of the group in the global order.
func (g *Group) IndexInGlobalOrder() (int, bool) {
	return g.globalIndex, g.globalIndex >= 0
}

// LocalOrder returns a copy of the local order: storage indices in
// presentation order.
func (g *Group) LocalOrder() []int {
	return slices.Clone(g.localOrder)
}

// Keys returns the citation keys in storage order.
func (g *Group) Keys() []string {
	keys := make([]string, len(g.citations))
	for i, c := range g.citations {
		keys[i] = c.key
	}
	return keys
}

// PageInfoAt returns the page info presented with the citation at
// storageIndex. Under the legacy data model the group page info belongs to
// the citation that is last in local order.
func (g *Group) PageInfoAt(storageIndex int) ootext.Text {
	if g.pageInfo.IsEmpty() {
		return g.citations[storageIndex].pageInfo
	}
	if storageIndex == g.localOrder[len(g.localOrder)-1] {
		return g.pageInfo
	}
	return ""
}

// CitationsInStorageOrder returns copies of the citations in storage order.
func (g *Group) CitationsInStorageOrder() []Citation {
	out := make([]Citation, len(g.citations))
	for i := range g.citations {
		out[i] = g.citationView(i)
	}
	return out
}

// CitationsInLocalOrder returns copies of the citations in presentation order.
func (g *Group) CitationsInLocalOrder() []Citation {
	out := make([]Citation, len(g.localOrder))
	for i, idx := range g.localOrder {
		out[i] = g.citationView(idx)
	}
	return out
}

func (g *Group) citationView(storageIndex int) Citation {
	c := g.citations[storageIndex]
	c.pageInfo = g.PageInfoAt(storageIndex)
	return c
}

func (g *Group) hasCitationPageInfo() bool {
	for _, c := range g.citations {
		if !c.pageInfo.IsEmpty() {
			return true
		}
	}
	return false
}

// ImposeLocalOrder re-derives the local order by sorting the citations
// with CompareCitations. The sort is stable, so citations that compare
// equal keep their storage order.
//
// Under the legacy data model the group page info takes no part in the
// comparison; afterwards it is presented with whichever citation is last.
func (g *Group) ImposeLocalOrder(cmp EntryComparator, unresolvedFirst bool) {
	order := make([]int, len(g.citations))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return CompareCitations(g.citations[a], g.citations[b], cmp, unresolvedFirst)
	})
	g.localOrder = order
}

// CompareCitations orders two citations by their entries. Unresolved
// citations sort before resolved ones when unresolvedFirst is set, after
// them otherwise; two unresolved citations compare by key. Ties fall back
// to page info.
func CompareCitations(a, b Citation, cmp EntryComparator, unresolvedFirst bool) int {
	var res int
	switch {
	case a.lookup == nil && b.lookup == nil:
		res = strings.Compare(a.key, b.key)
	case a.lookup == nil:
		if unresolvedFirst {
			return -1
		}
		return 1
	case b.lookup == nil:
		if unresolvedFirst {
			return 1
		}
		return -1
	default:
		res = cmp(a.lookup.Entry, b.lookup.Entry)
	}
	if res == 0 {
		res = ootext.ComparePageInfo(a.pageInfo, b.pageInfo)
	}
	return res
}
