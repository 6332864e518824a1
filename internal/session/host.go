// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"github.com/pdiddy/citation-engine/internal/citation"
	"github.com/pdiddy/citation-engine/internal/ootext"
	"github.com/pdiddy/citation-engine/internal/overlap"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// GroupSpec is a citation group as stored by the host document.
type GroupSpec struct {
	ID   citation.GroupID
	Type types.CitationType
	Keys []string

	// PageInfos has one element per key, or is nil.
	PageInfos []ootext.Text

	// PageInfo is the group-owned page info of legacy documents.
	PageInfo ootext.Text

	// ReferenceMark names the host's marked range of the group; it may be
	// empty.
	ReferenceMark string
}

// Host is the document the session works on. Implementations wrap a word
// processor, or a file in tests and batch tools.
type Host interface {
	// HasDocument reports whether a document is open. Every other method
	// may only be called when it is.
	HasDocument() bool

	// Groups lists the citation groups stored in the document.
	Groups() ([]GroupSpec, error)

	// GroupRange returns the marked range of a group; ok is false when the
	// group has no range in the document.
	GroupRange(id citation.GroupID) (r overlap.Range, ok bool, err error)

	// VisualPosition returns where r is rendered.
	VisualPosition(r overlap.Range) (overlap.Point, error)

	// FootnoteAnchor returns the anchor of the footnote containing r.
	FootnoteAnchor(r overlap.Range) (anchor overlap.Range, ok bool)

	// CreateGroup stores a new group at the given range. The host assigns
	// the group id and reference mark; spec.ID is ignored.
	CreateGroup(spec GroupSpec, at overlap.Range) (GroupSpec, error)

	// RemoveGroup deletes a group and its marked range.
	RemoveGroup(id citation.GroupID) error

	// ProtectedRanges returns the ranges that must not be overlapped.
	ProtectedRanges() (overlap.ProtectedRanges, error)
}
