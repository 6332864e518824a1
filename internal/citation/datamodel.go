// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

import "fmt"

// DataModel selects where page info lives. The two layouts come from
// different generations of stored documents and never coexist in one
// document.
type DataModel int

const (
	// DataModelPerCitation stores page info on each citation.
	DataModelPerCitation DataModel = iota

	// DataModelLegacy stores one page info per group, presented after the
	// last citation of the group.
	DataModelLegacy
)

func (m DataModel) String() string {
	switch m {
	case DataModelPerCitation:
		return "per-citation"
	case DataModelLegacy:
		return "legacy"
	}
	return fmt.Sprintf("DataModel(%d)", int(m))
}

// DetectDataModel inspects groups read from a document and reports which
// data model they use. Documents without any page info use
// DataModelPerCitation. A mixture fails with ErrDataModelConflict.
func DetectDataModel(groups []*Group) (DataModel, error) {
	var legacy, perCitation *Group
	for _, g := range groups {
		if !g.pageInfo.IsEmpty() && legacy == nil {
			legacy = g
		}
		if g.hasCitationPageInfo() && perCitation == nil {
			perCitation = g
		}
	}
	switch {
	case legacy != nil && perCitation != nil:
		return 0, fmt.Errorf("%w: group %q has group page info, group %q has citation page info",
			ErrDataModelConflict, legacy.id, perCitation.id)
	case legacy != nil:
		return DataModelLegacy, nil
	}
	return DataModelPerCitation, nil
}

// accepts reports whether g is consistent with the model.
func (m DataModel) accepts(g *Group) bool {
	switch m {
	case DataModelLegacy:
		return !g.hasCitationPageInfo()
	default:
		return g.pageInfo.IsEmpty()
	}
}
