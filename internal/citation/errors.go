// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

import (
	"errors"
	"fmt"
)

var (
	// ErrOrdering is returned when an operation needs a global order that
	// has not been set, or when a proposed global order does not match the
	// groups in the store.
	ErrOrdering = errors.New("citation: global order missing or inconsistent")

	// ErrDataModelConflict is returned when group-owned and citation-owned
	// page info are mixed in one document.
	ErrDataModelConflict = errors.New("citation: group-level and citation-level page info mixed")

	// ErrStaleBibliography is returned when a bibliography is built while a
	// previous one has not been invalidated.
	ErrStaleBibliography = errors.New("citation: bibliography already built")

	// ErrUnknownGroup is returned for a GroupID that is not in the store.
	ErrUnknownGroup = errors.New("citation: unknown citation group")

	// ErrDuplicateGroup is returned when a group id is added twice.
	ErrDuplicateGroup = errors.New("citation: duplicate citation group")

	// ErrInvalidGroup is returned for malformed group input (no keys,
	// page info count mismatch, unknown citation type).
	ErrInvalidGroup = errors.New("citation: invalid citation group")
)

// GroupError ties a failure to the group it concerns.
type GroupError struct {
	Op  string
	ID  GroupID
	Err error
}

func (e *GroupError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.ID, e.Err)
}

func (e *GroupError) Unwrap() error {
	return e.Err
}
