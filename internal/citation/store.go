// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

import (
	"fmt"
	"slices"
)

// Store owns the citation groups of one document, their global order and
// the bibliography derived from them.
//
// The global order and the bibliography are computed on demand and dropped
// whenever a group is added or removed. Every mutating method validates
// its input before touching the store, so a failed call leaves it
// unchanged.
type Store struct {
	model  DataModel
	groups map[GroupID]*Group
	ids    []GroupID

	globalOrder  []GroupID
	bibliography *CitedKeys
}

// NewStore returns an empty store for documents using model.
func NewStore(model DataModel) *Store {
	return &Store{model: model, groups: make(map[GroupID]*Group)}
}

// NewStoreFromGroups detects the data model of groups and returns a store
// holding them in the given order.
func NewStoreFromGroups(groups []*Group) (*Store, error) {
	model, err := DetectDataModel(groups)
	if err != nil {
		return nil, err
	}
	s := NewStore(model)
	for _, g := range groups {
		if err := s.AddGroup(g); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Model returns the page info data model of the document.
func (s *Store) Model() DataModel { return s.model }

// NumberOfGroups returns the number of groups in the store.
func (s *Store) NumberOfGroups() int { return len(s.ids) }

// AddGroup adds g and invalidates the global order and the bibliography.
func (s *Store) AddGroup(g *Group) error {
	if _, ok := s.groups[g.id]; ok {
		return &GroupError{Op: "add group", ID: g.id, Err: ErrDuplicateGroup}
	}
	if !s.model.accepts(g) {
		return &GroupError{Op: "add group", ID: g.id,
			Err: fmt.Errorf("%w: store uses the %s data model", ErrDataModelConflict, s.model)}
	}
	s.groups[g.id] = g
	s.ids = append(s.ids, g.id)
	s.invalidate()
	return nil
}

// RemoveGroup removes the group and invalidates the global order and the
// bibliography.
func (s *Store) RemoveGroup(id GroupID) error {
	if _, ok := s.groups[id]; !ok {
		return &GroupError{Op: "remove group", ID: id, Err: ErrUnknownGroup}
	}
	delete(s.groups, id)
	s.ids = slices.DeleteFunc(s.ids, func(x GroupID) bool { return x == id })
	s.invalidate()
	return nil
}

func (s *Store) invalidate() {
	s.globalOrder = nil
	s.bibliography = nil
	for _, g := range s.groups {
		g.globalIndex = -1
	}
}

// Group returns the group with the given id.
func (s *Store) Group(id GroupID) (*Group, error) {
	g, ok := s.groups[id]
	if !ok {
		return nil, &GroupError{Op: "get group", ID: id, Err: ErrUnknownGroup}
	}
	return g, nil
}

// Citation returns the citation at p with its effective page info.
func (s *Store) Citation(p Path) (Citation, error) {
	g, err := s.Group(p.Group)
	if err != nil {
		return Citation{}, err
	}
	if p.Index < 0 || p.Index >= len(g.citations) {
		return Citation{}, &GroupError{Op: "get citation", ID: p.Group,
			Err: fmt.Errorf("%w: storage index %d out of range", ErrInvalidGroup, p.Index)}
	}
	return g.citationView(p.Index), nil
}

// GroupsUnordered returns the groups in insertion order.
func (s *Store) GroupsUnordered() []*Group {
	out := make([]*Group, len(s.ids))
	for i, id := range s.ids {
		out[i] = s.groups[id]
	}
	return out
}

// HasGlobalOrder reports whether a global order is set.
func (s *Store) HasGlobalOrder() bool { return s.globalOrder != nil }

// GlobalOrder returns the document-appearance order of the groups.
func (s *Store) GlobalOrder() ([]GroupID, bool) {
	if s.globalOrder == nil {
		return nil, false
	}
	return slices.Clone(s.globalOrder), true
}

// GroupsInGlobalOrder returns the groups in document-appearance order.
func (s *Store) GroupsInGlobalOrder() ([]*Group, error) {
	if s.globalOrder == nil {
		return nil, fmt.Errorf("%w: no global order set", ErrOrdering)
	}
	out := make([]*Group, len(s.globalOrder))
	for i, id := range s.globalOrder {
		out[i] = s.groups[id]
	}
	return out, nil
}

// SetGlobalOrder records the document-appearance order of the groups. The
// order must name every group exactly once. Each group's
// IndexInGlobalOrder is stamped with its position.
func (s *Store) SetGlobalOrder(order []GroupID) error {
	if len(order) != len(s.groups) {
		return fmt.Errorf("%w: order has %d groups, store has %d", ErrOrdering, len(order), len(s.groups))
	}
	seen := make(map[GroupID]bool, len(order))
	for _, id := range order {
		if _, ok := s.groups[id]; !ok {
			return &GroupError{Op: "set global order", ID: id, Err: ErrUnknownGroup}
		}
		if seen[id] {
			return fmt.Errorf("%w: group %q appears twice", ErrOrdering, id)
		}
		seen[id] = true
	}
	s.globalOrder = slices.Clone(order)
	for i, id := range s.globalOrder {
		s.groups[id].globalIndex = i
	}
	return nil
}

// ImposeLocalOrder sorts the citations of every group.
func (s *Store) ImposeLocalOrder(cmp EntryComparator, unresolvedFirst bool) {
	for _, id := range s.ids {
		s.groups[id].ImposeLocalOrder(cmp, unresolvedFirst)
	}
}

// CitedKeysUnordered aggregates citations by key, visiting groups in
// insertion order and citations in storage order.
func (s *Store) CitedKeysUnordered() *CitedKeys {
	cited := newCitedKeys()
	for _, id := range s.ids {
		g := s.groups[id]
		for i, c := range g.citations {
			cited.add(Path{Group: id, Index: i}, c)
		}
	}
	return cited
}

// CitedKeysInAppearanceOrder aggregates citations by key, visiting groups
// in global order and citations in local order. It fails with ErrOrdering
// when no global order is set.
func (s *Store) CitedKeysInAppearanceOrder() (*CitedKeys, error) {
	groups, err := s.GroupsInGlobalOrder()
	if err != nil {
		return nil, err
	}
	cited := newCitedKeys()
	for _, g := range groups {
		for _, i := range g.localOrder {
			cited.add(Path{Group: g.id, Index: i}, g.citations[i])
		}
	}
	return cited, nil
}

// LookupCitations resolves every cited key against dbs and distributes the
// results to the citations. Keys without a match become unresolved. On a
// database error nothing is changed.
func (s *Store) LookupCitations(dbs []Database) error {
	cited := s.CitedKeysUnordered()
	results := make([]*LookupResult, cited.Len())
	for i, ck := range cited.Values() {
		res, err := Lookup(dbs, ck.Key)
		if err != nil {
			return err
		}
		results[i] = res
	}
	for i, ck := range cited.Values() {
		ck.Lookup = results[i]
		s.distribute(ck, func(c *Citation) { c.lookup = ck.Lookup })
	}
	return nil
}

// Bibliography returns the bibliography built since the last invalidation.
// The returned CitedKeys must not be modified.
func (s *Store) Bibliography() (*CitedKeys, bool) {
	return s.bibliography, s.bibliography != nil
}

// CreatePlainBibliographySortedByComparator builds an unnumbered
// bibliography sorted by cmp.
func (s *Store) CreatePlainBibliographySortedByComparator(cmp EntryComparator) error {
	if s.bibliography != nil {
		return ErrStaleBibliography
	}
	cited := s.CitedKeysUnordered()
	cited.SortByComparator(cmp)
	s.bibliography = cited
	return nil
}

// CreateNumberedBibliographySortedInOrderOfAppearance numbers cited keys
// in the order they first appear in the document and distributes the
// numbers to the citations.
func (s *Store) CreateNumberedBibliographySortedInOrderOfAppearance() error {
	if s.bibliography != nil {
		return ErrStaleBibliography
	}
	cited, err := s.CitedKeysInAppearanceOrder()
	if err != nil {
		return err
	}
	s.numberAndKeep(cited)
	return nil
}

// CreateNumberedBibliographySortedByComparator sorts cited keys by cmp,
// numbers them in that order and distributes the numbers.
func (s *Store) CreateNumberedBibliographySortedByComparator(cmp EntryComparator) error {
	if s.bibliography != nil {
		return ErrStaleBibliography
	}
	cited := s.CitedKeysUnordered()
	cited.SortByComparator(cmp)
	s.numberAndKeep(cited)
	return nil
}

func (s *Store) numberAndKeep(cited *CitedKeys) {
	cited.numberInCurrentOrder()
	for _, ck := range cited.Values() {
		s.distribute(ck, func(c *Citation) { c.number = ck.Number })
	}
	s.bibliography = cited
}

// MarkFirstAppearances flags, for every key, the citation that comes first
// in global order then local order.
func (s *Store) MarkFirstAppearances() error {
	groups, err := s.GroupsInGlobalOrder()
	if err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, g := range groups {
		for _, i := range g.localOrder {
			c := &g.citations[i]
			c.firstAppearance = !seen[c.key]
			seen[c.key] = true
		}
	}
	return nil
}

// ClearUniqueLetters removes every unique letter from the citations.
func (s *Store) ClearUniqueLetters() {
	for _, g := range s.groups {
		for i := range g.citations {
			g.citations[i].uniqueLetter = ""
		}
	}
}

// AssignUniqueLetters computes unique letters over cited (which must be in
// order of appearance and carry normalized markers), stores them on the
// CitedKeys and distributes them to the citations. Existing letters are
// cleared first, so the result never depends on a previous run.
func (s *Store) AssignUniqueLetters(cited *CitedKeys) {
	s.ClearUniqueLetters()
	letters := UniqueLetters(cited)
	for _, ck := range cited.Values() {
		ck.UniqueLetter = letters[ck.Key]
		if ck.UniqueLetter == "" {
			continue
		}
		s.distribute(ck, func(c *Citation) { c.uniqueLetter = ck.UniqueLetter })
	}
}

// distribute applies set to every citation reachable from ck.Where.
func (s *Store) distribute(ck *CitedKey, set func(*Citation)) {
	for _, p := range ck.Where {
		set(&s.groups[p.Group].citations[p.Index])
	}
}
