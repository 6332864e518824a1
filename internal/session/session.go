// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session connects a host document to the citation engine. A
// Session reads citation groups from the Host, orders them by where they
// appear on the page and renders markers and the bibliography.
//
// A Session is owned by one editor and is not safe for concurrent use.
package session

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pdiddy/citation-engine/internal/citation"
	"github.com/pdiddy/citation-engine/internal/markers"
	"github.com/pdiddy/citation-engine/internal/ootext"
	"github.com/pdiddy/citation-engine/internal/overlap"
	"github.com/pdiddy/citation-engine/internal/style"
	"github.com/pdiddy/citation-engine/pkg/types"
)

var (
	// ErrNoDocument is returned when the host has no open document.
	ErrNoDocument = errors.New("session: no document")

	// ErrMissingRange is returned when a group has no range in the document.
	ErrMissingRange = errors.New("session: group has no range")

	// ErrProtectedRange is returned when an insertion point overlaps or
	// touches a protected range.
	ErrProtectedRange = errors.New("session: insertion point overlaps a protected range")
)

// Options tunes Refresh.
type Options struct {
	UnresolvedFirst bool
	CitedOnPages    bool
}

// Rendered is the output of Refresh.
type Rendered struct {
	Markers      map[citation.GroupID]ootext.Text
	Bibliography ootext.Text
	Cited        *citation.CitedKeys
}

// Session holds the Store built from one host document.
type Session struct {
	host   Host
	logger *slog.Logger
	store  *citation.Store
}

// New returns a session over host. A nil logger uses slog.Default().
func New(host Host, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{host: host, logger: logger}
}

// Store returns the store built by the last Load, or nil.
func (s *Session) Store() *citation.Store { return s.store }

func (s *Session) requireDocument() error {
	if !s.host.HasDocument() {
		return ErrNoDocument
	}
	return nil
}

// Load rebuilds the store from the groups stored in the document. The data
// model is detected from the groups' page info.
func (s *Session) Load() error {
	if err := s.requireDocument(); err != nil {
		return err
	}
	specs, err := s.host.Groups()
	if err != nil {
		return fmt.Errorf("reading groups: %w", err)
	}
	groups := make([]*citation.Group, 0, len(specs))
	for _, spec := range specs {
		g, err := groupFromSpec(spec)
		if err != nil {
			return err
		}
		groups = append(groups, g)
	}
	store, err := citation.NewStoreFromGroups(groups)
	if err != nil {
		return fmt.Errorf("building store: %w", err)
	}
	s.store = store
	s.logger.Debug("session: loaded groups", "groups", store.NumberOfGroups(), "model", store.Model())
	return nil
}

func groupFromSpec(spec GroupSpec) (*citation.Group, error) {
	g, err := citation.NewGroup(spec.ID, spec.Type, spec.Keys, spec.PageInfos, spec.PageInfo)
	if err != nil {
		return nil, err
	}
	g.ReferenceMarkName = spec.ReferenceMark
	return g, nil
}

// UpdateGlobalOrder sets the store's global order from the visual position
// of each group's range. Groups in footnotes are placed at their footnote
// anchor, which orders citations inside one footnote by their order in the
// store rather than by position.
func (s *Session) UpdateGlobalOrder() error {
	if err := s.requireDocument(); err != nil {
		return err
	}
	if s.store == nil {
		if err := s.Load(); err != nil {
			return err
		}
	}
	groups := s.store.GroupsUnordered()
	items := make([]overlap.Positioned, len(groups))
	for i, g := range groups {
		r, ok, err := s.host.GroupRange(g.ID())
		if err != nil {
			return fmt.Errorf("getting range of group %s: %w", g.ID(), err)
		}
		if !ok {
			return &citation.GroupError{Op: "order groups", ID: g.ID(), Err: ErrMissingRange}
		}
		if anchor, ok := s.host.FootnoteAnchor(r); ok {
			r = anchor
		}
		pos, err := s.host.VisualPosition(r)
		if err != nil {
			return fmt.Errorf("getting position of group %s: %w", g.ID(), err)
		}
		items[i] = overlap.Positioned{ID: g.ID(), Pos: pos}
	}
	return s.store.SetGlobalOrder(overlap.VisualSort(items))
}

// Refresh reloads the document's groups, orders them and renders every
// marker and the bibliography with st.
func (s *Session) Refresh(dbs []citation.Database, st *style.Style, opts Options) (*Rendered, error) {
	if err := s.Load(); err != nil {
		return nil, err
	}
	if err := s.UpdateGlobalOrder(); err != nil {
		return nil, err
	}
	res, err := markers.Produce(s.store, dbs, st, markers.Options{UnresolvedFirst: opts.UnresolvedFirst})
	if err != nil {
		return nil, err
	}
	bib, err := markers.FormatBibliography(s.store, st, markers.BibliographyOptions{CitedOnPages: opts.CitedOnPages})
	if err != nil {
		return nil, err
	}

	unresolved := 0
	for _, ck := range res.Bibliography.Values() {
		if !ck.IsResolved() {
			unresolved++
		}
	}
	s.logger.Info("session: refreshed",
		"groups", s.store.NumberOfGroups(),
		"keys", res.Bibliography.Len(),
		"unresolved", unresolved,
		"style", st.Name)
	return &Rendered{Markers: res.Markers, Bibliography: bib, Cited: res.Bibliography}, nil
}

// InsertCitation creates a citation group at the given range. The range
// must not overlap or touch a protected range other than the cursor. Under
// the legacy data model the page info of the last key becomes the group's
// page info, and other keys may not carry page info.
func (s *Session) InsertCitation(keys []string, pageInfos []ootext.Text, typ types.CitationType, at overlap.Range) (citation.GroupID, error) {
	if err := s.requireDocument(); err != nil {
		return "", err
	}
	if s.store == nil {
		if err := s.Load(); err != nil {
			return "", err
		}
	}

	spec := GroupSpec{Type: typ, Keys: keys, PageInfos: pageInfos}
	if s.store.Model() == citation.DataModelLegacy && len(pageInfos) > 0 {
		last := len(pageInfos) - 1
		for _, p := range pageInfos[:last] {
			if !ootext.NormalizePageInfo(p).IsEmpty() {
				return "", fmt.Errorf("inserting citation: %w: only the last citation may carry page info", citation.ErrDataModelConflict)
			}
		}
		spec.PageInfo = pageInfos[last]
		spec.PageInfos = nil
	}

	// Validate with a placeholder id so a bad group never reaches the host.
	probe := spec
	probe.ID = "new"
	if _, err := groupFromSpec(probe); err != nil {
		return "", fmt.Errorf("inserting citation: %w", err)
	}

	protected, err := s.host.ProtectedRanges()
	if err != nil {
		return "", fmt.Errorf("reading protected ranges: %w", err)
	}
	if reports := overlap.CheckRegion(overlap.Holder{Range: at, Description: "insertion point"}, protected, 1); len(reports) > 0 {
		return "", fmt.Errorf("%w: %s", ErrProtectedRange, reports[0])
	}

	created, err := s.host.CreateGroup(spec, at)
	if err != nil {
		return "", fmt.Errorf("creating group: %w", err)
	}
	g, err := groupFromSpec(created)
	if err != nil {
		return "", fmt.Errorf("inserting citation: %w", err)
	}
	if err := s.store.AddGroup(g); err != nil {
		return "", fmt.Errorf("inserting citation: %w", err)
	}
	s.logger.Info("session: inserted citation", "group", g.ID(), "keys", len(keys))
	return g.ID(), nil
}

// RemoveCitation removes a group from the document and the store.
func (s *Session) RemoveCitation(id citation.GroupID) error {
	if err := s.requireDocument(); err != nil {
		return err
	}
	if s.store == nil {
		if err := s.Load(); err != nil {
			return err
		}
	}
	if _, err := s.store.Group(id); err != nil {
		return err
	}
	if err := s.host.RemoveGroup(id); err != nil {
		return fmt.Errorf("removing group %s: %w", id, err)
	}
	if err := s.store.RemoveGroup(id); err != nil {
		return err
	}
	s.logger.Info("session: removed citation", "group", id)
	return nil
}

// CheckOverlaps reports citation marks and footnote anchors that overlap
// each other. At most atMost reports are returned; atMost <= 0 means all.
func (s *Session) CheckOverlaps(atMost int) ([]overlap.Report, error) {
	if err := s.requireDocument(); err != nil {
		return nil, err
	}
	protected, err := s.host.ProtectedRanges()
	if err != nil {
		return nil, fmt.Errorf("reading protected ranges: %w", err)
	}
	reports := overlap.CheckMarks(protected, atMost)
	for _, r := range reports {
		s.logger.Warn("session: overlapping ranges", "kind", r.Kind, "a", r.A.Description, "b", r.B.Description)
	}
	return reports, nil
}
