// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docfile implements a session.Host over a YAML description of a
// document: its citation groups with their ranges and page positions, the
// bibliography region and the cursor. It lets the engine run without a
// word processor, in batch jobs and tests.
package docfile

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-engine/internal/citation"
	"github.com/pdiddy/citation-engine/internal/ootext"
	"github.com/pdiddy/citation-engine/internal/overlap"
	"github.com/pdiddy/citation-engine/internal/session"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// referenceMarkPrefix starts the reference mark names of created groups.
const referenceMarkPrefix = "CIT_"

// Region is a range of the document with an optional rendered position.
// Regions without a position are placed on one line by start offset.
type Region struct {
	Flow  string `yaml:"flow" json:"flow"`
	Start int    `yaml:"start" json:"start"`
	End   int    `yaml:"end" json:"end"`
	X     *int   `yaml:"x,omitempty" json:"x,omitempty"`
	Y     *int   `yaml:"y,omitempty" json:"y,omitempty"`
}

func (r Region) span() overlap.Span {
	return overlap.Span{Flow: r.Flow, Start: r.Start, End: r.End}
}

func (r Region) point() overlap.Point {
	p := overlap.Point{X: r.Start}
	if r.X != nil {
		p.X = *r.X
	}
	if r.Y != nil {
		p.Y = *r.Y
	}
	return p
}

// Group is a citation group as written in the file.
type Group struct {
	ID        string             `yaml:"id" json:"id"`
	Type      types.CitationType `yaml:"type" json:"type"`
	Keys      []string           `yaml:"keys" json:"keys"`
	PageInfos []string           `yaml:"page_infos,omitempty" json:"page_infos,omitempty"`
	PageInfo  string             `yaml:"page_info,omitempty" json:"page_info,omitempty"`

	Region `yaml:",inline" json:"region"`

	FootnoteAnchor *Region `yaml:"footnote_anchor,omitempty" json:"footnote_anchor,omitempty"`
	ReferenceMark  string  `yaml:"reference_mark,omitempty" json:"reference_mark,omitempty"`
}

// File is the YAML document layout.
type File struct {
	Cursor       *Region `yaml:"cursor,omitempty" json:"cursor,omitempty"`
	Bibliography *Region `yaml:"bibliography,omitempty" json:"bibliography,omitempty"`
	Groups       []Group `yaml:"groups" json:"groups"`
}

// Document is an open document file. The zero value has no document.
type Document struct {
	file      *File
	positions map[overlap.Span]overlap.Point
	anchors   map[overlap.Span]overlap.Span
}

// Load reads and indexes a document file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML document.
func Parse(data []byte) (*Document, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return New(&f)
}

// New indexes f. Group ids must be unique and non-empty.
func New(f *File) (*Document, error) {
	d := &Document{
		file:      f,
		positions: make(map[overlap.Span]overlap.Point),
		anchors:   make(map[overlap.Span]overlap.Span),
	}
	seen := make(map[string]bool, len(f.Groups))
	for _, g := range f.Groups {
		if g.ID == "" {
			return nil, fmt.Errorf("document: group without id")
		}
		if seen[g.ID] {
			return nil, fmt.Errorf("document: duplicate group id %q", g.ID)
		}
		seen[g.ID] = true
		d.index(g)
	}
	return d, nil
}

func (d *Document) index(g Group) {
	d.positions[g.span()] = g.point()
	if g.FootnoteAnchor != nil {
		d.anchors[g.span()] = g.FootnoteAnchor.span()
		d.positions[g.FootnoteAnchor.span()] = g.FootnoteAnchor.point()
	}
}

// File returns the document contents, including groups created since Load.
func (d *Document) File() *File { return d.file }

// Save writes the document to path.
func (d *Document) Save(path string) error {
	if !d.HasDocument() {
		return session.ErrNoDocument
	}
	data, err := yaml.Marshal(d.file)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// HasDocument implements session.Host.
func (d *Document) HasDocument() bool { return d != nil && d.file != nil }

// Groups implements session.Host.
func (d *Document) Groups() ([]session.GroupSpec, error) {
	if !d.HasDocument() {
		return nil, session.ErrNoDocument
	}
	out := make([]session.GroupSpec, len(d.file.Groups))
	for i, g := range d.file.Groups {
		spec := session.GroupSpec{
			ID:            citation.GroupID(g.ID),
			Type:          g.Type,
			Keys:          g.Keys,
			PageInfo:      ootext.Text(g.PageInfo),
			ReferenceMark: g.ReferenceMark,
		}
		if g.PageInfos != nil {
			spec.PageInfos = make([]ootext.Text, len(g.PageInfos))
			for j, p := range g.PageInfos {
				spec.PageInfos[j] = ootext.Text(p)
			}
		}
		out[i] = spec
	}
	return out, nil
}

func (d *Document) group(id citation.GroupID) (int, bool) {
	for i, g := range d.file.Groups {
		if g.ID == string(id) {
			return i, true
		}
	}
	return 0, false
}

// GroupRange implements session.Host.
func (d *Document) GroupRange(id citation.GroupID) (overlap.Range, bool, error) {
	if !d.HasDocument() {
		return nil, false, session.ErrNoDocument
	}
	i, ok := d.group(id)
	if !ok {
		return nil, false, nil
	}
	return d.file.Groups[i].span(), true, nil
}

// VisualPosition implements session.Host.
func (d *Document) VisualPosition(r overlap.Range) (overlap.Point, error) {
	if !d.HasDocument() {
		return overlap.Point{}, session.ErrNoDocument
	}
	span, ok := r.(overlap.Span)
	if !ok {
		return overlap.Point{}, fmt.Errorf("document: unsupported range %T", r)
	}
	if p, ok := d.positions[span]; ok {
		return p, nil
	}
	return overlap.Point{X: span.Start}, nil
}

// FootnoteAnchor implements session.Host.
func (d *Document) FootnoteAnchor(r overlap.Range) (overlap.Range, bool) {
	span, ok := r.(overlap.Span)
	if !ok || !d.HasDocument() {
		return nil, false
	}
	anchor, ok := d.anchors[span]
	if !ok {
		return nil, false
	}
	return anchor, true
}

// CreateGroup implements session.Host. New groups get a random UUID and a
// reference mark derived from it.
func (d *Document) CreateGroup(spec session.GroupSpec, at overlap.Range) (session.GroupSpec, error) {
	if !d.HasDocument() {
		return session.GroupSpec{}, session.ErrNoDocument
	}
	span, ok := at.(overlap.Span)
	if !ok {
		return session.GroupSpec{}, fmt.Errorf("document: unsupported range %T", at)
	}

	id := uuid.New().String()
	spec.ID = citation.GroupID(id)
	spec.ReferenceMark = referenceMarkPrefix + id

	g := Group{
		ID:            id,
		Type:          spec.Type,
		Keys:          spec.Keys,
		PageInfo:      spec.PageInfo.String(),
		Region:        Region{Flow: span.Flow, Start: span.Start, End: span.End},
		ReferenceMark: spec.ReferenceMark,
	}
	if spec.PageInfos != nil {
		g.PageInfos = make([]string, len(spec.PageInfos))
		for i, p := range spec.PageInfos {
			g.PageInfos[i] = p.String()
		}
	}
	d.file.Groups = append(d.file.Groups, g)
	d.index(g)
	return spec, nil
}

// RemoveGroup implements session.Host.
func (d *Document) RemoveGroup(id citation.GroupID) error {
	if !d.HasDocument() {
		return session.ErrNoDocument
	}
	i, ok := d.group(id)
	if !ok {
		return &citation.GroupError{Op: "remove group", ID: id, Err: citation.ErrUnknownGroup}
	}
	g := d.file.Groups[i]
	delete(d.positions, g.span())
	delete(d.anchors, g.span())
	d.file.Groups = append(d.file.Groups[:i], d.file.Groups[i+1:]...)
	return nil
}

// ProtectedRanges implements session.Host.
func (d *Document) ProtectedRanges() (overlap.ProtectedRanges, error) {
	if !d.HasDocument() {
		return overlap.ProtectedRanges{}, session.ErrNoDocument
	}
	var p overlap.ProtectedRanges
	for _, g := range d.file.Groups {
		p.Citations = append(p.Citations, overlap.Holder{Range: g.span(), Description: "citation " + g.ID})
		if g.FootnoteAnchor != nil {
			p.FootnoteAnchors = append(p.FootnoteAnchors,
				overlap.Holder{Range: g.FootnoteAnchor.span(), Description: "footnote anchor of " + g.ID})
		}
	}
	if r := d.file.Bibliography; r != nil {
		p.Bibliography = overlap.Holder{Range: r.span(), Description: "bibliography"}
	}
	if r := d.file.Cursor; r != nil {
		p.Cursor = overlap.Holder{Range: r.span(), Description: "cursor"}
	}
	return p, nil
}
