// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

import (
	"fmt"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// Database is a bibliographic database the engine can resolve keys against.
type Database interface {
	// Name identifies the database in lookup results.
	Name() string

	// EntryByKey returns the entry with the given citation key. A missing
	// key is reported with ok == false and a nil error.
	EntryByKey(key string) (entry types.BibEntry, ok bool, err error)
}

// Lookup scans dbs in order and returns the first entry whose citation key
// equals key. A miss returns nil and no error: the citation is unresolved.
func Lookup(dbs []Database, key string) (*LookupResult, error) {
	for _, db := range dbs {
		entry, ok, err := db.EntryByKey(key)
		if err != nil {
			return nil, fmt.Errorf("looking up %q in %s: %w", key, db.Name(), err)
		}
		if ok {
			return &LookupResult{Entry: entry, Database: db.Name()}, nil
		}
	}
	return nil, nil
}

// MemoryDatabase is an in-memory Database.
type MemoryDatabase struct {
	name    string
	entries map[string]types.BibEntry
}

// NewMemoryDatabase returns a database holding entries. A later entry with
// a duplicate key replaces the earlier one.
func NewMemoryDatabase(name string, entries ...types.BibEntry) *MemoryDatabase {
	db := &MemoryDatabase{name: name, entries: make(map[string]types.BibEntry, len(entries))}
	for _, e := range entries {
		db.entries[e.CitationKey] = e
	}
	return db
}

// Name implements Database.
func (m *MemoryDatabase) Name() string { return m.name }

// EntryByKey implements Database.
func (m *MemoryDatabase) EntryByKey(key string) (types.BibEntry, bool, error) {
	e, ok := m.entries[key]
	return e, ok, nil
}
