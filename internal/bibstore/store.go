// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bibstore keeps bibliographic entries in a SQLite database and
// serves them to the citation engine as a citation.Database.
package bibstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/citation-engine/pkg/types"
)

const dbFile = "bibliography.db"

// Store is a bibliography database.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens or creates the database at cfg.DatabaseDir/bibliography.db
// and creates the schema if it does not exist. A nil logger uses
// slog.Default().
func Open(cfg types.EngineConfig, logger *slog.Logger) (*Store, error) {
	if cfg.DatabaseDir == "" {
		return nil, fmt.Errorf("opening bibliography: no database directory configured")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(cfg.DatabaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	path := filepath.Join(cfg.DatabaseDir, dbFile)
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path, logger: logger}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	logger.Debug("bibstore: opened", "path", path)
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Name identifies the database in lookup results.
func (s *Store) Name() string { return s.path }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			citation_key TEXT PRIMARY KEY,
			type TEXT,
			authors TEXT,
			editors TEXT,
			title TEXT,
			year TEXT,
			venue TEXT,
			publisher TEXT,
			volume TEXT,
			pages TEXT,
			doi TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_year ON entries(year)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

const selectEntry = `SELECT citation_key, type, authors, editors, title, year, venue, publisher, volume, pages, doi FROM entries`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (types.BibEntry, error) {
	var e types.BibEntry
	var authors, editors string
	if err := row.Scan(&e.CitationKey, &e.Type, &authors, &editors, &e.Title, &e.Year,
		&e.Venue, &e.Publisher, &e.Volume, &e.Pages, &e.DOI); err != nil {
		return types.BibEntry{}, err
	}
	if err := unmarshalNames(authors, &e.Authors); err != nil {
		return types.BibEntry{}, fmt.Errorf("entry %s: authors: %w", e.CitationKey, err)
	}
	if err := unmarshalNames(editors, &e.Editors); err != nil {
		return types.BibEntry{}, fmt.Errorf("entry %s: editors: %w", e.CitationKey, err)
	}
	return e, nil
}

func unmarshalNames(s string, dst *[]string) error {
	if s == "" || s == "null" {
		return nil
	}
	return json.Unmarshal([]byte(s), dst)
}

// EntryByKey implements citation.Database.
func (s *Store) EntryByKey(key string) (types.BibEntry, bool, error) {
	e, err := scanEntry(s.db.QueryRow(selectEntry+` WHERE citation_key = ?`, key))
	if errors.Is(err, sql.ErrNoRows) {
		return types.BibEntry{}, false, nil
	}
	if err != nil {
		return types.BibEntry{}, false, fmt.Errorf("querying entry %s: %w", key, err)
	}
	return e, true, nil
}

// Keys returns every citation key in the database, sorted.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT citation_key FROM entries ORDER BY citation_key`)
	if err != nil {
		return nil, fmt.Errorf("querying keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Entries returns every entry, sorted by citation key.
func (s *Store) Entries(ctx context.Context) ([]types.BibEntry, error) {
	rows, err := s.db.QueryContext(ctx, selectEntry+` ORDER BY citation_key`)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var out []types.BibEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ImportSummary holds counts from an import run.
type ImportSummary struct {
	Added     int
	Updated   int
	Unchanged int
	Failed    int
}

// Total returns the number of entries processed.
func (s ImportSummary) Total() int {
	return s.Added + s.Updated + s.Unchanged + s.Failed
}

// Import inserts entries, replacing existing entries with the same key.
// Progress lines are written to w. Entries without a citation key are
// counted as failed; the import continues.
func (s *Store) Import(ctx context.Context, entries []types.BibEntry, w io.Writer) (ImportSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO entries (citation_key, type, authors, editors, title, year, venue, publisher, volume, pages, doi)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	var summary ImportSummary
	for _, e := range entries {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		if e.CitationKey == "" {
			fmt.Fprintf(w, "failed  %q: no citation key\n", e.Title)
			summary.Failed++
			continue
		}

		existing, err := scanEntry(tx.QueryRowContext(ctx, selectEntry+` WHERE citation_key = ?`, e.CitationKey))
		found := err == nil
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return summary, fmt.Errorf("querying entry %s: %w", e.CitationKey, err)
		}
		if found && sameEntry(existing, e) {
			summary.Unchanged++
			continue
		}

		authorsJSON, _ := json.Marshal(e.Authors)
		editorsJSON, _ := json.Marshal(e.Editors)
		if _, err := stmt.ExecContext(ctx,
			e.CitationKey, e.Type, string(authorsJSON), string(editorsJSON), e.Title, e.Year,
			e.Venue, e.Publisher, e.Volume, e.Pages, e.DOI,
		); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", e.CitationKey, err)
			summary.Failed++
			continue
		}

		if found {
			fmt.Fprintf(w, "updated %s\n", e.CitationKey)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "added   %s\n", e.CitationKey)
			summary.Added++
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing import: %w", err)
	}

	fmt.Fprintf(w, "\nadded: %d, updated: %d, unchanged: %d, failed: %d\n",
		summary.Added, summary.Updated, summary.Unchanged, summary.Failed)
	s.logger.Info("bibstore: imported", "path", s.path, "added", summary.Added, "updated", summary.Updated,
		"unchanged", summary.Unchanged, "failed", summary.Failed)
	return summary, nil
}

func sameEntry(a, b types.BibEntry) bool {
	return a.CitationKey == b.CitationKey && a.Type == b.Type &&
		slices.Equal(a.Authors, b.Authors) && slices.Equal(a.Editors, b.Editors) &&
		a.Title == b.Title && a.Year == b.Year && a.Venue == b.Venue &&
		a.Publisher == b.Publisher && a.Volume == b.Volume && a.Pages == b.Pages && a.DOI == b.DOI
}
