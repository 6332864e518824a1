// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citation-engine/internal/bibstore"
	"github.com/pdiddy/citation-engine/internal/citation"
	"github.com/pdiddy/citation-engine/internal/docfile"
	"github.com/pdiddy/citation-engine/internal/session"
	"github.com/pdiddy/citation-engine/internal/style"
	"github.com/pdiddy/citation-engine/pkg/types"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render citation markers and the bibliography of a document",
	Long: `Render reads a document file, orders its citation groups by page
position, resolves every cited key against the bibliography database and the
optional references file, and prints the marker of every group together with
the formatted bibliography.

Without --style the built-in style selected by --kind is used.`,
	RunE: runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{
		keyDatabaseDir:     "db",
		keyStylePath:       "style",
		keyUnresolvedFirst: "unresolved-first",
		keyCitedOnPages:    "cited-on-pages",
	}); err != nil {
		return err
	}
	cfg := engineConfig()
	docPath, _ := cmd.Flags().GetString("doc")
	refsPath, _ := cmd.Flags().GetString("refs")
	kind, _ := cmd.Flags().GetString("kind")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	doc, err := docfile.Load(docPath)
	if err != nil {
		return err
	}
	st, err := loadStyle(cfg.StylePath, types.MarkerKind(kind))
	if err != nil {
		return err
	}
	dbs, closeDBs, err := openDatabases(cfg, refsPath)
	if err != nil {
		return err
	}
	defer closeDBs()

	s := session.New(doc, slog.Default())
	rendered, err := s.Refresh(dbs, st, session.Options{
		UnresolvedFirst: cfg.UnresolvedFirst,
		CitedOnPages:    cfg.CitedOnPages,
	})
	if err != nil {
		return err
	}
	order, _ := s.Store().GlobalOrder()
	return docfile.WriteOutput(cmd.OutOrStdout(), docfile.NewOutput(st.Name, order, rendered), jsonOutput)
}

func loadStyle(path string, kind types.MarkerKind) (*style.Style, error) {
	if path != "" {
		return style.Load(path)
	}
	switch kind {
	case types.MarkerAuthorYear, types.MarkerNumeric, types.MarkerCitationKey:
		return style.Default(kind), nil
	}
	return nil, fmt.Errorf("unknown style kind %q: use author-year, numeric or citation-key", kind)
}

// openDatabases returns the lookup databases in priority order: the
// references file first, then the SQLite database.
func openDatabases(cfg types.EngineConfig, refsPath string) ([]citation.Database, func(), error) {
	var dbs []citation.Database
	closeAll := func() {}

	if refsPath != "" {
		refs, err := bibstore.LoadReferences(refsPath)
		if err != nil {
			return nil, nil, err
		}
		entries, err := bibstore.Entries(refs)
		if err != nil {
			return nil, nil, err
		}
		dbs = append(dbs, citation.NewMemoryDatabase(refsPath, entries...))
	}

	if cfg.DatabaseDir != "" {
		store, err := bibstore.Open(cfg, slog.Default())
		if err != nil {
			return nil, nil, err
		}
		dbs = append(dbs, store)
		closeAll = func() { store.Close() }
	}

	if len(dbs) == 0 {
		return nil, nil, fmt.Errorf("no bibliography: provide --db or --refs")
	}
	return dbs, closeAll, nil
}

// bindFlags binds configuration keys to flags of cmd. Keys are bound when
// the command runs since several commands share a key.
func bindFlags(cmd *cobra.Command, flags map[string]string) error {
	for key, name := range flags {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

func init() {
	renderCmd.Flags().String("doc", "", "document file (YAML)")
	renderCmd.Flags().String("style", "", "style file (YAML)")
	renderCmd.Flags().String("kind", string(types.MarkerAuthorYear), "built-in style when --style is not set: author-year, numeric, citation-key")
	renderCmd.Flags().String("db", "", "directory holding bibliography.db")
	renderCmd.Flags().String("refs", "", "references.yaml to resolve keys from")
	renderCmd.Flags().Bool("unresolved-first", true, "place unresolved citations first inside a group")
	renderCmd.Flags().Bool("cited-on-pages", false, "append page references to bibliography entries")
	renderCmd.Flags().Bool("json", false, "output as JSON")
	renderCmd.MarkFlagRequired("doc")

	rootCmd.AddCommand(renderCmd)
}
