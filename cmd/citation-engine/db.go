// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citation-engine/internal/bibstore"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the bibliography database (import, lookup, export)",
	Long: `Db manages the SQLite bibliography database that render resolves
citation keys against.`,
}

// --- import subcommand ---

var dbImportCmd = &cobra.Command{
	Use:   "import <references.yaml>",
	Short: "Import entries from a references.yaml file",
	Long: `Import reads a references.yaml file and inserts its entries into the
database. Entries with an existing key are replaced; identical entries are
left alone.`,
	Args: cobra.ExactArgs(1),
	RunE: runDBImport,
}

func runDBImport(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	refs, err := bibstore.LoadReferences(args[0])
	if err != nil {
		return err
	}
	entries, err := bibstore.Entries(refs)
	if err != nil {
		return err
	}
	summary, err := store.Import(context.Background(), entries, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d entr(ies) failed to import", summary.Failed)
	}
	return nil
}

// --- lookup subcommand ---

var dbLookupCmd = &cobra.Command{
	Use:   "lookup <citation-key>",
	Short: "Print the entry for a citation key",
	Args:  cobra.ExactArgs(1),
	RunE:  runDBLookup,
}

func runDBLookup(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	entry, ok, err := store.EntryByKey(args[0])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no entry for %q", args[0])
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entry)
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	defer enc.Close()
	return enc.Encode(entry)
}

// --- export subcommand ---

var dbExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every entry as BibTeX, CSL-YAML or YAML",
	RunE:  runDBExport,
}

func runDBExport(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Entries(context.Background())
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "bibtex":
		return bibstore.WriteBibTeX(cmd.OutOrStdout(), entries)
	case "csl":
		return bibstore.WriteCSL(cmd.OutOrStdout(), entries)
	case "yaml":
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		defer enc.Close()
		return enc.Encode(entries)
	}
	return fmt.Errorf("unsupported export format %q: use bibtex, csl or yaml", format)
}

func openStore(cmd *cobra.Command) (*bibstore.Store, error) {
	if err := bindFlags(cmd, map[string]string{keyDatabaseDir: "db"}); err != nil {
		return nil, err
	}
	return bibstore.Open(engineConfig(), slog.Default())
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	dbCmd.PersistentFlags().String("db", "bibliography", "directory holding bibliography.db")

	dbLookupCmd.Flags().Bool("json", false, "output as JSON")
	dbExportCmd.Flags().String("format", "bibtex", "export format: bibtex, csl or yaml")

	// Wire subcommands.
	dbCmd.AddCommand(dbImportCmd)
	dbCmd.AddCommand(dbLookupCmd)
	dbCmd.AddCommand(dbExportCmd)

	rootCmd.AddCommand(dbCmd)
}
