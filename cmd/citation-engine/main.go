// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the citation-engine CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Configuration keys shared by viper, the config file and CITATION_ENGINE_*
// environment variables.
const (
	keyDatabaseDir       = "database_dir"
	keyStylePath         = "style_path"
	keyUnresolvedFirst   = "unresolved_first"
	keyCitedOnPages      = "cited_on_pages"
	keyMaxOverlapReports = "max_overlap_reports"
	keyLogLevel          = "log_level"
)

// rootCmd is the base command for the citation-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "citation-engine",
	Short: "Citation markers and bibliographies for documents",
	Long: `citation-engine manages the citation groups of a document, numbers or
letters them according to a citation style, and renders citation markers and
the bibliography.

Documents are described by a YAML file listing citation groups with their
ranges and page positions. Bibliographic entries come from a SQLite database
(see "db import") or directly from a references.yaml file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := parseLevel(viper.GetString(keyLogLevel))
		if err != nil {
			return err
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./citation-engine.yaml or ~/.config/citation-engine/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
	viper.BindPFlag(keyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))

	viper.SetDefault(keyUnresolvedFirst, true)
	viper.SetDefault(keyMaxOverlapReports, 10)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("citation-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "citation-engine"))
		}
	}

	viper.SetEnvPrefix("CITATION_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// engineConfig assembles the settings from flags, environment and config
// file.
func engineConfig() types.EngineConfig {
	return types.EngineConfig{
		DatabaseDir:       viper.GetString(keyDatabaseDir),
		StylePath:         viper.GetString(keyStylePath),
		UnresolvedFirst:   viper.GetBool(keyUnresolvedFirst),
		CitedOnPages:      viper.GetBool(keyCitedOnPages),
		MaxOverlapReports: viper.GetInt(keyMaxOverlapReports),
	}
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
