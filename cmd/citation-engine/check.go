// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/docfile"
	"github.com/pdiddy/citation-engine/internal/overlap"
	"github.com/pdiddy/citation-engine/internal/session"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report overlapping citation marks in a document",
	Long: `Check reports citation marks and footnote anchors that overlap each
other. With --at it also checks whether a citation could be inserted at the
given region ("flow:start-end") without overlapping or touching a protected
range.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{keyMaxOverlapReports: "max"}); err != nil {
		return err
	}
	cfg := engineConfig()
	docPath, _ := cmd.Flags().GetString("doc")
	at, _ := cmd.Flags().GetString("at")

	doc, err := docfile.Load(docPath)
	if err != nil {
		return err
	}
	reports, err := session.New(doc, slog.Default()).CheckOverlaps(cfg.MaxOverlapReports)
	if err != nil {
		return err
	}

	if at != "" {
		span, err := parseSpan(at)
		if err != nil {
			return err
		}
		protected, err := doc.ProtectedRanges()
		if err != nil {
			return err
		}
		candidate := overlap.Holder{Range: span, Description: "region " + at}
		reports = append(reports, overlap.CheckRegion(candidate, protected, cfg.MaxOverlapReports)...)
	}

	w := cmd.OutOrStdout()
	for _, r := range reports {
		fmt.Fprintln(w, r)
	}
	if len(reports) > 0 {
		return fmt.Errorf("%d overlapping range(s)", len(reports))
	}
	fmt.Fprintln(w, "No overlapping ranges.")
	return nil
}

// parseSpan parses "flow:start-end" or "flow:pos".
func parseSpan(s string) (overlap.Span, error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 {
		return overlap.Span{}, fmt.Errorf("invalid region %q: want flow:start-end", s)
	}
	flow, pos := s[:i], s[i+1:]
	startStr, endStr, found := strings.Cut(pos, "-")
	if !found {
		endStr = startStr
	}
	start, err := strconv.Atoi(startStr)
	if err != nil {
		return overlap.Span{}, fmt.Errorf("invalid region %q: %w", s, err)
	}
	end, err := strconv.Atoi(endStr)
	if err != nil {
		return overlap.Span{}, fmt.Errorf("invalid region %q: %w", s, err)
	}
	if end < start {
		return overlap.Span{}, fmt.Errorf("invalid region %q: end before start", s)
	}
	return overlap.Span{Flow: flow, Start: start, End: end}, nil
}

func init() {
	checkCmd.Flags().String("doc", "", "document file (YAML)")
	checkCmd.Flags().String("at", "", "insertion region to check, as flow:start-end")
	checkCmd.Flags().Int("max", 10, "maximum number of reports")
	checkCmd.MarkFlagRequired("doc")

	rootCmd.AddCommand(checkCmd)
}
