package cmd

import (
	"fmt"
	"io"
	"iter"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/cachemole/internal/config"
	"github.com/lakshaymaurya-felt/cachemole/internal/core"
	"github.com/lakshaymaurya-felt/cachemole/internal/scan"
	"github.com/lakshaymaurya-felt/cachemole/internal/ui"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Report reclaimable space without deleting",
	Long:  "Run the full scan and print what could be reclaimed, grouped by category. Nothing is deleted.",
	Args:  cobra.NoArgs,
	RunE:  runAnalyze,
}

var categoryOrder = []config.Category{
	config.CategorySystem,
	config.CategoryBrowser,
	config.CategoryIDE,
	config.CategoryDev,
	config.CategoryProject,
}

func init() {
	analyzeCmd.Flags().Bool("no-projects", false, "Skip the project build-artifact scan")
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	set, err := s.collect(cmd, func(sc *scan.Scanner) []iter.Seq[*scan.Candidate] {
		seqs := []iter.Seq[*scan.Candidate]{
			sc.Scan(s.scanCtx, s.catalog.Patterns, s.minSize),
		}
		if cfg.Projects.Enabled {
			seqs = append(seqs, sc.ScanProjects(s.scanCtx, scan.ProjectOptionsFrom(cfg.Projects, s.minSize)))
		}
		return seqs
	})
	if err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), set, s.home)
	return nil
}

// printReport writes the candidates grouped by category with subtotals.
func printReport(w io.Writer, set *scan.Set, home string) {
	groups := make(map[config.Category][]*scan.Candidate)
	for _, c := range set.Visible() {
		groups[c.Category] = append(groups[c.Category], c)
	}

	for _, cat := range categoryOrder {
		items := groups[cat]
		if len(items) == 0 {
			continue
		}
		var sub int64
		for _, c := range items {
			sub += c.Size
		}
		_, _ = fmt.Fprintf(w, "\n  %s %s  %s\n", ui.IconDiamond, cat, core.FormatSize(sub))
		for _, c := range items {
			age := ""
			if c.IsProject() {
				age = "  modified " + ui.FormatAge(c.LastModified)
			}
			_, _ = fmt.Fprintf(w, "    %10s  %s%s\n", core.FormatSize(c.Size), ui.DisplayPath(c.Path, home), age)
		}
	}

	_, _ = fmt.Fprintf(w, "\n  Total reclaimable: %s in %d location(s)\n", core.FormatSize(set.TotalSize()), len(set.Visible()))
}
