package cmd

import (
	"iter"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/cachemole/internal/scan"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Free up disk space",
	Long: `Scan cache locations and project build artifacts, then choose what to delete.

This is also what running cmole without a subcommand does.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().Bool("no-projects", false, "Skip the project build-artifact scan")
}

func runClean(cmd *cobra.Command, _ []string) error {
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

	return s.run(cmd, set)
}
