package cmd

import (
	"fmt"
	"iter"
	"time"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/cachemole/internal/scan"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Clean project build artifacts",
	Long: `Find and remove build artifacts (node_modules, target, build, dist, etc.) from project directories.

An artifact directory is offered only when the folder holding it contains a
project manifest (package.json, Cargo.toml, go.mod, ...) and nothing inside it
has changed for at least --min-age days.`,
	RunE: runPurge,
}

var (
	purgeMinAge int
	purgeDepth  int
	purgeRoots  []string
)

func init() {
	purgeCmd.Flags().IntVar(&purgeMinAge, "min-age", 1, "Minimum age in days (recent projects are skipped)")
	purgeCmd.Flags().IntVar(&purgeDepth, "depth", 4, "How many directory levels below each root to search")
	purgeCmd.Flags().StringSliceVar(&purgeRoots, "root", nil, "Project root to search (repeatable; default: configured roots)")
}

func runPurge(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	if flags.Changed("min-age") {
		if purgeMinAge < 0 {
			return fmt.Errorf("--min-age must not be negative")
		}
		cfg.Projects.MinAge = time.Duration(purgeMinAge) * 24 * time.Hour
	}
	if flags.Changed("depth") {
		if purgeDepth < 1 {
			return fmt.Errorf("--depth must be at least 1")
		}
		cfg.Projects.MaxDepth = purgeDepth
	}
	if len(purgeRoots) > 0 {
		cfg.Projects.Roots = purgeRoots
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	set, err := s.collect(cmd, func(sc *scan.Scanner) []iter.Seq[*scan.Candidate] {
		return []iter.Seq[*scan.Candidate]{
			sc.ScanProjects(s.scanCtx, scan.ProjectOptionsFrom(cfg.Projects, s.minSize)),
		}
	})
	if err != nil {
		return err
	}

	return s.run(cmd, set)
}
