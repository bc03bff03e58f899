package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/cachemole/internal/browse"
	"github.com/lakshaymaurya-felt/cachemole/internal/classic"
	"github.com/lakshaymaurya-felt/cachemole/internal/clean"
	"github.com/lakshaymaurya-felt/cachemole/internal/config"
	"github.com/lakshaymaurya-felt/cachemole/internal/core"
	"github.com/lakshaymaurya-felt/cachemole/internal/logger"
	"github.com/lakshaymaurya-felt/cachemole/internal/safety"
	"github.com/lakshaymaurya-felt/cachemole/internal/scan"
	"github.com/lakshaymaurya-felt/cachemole/internal/selection"
)

const (
	modeInteractive = "interactive"
	modeClassic     = "classic"
)

// session carries what one scan-then-select run shares between steps.
type session struct {
	home    string
	catalog config.Catalog
	guard   *safety.Guard
	minSize int64
	minAge  time.Duration

	// scanCtx ends on SIGINT/SIGTERM while scanning; an interrupted scan
	// still hands its partial results to the UI.
	scanCtx  context.Context
	stopScan context.CancelFunc
}

func newSession(cmd *cobra.Command) (*session, error) {
	home, err := config.HomeDir()
	if err != nil {
		return nil, err
	}
	size, err := cfg.MinSizeBytes()
	if err != nil {
		return nil, err
	}

	cat := cfg.Catalog()
	scanCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	return &session{
		home:     home,
		catalog:  cat,
		guard:    safety.FromCatalog(cat, home),
		minSize:  size,
		minAge:   cfg.Projects.MinAge,
		scanCtx:  scanCtx,
		stopScan: stop,
	}, nil
}

// collect runs the scans produced by build and merges their results. It
// fails when not a single scan location could be listed, unless the scan
// was interrupted first.
func (s *session) collect(cmd *cobra.Command, build func(*scan.Scanner) []iter.Seq[*scan.Candidate]) (*scan.Set, error) {
	defer s.stopScan()

	sc := scan.NewScanner(s.guard, s.home)
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "  Scanning for directories of at least %s…\n", core.FormatSize(s.minSize))

	start := time.Now()
	set := scan.Build(build(sc)...)
	sc.Summary()

	fields := logger.Fields{
		"found":    set.Len(),
		"scanned":  sc.ScannedCount(),
		"roots":    sc.EnumeratedRoots(),
		"duration": time.Since(start).Round(time.Millisecond).String(),
	}
	interrupted := s.scanCtx.Err() != nil
	if interrupted {
		logger.Warn("scan interrupted, showing partial results", fields)
	} else {
		logger.Debug("scan complete", fields)
	}
	if n := len(sc.Warnings()); n > 0 {
		logger.Debugf("%d path(s) were only partly readable", n)
	}
	if sc.EnumeratedRoots() == 0 && !interrupted {
		return nil, core.ErrNoScanRoots
	}
	return set, nil
}

// run hands set to the chosen front end and reports the outcome.
func (s *session) run(cmd *cobra.Command, set *scan.Set) error {
	out := cmd.OutOrStdout()
	ui, err := resolveMode(mode)
	if err != nil {
		return err
	}

	if set.Len() == 0 {
		_, _ = fmt.Fprintf(out, "  Nothing to clean: no candidates of at least %s.\n", core.FormatSize(s.minSize))
		return nil
	}

	ctx := cmd.Context()
	before, haveBefore := s.freeSpace()
	deleter := clean.NewDeleter(s.guard,
		clean.WithDryRun(cfg.Settings.DryRun),
		clean.WithMinAge(s.minAge),
	)

	switch ui {
	case modeInteractive:
		ctl := selection.NewInteractive(set, s.guard)
		err := browse.Run(ctx, ctl, deleter, browse.Options{Home: s.home, DryRun: cfg.Settings.DryRun})
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		printFreed(out, ctl.DeletedCount(), ctl.Freed(), cfg.Settings.DryRun)

	case modeClassic:
		ctl := selection.NewClassic(set, s.guard)
		runner := classic.New(cmd.InOrStdin(), out, classic.Options{Home: s.home, DryRun: cfg.Settings.DryRun})
		if _, err := runner.Run(ctx, ctl, deleter); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}

	if after, ok := s.freeSpace(); ok && haveBefore {
		printSpace(out, before, after)
	}
	return nil
}

func (s *session) freeSpace() (core.DiskSpace, bool) {
	ds, err := core.GetDiskSpace(s.home)
	if err != nil {
		logger.Debugf("cannot read free space: %v", err)
		return core.DiskSpace{}, false
	}
	return ds, true
}

func printFreed(w io.Writer, deleted int, freed int64, dry bool) {
	if deleted == 0 {
		return
	}
	label := "Freed"
	if dry {
		label = "Would free"
	}
	_, _ = fmt.Fprintf(w, "  %s %s from %d location(s).\n", label, core.FormatSize(freed), deleted)
}

func printSpace(w io.Writer, before, after core.DiskSpace) {
	_, _ = fmt.Fprintf(w, "  Free space on %s: %s → %s (of %s)\n",
		after.Path, core.FormatSize(int64(before.Free)), core.FormatSize(int64(after.Free)), core.FormatSize(int64(after.Total)))
}

// resolveMode validates --mode, picking interactive only when both stdin
// and stdout are terminals.
func resolveMode(flag string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case modeInteractive:
		return modeInteractive, nil
	case modeClassic:
		return modeClassic, nil
	case "":
		if isTerminal(os.Stdin) && isTerminal(os.Stdout) {
			return modeInteractive, nil
		}
		return modeClassic, nil
	default:
		return "", fmt.Errorf("unknown mode %q (use interactive or classic)", flag)
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
