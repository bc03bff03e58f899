// Package classic is the line-oriented front end: a numbered listing, a
// selection prompt and a typed confirmation. It works on any reader and
// writer, so it also serves pipes and dumb terminals.
package classic

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/lakshaymaurya-felt/cachemole/internal/clean"
	"github.com/lakshaymaurya-felt/cachemole/internal/core"
	"github.com/lakshaymaurya-felt/cachemole/internal/scan"
	"github.com/lakshaymaurya-felt/cachemole/internal/selection"
	"github.com/lakshaymaurya-felt/cachemole/internal/ui"
)

const rule = "------------------------------------------------------------------"

// Options configures a Runner.
type Options struct {
	Home   string
	DryRun bool
}

// Runner drives a selection.Classic from text input.
type Runner struct {
	in   *bufio.Reader
	out  io.Writer
	opts Options
}

// New creates a Runner reading answers from in and writing to out.
func New(in io.Reader, out io.Writer, opts Options) *Runner {
	return &Runner{in: bufio.NewReader(in), out: out, opts: opts}
}

// Run lists the candidates, takes one selection and one confirmation, and
// deletes the batch. End of input at any prompt cancels without deleting.
func (r *Runner) Run(ctx context.Context, ctl *selection.Classic, d selection.Deleter) (clean.Summary, error) {
	items := ctl.Items()
	if len(items) == 0 {
		r.printf("  Nothing to clean.\n")
		return clean.Summary{}, nil
	}
	r.PrintList(items)

	for ctl.Stage() == selection.StageListing {
		if err := ctx.Err(); err != nil {
			return clean.Summary{}, err
		}
		line, err := r.prompt("Select items to delete (e.g. 1 3 5, all, q to quit): ")
		if err != nil {
			return r.cancelled(err)
		}
		if err := ctl.Select(line); err != nil {
			if errors.Is(err, selection.ErrInvalidSelection) {
				r.printf("  %s\n", err)
				continue
			}
			return clean.Summary{}, err
		}
	}

	r.printRevoked(ctl.Revoked())
	if ctl.Stage() == selection.StageDone {
		if ctl.Cancelled() {
			r.printf("  Cancelled. Nothing was deleted.\n")
		}
		return ctl.Summary(), nil
	}

	verb := "delete"
	if r.opts.DryRun {
		verb = "simulate deleting"
	}
	r.printf("\n  About to %s %d item(s), %s.\n", verb, len(ctl.Selected()), core.FormatSize(ctl.SelectedSize()))

	var answer string
	for answer == "" {
		line, err := r.prompt(fmt.Sprintf("Type %s to confirm, anything else cancels: ", selection.ConfirmToken))
		if err != nil {
			ctl.Confirm("")
			return r.cancelled(err)
		}
		answer = strings.TrimSpace(line)
	}
	if !ctl.Confirm(answer) {
		r.printf("  Cancelled. Nothing was deleted.\n")
		return ctl.Summary(), nil
	}

	// An interrupt during the batch lets the directory being removed finish
	// and reports the rest as failed.
	batchCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.printf("\n")
	sum := ctl.Execute(batchCtx, d, r.printResult)
	r.PrintSummary(sum)
	return sum, nil
}

// PrintList writes the numbered listing with a grand total.
func (r *Runner) PrintList(items []*scan.Candidate) {
	var total int64
	for _, c := range items {
		total += c.Size
	}

	r.printf("  Reclaimable space: %s in %d location(s)\n", core.FormatSize(total), len(items))
	r.printf("  %s\n\n", rule)
	for i, c := range items {
		note := ""
		if c.Partial {
			note = "  (partial)"
		}
		r.printf("  %3d. %10s  %-8s  %s%s\n", i+1, core.FormatSize(c.Size), c.Category, ui.DisplayPath(c.Path, r.opts.Home), note)
	}
	r.printf("\n  %s\n", rule)
	r.printf("  Total: %s\n\n", core.FormatSize(total))
}

// PrintSummary writes the batch outcome.
func (r *Runner) PrintSummary(sum clean.Summary) {
	r.printf("\n  %s\n", rule)
	label := "Freed"
	if sum.DryRun {
		label = "Would free"
	}
	r.printf("  %s %s: %d deleted, %d failed\n", label, core.FormatSize(sum.Freed), len(sum.Deleted), len(sum.Failed))
	for _, f := range sum.Failed {
		r.printf("    %s %s: %s\n", ui.IconError, ui.DisplayPath(f.Candidate.Path, r.opts.Home), f.Reason())
	}
}

func (r *Runner) printResult(res clean.Result) {
	path := ui.DisplayPath(res.Candidate.Path, r.opts.Home)
	if res.OK() {
		r.printf("  %s %s (%s)\n", ui.IconCheck, path, core.FormatSize(res.Freed))
		return
	}
	r.printf("  %s %s: %s\n", ui.IconError, path, res.Reason())
}

func (r *Runner) printRevoked(revoked []clean.Result) {
	for _, res := range revoked {
		r.printf("  %s skipped %s: %s\n", ui.IconWarning, ui.DisplayPath(res.Candidate.Path, r.opts.Home), res.Reason())
	}
}

func (r *Runner) cancelled(err error) (clean.Summary, error) {
	if errors.Is(err, io.EOF) {
		r.printf("\n  Cancelled. Nothing was deleted.\n")
		return clean.Summary{}, nil
	}
	return clean.Summary{}, err
}

// prompt writes msg and reads one line. A final line without a newline is
// still returned; io.EOF is only reported when nothing was read.
func (r *Runner) prompt(msg string) (string, error) {
	r.printf("  %s", msg)
	line, err := r.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (r *Runner) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}
