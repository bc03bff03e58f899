package selection

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lakshaymaurya-felt/cachemole/internal/clean"
	"github.com/lakshaymaurya-felt/cachemole/internal/safety"
	"github.com/lakshaymaurya-felt/cachemole/internal/scan"
)

// ConfirmToken is the literal the operator must type to proceed.
const ConfirmToken = "DELETE"

// Stage is the classic controller's state.
type Stage int

const (
	StageListing Stage = iota
	StageConfirming
	StageDeleting
	StageDone
)

// Classic is the numbered-list controller. It handles a single batch and
// then finishes.
type Classic struct {
	items []*scan.Candidate
	guard safety.Classifier

	stage     Stage
	selected  []*scan.Candidate
	revoked   []clean.Result
	summary   clean.Summary
	cancelled bool
}

// NewClassic lists the visible candidates of set.
func NewClassic(set *scan.Set, guard safety.Classifier) *Classic {
	return &Classic{items: set.Visible(), guard: guard}
}

func (c *Classic) Stage() Stage { return c.stage }
func (c *Classic) Items() []*scan.Candidate { return c.items }
func (c *Classic) Selected() []*scan.Candidate { return c.selected }
func (c *Classic) Revoked() []clean.Result { return c.revoked }
func (c *Classic) Cancelled() bool { return c.cancelled }
func (c *Classic) Summary() clean.Summary { return c.summary }

// SelectedSize sums the sizes of the selected candidates.
func (c *Classic) SelectedSize() int64 {
	var total int64
	for _, it := range c.selected {
		total += it.Size
	}
	return total
}

// Select parses one selection line: whitespace-separated 1-based indices,
// or "all". "q", "quit" and "exit" cancel the session. A line with any
// invalid token is rejected whole and leaves the controller in listing.
// Accepted candidates are re-checked with the guard; those now denied are
// marked failed and reported through Revoked.
func (c *Classic) Select(line string) error {
	if c.stage != StageListing {
		return fmt.Errorf("%w: not accepting a selection", ErrInvalidSelection)
	}

	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 1 {
		switch fields[0] {
		case "q", "quit", "exit":
			c.cancelled = true
			c.stage = StageDone
			return nil
		}
	}

	picked, err := c.parse(fields)
	if err != nil {
		return err
	}

	for _, it := range picked {
		if v := c.guard.Classify(it.Path); !v.Allowed() {
			it.State = scan.StateFailed
			it.Err = revoked(it, v.Reason)
			c.revoked = append(c.revoked, clean.Result{Candidate: it, Err: it.Err})
			continue
		}
		it.State = scan.StateSelected
		c.selected = append(c.selected, it)
	}

	if len(c.selected) == 0 {
		c.finish()
		return nil
	}
	c.stage = StageConfirming
	return nil
}

func (c *Classic) parse(fields []string) ([]*scan.Candidate, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty selection", ErrInvalidSelection)
	}

	seen := make(map[int]bool)
	var picked []*scan.Candidate
	for _, f := range fields {
		if f == "all" {
			for i := range c.items {
				if !seen[i] {
					seen[i] = true
					picked = append(picked, c.items[i])
				}
			}
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 || n > len(c.items) {
			return nil, fmt.Errorf("%w: %q (choose 1-%d or all)", ErrInvalidSelection, f, len(c.items))
		}
		if !seen[n-1] {
			seen[n-1] = true
			picked = append(picked, c.items[n-1])
		}
	}
	return picked, nil
}

// Confirm accepts the operator's answer. Only the exact ConfirmToken
// proceeds to deletion; anything else cancels the batch and restores the
// selected candidates.
func (c *Classic) Confirm(answer string) bool {
	if c.stage != StageConfirming {
		return false
	}
	if strings.TrimSpace(answer) == ConfirmToken {
		c.stage = StageDeleting
		return true
	}
	for _, it := range c.selected {
		it.State = scan.StatePending
	}
	c.selected = nil
	c.cancelled = true
	c.stage = StageDone
	return false
}

// Execute deletes the confirmed candidates one after another. Each
// outcome is passed to progress, if not nil, as soon as it is known.
func (c *Classic) Execute(ctx context.Context, d Deleter, progress func(clean.Result)) clean.Summary {
	if c.stage != StageDeleting {
		return c.summary
	}
	for _, it := range c.selected {
		it.State = scan.StateDeleting
		res := d.Delete(ctx, it)
		if res.OK() {
			it.State = scan.StateDeleted
			c.summary.Deleted = append(c.summary.Deleted, it)
			c.summary.Freed += res.Freed
			c.summary.DryRun = c.summary.DryRun || res.DryRun
		} else {
			it.State = scan.StateFailed
			it.Err = res.Err
			c.summary.Failed = append(c.summary.Failed, res)
		}
		if progress != nil {
			progress(res)
		}
	}
	c.finish()
	return c.summary
}

func (c *Classic) finish() {
	failed := append([]clean.Result(nil), c.revoked...)
	c.summary.Failed = append(failed, c.summary.Failed...)
	c.stage = StageDone
}
