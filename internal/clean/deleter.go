// Package clean removes confirmed candidates from disk.
package clean

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lakshaymaurya-felt/cachemole/internal/core"
	"github.com/lakshaymaurya-felt/cachemole/internal/logger"
	"github.com/lakshaymaurya-felt/cachemole/internal/safety"
	"github.com/lakshaymaurya-felt/cachemole/internal/scan"
)

// tombstoneTag marks directories renamed aside for removal.
const tombstoneTag = ".cmole-"

// Result is the outcome of deleting one candidate.
type Result struct {
	Candidate *scan.Candidate
	Err       error

	// Freed is the number of bytes released, or that would have been
	// released in dry-run mode.
	Freed  int64
	DryRun bool
}

// OK reports whether the deletion succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Reason returns the failure reason, or "" on success.
func (r Result) Reason() string { return core.ReasonOf(r.Err) }

// Summary aggregates a batch.
type Summary struct {
	Deleted []*scan.Candidate
	Failed  []Result
	Freed   int64
	DryRun  bool
}

// Deleter re-validates and removes candidates.
type Deleter struct {
	guard   safety.Classifier
	remover Remover
	minAge  time.Duration
	dryRun  bool
	now     func() time.Time
	latest  func(ctx context.Context, path string) (time.Time, error)
}

// Option configures a Deleter.
type Option func(*Deleter)

// WithRemover replaces the filesystem backend.
func WithRemover(r Remover) Option {
	return func(d *Deleter) { d.remover = r }
}

// WithDryRun runs every check without touching the filesystem.
func WithDryRun(dryRun bool) Option {
	return func(d *Deleter) { d.dryRun = dryRun }
}

// WithMinAge sets the age project artifacts must still have at removal.
func WithMinAge(age time.Duration) Option {
	return func(d *Deleter) { d.minAge = age }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(d *Deleter) { d.now = now }
}

// NewDeleter creates a Deleter that consults guard before every removal.
func NewDeleter(guard safety.Classifier, opts ...Option) *Deleter {
	d := &Deleter{
		guard:   guard,
		remover: OSRemover{},
		now:     time.Now,
		latest:  scan.LatestModification,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DryRun reports whether the deleter only simulates removal.
func (d *Deleter) DryRun() bool { return d.dryRun }

// Delete removes c.Path. The directory is first renamed to a hidden
// sibling so it leaves its place in one step; the renamed tree is then
// purged. If the purge fails the rename is undone. Delete never changes
// c.State; callers own the candidate lifecycle.
func (d *Deleter) Delete(ctx context.Context, c *scan.Candidate) Result {
	res := Result{Candidate: c, DryRun: d.dryRun}
	if res.Err = d.check(ctx, c); res.Err != nil {
		return res
	}

	fields := logger.Fields{"path": c.Path, "size": c.Size}
	if d.dryRun {
		logger.Debug("dry run: would delete", fields)
		res.Freed = c.Size
		return res
	}

	d.sweep(filepath.Dir(c.Path))

	tomb := tombstonePath(c.Path, d.now())
	if err := d.remover.Rename(c.Path, tomb); err != nil {
		res.Err = core.FromOS(c.Path, err)
		return res
	}
	if err := d.remover.RemoveAll(tomb); err != nil {
		if rerr := d.remover.Rename(tomb, c.Path); rerr != nil {
			logger.Error("could not restore partially removed directory", logger.Fields{
				"path":      c.Path,
				"tombstone": tomb,
				"error":     rerr.Error(),
			})
		}
		res.Err = core.FromOS(c.Path, err)
		return res
	}

	logger.Debug("deleted", fields)
	res.Freed = c.Size
	return res
}

// check runs the pre-delete validations.
func (d *Deleter) check(ctx context.Context, c *scan.Candidate) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s: %w", core.ErrIO, c.Path, err)
	}
	if _, err := os.Lstat(c.Path); err != nil {
		return core.FromOS(c.Path, err)
	}
	if v := d.guard.Classify(c.Path); !v.Allowed() {
		return fmt.Errorf("%w: %s: %s", core.ErrSafetyRevoked, c.Path, v.Reason)
	}
	if c.IsProject() && d.minAge > 0 {
		latest, err := d.latest(ctx, c.Path)
		if err != nil {
			return core.FromOS(c.Path, err)
		}
		if age := d.now().Sub(latest); age < d.minAge {
			return fmt.Errorf("%w: %s: modified %s ago", core.ErrSafetyRevoked, c.Path, age.Round(time.Second))
		}
	}
	return nil
}

// DeleteBatch deletes each candidate in order. A failure never stops the
// batch; only ctx cancellation does, and the remaining candidates are
// reported as failed without touching disk.
func (d *Deleter) DeleteBatch(ctx context.Context, cs []*scan.Candidate) Summary {
	sum := Summary{DryRun: d.dryRun}
	for _, c := range cs {
		res := d.Delete(ctx, c)
		if res.OK() {
			sum.Deleted = append(sum.Deleted, c)
			sum.Freed += res.Freed
			continue
		}
		logger.Debug("delete failed", logger.Fields{"path": c.Path, "reason": res.Reason(), "error": res.Err.Error()})
		sum.Failed = append(sum.Failed, res)
	}
	return sum
}

// sweep removes tombstones in dir left behind by an interrupted removal.
// Each one is checked by the guard like any candidate.
func (d *Deleter) sweep(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() || !isTombstone(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if v := d.guard.Classify(path); !v.Allowed() {
			continue
		}
		if err := d.remover.RemoveAll(path); err != nil {
			logger.Debug("could not remove stale tombstone", logger.Fields{"path": path, "error": err.Error()})
			continue
		}
		logger.Debug("removed stale tombstone", logger.Fields{"path": path})
	}
}

// isTombstone reports whether name has the form ".<name>.cmole-<digits>".
func isTombstone(name string) bool {
	i := strings.LastIndex(name, tombstoneTag)
	if i <= 1 || !strings.HasPrefix(name, ".") {
		return false
	}
	stamp := name[i+len(tombstoneTag):]
	if stamp == "" {
		return false
	}
	for _, r := range stamp {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func tombstonePath(path string, now time.Time) string {
	dir, name := filepath.Split(filepath.Clean(path))
	return filepath.Join(dir, fmt.Sprintf(".%s%s%d", name, tombstoneTag, now.UnixNano()))
}
