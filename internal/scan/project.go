package scan

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lakshaymaurya-felt/cachemole/internal/config"
	"github.com/lakshaymaurya-felt/cachemole/internal/logger"
)

// ProjectOptions bounds a project artifact scan.
type ProjectOptions struct {
	Roots     []string
	Markers   []string
	Artifacts []string
	Exclude   []string
	MinAge    time.Duration
	MaxDepth  int
	MinSize   int64
}

// ProjectOptionsFrom converts the configured project settings.
func ProjectOptionsFrom(p config.Projects, minSize int64) ProjectOptions {
	return ProjectOptions{
		Roots:     p.Roots,
		Markers:   p.Markers,
		Artifacts: p.Artifacts,
		Exclude:   p.Exclude,
		MinAge:    p.MinAge,
		MaxDepth:  p.MaxDepth,
		MinSize:   minSize,
	}
}

type projectWalk struct {
	s         *Scanner
	ctx       context.Context
	opts      ProjectOptions
	markers   map[string]bool
	artifacts map[string]bool
	exclude   map[string]bool
	seen      map[string]bool
	now       time.Time
}

// ScanProjects walks each root up to opts.MaxDepth levels and yields build
// artifact directories that sit next to a project marker file and have not
// been modified for at least opts.MinAge. Artifact directories are never
// descended into. Hidden directories, symlinks, excluded paths, the
// filesystem root and the home directory itself are not walked.
func (s *Scanner) ScanProjects(ctx context.Context, opts ProjectOptions) iter.Seq[*Candidate] {
	return func(yield func(*Candidate) bool) {
		if opts.MaxDepth <= 0 {
			opts.MaxDepth = config.DefaultMaxDepth
		}
		w := &projectWalk{
			s:         s,
			ctx:       ctx,
			opts:      opts,
			markers:   toSet(opts.Markers),
			artifacts: toSet(opts.Artifacts),
			exclude:   toSet(config.ExpandAll(opts.Exclude, s.home)),
			seen:      make(map[string]bool),
			now:       s.now(),
		}

		for _, root := range opts.Roots {
			if ctx.Err() != nil {
				return
			}
			dir := config.ExpandHome(root, s.home)
			if !w.rootAllowed(root, dir) {
				continue
			}
			if !w.walk(dir, 0, yield) {
				return
			}
		}
	}
}

func (w *projectWalk) rootAllowed(raw, dir string) bool {
	switch {
	case !filepath.IsAbs(dir):
		w.s.addWarning("project root " + raw + " is not absolute")
		return false
	case filepath.Dir(dir) == dir:
		w.s.addWarning("refusing to walk filesystem root " + dir)
		return false
	case dir == filepath.Clean(w.s.home):
		w.s.addWarning("refusing to walk home directory " + dir + " as a project root")
		return false
	case w.excluded(dir):
		logger.Debugf("project root %s is excluded", dir)
		return false
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		logger.Debugf("project root %s not present", dir)
		return false
	}
	return true
}

// excluded reports whether dir equals or lies below an exclusion.
func (w *projectWalk) excluded(dir string) bool {
	for ex := range w.exclude {
		if dir == ex || strings.HasPrefix(dir, ex+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// walk lists dir and returns false once the consumer stops or ctx ends.
func (w *projectWalk) walk(dir string, depth int, yield func(*Candidate) bool) bool {
	if w.ctx.Err() != nil {
		return false
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.s.addWarning("cannot read " + dir + ": " + err.Error())
		return true
	}
	if depth == 0 {
		w.s.enumerated++
	}

	hasMarker := false
	for _, e := range entries {
		if !e.IsDir() && w.markers[e.Name()] {
			hasMarker = true
			break
		}
	}

	for _, e := range entries {
		if e.Type()&os.ModeSymlink != 0 || !e.IsDir() {
			continue
		}
		name := e.Name()
		child := filepath.Join(dir, name)

		if w.artifacts[name] {
			if !hasMarker {
				continue
			}
			if w.ctx.Err() != nil {
				return false
			}
			c, ok := w.candidate(child)
			if ok && !yield(c) {
				return false
			}
			continue
		}

		if strings.HasPrefix(name, ".") || depth >= w.opts.MaxDepth || w.exclude[child] {
			continue
		}
		if !w.walk(child, depth+1, yield) {
			return false
		}
	}
	return true
}

func (w *projectWalk) candidate(path string) (*Candidate, bool) {
	if w.seen[path] {
		return nil, false
	}
	w.seen[path] = true

	c, ok := w.s.evaluate(w.ctx, path, config.CategoryProject, filepath.Base(path), w.opts.MinSize)
	if !ok {
		return nil, false
	}
	if age := c.Age(w.now); age < w.opts.MinAge {
		logger.DebugfWithFields(logger.Fields{"path": path, "age": age.String()}, "skipping recently modified artifact")
		return nil, false
	}
	return c, true
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}
