package scan

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"time"

	"github.com/lakshaymaurya-felt/cachemole/internal/config"
	"github.com/lakshaymaurya-felt/cachemole/internal/logger"
	"github.com/lakshaymaurya-felt/cachemole/internal/safety"
)

// maxWarnings caps the warnings a Scanner keeps.
const maxWarnings = 500

// Scanner expands catalog patterns and project roots into candidates.
// A Scanner is not safe for concurrent use.
type Scanner struct {
	guard    safety.Classifier
	resolver Resolver
	home     string
	now      func() time.Time

	warnings   []string
	scanned    int64
	enumerated int
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithResolver replaces the filesystem resolver used for pattern expansion.
func WithResolver(r Resolver) Option {
	return func(s *Scanner) { s.resolver = r }
}

// WithClock replaces time.Now for age checks.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) { s.now = now }
}

// NewScanner creates a scanner that consults guard for every path it
// produces. home is substituted for a leading "~" in patterns and roots.
func NewScanner(guard safety.Classifier, home string, opts ...Option) *Scanner {
	s := &Scanner{
		guard:    guard,
		resolver: OSResolver{},
		home:     home,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Warnings returns any warnings accumulated during scanning.
func (s *Scanner) Warnings() []string {
	return append([]string(nil), s.warnings...)
}

// ScannedCount returns the number of paths examined so far.
func (s *Scanner) ScannedCount() int64 {
	return s.scanned
}

// EnumeratedRoots returns how many search locations could be listed: the
// base directory of a catalog pattern, or a project root. Zero after a
// scan means nothing was searched at all.
func (s *Scanner) EnumeratedRoots() int {
	return s.enumerated
}

func (s *Scanner) addWarning(msg string) {
	logger.Debug(msg)
	if len(s.warnings) < maxWarnings {
		s.warnings = append(s.warnings, msg)
	}
}

// Scan lazily yields one candidate per existing, allowed directory produced
// by patterns whose size is at least minSize. Cancelling ctx stops the
// sequence before the next path is examined; candidates already yielded
// remain valid.
func (s *Scanner) Scan(ctx context.Context, patterns []config.Pattern, minSize int64) iter.Seq[*Candidate] {
	return func(yield func(*Candidate) bool) {
		seen := make(map[string]bool)
		for _, p := range patterns {
			paths, err := Expand(p, s.home, s.resolver)
			if err != nil {
				s.addWarning(err.Error())
				continue
			}
			if isDir(BaseDir(p, s.home)) {
				s.enumerated++
			}
			for _, path := range paths {
				if ctx.Err() != nil {
					return
				}
				path = filepath.Clean(path)
				if seen[path] {
					continue
				}
				seen[path] = true

				c, ok := s.evaluate(ctx, path, p.Category, p.Name, minSize)
				if !ok {
					continue
				}
				if !yield(c) {
					return
				}
			}
		}
	}
}

// evaluate applies the guard, measures path, and applies the size threshold.
func (s *Scanner) evaluate(ctx context.Context, path string, cat config.Category, source string, minSize int64) (*Candidate, bool) {
	s.scanned++

	if v := s.guard.Classify(path); !v.Allowed() {
		logger.DebugfWithFields(logger.Fields{"path": path}, "skipping: %s", v.Reason)
		return nil, false
	}

	m, err := Measure(ctx, path)
	if err != nil {
		if ctx.Err() == nil {
			s.addWarning("cannot measure " + path + ": " + err.Error())
		}
		return nil, false
	}
	for _, w := range m.Warnings {
		s.addWarning(w)
	}
	if m.Size < minSize {
		return nil, false
	}

	logger.DebugfWithFields(logger.Fields{"path": path, "size": m.Size}, "candidate from %s", source)
	return &Candidate{
		Path:         path,
		Size:         m.Size,
		Category:     cat,
		Source:       source,
		LastModified: m.LastModified,
		Partial:      m.Partial,
	}, true
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Summary logs how many paths were examined and how many warnings arose.
func (s *Scanner) Summary() {
	logger.Debug("scan finished", logger.Fields{
		"scanned":    s.scanned,
		"enumerated": s.enumerated,
		"warnings":   len(s.warnings),
	})
}
