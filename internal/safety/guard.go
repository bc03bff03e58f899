// Package safety decides whether a path may ever be offered for deletion.
//
// The same Guard is consulted at scan time, again before the operator is
// asked to confirm, and once more immediately before removal. Verdicts are
// never cached: directories appear and disappear between those points.
package safety

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lakshaymaurya-felt/cachemole/internal/config"
)

// Decision is the binary classification of a path.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "ALLOW"
	}
	return "DENY"
}

// Verdict is a Decision plus the rule that produced it.
type Verdict struct {
	Decision Decision
	Reason   string
}

// Allowed reports whether the verdict is ALLOW.
func (v Verdict) Allowed() bool { return v.Decision == Allow }

func deny(format string, args ...any) Verdict {
	return Verdict{Decision: Deny, Reason: fmt.Sprintf(format, args...)}
}

// Classifier is implemented by Guard; scanners, the deleter and the
// selection controllers depend on this rather than on *Guard.
type Classifier interface {
	Classify(path string) Verdict
}

// Guard classifies paths against a fixed protected list.
type Guard struct {
	protected []protectedEntry
	writable  func(path string) bool
}

type protectedEntry struct {
	raw   string
	parts []string
}

// New builds a Guard. Protected entries may start with "~" and may carry
// glob metacharacters in any component (e.g. "com.apple.*").
func New(protected []string, home string) *Guard {
	g := &Guard{writable: isWritable}
	for _, p := range protected {
		abs := config.ExpandHome(p, home)
		if !filepath.IsAbs(abs) {
			continue
		}
		g.protected = append(g.protected, protectedEntry{raw: abs, parts: splitPath(abs)})
	}
	return g
}

// FromCatalog builds a Guard from a catalog's protected list.
func FromCatalog(cat config.Catalog, home string) *Guard {
	return New(cat.Protected, home)
}

// Classify returns ALLOW only if path is absolute, exists, is not a symlink,
// is writable by the invoking user, and neither equals, contains nor lies
// inside a protected entry.
func (g *Guard) Classify(path string) Verdict {
	if !filepath.IsAbs(path) {
		return deny("not an absolute path")
	}
	clean := filepath.Clean(path)

	if entry, ok := g.protectedMatch(clean); ok {
		switch {
		case len(splitPath(clean)) < len(entry.parts):
			return deny("contains protected path %s", entry.raw)
		case len(splitPath(clean)) > len(entry.parts):
			return deny("inside protected path %s", entry.raw)
		default:
			return deny("protected path %s", entry.raw)
		}
	}

	info, err := os.Lstat(clean)
	if err != nil {
		return deny("does not exist")
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return deny("is a symlink")
	}
	if !g.writable(clean) {
		return deny("not writable by current user")
	}
	return Verdict{Decision: Allow}
}

// protectedMatch finds the first protected entry that shares a full
// component prefix with path, in either direction.
func (g *Guard) protectedMatch(path string) (protectedEntry, bool) {
	parts := splitPath(path)
	for _, e := range g.protected {
		if prefixMatch(e.parts, parts) {
			return e, true
		}
	}
	return protectedEntry{}, false
}

// prefixMatch reports whether the shorter of the two component lists is a
// prefix of the longer one. Pattern components may be globs.
func prefixMatch(pattern, parts []string) bool {
	n := min(len(pattern), len(parts))
	for i := 0; i < n; i++ {
		ok, err := filepath.Match(pattern[i], parts[i])
		if err != nil {
			ok = pattern[i] == parts[i]
		}
		if !ok {
			return false
		}
	}
	return true
}

func splitPath(abs string) []string {
	trimmed := strings.Trim(filepath.ToSlash(filepath.Clean(abs)), "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
