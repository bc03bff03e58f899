package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lakshaymaurya-felt/cachemole/internal/config"
)

// Resolver supplies the two filesystem lookups pattern expansion needs.
type Resolver interface {
	// Glob returns the paths matching an absolute glob.
	Glob(pattern string) ([]string, error)

	// ReadDirNames returns the names of the subdirectories of dir.
	ReadDirNames(dir string) ([]string, error)
}

// OSResolver resolves patterns against the real filesystem.
type OSResolver struct{}

func (OSResolver) Glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

func (OSResolver) ReadDirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Expand turns a catalog pattern into concrete absolute paths. It performs
// no I/O of its own; every lookup goes through r. Results are sorted and
// may name paths that do not exist.
func Expand(p config.Pattern, home string, r Resolver) ([]string, error) {
	path := config.ExpandHome(p.Path, home)
	if !filepath.IsAbs(path) {
		return nil, fmt.Errorf("pattern %s: path %q is not absolute", p.Name, p.Path)
	}

	switch p.Kind {
	case config.KindLiteral, "":
		return []string{path}, nil

	case config.KindGlob:
		matches, err := r.Glob(path)
		if err != nil {
			return nil, fmt.Errorf("pattern %s: %w", p.Name, err)
		}
		sort.Strings(matches)
		return matches, nil

	case config.KindApps:
		return expandApps(p, path, r)

	default:
		return nil, fmt.Errorf("pattern %s: unknown kind %q", p.Name, p.Kind)
	}
}

// BaseDir returns the deepest directory of p's path that contains no
// wildcard or placeholder: the directory a scan of p has to list. It
// returns "" for a relative path.
func BaseDir(p config.Pattern, home string) string {
	path := config.ExpandHome(p.Path, home)
	if !filepath.IsAbs(path) {
		return ""
	}
	if p.Kind == config.KindLiteral || p.Kind == "" {
		return filepath.Dir(path)
	}
	base := string(filepath.Separator)
	for _, part := range strings.Split(filepath.Clean(path), string(filepath.Separator)) {
		if part == "" {
			continue
		}
		if part == config.AppPlaceholder || strings.ContainsAny(part, `*?[\`) {
			break
		}
		base = filepath.Join(base, part)
	}
	return base
}

// expandApps substitutes {app} with every subdirectory name found in the
// directory that precedes the placeholder.
func expandApps(p config.Pattern, path string, r Resolver) ([]string, error) {
	sep := string(filepath.Separator)
	idx := strings.Index(path, sep+config.AppPlaceholder)
	if idx < 0 {
		return nil, fmt.Errorf("pattern %s: missing %s component", p.Name, config.AppPlaceholder)
	}
	dir := path[:idx]
	rest := path[idx+len(sep+config.AppPlaceholder):]
	if rest != "" && !strings.HasPrefix(rest, sep) {
		return nil, fmt.Errorf("pattern %s: %s must be a whole path component", p.Name, config.AppPlaceholder)
	}
	rest = strings.TrimPrefix(rest, sep)
	if dir == "" {
		dir = sep
	}

	names, err := r.ReadDirNames(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("pattern %s: %w", p.Name, err)
	}
	sort.Strings(names)

	out := make([]string, 0, len(names))
	for _, name := range names {
		if strings.HasPrefix(name, ".") {
			continue
		}
		out = append(out, filepath.Join(dir, name, rest))
	}
	return out, nil
}
