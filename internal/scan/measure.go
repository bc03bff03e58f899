package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/lakshaymaurya-felt/cachemole/internal/core"
)

// ctxCheckEvery is how many entries Measure visits between context checks.
const ctxCheckEvery = 256

// Measurement is the result of walking one directory tree.
type Measurement struct {
	Size         int64
	Files        int64
	LastModified time.Time
	Partial      bool
	Warnings     []string
}

// Measure sums the sizes of the regular files below root and records the
// most recent modification time seen on any file or directory, root
// included. Symlinks are neither followed nor counted. Unreadable entries
// are skipped and flag the result as partial.
func Measure(ctx context.Context, root string) (Measurement, error) {
	var m Measurement

	info, err := os.Lstat(root)
	if err != nil {
		return m, core.FromOS(root, err)
	}
	if !info.IsDir() {
		return m, fmt.Errorf("%w: %s: not a directory", core.ErrIO, root)
	}

	var visited int
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		visited++
		if visited%ctxCheckEvery == 0 {
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
		}

		if err != nil {
			if path == root && d == nil {
				return err
			}
			m.Partial = true
			m.Warnings = append(m.Warnings, fmt.Sprintf("%v: %s: %v", core.ErrPartialScan, path, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if !d.IsDir() && !d.Type().IsRegular() {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			m.Partial = true
			m.Warnings = append(m.Warnings, fmt.Sprintf("%v: %s: %v", core.ErrPartialScan, path, err))
			return nil
		}
		if fi.ModTime().After(m.LastModified) {
			m.LastModified = fi.ModTime()
		}
		if d.Type().IsRegular() {
			m.Size += fi.Size()
			m.Files++
		}
		return nil
	})
	if walkErr != nil {
		if ctx.Err() != nil {
			return m, ctx.Err()
		}
		return m, core.FromOS(root, walkErr)
	}
	return m, nil
}

// LatestModification re-reads the newest mtime under root. The deleter
// uses it to re-check artifact age right before removal.
func LatestModification(ctx context.Context, root string) (time.Time, error) {
	m, err := Measure(ctx, root)
	if err != nil {
		return time.Time{}, err
	}
	return m.LastModified, nil
}
