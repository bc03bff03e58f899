//go:generate mockgen -destination=./mocks/remover.go . Remover

package clean

import "os"

// Remover performs the filesystem mutations of a deletion.
type Remover interface {
	Rename(oldpath, newpath string) error
	RemoveAll(path string) error
}

// OSRemover is the Remover backed by package os.
type OSRemover struct{}

func (OSRemover) Rename(oldpath, newpath string) error { return os.Rename(oldpath, newpath) }

func (OSRemover) RemoveAll(path string) error { return os.RemoveAll(path) }
