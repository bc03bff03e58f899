// Package scan discovers cache and build-artifact directories worth
// reclaiming and measures how much space they hold.
package scan

import (
	"path/filepath"
	"time"

	"github.com/lakshaymaurya-felt/cachemole/internal/config"
)

// State is the lifecycle position of a Candidate within a session.
type State int

const (
	StatePending State = iota
	StateSelected
	StateDeleting
	StateDeleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSelected:
		return "selected"
	case StateDeleting:
		return "deleting"
	case StateDeleted:
		return "deleted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Candidate is one directory that may be offered for deletion.
// Path and Size are fixed once the candidate is produced; a rescan builds
// new candidates.
type Candidate struct {
	Path         string
	Size         int64
	Category     config.Category
	Source       string
	LastModified time.Time

	// Partial is set when part of the tree could not be read, making Size
	// a lower bound.
	Partial bool

	State State
	Err   error
}

// Name returns the last path element.
func (c *Candidate) Name() string {
	return filepath.Base(c.Path)
}

// IsProject reports whether the candidate is a project build artifact.
func (c *Candidate) IsProject() bool {
	return c.Category == config.CategoryProject
}

// Age returns how long the tree has gone without modification.
func (c *Candidate) Age(now time.Time) time.Duration {
	return now.Sub(c.LastModified)
}
