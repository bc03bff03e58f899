package selection

import (
	"context"

	"github.com/lakshaymaurya-felt/cachemole/internal/clean"
	"github.com/lakshaymaurya-felt/cachemole/internal/logger"
	"github.com/lakshaymaurya-felt/cachemole/internal/safety"
	"github.com/lakshaymaurya-felt/cachemole/internal/scan"
)

// Mode is the interactive controller's state.
type Mode int

const (
	ModeBrowsing Mode = iota
	ModeConfirming
	ModeDeleting
	ModeDone
)

func (m Mode) String() string {
	switch m {
	case ModeBrowsing:
		return "browsing"
	case ModeConfirming:
		return "confirming"
	case ModeDeleting:
		return "deleting"
	default:
		return "done"
	}
}

// Interactive is the key-driven controller: one candidate at a time is
// activated, confirmed and deleted, after which browsing resumes.
type Interactive struct {
	set   *scan.Set
	guard safety.Classifier

	mode        Mode
	cursor      int
	freed       int64
	deleted     int
	detailsOpen bool
	lastErr     error

	pending   *scan.Candidate
	prevState scan.State
}

// NewInteractive starts browsing set with the cursor on the largest entry.
func NewInteractive(set *scan.Set, guard safety.Classifier) *Interactive {
	return &Interactive{set: set, guard: guard}
}

func (m *Interactive) Mode() Mode { return m.mode }
func (m *Interactive) Cursor() int { return m.cursor }
func (m *Interactive) Freed() int64 { return m.freed }
func (m *Interactive) DeletedCount() int { return m.deleted }
func (m *Interactive) DetailsOpen() bool { return m.detailsOpen }
func (m *Interactive) LastError() error { return m.lastErr }
func (m *Interactive) Pending() *scan.Candidate { return m.pending }

// Visible returns the candidates still on screen, largest first.
func (m *Interactive) Visible() []*scan.Candidate {
	return m.set.Visible()
}

// Remaining sums the sizes of the visible candidates.
func (m *Interactive) Remaining() int64 {
	return m.set.TotalSize()
}

// Current returns the candidate under the cursor, or nil if none remain.
func (m *Interactive) Current() *scan.Candidate {
	items := m.Visible()
	if m.cursor < 0 || m.cursor >= len(items) {
		return nil
	}
	return items[m.cursor]
}

// Handle applies one event. When the event confirms a deletion, Handle
// returns the candidate to delete and the controller waits in
// ModeDeleting until Complete is called; otherwise it returns nil.
func (m *Interactive) Handle(ev Event) *scan.Candidate {
	switch m.mode {
	case ModeDone, ModeDeleting:
		return nil
	case ModeConfirming:
		return m.handleConfirming(ev)
	}

	if m.detailsOpen {
		m.detailsOpen = false
		if ev == EventQuit {
			m.mode = ModeDone
		}
		return nil
	}

	switch ev {
	case EventUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case EventDown:
		if m.cursor < len(m.Visible())-1 {
			m.cursor++
		}
	case EventDetails:
		if m.Current() != nil {
			m.detailsOpen = true
		}
	case EventActivate:
		m.activate()
	case EventQuit:
		m.mode = ModeDone
	}
	return nil
}

// activate runs the pre-confirm guard check on the current candidate.
func (m *Interactive) activate() {
	c := m.Current()
	if c == nil {
		return
	}
	m.lastErr = nil

	if v := m.guard.Classify(c.Path); !v.Allowed() {
		c.State = scan.StateFailed
		c.Err = revoked(c, v.Reason)
		m.lastErr = c.Err
		logger.Debug("candidate no longer safe to delete", logger.Fields{"path": c.Path, "reason": v.Reason})
		return
	}

	m.prevState = c.State
	c.State = scan.StateSelected
	m.pending = c
	m.mode = ModeConfirming
}

func (m *Interactive) handleConfirming(ev Event) *scan.Candidate {
	if ev != EventConfirm {
		m.pending.State = m.prevState
		m.pending = nil
		m.mode = ModeBrowsing
		return nil
	}
	m.pending.State = scan.StateDeleting
	m.mode = ModeDeleting
	return m.pending
}

// Complete records the outcome of the deletion handed out by Handle and
// returns to browsing. A successful candidate leaves the visible list and
// the cursor is kept in range; a failed one stays visible, annotated, and
// may be activated again.
func (m *Interactive) Complete(res clean.Result) {
	if m.mode != ModeDeleting || res.Candidate != m.pending {
		return
	}
	c := m.pending
	m.pending = nil
	m.mode = ModeBrowsing

	if !res.OK() {
		c.State = scan.StateFailed
		c.Err = res.Err
		m.lastErr = res.Err
		return
	}

	c.State = scan.StateDeleted
	c.Err = nil
	m.lastErr = nil
	m.freed += res.Freed
	m.deleted++

	if n := len(m.Visible()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// Run drives the controller from src until the operator quits, the source
// is exhausted or ctx is cancelled. Each confirmed candidate is passed to d.
func (m *Interactive) Run(ctx context.Context, src EventSource, d Deleter) error {
	for m.mode != ModeDone {
		ev, err := src.Next(ctx)
		if err != nil {
			if isEOF(err) {
				m.mode = ModeDone
				return nil
			}
			return err
		}
		if c := m.Handle(ev); c != nil {
			m.Complete(d.Delete(ctx, c))
		}
	}
	return nil
}
