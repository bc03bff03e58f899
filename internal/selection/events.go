// Package selection holds the two operator-facing state machines that turn
// a candidate set into confirmed deletions. Neither knows how input is
// captured or output drawn; the browse and classic packages bind them to a
// terminal.
package selection

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/lakshaymaurya-felt/cachemole/internal/clean"
	"github.com/lakshaymaurya-felt/cachemole/internal/core"
	"github.com/lakshaymaurya-felt/cachemole/internal/scan"
)

// Event is one abstract operator input.
type Event int

const (
	EventOther Event = iota
	EventUp
	EventDown
	EventActivate
	EventDetails
	EventQuit
	EventConfirm
)

func (e Event) String() string {
	switch e {
	case EventUp:
		return "up"
	case EventDown:
		return "down"
	case EventActivate:
		return "activate"
	case EventDetails:
		return "details"
	case EventQuit:
		return "quit"
	case EventConfirm:
		return "confirm"
	default:
		return "other"
	}
}

// EventSource produces operator events. Next returns io.EOF when input is
// exhausted.
type EventSource interface {
	Next(ctx context.Context) (Event, error)
}

// Script is an EventSource that replays a fixed sequence.
type Script struct {
	events []Event
}

// NewScript returns a Script over events.
func NewScript(events ...Event) *Script {
	return &Script{events: events}
}

func (s *Script) Next(ctx context.Context) (Event, error) {
	if err := ctx.Err(); err != nil {
		return EventOther, err
	}
	if len(s.events) == 0 {
		return EventOther, io.EOF
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}

// Deleter removes a single confirmed candidate.
type Deleter interface {
	Delete(ctx context.Context, c *scan.Candidate) clean.Result
}

// ErrInvalidSelection is returned for a classic selection line containing
// a token that is neither an in-range index nor "all".
var ErrInvalidSelection = errors.New("invalid selection")

func revoked(c *scan.Candidate, reason string) error {
	return fmt.Errorf("%w: %s: %s", core.ErrSafetyRevoked, c.Path, reason)
}

// isEOF reports whether err means the event source ran dry.
func isEOF(err error) bool {
	return errors.Is(err, io.EOF)
}
