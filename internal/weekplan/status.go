package weekplan

import (
	"encoding"
	"fmt"
)

// Status is the lifecycle state of a planned task.
//
// Toggling is strictly cyclic:
//
//	Pending → Completed → Missed → PartiallyCompleted → Pending
type Status int

const (
	StatusPending Status = iota
	StatusCompleted
	StatusMissed
	StatusPartiallyCompleted
)

var statusNames = [...]string{
	StatusPending:            "Pending",
	StatusCompleted:          "Completed",
	StatusMissed:             "Missed",
	StatusPartiallyCompleted: "Partially Completed",
}

var (
	_ fmt.Stringer             = Status(0)
	_ encoding.TextMarshaler   = Status(0)
	_ encoding.TextUnmarshaler = (*Status)(nil)
)

func (s Status) valid() bool {
	return s >= StatusPending && s <= StatusPartiallyCompleted
}

// Next returns the status a toggle moves to.
func (s Status) Next() Status {
	if !s.valid() {
		return StatusPending
	}
	return (s + 1) % Status(len(statusNames))
}

func (s Status) String() string {
	if s.valid() {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, fmt.Errorf("weekplan: invalid status %d", int(s))
	}
	return []byte(statusNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if name == string(text) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("weekplan: unknown status %q", text)
}
