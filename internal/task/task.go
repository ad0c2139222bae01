// Package task holds the task record model, its text codec, and the
// status and dependency transition logic.
package task

import (
	"time"

	"github.com/jot-sh/jot/internal/clierr"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusOpen    Status = "open"
	StatusClaimed Status = "claimed"
	StatusDone    Status = "done"
)

// ParseStatus converts a wire-format status string to a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusOpen, StatusClaimed, StatusDone:
		return Status(s), nil
	}
	return "", clierr.Newf(clierr.InvalidInput, "unknown status %q", s).
		WithDetails(map[string]any{"status": s})
}

// LinkKind classifies a relation between two tasks.
type LinkKind string

const (
	KindRelatesTo  LinkKind = "relates_to"
	KindDuplicates LinkKind = "duplicates"
	KindSupersedes LinkKind = "supersedes"
)

// ParseLinkKind converts a wire-format link kind string to a LinkKind.
func ParseLinkKind(s string) (LinkKind, error) {
	switch LinkKind(s) {
	case KindRelatesTo, KindDuplicates, KindSupersedes:
		return LinkKind(s), nil
	}
	return "", clierr.Newf(clierr.InvalidInput, "unknown link kind %q", s).
		WithDetails(map[string]any{"kind": s})
}

// Link records a typed relation from one task to another.
type Link struct {
	Target string   `json:"target"`
	Kind   LinkKind `json:"kind"`
}

// Note is one append-only annotation on a task.
type Note struct {
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Body      string    `json:"body"`
}

// Task is the persisted unit of work. Records round-trip through the
// text codec in codec.go; mutations go through the transition methods
// in engine.go.
type Task struct {
	ID        string     `json:"id"`
	Status    Status     `json:"status"`
	Summary   string     `json:"summary"`
	Priority  int        `json:"priority"`
	Agent     string     `json:"agent,omitempty"`
	Change    string     `json:"change,omitempty"`
	Created   time.Time  `json:"created"`
	Updated   time.Time  `json:"updated"`
	DoneAt    *time.Time `json:"done_at,omitempty"`
	BlockedBy []string   `json:"blocked_by,omitempty"`
	Links     []Link     `json:"links,omitempty"`
	Notes     []Note     `json:"notes,omitempty"`
}

// Priority bounds: 1 is highest, 5 is lowest.
const (
	PriorityHighest = 1
	PriorityDefault = 2
	PriorityLowest  = 5
)

// ValidatePriority checks that a priority is within the 1–5 range.
func ValidatePriority(p int) error {
	if p < PriorityHighest || p > PriorityLowest {
		return clierr.Newf(clierr.InvalidInput, "invalid priority %d (expected 1–5)", p).
			WithDetails(map[string]any{"priority": p})
	}
	return nil
}

// New constructs an open task with defaulted priority and both
// timestamps set to now. The id is assigned by the store on create.
func New(summary string, priority int, change string, now time.Time) (*Task, error) {
	if summary == "" {
		return nil, clierr.New(clierr.InvalidInput, "summary is required")
	}
	if priority == 0 {
		priority = PriorityDefault
	}
	if err := ValidatePriority(priority); err != nil {
		return nil, err
	}
	return &Task{
		Status:   StatusOpen,
		Summary:  summary,
		Priority: priority,
		Change:   change,
		Created:  now,
		Updated:  now,
	}, nil
}

// Clock returns the current time in the resolution records are stored
// at. Sub-second precision would not survive the RFC 3339 round trip.
func Clock() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
