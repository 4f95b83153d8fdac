package domain

import "fmt"

// Status is the lifecycle state of a project.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// ParseStatus converts a raw string into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// order of the forward workflow; archived is reachable from any of these
var statusRank = map[Status]int{
	StatusDraft:     0,
	StatusActive:    1,
	StatusCompleted: 2,
}

// CheckTransition validates a status change.
//
// Allowed: staying put, moving exactly one step forward along
// draft -> active -> completed, and archiving from any non-archived status.
// Archived is terminal.
func CheckTransition(from, to Status) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if from == to {
		return nil
	}
	if from == StatusArchived {
		return fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, from)
	}
	if to == StatusArchived {
		return nil
	}
	if statusRank[to] != statusRank[from]+1 {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// CheckProgress validates a progress change: within 0..100 and never decreasing.
func CheckProgress(from, to int) error {
	if to < 0 || to > 100 {
		return fmt.Errorf("%w: %d is outside 0..100", ErrInvalidProgress, to)
	}
	if to < from {
		return fmt.Errorf("%w: %d -> %d", ErrInvalidProgress, from, to)
	}
	return nil
}
