package types

import (
	"github.com/m-mizutani/goerr/v2"
)

// EventStatus represents the workflow status of a security event.
// Transitions are unconstrained: any handler may set any value.
type EventStatus string

const (
	EventStatusOpen       EventStatus = "open"
	EventStatusInProgress EventStatus = "in_progress"
	EventStatusResolved   EventStatus = "resolved"
)

// String returns the string representation of the status
func (s EventStatus) String() string {
	return string(s)
}

// Label returns the human readable form (e.g. "In Progress")
func (s EventStatus) Label() string {
	switch s {
	case EventStatusOpen:
		return "Open"
	case EventStatusInProgress:
		return "In Progress"
	case EventStatusResolved:
		return "Resolved"
	default:
		return string(s)
	}
}

// IsValid checks if the status is valid
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusOpen, EventStatusInProgress, EventStatusResolved:
		return true
	default:
		return false
	}
}

// IsActive returns true for statuses that count toward the open backlog
func (s EventStatus) IsActive() bool {
	return s == EventStatusOpen || s == EventStatusInProgress
}

// AllEventStatuses returns every status in display order
func AllEventStatuses() []EventStatus {
	return []EventStatus{EventStatusOpen, EventStatusInProgress, EventStatusResolved}
}

// ParseEventStatus validates a raw status string. Unlike form handling,
// which falls back to the default on bad input, this returns a named error
// so callers can decide.
func ParseEventStatus(raw string) (EventStatus, error) {
	s := EventStatus(raw)
	if !s.IsValid() {
		return "", goerr.New("invalid event status", goerr.V("status", raw))
	}
	return s, nil
}
