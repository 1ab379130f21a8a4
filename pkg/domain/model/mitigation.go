package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/harrier/pkg/domain/types"
)

// Mitigation represents a remediation action. Unlike malware and phishing
// records, a mitigation always belongs to an event and is removed with it.
type Mitigation struct {
	ID          types.MitigationID
	Title       string
	Description string
	AssignedTo  string
	EventID     types.EventID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewMitigation creates a new Mitigation for an event
func NewMitigation(title string, eventID types.EventID) (*Mitigation, error) {
	if title == "" {
		return nil, goerr.New("mitigation title is required")
	}
	if eventID <= 0 {
		return nil, goerr.New("mitigation requires an event", goerr.V("eventID", eventID))
	}

	now := time.Now().UTC()
	return &Mitigation{
		Title:     title,
		EventID:   eventID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
