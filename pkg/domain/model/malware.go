package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/harrier/pkg/domain/types"
)

// Malware represents a malware sample observation, optionally tied to an
// event. Family keeps the denormalized family name alongside FamilyID so
// listings stay readable even if the reference row disappears.
type Malware struct {
	ID             types.MalwareID
	Name           string
	Family         string
	FamilyID       *types.FamilyID
	CategoryID     *types.CategoryID
	Description    string
	OccurrenceDate *time.Time
	EventID        *types.EventID
	CreatedAt      time.Time
}

// NewMalware creates a new Malware instance
func NewMalware(name string) (*Malware, error) {
	if name == "" {
		return nil, goerr.New("malware name is required")
	}
	return &Malware{
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EffectiveDate returns the occurrence date when set, else CreatedAt
func (m *Malware) EffectiveDate() time.Time {
	if m.OccurrenceDate != nil {
		return *m.OccurrenceDate
	}
	return m.CreatedAt
}
