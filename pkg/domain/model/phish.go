package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/harrier/pkg/domain/types"
)

// Phish represents a phishing instance, optionally tied to an event
type Phish struct {
	ID             types.PhishID
	Subject        string
	Sender         string
	Target         string
	Description    string
	RiskLevel      *types.RiskLevel
	OccurrenceDate *time.Time
	EventID        *types.EventID
	CreatedAt      time.Time
}

// NewPhish creates a new Phish instance
func NewPhish(subject string) (*Phish, error) {
	if subject == "" {
		return nil, goerr.New("phishing subject is required")
	}
	return &Phish{
		Subject:   subject,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EffectiveDate returns the occurrence date when set, else CreatedAt
func (p *Phish) EffectiveDate() time.Time {
	if p.OccurrenceDate != nil {
		return *p.OccurrenceDate
	}
	return p.CreatedAt
}

// SenderDomain derives the grouping key for sender rankings: the part
// after "@" lowercased, or the whole sender lowercased when it is not an
// address. Empty when no sender is recorded.
func (p *Phish) SenderDomain() string {
	sender := strings.TrimSpace(p.Sender)
	if sender == "" {
		return ""
	}
	if at := strings.LastIndex(sender, "@"); at >= 0 {
		return strings.ToLower(sender[at+1:])
	}
	return strings.ToLower(sender)
}
