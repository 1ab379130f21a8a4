package usecase

import (
	"context"

	"github.com/secmon-lab/harrier/pkg/domain/interfaces"
	"github.com/secmon-lab/harrier/pkg/domain/model"
	"github.com/secmon-lab/harrier/pkg/domain/types"
)

// PhishInput carries raw form values for a phishing instance
type PhishInput struct {
	Subject        string
	Sender         string
	Target         string
	Description    string
	RiskLevel      string
	OccurrenceDate string
	EventID        string
}

// Phish implements phishing workflows
type Phish struct {
	repo interfaces.Repository
}

// NewPhish creates the phishing usecase
func NewPhish(repo interfaces.Repository) *Phish {
	return &Phish{repo: repo}
}

func (uc *Phish) apply(phish *model.Phish, input PhishInput) {
	phish.Subject = input.Subject
	phish.Sender = input.Sender
	phish.Target = input.Target
	phish.Description = input.Description
	phish.OccurrenceDate = model.ParseDate(input.OccurrenceDate)
	phish.EventID = parseEventID(input.EventID)

	if lvl, err := types.ParseRiskLevel(input.RiskLevel); err == nil {
		phish.RiskLevel = &lvl
	} else {
		phish.RiskLevel = nil
	}
}

// Create validates the input and stores a new phishing instance
func (uc *Phish) Create(ctx context.Context, input PhishInput) (*model.Phish, error) {
	phish, err := model.NewPhish(input.Subject)
	if err != nil {
		return nil, err
	}
	uc.apply(phish, input)
	if err := uc.repo.CreatePhish(ctx, phish); err != nil {
		return nil, err
	}
	return phish, nil
}

// Update applies the input to an existing instance
func (uc *Phish) Update(ctx context.Context, id types.PhishID, input PhishInput) (*model.Phish, error) {
	phish, err := uc.repo.GetPhish(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Subject == "" {
		input.Subject = phish.Subject
	}
	uc.apply(phish, input)
	if err := uc.repo.UpdatePhish(ctx, phish); err != nil {
		return nil, err
	}
	return phish, nil
}

// Get returns one phishing instance
func (uc *Phish) Get(ctx context.Context, id types.PhishID) (*model.Phish, error) {
	return uc.repo.GetPhish(ctx, id)
}

// List returns all phishing instances, most recent first
func (uc *Phish) List(ctx context.Context) ([]*model.Phish, error) {
	return uc.repo.ListPhishing(ctx)
}

// ListIOCs returns the indicators attached to an instance
func (uc *Phish) ListIOCs(ctx context.Context, id types.PhishID) ([]*model.IOC, error) {
	return uc.repo.ListIOCsByPhish(ctx, id)
}

// Delete removes the instance and its indicators
func (uc *Phish) Delete(ctx context.Context, id types.PhishID) error {
	return uc.repo.DeletePhish(ctx, id)
}
