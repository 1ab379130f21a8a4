package usecase

import (
	"context"
	"strconv"
	"strings"

	"github.com/secmon-lab/harrier/pkg/domain/interfaces"
	"github.com/secmon-lab/harrier/pkg/domain/model"
	"github.com/secmon-lab/harrier/pkg/domain/types"
)

// IOCInput carries raw form values for an indicator
type IOCInput struct {
	Type        string
	Value       string
	Description string
	Confidence  string
	MalwareID   string
	PhishID     string
}

// IOC implements indicator workflows
type IOC struct {
	repo interfaces.Repository
}

// NewIOC creates the indicator usecase
func NewIOC(repo interfaces.Repository) *IOC {
	return &IOC{repo: repo}
}

func parseMalwareID(raw string) *types.MalwareID {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		id := types.MalwareID(n)
		return &id
	}
	return nil
}

func parsePhishID(raw string) *types.PhishID {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		id := types.PhishID(n)
		return &id
	}
	return nil
}

// Create validates the input and stores a new indicator. The link
// invariant (malware or phishing, never both) is enforced by the model.
func (uc *IOC) Create(ctx context.Context, input IOCInput) (*model.IOC, error) {
	ioc, err := model.NewIOC(input.Type, input.Value,
		parseMalwareID(input.MalwareID), parsePhishID(input.PhishID))
	if err != nil {
		return nil, err
	}
	ioc.Description = input.Description

	if raw := strings.TrimSpace(input.Confidence); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			if err := ioc.SetConfidence(n); err != nil {
				return nil, err
			}
		}
	}

	if err := uc.repo.CreateIOC(ctx, ioc); err != nil {
		return nil, err
	}
	return ioc, nil
}

// Update applies the input to an existing indicator
func (uc *IOC) Update(ctx context.Context, id types.IOCID, input IOCInput) (*model.IOC, error) {
	existing, err := uc.repo.GetIOC(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Type == "" {
		input.Type = existing.Type
	}
	if input.Value == "" {
		input.Value = existing.Value
	}
	updated, err := model.NewIOC(input.Type, input.Value,
		parseMalwareID(input.MalwareID), parsePhishID(input.PhishID))
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.Description = input.Description

	if raw := strings.TrimSpace(input.Confidence); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			if err := updated.SetConfidence(n); err != nil {
				return nil, err
			}
		}
	}

	if err := uc.repo.UpdateIOC(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Get returns one indicator
func (uc *IOC) Get(ctx context.Context, id types.IOCID) (*model.IOC, error) {
	return uc.repo.GetIOC(ctx, id)
}

// List returns all indicators, newest first
func (uc *IOC) List(ctx context.Context) ([]*model.IOC, error) {
	return uc.repo.ListIOCs(ctx)
}

// Delete removes the indicator
func (uc *IOC) Delete(ctx context.Context, id types.IOCID) error {
	return uc.repo.DeleteIOC(ctx, id)
}
