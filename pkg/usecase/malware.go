package usecase

import (
	"context"
	"strconv"
	"strings"

	"github.com/secmon-lab/harrier/pkg/domain/interfaces"
	"github.com/secmon-lab/harrier/pkg/domain/model"
	"github.com/secmon-lab/harrier/pkg/domain/types"
)

// MalwareInput carries raw form values for a malware sample
type MalwareInput struct {
	Name           string
	Family         string
	Category       string
	Description    string
	OccurrenceDate string
	EventID        string
}

// Malware implements malware workflows
type Malware struct {
	repo interfaces.Repository
}

// NewMalware creates the malware usecase
func NewMalware(repo interfaces.Repository) *Malware {
	return &Malware{repo: repo}
}

// parseEventID resolves an optional event reference from a form value.
// Blank or non-numeric input means no link.
func parseEventID(raw string) *types.EventID {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return nil
	}
	id := types.EventID(n)
	return &id
}

func (uc *Malware) apply(ctx context.Context, malware *model.Malware, input MalwareInput) error {
	malware.Name = input.Name
	malware.Description = input.Description
	malware.OccurrenceDate = model.ParseDate(input.OccurrenceDate)
	malware.EventID = parseEventID(input.EventID)

	malware.Family = strings.TrimSpace(input.Family)
	malware.FamilyID = nil
	if malware.Family != "" {
		family, err := uc.repo.GetOrCreateFamily(ctx, malware.Family)
		if err != nil {
			return err
		}
		malware.Family = family.Name
		malware.FamilyID = &family.ID
	}

	malware.CategoryID = nil
	if category := strings.TrimSpace(input.Category); category != "" {
		cat, err := uc.repo.GetOrCreateCategory(ctx, category)
		if err != nil {
			return err
		}
		malware.CategoryID = &cat.ID
	}
	return nil
}

// Create validates the input and stores a new malware sample. Family and
// category names resolve case-insensitively to reference rows, creating
// them when new.
func (uc *Malware) Create(ctx context.Context, input MalwareInput) (*model.Malware, error) {
	malware, err := model.NewMalware(input.Name)
	if err != nil {
		return nil, err
	}
	if err := uc.apply(ctx, malware, input); err != nil {
		return nil, err
	}
	if err := uc.repo.CreateMalware(ctx, malware); err != nil {
		return nil, err
	}
	return malware, nil
}

// Update applies the input to an existing sample
func (uc *Malware) Update(ctx context.Context, id types.MalwareID, input MalwareInput) (*model.Malware, error) {
	malware, err := uc.repo.GetMalware(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name == "" {
		input.Name = malware.Name
	}
	if err := uc.apply(ctx, malware, input); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateMalware(ctx, malware); err != nil {
		return nil, err
	}
	return malware, nil
}

// Get returns one malware sample
func (uc *Malware) Get(ctx context.Context, id types.MalwareID) (*model.Malware, error) {
	return uc.repo.GetMalware(ctx, id)
}

// List returns all malware samples, most recent first
func (uc *Malware) List(ctx context.Context) ([]*model.Malware, error) {
	return uc.repo.ListMalware(ctx)
}

// ListIOCs returns the indicators attached to a sample
func (uc *Malware) ListIOCs(ctx context.Context, id types.MalwareID) ([]*model.IOC, error) {
	return uc.repo.ListIOCsByMalware(ctx, id)
}

// Delete removes the sample and its indicators
func (uc *Malware) Delete(ctx context.Context, id types.MalwareID) error {
	return uc.repo.DeleteMalware(ctx, id)
}
