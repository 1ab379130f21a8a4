package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/harrier/pkg/domain/interfaces"
	"github.com/secmon-lab/harrier/pkg/domain/model"
	"github.com/secmon-lab/harrier/pkg/domain/types"
)

// MitigationInput carries raw form values for a mitigation
type MitigationInput struct {
	Title       string
	Description string
	AssignedTo  string
	EventID     string
}

// Mitigation implements mitigation workflows
type Mitigation struct {
	repo interfaces.Repository
}

// NewMitigation creates the mitigation usecase
func NewMitigation(repo interfaces.Repository) *Mitigation {
	return &Mitigation{repo: repo}
}

// Create validates the input and stores a new mitigation. Unlike other
// entity references, the event link is mandatory here.
func (uc *Mitigation) Create(ctx context.Context, input MitigationInput) (*model.Mitigation, error) {
	eventID := parseEventID(input.EventID)
	if eventID == nil {
		return nil, goerr.New("mitigation requires a valid event reference",
			goerr.V("eventID", input.EventID))
	}

	mitigation, err := model.NewMitigation(input.Title, *eventID)
	if err != nil {
		return nil, err
	}
	mitigation.Description = input.Description
	mitigation.AssignedTo = input.AssignedTo

	if err := uc.repo.CreateMitigation(ctx, mitigation); err != nil {
		return nil, err
	}
	return mitigation, nil
}

// Update applies the input to an existing mitigation. The event link is
// immutable after creation.
func (uc *Mitigation) Update(ctx context.Context, id types.MitigationID, input MitigationInput) (*model.Mitigation, error) {
	mitigation, err := uc.repo.GetMitigation(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Title != "" {
		mitigation.Title = input.Title
	}
	mitigation.Description = input.Description
	mitigation.AssignedTo = input.AssignedTo

	if err := uc.repo.UpdateMitigation(ctx, mitigation); err != nil {
		return nil, err
	}
	return mitigation, nil
}

// Get returns one mitigation
func (uc *Mitigation) Get(ctx context.Context, id types.MitigationID) (*model.Mitigation, error) {
	return uc.repo.GetMitigation(ctx, id)
}

// List returns all mitigations, newest first
func (uc *Mitigation) List(ctx context.Context) ([]*model.Mitigation, error) {
	return uc.repo.ListMitigations(ctx)
}

// Delete removes the mitigation
func (uc *Mitigation) Delete(ctx context.Context, id types.MitigationID) error {
	return uc.repo.DeleteMitigation(ctx, id)
}
