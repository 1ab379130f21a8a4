package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/harrier/pkg/domain/interfaces"
	"github.com/secmon-lab/harrier/pkg/domain/model"
	"github.com/secmon-lab/harrier/pkg/domain/types"
)

// EventInput carries raw form values for creating or updating an event.
// Date strings go through the fixed format list and become nil when blank
// or unparseable; enum strings fall back to their defaults when invalid.
// Form submissions must never fail on a sloppy value.
type EventInput struct {
	Title       string
	Description string
	Severity    string
	Type        string
	Status      string
	EventDate   string
	ClosedDate  string
}

// Event implements event workflows on top of the repository
type Event struct {
	repo interfaces.Repository
}

// NewEvent creates the event usecase
func NewEvent(repo interfaces.Repository) *Event {
	return &Event{repo: repo}
}

func (uc *Event) apply(event *model.Event, input EventInput) {
	event.Title = input.Title
	event.Description = input.Description
	event.Severity = input.Severity
	event.EventDate = model.ParseDate(input.EventDate)
	event.ClosedDate = model.ParseDate(input.ClosedDate)

	if t, err := types.ParseEventType(input.Type); err == nil {
		event.Type = &t
	} else {
		event.Type = nil
	}
	if st, err := types.ParseEventStatus(input.Status); err == nil {
		event.Status = st
	}
}

// Create validates the input and stores a new event
func (uc *Event) Create(ctx context.Context, input EventInput) (*model.Event, error) {
	event, err := model.NewEvent(input.Title)
	if err != nil {
		return nil, err
	}
	uc.apply(event, input)
	if detected := model.ParseDate(input.EventDate); detected != nil {
		event.DetectedDate = *detected
	}
	if err := uc.repo.CreateEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Update applies the input to an existing event
func (uc *Event) Update(ctx context.Context, id types.EventID, input EventInput) (*model.Event, error) {
	if input.Title == "" {
		return nil, goerr.New("event title is required")
	}
	event, err := uc.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.apply(event, input)
	if err := uc.repo.UpdateEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Get returns one event
func (uc *Event) Get(ctx context.Context, id types.EventID) (*model.Event, error) {
	return uc.repo.GetEvent(ctx, id)
}

// List returns all events, most recent first
func (uc *Event) List(ctx context.Context) ([]*model.Event, error) {
	return uc.repo.ListEvents(ctx)
}

// EventDetail is the event with everything attached to it, for the detail
// page.
type EventDetail struct {
	Event       *model.Event
	Malware     []*model.Malware
	Phishing    []*model.Phish
	Mitigations []*model.Mitigation
	APTs        []*model.APT
}

// GetDetail loads the event and its related records
func (uc *Event) GetDetail(ctx context.Context, id types.EventID) (*EventDetail, error) {
	event, err := uc.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	malware, err := uc.repo.ListMalwareByEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	phishing, err := uc.repo.ListPhishingByEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	mitigations, err := uc.repo.ListMitigationsByEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	apts, err := uc.repo.ListAPTsByEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	return &EventDetail{
		Event:       event,
		Malware:     malware,
		Phishing:    phishing,
		Mitigations: mitigations,
		APTs:        apts,
	}, nil
}

// Delete removes the event. Its mitigations go with it; malware and
// phishing records are detached and kept.
func (uc *Event) Delete(ctx context.Context, id types.EventID) error {
	return uc.repo.DeleteEvent(ctx, id)
}
