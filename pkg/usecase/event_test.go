package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/harrier/pkg/domain/types"
	"github.com/secmon-lab/harrier/pkg/repository"
	"github.com/secmon-lab/harrier/pkg/usecase"
)

func TestEventCreate(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	uc := usecase.NewEvent(repo)

	t.Run("FullInput", func(t *testing.T) {
		event := gt.R1(uc.Create(ctx, usecase.EventInput{
			Title:     "Credential stuffing wave",
			Severity:  "High",
			Type:      "breach",
			Status:    "in_progress",
			EventDate: "2025-06-10",
		})).NoError(t)

		gt.True(t, event.ID > 0)
		gt.V(t, event.Type).NotNil()
		gt.Equal(t, types.EventTypeBreach, *event.Type)
		gt.Equal(t, types.EventStatusInProgress, event.Status)
		gt.V(t, event.EventDate).NotNil()
	})

	t.Run("MissingTitleFails", func(t *testing.T) {
		_, err := uc.Create(ctx, usecase.EventInput{})
		gt.Error(t, err)
	})

	t.Run("SloppyEnumsFallBack", func(t *testing.T) {
		event := gt.R1(uc.Create(ctx, usecase.EventInput{
			Title:     "Odd values",
			Type:      "weaponized-ai",
			Status:    "done",
			EventDate: "sometime last week",
		})).NoError(t)

		// bad enum and date values degrade instead of failing the form
		gt.V(t, event.Type).Nil()
		gt.Equal(t, types.EventStatusOpen, event.Status)
		gt.V(t, event.EventDate).Nil()
	})
}

func TestEventUpdate(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	uc := usecase.NewEvent(repo)

	event := gt.R1(uc.Create(ctx, usecase.EventInput{Title: "before", Severity: "Low"})).NoError(t)

	updated := gt.R1(uc.Update(ctx, event.ID, usecase.EventInput{
		Title:    "after",
		Severity: "Critical",
		Status:   "resolved",
	})).NoError(t)
	gt.Equal(t, "after", updated.Title)
	gt.Equal(t, types.EventStatusResolved, updated.Status)

	_, err := uc.Update(ctx, types.EventID(999), usecase.EventInput{Title: "x"})
	gt.Error(t, err)
}

func TestEventDetail(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	events := usecase.NewEvent(repo)
	malware := usecase.NewMalware(repo)
	mitigations := usecase.NewMitigation(repo)

	event := gt.R1(events.Create(ctx, usecase.EventInput{Title: "hub"})).NoError(t)
	gt.R1(malware.Create(ctx, usecase.MalwareInput{
		Name:    "implant.dll",
		EventID: event.ID.String(),
	})).NoError(t)
	gt.R1(mitigations.Create(ctx, usecase.MitigationInput{
		Title:   "Isolate host",
		EventID: event.ID.String(),
	})).NoError(t)

	detail := gt.R1(events.GetDetail(ctx, event.ID)).NoError(t)
	gt.A(t, detail.Malware).Length(1)
	gt.A(t, detail.Mitigations).Length(1)
	gt.A(t, detail.Phishing).Length(0)
}
