package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/harrier/pkg/domain/model"
	"github.com/secmon-lab/harrier/pkg/repository"
	"github.com/secmon-lab/harrier/pkg/usecase"
)

func TestSettingsUpdate(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	uc := usecase.NewSettings(repository.NewMemorySettings(), repo)

	gt.Equal(t, model.DefaultNotificationEmail, uc.Get(ctx).NotificationEmail)

	updated := gt.R1(uc.Update(ctx, " soc@corp.example ")).NoError(t)
	gt.Equal(t, "soc@corp.example", updated.NotificationEmail)
	gt.Equal(t, "soc@corp.example", uc.Get(ctx).NotificationEmail)

	t.Run("RejectsBlank", func(t *testing.T) {
		_, err := uc.Update(ctx, "   ")
		gt.Error(t, err)
	})

	t.Run("RejectsNonAddress", func(t *testing.T) {
		_, err := uc.Update(ctx, "not-an-email")
		gt.Error(t, err)
	})
}

func TestSettingsClearData(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	events := usecase.NewEvent(repo)
	gt.R1(events.Create(ctx, usecase.EventInput{Title: "doomed"})).NoError(t)
	gt.R1(repo.GetOrCreateFamily(ctx, "Emotet")).NoError(t)

	uc := usecase.NewSettings(repository.NewMemorySettings(), repo)
	counts := gt.R1(uc.Counts(ctx)).NoError(t)
	gt.Equal(t, 1, counts.Events)

	gt.NoError(t, uc.ClearData(ctx))
	counts = gt.R1(uc.Counts(ctx)).NoError(t)
	gt.Equal(t, 0, counts.Events)

	// reference rows survive the wipe
	gt.A(t, gt.R1(repo.ListFamilies(ctx)).NoError(t)).Length(1)
}
