package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/harrier/pkg/repository"
	"github.com/secmon-lab/harrier/pkg/usecase"
)

func TestDashboardRiskScore(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyDatabase", func(t *testing.T) {
		uc := usecase.NewDashboard(repository.NewMemory())
		data := gt.R1(uc.Load(ctx)).NoError(t)
		gt.Equal(t, 0, data.Risk.Score)
		gt.Equal(t, "Low", data.Risk.Level)
	})

	t.Run("WeightsAndLevels", func(t *testing.T) {
		repo := repository.NewMemory()
		events := usecase.NewEvent(repo)

		// two critical + one high, all open: 5+5+3 = 13 → medium
		for _, sev := range []string{"critical", "Critical", "high"} {
			gt.R1(events.Create(ctx, usecase.EventInput{Title: "e", Severity: sev})).NoError(t)
		}
		// resolved events carry no weight
		gt.R1(events.Create(ctx, usecase.EventInput{
			Title: "done", Severity: "critical", Status: "resolved",
		})).NoError(t)

		data := gt.R1(usecase.NewDashboard(repo).Load(ctx)).NoError(t)
		gt.Equal(t, 13, data.Risk.Score)
		gt.Equal(t, "Medium", data.Risk.Level)
		gt.Equal(t, "medium", data.Risk.LevelClass)
		gt.Equal(t, 3, data.Risk.ActiveEvents)
		gt.Equal(t, 3, data.Risk.Open)
	})

	t.Run("HighAndCriticalThresholds", func(t *testing.T) {
		repo := repository.NewMemory()
		events := usecase.NewEvent(repo)

		// 4 criticals = 20 → high
		for i := 0; i < 4; i++ {
			gt.R1(events.Create(ctx, usecase.EventInput{Title: "c", Severity: "critical"})).NoError(t)
		}
		data := gt.R1(usecase.NewDashboard(repo).Load(ctx)).NoError(t)
		gt.Equal(t, "High", data.Risk.Level)

		// two more = 30 → critical
		for i := 0; i < 2; i++ {
			gt.R1(events.Create(ctx, usecase.EventInput{Title: "c", Severity: "critical"})).NoError(t)
		}
		data = gt.R1(usecase.NewDashboard(repo).Load(ctx)).NoError(t)
		gt.Equal(t, "Critical", data.Risk.Level)
	})
}

func TestDashboardEventLists(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	events := usecase.NewEvent(repo)

	// seven active critical events; only five make the dashboard list
	for i := 0; i < 7; i++ {
		gt.R1(events.Create(ctx, usecase.EventInput{Title: "crit", Severity: "critical"})).NoError(t)
	}
	// resolved critical events are excluded
	gt.R1(events.Create(ctx, usecase.EventInput{
		Title: "old crit", Severity: "critical", Status: "resolved",
	})).NoError(t)

	data := gt.R1(usecase.NewDashboard(repo).Load(ctx)).NoError(t)
	gt.A(t, data.CriticalEvents).Length(5)
	gt.A(t, data.RecentEvents).Length(3)
	gt.Equal(t, 8, data.Counts.Events)
	gt.Equal(t, 7, data.Counts.OpenEvents)
}
