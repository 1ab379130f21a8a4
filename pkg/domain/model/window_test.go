package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/harrier/pkg/domain/model"
)

func TestParseDate(t *testing.T) {
	t.Run("Accepted formats", func(t *testing.T) {
		cases := map[string]time.Time{
			"2025-06-01":          time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			"2025-06-01 13:45":    time.Date(2025, 6, 1, 13, 45, 0, 0, time.UTC),
			"2025-06-01T13:45:30": time.Date(2025, 6, 1, 13, 45, 30, 0, time.UTC),
			"01/06/2025":          time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			"01/06/2025 13:45":    time.Date(2025, 6, 1, 13, 45, 0, 0, time.UTC),
			"01-06-2025":          time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		}
		for input, want := range cases {
			got := model.ParseDate(input)
			gt.V(t, got).NotNil()
			gt.Equal(t, want, *got)
		}
	})

	t.Run("Blank and junk yield nil", func(t *testing.T) {
		gt.V(t, model.ParseDate("")).Nil()
		gt.V(t, model.ParseDate("   ")).Nil()
		gt.V(t, model.ParseDate("June 1st")).Nil()
		gt.V(t, model.ParseDate("2025-13-40")).Nil()
	})
}

func TestWindowContains(t *testing.T) {
	w := model.Window{
		Start: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	}

	gt.True(t, w.Contains(w.Start)) // inclusive start
	gt.False(t, w.Contains(w.End)) // exclusive end
	gt.True(t, w.Contains(time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)))
	gt.False(t, w.Contains(w.Start.Add(-time.Second)))
}

func TestResolveWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("Default trailing window", func(t *testing.T) {
		w := model.ResolveWindow(now, 30, "", "")
		gt.Equal(t, now.AddDate(0, 0, -30), w.Start)
		gt.Equal(t, now, w.End)
	})

	t.Run("Explicit overrides", func(t *testing.T) {
		w := model.ResolveWindow(now, 30, "2025-06-01", "2025-06-10")
		gt.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), w.Start)
		// End date is inclusive: exclusive bound is the next day
		gt.Equal(t, time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), w.End)
	})

	t.Run("Unparseable overrides keep defaults", func(t *testing.T) {
		w := model.ResolveWindow(now, 7, "soon", "later")
		gt.Equal(t, now.AddDate(0, 0, -7), w.Start)
		gt.Equal(t, now, w.End)
	})

	t.Run("One bad one good", func(t *testing.T) {
		w := model.ResolveWindow(now, 7, "nope", "2025-06-14")
		gt.Equal(t, now.AddDate(0, 0, -7), w.Start)
		gt.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), w.End)
	})
}
