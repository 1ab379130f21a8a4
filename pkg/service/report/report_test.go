package report_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/harrier/pkg/domain/interfaces"
	"github.com/secmon-lab/harrier/pkg/domain/model"
	"github.com/secmon-lab/harrier/pkg/domain/types"
	"github.com/secmon-lab/harrier/pkg/repository"
	"github.com/secmon-lab/harrier/pkg/service/aggregate"
	"github.com/secmon-lab/harrier/pkg/service/report"
)

func TestParseParams(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		p := gt.R1(report.ParseParams("exec", "month", "2025-06")).NoError(t)
		gt.Equal(t, types.AudienceExec, p.Audience)
		gt.Equal(t, types.PeriodMonth, p.PeriodType)
	})

	t.Run("InvalidAudience", func(t *testing.T) {
		_, err := report.ParseParams("board", "month", "2025-06")
		gt.Error(t, err)
	})

	t.Run("InvalidPeriodType", func(t *testing.T) {
		_, err := report.ParseParams("exec", "week", "2025-06")
		gt.Error(t, err)
	})

	t.Run("EmptyPeriod", func(t *testing.T) {
		_, err := report.ParseParams("exec", "month", "")
		gt.Error(t, err)
	})
}

func TestPeriodWindow(t *testing.T) {
	t.Run("Month", func(t *testing.T) {
		p := gt.R1(report.ParseParams("it", "month", "2025-06")).NoError(t)
		w := gt.R1(p.Window()).NoError(t)
		gt.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), w.Start)
		gt.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), w.End)
	})

	t.Run("Quarter", func(t *testing.T) {
		p := gt.R1(report.ParseParams("it", "quarter", "Q2 2025")).NoError(t)
		w := gt.R1(p.Window()).NoError(t)
		gt.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), w.Start)
		gt.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), w.End)
	})

	t.Run("Q4RollsIntoNextYear", func(t *testing.T) {
		p := gt.R1(report.ParseParams("it", "quarter", "Q4 2025")).NoError(t)
		w := gt.R1(p.Window()).NoError(t)
		gt.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), w.Start)
		gt.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), w.End)
	})

	t.Run("Year", func(t *testing.T) {
		p := gt.R1(report.ParseParams("it", "year", "2025")).NoError(t)
		w := gt.R1(p.Window()).NoError(t)
		gt.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), w.Start)
		gt.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), w.End)
	})

	t.Run("Invalid", func(t *testing.T) {
		for pt, period := range map[string]string{
			"month":   "June 2025",
			"quarter": "Q5 2025",
			"year":    "soon",
		} {
			p := gt.R1(report.ParseParams("it", pt, period)).NoError(t)
			_, err := p.Window()
			gt.Error(t, err)
		}
	})
}

func seedEvents(t *testing.T, repo interfaces.Repository) {
	t.Helper()
	ctx := context.Background()

	// resolved event inside June 2025
	inWindow := gt.R1(model.NewEvent("June breach")).NoError(t)
	inWindow.Severity = "High"
	d := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	inWindow.EventDate = &d
	inWindow.Status = types.EventStatusResolved
	gt.NoError(t, repo.CreateEvent(ctx, inWindow))

	// still-open event from long before the window: part of the backlog
	// snapshot, not of the period total
	backlog := gt.R1(model.NewEvent("Lingering incident")).NoError(t)
	old := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	backlog.EventDate = &old
	backlog.CreatedAt = old
	gt.NoError(t, repo.CreateEvent(ctx, backlog))
	gt.NoError(t, repo.UpdateEvent(ctx, backlog))

	mal := gt.R1(model.NewMalware("stealer.bin")).NoError(t)
	mal.Family = "Emotet"
	md := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)
	mal.OccurrenceDate = &md
	gt.NoError(t, repo.CreateMalware(ctx, mal))

	ph := gt.R1(model.NewPhish("Urgent payroll update")).NoError(t)
	ph.Sender = "hr@phish.example"
	pd := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	ph.OccurrenceDate = &pd
	gt.NoError(t, repo.CreatePhish(ctx, ph))
}

func TestBuildStats(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	seedEvents(t, repo)

	w := model.Window{
		Start: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	stats := gt.R1(report.BuildStats(ctx, repo, w)).NoError(t)

	// period total counts only effective dates inside the window; the
	// backlog snapshot also counts the older still-open event
	gt.Equal(t, 1, stats.TotalEvents)
	gt.Equal(t, 1, stats.OpenEvents)
	gt.Equal(t, 1, stats.ResolvedEvents)
	gt.Equal(t, 1, stats.MalwareCount)
	gt.Equal(t, 1, stats.PhishingCount)
	gt.Equal(t, 1, stats.Severity["High"])

	gt.A(t, stats.TopFamilies).Length(1)
	gt.Equal(t, "Emotet", stats.TopFamilies[0].Name)
	gt.A(t, stats.TopSenders).Length(1)
	gt.Equal(t, "phish.example", stats.TopSenders[0].Name)
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	seedEvents(t, repo)
	gen := report.New(repo)

	for _, audience := range []string{"exec", "it", "users"} {
		t.Run(audience, func(t *testing.T) {
			params := gt.R1(report.ParseParams(audience, "month", "2025-06")).NoError(t)
			html := gt.R1(gen.Generate(ctx, params)).NoError(t)
			gt.S(t, html).Contains("2025-06")
			gt.S(t, html).Contains("<svg")
		})
	}

	t.Run("ITReportListsRankings", func(t *testing.T) {
		params := gt.R1(report.ParseParams("it", "month", "2025-06")).NoError(t)
		html := gt.R1(gen.Generate(ctx, params)).NoError(t)
		gt.S(t, html).Contains("Emotet")
		gt.S(t, html).Contains("phish.example")
	})
}

func TestRenderChart(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		svg := string(report.RenderChart(aggregate.Series{}, aggregate.Series{}))
		gt.S(t, svg).Contains("No activity")
	})

	t.Run("BarsAndValueLabels", func(t *testing.T) {
		malware := aggregate.Series{Labels: []string{"2025-06-01"}, Values: []int{3}}
		phish := aggregate.Series{Labels: []string{"2025-06-02"}, Values: []int{1}}
		svg := string(report.RenderChart(malware, phish))
		gt.S(t, svg).Contains("<svg")
		gt.S(t, svg).Contains(">3</text>")
		gt.S(t, svg).Contains("2025-06-01")
		gt.S(t, svg).Contains("2025-06-02")
		gt.S(t, svg).Contains("Malware")
		gt.S(t, svg).Contains("Phishing")
	})

	t.Run("LabelThinning", func(t *testing.T) {
		var labels []string
		var values []int
		for d := 1; d <= 20; d++ {
			labels = append(labels, time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC).Format("2006-01-02"))
			values = append(values, 1)
		}
		svg := string(report.RenderChart(aggregate.Series{Labels: labels, Values: values}, aggregate.Series{}))

		// indices 0,5,10,15 and the final bucket keep their labels
		gt.S(t, svg).Contains("2025-06-01")
		gt.S(t, svg).Contains("2025-06-06")
		gt.S(t, svg).Contains("2025-06-20")
		gt.False(t, strings.Contains(svg, ">2025-06-02<"))
	})
}
