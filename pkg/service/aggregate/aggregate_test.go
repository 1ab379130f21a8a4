package aggregate_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/harrier/pkg/domain/model"
	"github.com/secmon-lab/harrier/pkg/domain/types"
	"github.com/secmon-lab/harrier/pkg/service/aggregate"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func window(start, end time.Time) model.Window {
	return model.Window{Start: start, End: end}
}

func eventAt(t *testing.T, title, severity string, date time.Time) *model.Event {
	t.Helper()
	e := gt.R1(model.NewEvent(title)).NoError(t)
	e.Severity = severity
	e.EventDate = &date
	return e
}

func TestDailySeries(t *testing.T) {
	w := window(day(2025, 6, 1), day(2025, 7, 1))

	events := []*model.Event{
		eventAt(t, "a", "High", day(2025, 6, 3)),
		eventAt(t, "b", "Low", day(2025, 6, 3)),
		eventAt(t, "c", "Low", day(2025, 6, 10)),
		eventAt(t, "outside", "Low", day(2025, 5, 1)),
	}

	s := aggregate.DailySeries(events, w)
	gt.A(t, s.Labels).Length(2) // sparse: quiet days omitted
	gt.Equal(t, []string{"2025-06-03", "2025-06-10"}, s.Labels)
	gt.Equal(t, []int{2, 1}, s.Values)
}

func TestDailySeriesUsesCreatedAtFallback(t *testing.T) {
	e := gt.R1(model.NewEvent("no domain date")).NoError(t)
	e.CreatedAt = day(2025, 6, 5)

	w := window(day(2025, 6, 1), day(2025, 7, 1))
	s := aggregate.DailySeries([]*model.Event{e}, w)
	gt.Equal(t, []string{"2025-06-05"}, s.Labels)
}

func TestTopK(t *testing.T) {
	type item struct{ key string }
	items := []item{
		{"beta"}, {"alpha"}, {"beta"}, {"gamma"}, {"alpha"}, {"delta"}, {""},
	}

	ranked := aggregate.TopK(items, 3, func(i item) string { return i.key })
	gt.A(t, ranked).Length(3)
	// beta and alpha both count 2; beta was seen first
	gt.Equal(t, "beta", ranked[0].Name)
	gt.Equal(t, 2, ranked[0].Count)
	gt.Equal(t, "alpha", ranked[1].Name)
	// gamma vs delta both count 1; gamma first
	gt.Equal(t, "gamma", ranked[2].Name)
}

func TestTopKSkipsEmptyKeys(t *testing.T) {
	type item struct{ key string }
	ranked := aggregate.TopK([]item{{""}, {""}}, 5, func(i item) string { return i.key })
	gt.A(t, ranked).Length(0)
}

func TestNormalizeSeverity(t *testing.T) {
	gt.Equal(t, "Critical", aggregate.NormalizeSeverity("critical"))
	gt.Equal(t, "Critical", aggregate.NormalizeSeverity(" CRITICAL "))
	gt.Equal(t, "High", aggregate.NormalizeSeverity("High"))
	gt.Equal(t, "Unknown", aggregate.NormalizeSeverity(""))
	gt.Equal(t, "Unknown", aggregate.NormalizeSeverity("sev1"))
}

func TestSeverityDistribution(t *testing.T) {
	w := window(day(2025, 6, 1), day(2025, 7, 1))
	events := []*model.Event{
		eventAt(t, "a", "critical", day(2025, 6, 2)),
		eventAt(t, "b", "HIGH", day(2025, 6, 2)),
		eventAt(t, "c", "whatever", day(2025, 6, 3)),
		eventAt(t, "outside", "critical", day(2025, 1, 1)),
	}

	dist := aggregate.SeverityDistribution(events, w)
	gt.Equal(t, 1, dist["Critical"])
	gt.Equal(t, 1, dist["High"])
	gt.Equal(t, 0, dist["Medium"])
	gt.Equal(t, 0, dist["Low"])
	gt.Equal(t, 1, dist["Unknown"])

	// every fixed bucket is present even when empty
	gt.A(t, aggregate.SeverityBuckets).Length(len(dist))
}

func TestBreakdownSumsMatchWindowCount(t *testing.T) {
	w := window(day(2025, 6, 1), day(2025, 7, 1))

	events := []*model.Event{
		eventAt(t, "a", "High", day(2025, 6, 2)),
		eventAt(t, "b", "", day(2025, 6, 15)),
		eventAt(t, "c", "low", day(2025, 6, 30)),
		eventAt(t, "out1", "High", day(2025, 7, 1)), // exclusive end
		eventAt(t, "out2", "High", day(2025, 5, 31)),
	}
	inWindow := aggregate.CountInWindow(events, w)
	gt.Equal(t, 3, inWindow)

	sum := 0
	for _, n := range aggregate.SeverityDistribution(events, w) {
		sum += n
	}
	gt.Equal(t, inWindow, sum)

	sum = 0
	for _, n := range aggregate.StatusBreakdown(events, w) {
		sum += n
	}
	gt.Equal(t, inWindow, sum)

	sum = 0
	for _, n := range aggregate.TypeBreakdown(events, w) {
		sum += n
	}
	gt.Equal(t, inWindow, sum)
}

func TestTypeBreakdownNilTypeIsOther(t *testing.T) {
	w := window(day(2025, 6, 1), day(2025, 7, 1))

	typed := eventAt(t, "typed", "High", day(2025, 6, 2))
	phishing := types.EventTypePhishing
	typed.Type = &phishing

	untyped := eventAt(t, "untyped", "High", day(2025, 6, 2))

	dist := aggregate.TypeBreakdown([]*model.Event{typed, untyped}, w)
	gt.Equal(t, 1, dist["Phishing"])
	gt.Equal(t, 1, dist["Other"])
}

func TestStatusByType(t *testing.T) {
	w := window(day(2025, 6, 1), day(2025, 7, 1))

	e1 := eventAt(t, "open phish", "High", day(2025, 6, 2))
	phishing := types.EventTypePhishing
	e1.Type = &phishing

	e2 := eventAt(t, "resolved phish", "High", day(2025, 6, 3))
	e2.Type = &phishing
	e2.Status = types.EventStatusResolved

	matrix := aggregate.StatusByType([]*model.Event{e1, e2}, w)
	gt.Equal(t, 1, matrix["Phishing"]["Open"])
	gt.Equal(t, 1, matrix["Phishing"]["Resolved"])
	gt.Equal(t, 0, matrix["Phishing"]["In Progress"])
	gt.Equal(t, 0, matrix["Malware"]["Open"])

	// all cells exist: 7 types x 3 statuses
	gt.A(t, aggregate.TypeBuckets()).Length(7)
	for _, typeLabel := range aggregate.TypeBuckets() {
		gt.A(t, aggregate.StatusBuckets()).Length(len(matrix[typeLabel]))
	}
}
