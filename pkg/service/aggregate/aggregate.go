package aggregate

import (
	"sort"
	"strings"
	"time"

	"github.com/secmon-lab/harrier/pkg/domain/model"
	"github.com/secmon-lab/harrier/pkg/domain/types"
)

// Dated is satisfied by every entity that can be bucketed on a time axis.
// The effective date is the domain date when recorded, else the creation
// timestamp.
type Dated interface {
	EffectiveDate() time.Time
}

// dayLayout is the bucket label format for daily series
const dayLayout = "2006-01-02"

// Series is a chart-ready daily series: sparse, only days with at least
// one occurrence, labels ascending.
type Series struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// DailySeries buckets items by effective day within the window
func DailySeries[T Dated](items []T, w model.Window) Series {
	counts := map[string]int{}
	for _, item := range items {
		t := item.EffectiveDate()
		if !w.Contains(t) {
			continue
		}
		counts[t.UTC().Format(dayLayout)]++
	}

	labels := make([]string, 0, len(counts))
	for day := range counts {
		labels = append(labels, day)
	}
	sort.Strings(labels)

	s := Series{Labels: labels, Values: make([]int, len(labels))}
	for i, day := range labels {
		s.Values[i] = counts[day]
	}
	return s
}

// NameCount is one row of a ranking
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TopK ranks items by a derived key: descending count, ties broken by the
// order keys were first encountered. Empty keys are skipped and the result
// is truncated to k.
func TopK[T any](items []T, k int, key func(T) string) []NameCount {
	counts := map[string]int{}
	var order []string
	for _, item := range items {
		name := key(item)
		if name == "" {
			continue
		}
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++
	}

	ranked := make([]NameCount, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, NameCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if k >= 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// Severity buckets in display order. Free-text severities normalize into
// these; anything unrecognized lands in Unknown.
var SeverityBuckets = []string{"Critical", "High", "Medium", "Low", "Unknown"}

// NormalizeSeverity maps a free-text severity to its fixed bucket
func NormalizeSeverity(severity string) string {
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case "critical":
		return "Critical"
	case "high":
		return "High"
	case "medium":
		return "Medium"
	case "low":
		return "Low"
	default:
		return "Unknown"
	}
}

// SeverityDistribution counts in-window events per severity bucket. Every
// bucket is present, defaulting to zero.
func SeverityDistribution(events []*model.Event, w model.Window) map[string]int {
	dist := map[string]int{}
	for _, bucket := range SeverityBuckets {
		dist[bucket] = 0
	}
	for _, e := range events {
		if !w.Contains(e.EffectiveDate()) {
			continue
		}
		dist[NormalizeSeverity(e.Severity)]++
	}
	return dist
}

// StatusBuckets returns the status labels in display order
func StatusBuckets() []string {
	statuses := types.AllEventStatuses()
	labels := make([]string, len(statuses))
	for i, st := range statuses {
		labels[i] = st.Label()
	}
	return labels
}

// StatusBreakdown counts in-window events per status label
func StatusBreakdown(events []*model.Event, w model.Window) map[string]int {
	dist := map[string]int{}
	for _, label := range StatusBuckets() {
		dist[label] = 0
	}
	for _, e := range events {
		if !w.Contains(e.EffectiveDate()) {
			continue
		}
		dist[e.Status.Label()]++
	}
	return dist
}

// TypeBuckets returns the event type labels in display order
func TypeBuckets() []string {
	eventTypes := types.AllEventTypes()
	labels := make([]string, len(eventTypes))
	for i, et := range eventTypes {
		labels[i] = et.Label()
	}
	return labels
}

// TypeBreakdown counts in-window events per type label; events without a
// type count as Other.
func TypeBreakdown(events []*model.Event, w model.Window) map[string]int {
	dist := map[string]int{}
	for _, label := range TypeBuckets() {
		dist[label] = 0
	}
	for _, e := range events {
		if !w.Contains(e.EffectiveDate()) {
			continue
		}
		dist[e.TypeLabel()]++
	}
	return dist
}

// StatusByType builds the stacked matrix: type label → status label →
// count. Every cell is present, defaulting to zero.
func StatusByType(events []*model.Event, w model.Window) map[string]map[string]int {
	matrix := map[string]map[string]int{}
	for _, typeLabel := range TypeBuckets() {
		matrix[typeLabel] = map[string]int{}
		for _, statusLabel := range StatusBuckets() {
			matrix[typeLabel][statusLabel] = 0
		}
	}
	for _, e := range events {
		if !w.Contains(e.EffectiveDate()) {
			continue
		}
		matrix[e.TypeLabel()][e.Status.Label()]++
	}
	return matrix
}

// CountInWindow counts items whose effective date falls inside the window
func CountInWindow[T Dated](items []T, w model.Window) int {
	n := 0
	for _, item := range items {
		if w.Contains(item.EffectiveDate()) {
			n++
		}
	}
	return n
}
