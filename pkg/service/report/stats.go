package report

import (
	"context"
	"sort"

	"github.com/secmon-lab/harrier/pkg/domain/interfaces"
	"github.com/secmon-lab/harrier/pkg/domain/model"
	"github.com/secmon-lab/harrier/pkg/domain/types"
	"github.com/secmon-lab/harrier/pkg/service/aggregate"
)

const rankingSize = 5

// Stats holds everything the report templates consume
type Stats struct {
	Window model.Window

	// TotalEvents counts events whose effective date falls in the window.
	// OpenEvents is a backlog snapshot instead: every event still open or
	// in progress that existed before the window closed, regardless of
	// when it started. The two deliberately measure different things.
	TotalEvents    int
	OpenEvents     int
	ResolvedEvents int
	MalwareCount   int
	PhishingCount  int
	IOCCount       int
	Mitigations    int

	Severity      map[string]int
	TopFamilies   []aggregate.NameCount
	TopSenders    []aggregate.NameCount
	APTActivity   []aggregate.NameCount
	MalwareSeries aggregate.Series
	PhishSeries   aggregate.Series
}

// BuildStats computes the report statistics for one window. Range scans
// are pushed down to the store; only the backlog snapshot and the APT
// activity ranking need full listings.
func BuildStats(ctx context.Context, repo interfaces.Repository, w model.Window) (*Stats, error) {
	events, err := repo.ListEventsInRange(ctx, w)
	if err != nil {
		return nil, err
	}
	malware, err := repo.ListMalwareInRange(ctx, w)
	if err != nil {
		return nil, err
	}
	phishing, err := repo.ListPhishingInRange(ctx, w)
	if err != nil {
		return nil, err
	}
	iocs, err := repo.ListIOCsInRange(ctx, w)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Window:        w,
		TotalEvents:   len(events),
		MalwareCount:  len(malware),
		PhishingCount: len(phishing),
		IOCCount:      len(iocs),
		Severity:      aggregate.SeverityDistribution(events, w),
		MalwareSeries: aggregate.DailySeries(malware, w),
		PhishSeries:   aggregate.DailySeries(phishing, w),
		TopFamilies: aggregate.TopK(malware, rankingSize, func(m *model.Malware) string {
			return m.Family
		}),
		TopSenders: aggregate.TopK(phishing, rankingSize, func(p *model.Phish) string {
			return p.SenderDomain()
		}),
	}

	for _, e := range events {
		if e.Status == types.EventStatusResolved {
			stats.ResolvedEvents++
		}
	}

	// backlog snapshot: active events created before the window closed
	allEvents, err := repo.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range allEvents {
		if e.Status.IsActive() && e.CreatedAt.Before(w.End) {
			stats.OpenEvents++
		}
	}

	mitigations, err := repo.ListMitigations(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range mitigations {
		if w.Contains(m.CreatedAt) {
			stats.Mitigations++
		}
	}

	activity, err := aptActivity(ctx, repo, w)
	if err != nil {
		return nil, err
	}
	stats.APTActivity = activity

	return stats, nil
}

// aptActivity ranks APT profiles by linked events inside the window
func aptActivity(ctx context.Context, repo interfaces.Repository, w model.Window) ([]aggregate.NameCount, error) {
	apts, err := repo.ListAPTs(ctx)
	if err != nil {
		return nil, err
	}

	var activity []aggregate.NameCount
	for _, apt := range apts {
		links, err := repo.GetAPTLinks(ctx, apt.ID)
		if err != nil {
			return nil, err
		}
		n := aggregate.CountInWindow(links.Events, w)
		if n > 0 {
			activity = append(activity, aggregate.NameCount{Name: apt.Name, Count: n})
		}
	}
	sort.SliceStable(activity, func(i, j int) bool {
		return activity[i].Count > activity[j].Count
	})
	if len(activity) > rankingSize {
		activity = activity[:rankingSize]
	}
	return activity, nil
}
