package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/secmon-lab/harrier/pkg/domain/interfaces"
	"github.com/secmon-lab/harrier/pkg/domain/model"
	"github.com/secmon-lab/harrier/pkg/domain/types"
	"github.com/secmon-lab/harrier/pkg/service/aggregate"
)

const (
	criticalEventLimit = 5
	recentEventLimit   = 3
)

// severityWeights drive the risk score over active events
var severityWeights = map[string]int{
	"critical": 5,
	"high":     3,
	"medium":   2,
	"low":      1,
}

// RiskScore summarizes the current threat posture from active events
type RiskScore struct {
	Score        int    `json:"score"`
	Level        string `json:"level"`
	LevelClass   string `json:"level_class"`
	ActiveEvents int    `json:"active_events"`
	Open         int    `json:"open"`
	InProgress   int    `json:"in_progress"`
}

// DashboardData is everything the landing page needs
type DashboardData struct {
	Counts         *model.EntityCounts
	CriticalEvents []*model.Event
	RecentEvents   []*model.Event
	Risk           *RiskScore
}

// Dashboard implements the landing page aggregation
type Dashboard struct {
	repo interfaces.Repository
}

// NewDashboard creates the dashboard usecase
func NewDashboard(repo interfaces.Repository) *Dashboard {
	return &Dashboard{repo: repo}
}

// Load assembles the dashboard data in one pass over the event table
func (uc *Dashboard) Load(ctx context.Context) (*DashboardData, error) {
	counts, err := uc.repo.Counts(ctx)
	if err != nil {
		return nil, err
	}

	events, err := uc.repo.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	data := &DashboardData{
		Counts:         counts,
		Risk:           scoreRisk(events),
		CriticalEvents: criticalOpenEvents(events),
		RecentEvents:   recentEvents(events),
	}
	return data, nil
}

// scoreRisk weighs active events by severity and maps the total onto a
// coarse level for the dashboard badge.
func scoreRisk(events []*model.Event) *RiskScore {
	risk := &RiskScore{}
	for _, e := range events {
		if !e.Status.IsActive() {
			continue
		}
		risk.ActiveEvents++
		if e.Status == types.EventStatusOpen {
			risk.Open++
		} else {
			risk.InProgress++
		}
		risk.Score += severityWeights[strings.ToLower(strings.TrimSpace(e.Severity))]
	}

	var level string
	switch {
	case risk.Score <= 6:
		level = "low"
	case risk.Score <= 14:
		level = "medium"
	case risk.Score <= 25:
		level = "high"
	default:
		level = "critical"
	}
	risk.LevelClass = level
	risk.Level = strings.ToUpper(level[:1]) + level[1:]
	return risk
}

// criticalOpenEvents returns up to five active critical events, most
// recently detected first.
func criticalOpenEvents(events []*model.Event) []*model.Event {
	var critical []*model.Event
	for _, e := range events {
		if e.Status.IsActive() && aggregate.NormalizeSeverity(e.Severity) == "Critical" {
			critical = append(critical, e)
		}
	}
	sort.SliceStable(critical, func(i, j int) bool {
		return critical[i].DetectedDate.After(critical[j].DetectedDate)
	})
	if len(critical) > criticalEventLimit {
		critical = critical[:criticalEventLimit]
	}
	return critical
}

// recentEvents returns the three most recently created events
func recentEvents(events []*model.Event) []*model.Event {
	recent := make([]*model.Event, len(events))
	copy(recent, events)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > recentEventLimit {
		recent = recent[:recentEventLimit]
	}
	return recent
}
