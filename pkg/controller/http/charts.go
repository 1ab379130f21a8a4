package http

import (
	"net/http"
	"sort"
	"strings"

	"github.com/secmon-lab/harrier/pkg/domain/model"
	"github.com/secmon-lab/harrier/pkg/domain/types"
	"github.com/secmon-lab/harrier/pkg/service/aggregate"
)

const (
	defaultWindowDays = 30
	defaultTopK       = 10
)

// requestWindow resolves the shared chart query parameters: a trailing
// `days` window overridden by optional `start`/`end` date strings.
func (s *Server) requestWindow(r *http.Request) model.Window {
	q := r.URL.Query()
	days := intQuery(r, "days", defaultWindowDays)
	return model.ResolveWindow(s.now(), days, q.Get("start"), q.Get("end"))
}

// seriesResponse is the common {labels, data} chart payload
type seriesResponse struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

func toSeriesResponse(series aggregate.Series) seriesResponse {
	resp := seriesResponse{Labels: series.Labels, Data: series.Values}
	if resp.Labels == nil {
		resp.Labels = []string{}
	}
	if resp.Data == nil {
		resp.Data = []int{}
	}
	return resp
}

func toRankingResponse(ranked []aggregate.NameCount) seriesResponse {
	resp := seriesResponse{Labels: []string{}, Data: []int{}}
	for _, row := range ranked {
		resp.Labels = append(resp.Labels, row.Name)
		resp.Data = append(resp.Data, row.Count)
	}
	return resp
}

func breakdownResponse(buckets []string, counts map[string]int) seriesResponse {
	resp := seriesResponse{Labels: buckets, Data: make([]int, len(buckets))}
	for i, bucket := range buckets {
		resp.Data[i] = counts[bucket]
	}
	return resp
}

func (s *Server) handleChartEventsTimeline(w http.ResponseWriter, r *http.Request) {
	window := s.requestWindow(r)
	events, err := s.repo.ListEventsInRange(r.Context(), window)
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}

	type dayCounts struct{ open, inProgress, resolved int }
	timeline := map[string]*dayCounts{}
	for _, e := range events {
		key := e.EffectiveDate().UTC().Format("2006-01-02")
		if timeline[key] == nil {
			timeline[key] = &dayCounts{}
		}
		switch e.Status.Label() {
		case "Open":
			timeline[key].open++
		case "In Progress":
			timeline[key].inProgress++
		case "Resolved":
			timeline[key].resolved++
		}
	}

	labels := make([]string, 0, len(timeline))
	for day := range timeline {
		labels = append(labels, day)
	}
	sort.Strings(labels)

	resp := struct {
		Labels     []string `json:"labels"`
		Open       []int    `json:"open"`
		InProgress []int    `json:"in_progress"`
		Resolved   []int    `json:"resolved"`
	}{Labels: labels, Open: []int{}, InProgress: []int{}, Resolved: []int{}}
	for _, day := range labels {
		resp.Open = append(resp.Open, timeline[day].open)
		resp.InProgress = append(resp.InProgress, timeline[day].inProgress)
		resp.Resolved = append(resp.Resolved, timeline[day].resolved)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChartEventsClosedTimeline(w http.ResponseWriter, r *http.Request) {
	window := s.requestWindow(r)
	// closed date is independent of the effective date, so the range scan
	// cannot help here
	events, err := s.repo.ListEvents(r.Context())
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}

	timeline := map[string]int{}
	for _, e := range events {
		if e.ClosedDate != nil && window.Contains(*e.ClosedDate) {
			timeline[e.ClosedDate.UTC().Format("2006-01-02")]++
		}
	}

	labels := make([]string, 0, len(timeline))
	for day := range timeline {
		labels = append(labels, day)
	}
	sort.Strings(labels)

	resp := seriesResponse{Labels: labels, Data: []int{}}
	for _, day := range labels {
		resp.Data = append(resp.Data, timeline[day])
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChartEventsByStartDate(w http.ResponseWriter, r *http.Request) {
	window := s.requestWindow(r)
	events, err := s.repo.ListEventsInRange(r.Context(), window)
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toSeriesResponse(aggregate.DailySeries(events, window)))
}

func (s *Server) handleChartEventTypes(w http.ResponseWriter, r *http.Request) {
	window := s.requestWindow(r)
	events, err := s.repo.ListEventsInRange(r.Context(), window)
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK,
		breakdownResponse(aggregate.TypeBuckets(), aggregate.TypeBreakdown(events, window)))
}

func (s *Server) handleChartEventStatusSummary(w http.ResponseWriter, r *http.Request) {
	window := s.requestWindow(r)
	events, err := s.repo.ListEventsInRange(r.Context(), window)
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK,
		breakdownResponse(aggregate.StatusBuckets(), aggregate.StatusBreakdown(events, window)))
}

func (s *Server) handleChartSeverityDistribution(w http.ResponseWriter, r *http.Request) {
	window := s.requestWindow(r)
	events, err := s.repo.ListEventsInRange(r.Context(), window)
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK,
		breakdownResponse(aggregate.SeverityBuckets, aggregate.SeverityDistribution(events, window)))
}

func (s *Server) handleChartStatusByType(w http.ResponseWriter, r *http.Request) {
	window := s.requestWindow(r)
	events, err := s.repo.ListEventsInRange(r.Context(), window)
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}

	matrix := aggregate.StatusByType(events, window)
	typeLabels := aggregate.TypeBuckets()

	type dataset struct {
		Label string `json:"label"`
		Data  []int  `json:"data"`
	}
	resp := struct {
		Labels   []string  `json:"labels"`
		Datasets []dataset `json:"datasets"`
	}{Labels: typeLabels}

	for _, statusLabel := range aggregate.StatusBuckets() {
		ds := dataset{Label: statusLabel, Data: make([]int, len(typeLabels))}
		for i, typeLabel := range typeLabels {
			ds.Data[i] = matrix[typeLabel][statusLabel]
		}
		resp.Datasets = append(resp.Datasets, ds)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChartMalwareOverTime(w http.ResponseWriter, r *http.Request) {
	window := s.requestWindow(r)
	malware, err := s.repo.ListMalwareInRange(r.Context(), window)
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toSeriesResponse(aggregate.DailySeries(malware, window)))
}

func (s *Server) handleChartMalwareByFamily(w http.ResponseWriter, r *http.Request) {
	window := s.requestWindow(r)
	malware, err := s.repo.ListMalwareInRange(r.Context(), window)
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	top := intQuery(r, "top", defaultTopK)
	ranked := aggregate.TopK(malware, top, func(m *model.Malware) string {
		return strings.TrimSpace(m.Family)
	})
	writeJSON(w, http.StatusOK, toRankingResponse(ranked))
}

func (s *Server) handleChartMalwareByLinkage(w http.ResponseWriter, r *http.Request) {
	window := s.requestWindow(r)
	malware, err := s.repo.ListMalwareInRange(r.Context(), window)
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	events, err := s.repo.ListEvents(r.Context())
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}

	statuses := map[types.EventID]types.EventStatus{}
	for _, e := range events {
		statuses[e.ID] = e.Status
	}

	// a record counts as active only while its linked event is still open
	var active, other int
	for _, m := range malware {
		if m.EventID != nil && statuses[*m.EventID].IsActive() {
			active++
			continue
		}
		other++
	}

	writeJSON(w, http.StatusOK, seriesResponse{
		Labels: []string{"Active (linked to open/in progress)", "Inactive"},
		Data:   []int{active, other},
	})
}

func (s *Server) handleChartMalwarePhish(w http.ResponseWriter, r *http.Request) {
	window := s.requestWindow(r)
	malware, err := s.repo.ListMalwareInRange(r.Context(), window)
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	phishing, err := s.repo.ListPhishingInRange(r.Context(), window)
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}

	malSeries := aggregate.DailySeries(malware, window)
	phishSeries := aggregate.DailySeries(phishing, window)

	// union of both label sets, ascending
	seen := map[string]bool{}
	var labels []string
	for _, l := range append(append([]string{}, malSeries.Labels...), phishSeries.Labels...) {
		if !seen[l] {
			seen[l] = true
			labels = append(labels, l)
		}
	}
	sort.Strings(labels)

	lookup := func(series aggregate.Series) map[string]int {
		m := map[string]int{}
		for i, l := range series.Labels {
			m[l] = series.Values[i]
		}
		return m
	}
	malByDay, phishByDay := lookup(malSeries), lookup(phishSeries)

	resp := struct {
		Labels   []string `json:"labels"`
		Malware  []int    `json:"malware"`
		Phishing []int    `json:"phishing"`
	}{Labels: labels, Malware: []int{}, Phishing: []int{}}
	if resp.Labels == nil {
		resp.Labels = []string{}
	}
	for _, day := range labels {
		resp.Malware = append(resp.Malware, malByDay[day])
		resp.Phishing = append(resp.Phishing, phishByDay[day])
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChartPhishOverTime(w http.ResponseWriter, r *http.Request) {
	window := s.requestWindow(r)
	phishing, err := s.repo.ListPhishingInRange(r.Context(), window)
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toSeriesResponse(aggregate.DailySeries(phishing, window)))
}

func (s *Server) handleChartPhishBySenderDomain(w http.ResponseWriter, r *http.Request) {
	window := s.requestWindow(r)
	phishing, err := s.repo.ListPhishingInRange(r.Context(), window)
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	top := intQuery(r, "top", defaultTopK)
	ranked := aggregate.TopK(phishing, top, func(p *model.Phish) string {
		return p.SenderDomain()
	})
	writeJSON(w, http.StatusOK, toRankingResponse(ranked))
}

func (s *Server) handleChartPhishByTarget(w http.ResponseWriter, r *http.Request) {
	window := s.requestWindow(r)
	phishing, err := s.repo.ListPhishingInRange(r.Context(), window)
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	top := intQuery(r, "top", defaultTopK)
	ranked := aggregate.TopK(phishing, top, func(p *model.Phish) string {
		return strings.ToLower(strings.TrimSpace(p.Target))
	})
	writeJSON(w, http.StatusOK, toRankingResponse(ranked))
}

func (s *Server) handleChartIOCTypeDistribution(w http.ResponseWriter, r *http.Request) {
	window := s.requestWindow(r)
	iocs, err := s.repo.ListIOCsInRange(r.Context(), window)
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	ranked := aggregate.TopK(iocs, -1, func(i *model.IOC) string {
		t := strings.TrimSpace(i.Type)
		if t == "" {
			return "Unknown"
		}
		return strings.ToUpper(t[:1]) + strings.ToLower(t[1:])
	})
	writeJSON(w, http.StatusOK, toRankingResponse(ranked))
}
