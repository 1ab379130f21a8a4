package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/harrier/pkg/domain/interfaces"
	"github.com/secmon-lab/harrier/pkg/service/report"
	"github.com/secmon-lab/harrier/pkg/usecase"
)

// Server is the HTTP front of the application: server-rendered pages,
// the chart JSON API and the settings data operations.
type Server struct {
	*http.Server
	router chi.Router

	repo   interfaces.Repository
	dbPath string

	events      *usecase.Event
	malware     *usecase.Malware
	phishing    *usecase.Phish
	iocs        *usecase.IOC
	mitigations *usecase.Mitigation
	apts        *usecase.APT
	dashboard   *usecase.Dashboard
	importer    *usecase.Importer
	exporter    *usecase.Exporter
	settings    *usecase.Settings
	reports     *report.Generator

	now func() time.Time
}

// NewServer wires the usecases and builds the route table. dbPath is the
// SQLite file streamed by the backup endpoint; empty disables backup.
func NewServer(ctx context.Context, addr string, repo interfaces.Repository, store interfaces.SettingsStore, dbPath string) *Server {
	s := &Server{
		repo:        repo,
		dbPath:      dbPath,
		events:      usecase.NewEvent(repo),
		malware:     usecase.NewMalware(repo),
		phishing:    usecase.NewPhish(repo),
		iocs:        usecase.NewIOC(repo),
		mitigations: usecase.NewMitigation(repo),
		apts:        usecase.NewAPT(repo),
		dashboard:   usecase.NewDashboard(repo),
		importer:    usecase.NewImporter(repo),
		exporter:    usecase.NewExporter(repo),
		settings:    usecase.NewSettings(store, repo),
		reports:     report.New(repo),
		now:         func() time.Time { return time.Now().UTC() },
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	router.Get("/health", s.handleHealth)
	router.Get("/", s.handleDashboard)

	router.Route("/events", func(r chi.Router) {
		r.Get("/", s.handleEventList)
		r.Post("/", s.handleEventCreate)
		r.Get("/new/form", s.handleEventNewForm)
		r.Get("/{id}", s.handleEventDetail)
		r.Post("/{id}", s.handleEventUpdate)
		r.Get("/{id}/edit", s.handleEventEditForm)
		r.Post("/{id}/delete", s.handleEventDelete)
	})

	router.Route("/malware", func(r chi.Router) {
		r.Get("/", s.handleMalwareList)
		r.Post("/", s.handleMalwareCreate)
		r.Get("/new/form", s.handleMalwareNewForm)
		r.Get("/{id}", s.handleMalwareDetail)
		r.Post("/{id}", s.handleMalwareUpdate)
		r.Get("/{id}/edit", s.handleMalwareEditForm)
		r.Post("/{id}/delete", s.handleMalwareDelete)
	})

	router.Route("/phishing", func(r chi.Router) {
		r.Get("/", s.handlePhishList)
		r.Post("/", s.handlePhishCreate)
		r.Get("/new/form", s.handlePhishNewForm)
		r.Get("/{id}", s.handlePhishDetail)
		r.Post("/{id}", s.handlePhishUpdate)
		r.Get("/{id}/edit", s.handlePhishEditForm)
		r.Post("/{id}/delete", s.handlePhishDelete)
	})

	router.Route("/iocs", func(r chi.Router) {
		r.Get("/", s.handleIOCList)
		r.Post("/", s.handleIOCCreate)
		r.Get("/new/form", s.handleIOCNewForm)
		r.Post("/{id}", s.handleIOCUpdate)
		r.Get("/{id}/edit", s.handleIOCEditForm)
		r.Post("/{id}/delete", s.handleIOCDelete)
	})

	router.Route("/mitigations", func(r chi.Router) {
		r.Get("/", s.handleMitigationList)
		r.Post("/", s.handleMitigationCreate)
		r.Get("/new/form", s.handleMitigationNewForm)
		r.Post("/{id}", s.handleMitigationUpdate)
		r.Get("/{id}/edit", s.handleMitigationEditForm)
		r.Post("/{id}/delete", s.handleMitigationDelete)
	})

	router.Route("/apts", func(r chi.Router) {
		r.Get("/", s.handleAPTList)
		r.Post("/", s.handleAPTCreate)
		r.Get("/new/form", s.handleAPTNewForm)
		r.Get("/{id}", s.handleAPTDetail)
		r.Post("/{id}", s.handleAPTUpdate)
		r.Get("/{id}/edit", s.handleAPTEditForm)
		r.Post("/{id}/delete", s.handleAPTDelete)
		r.Post("/{id}/link", s.handleAPTLink)
		r.Post("/{id}/unlink", s.handleAPTUnlink)
	})

	router.Get("/reports", s.handleReportsPage)

	router.Route("/settings", func(r chi.Router) {
		r.Get("/", s.handleSettingsPage)
		r.Post("/", s.handleSettingsUpdate)
		r.Get("/export", s.handleExport)
		r.Get("/backup", s.handleBackup)
		r.Post("/clear-data", s.handleClearData)
		r.Post("/malware-family", s.handleSettingsAddFamily)
		r.Post("/import/malware-csv", s.handleImportMalwareCSV)
		r.Post("/import/phish-csv", s.handleImportPhishCSV)
	})

	router.Route("/api", func(r chi.Router) {
		r.Route("/charts", func(r chi.Router) {
			r.Get("/events-timeline", s.handleChartEventsTimeline)
			r.Get("/events-closed-timeline", s.handleChartEventsClosedTimeline)
			r.Get("/events-by-start-date", s.handleChartEventsByStartDate)
			r.Get("/event-types", s.handleChartEventTypes)
			r.Get("/event-status-summary", s.handleChartEventStatusSummary)
			r.Get("/event-severity-distribution", s.handleChartSeverityDistribution)
			r.Get("/status-by-type", s.handleChartStatusByType)
			r.Get("/malware-over-time", s.handleChartMalwareOverTime)
			r.Get("/malware-by-family", s.handleChartMalwareByFamily)
			r.Get("/malware-by-linkage", s.handleChartMalwareByLinkage)
			r.Get("/malware-phish", s.handleChartMalwarePhish)
			r.Get("/phish-over-time", s.handleChartPhishOverTime)
			r.Get("/phish-by-sender-domain", s.handleChartPhishBySenderDomain)
			r.Get("/phish-by-target", s.handleChartPhishByTarget)
			r.Get("/ioc-type-distribution", s.handleChartIOCTypeDistribution)
		})
		r.Route("/reports", func(r chi.Router) {
			r.Get("/recent-events", s.handleRecentEvents)
			r.Post("/generate", s.handleReportGenerate)
		})
	})

	s.router = router
	s.Server = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
	}
	return s
}

// Router exposes the route table for tests
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "harrier",
	})
}
