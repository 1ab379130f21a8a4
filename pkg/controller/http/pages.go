package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/harrier/pkg/domain/model"
	"github.com/secmon-lab/harrier/pkg/domain/types"
	"github.com/secmon-lab/harrier/pkg/usecase"
)

//go:embed templates/*.html
var pageFS embed.FS

var pageFuncs = template.FuncMap{
	"fmtDate": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.UTC().Format("2006-01-02")
	},
	"fmtTime": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04")
	},
	// confidence renders an optional score; fmt would print the pointer
	"confidence": func(c *int) string {
		if c == nil {
			return ""
		}
		return strconv.Itoa(*c)
	},
}

// mustPage parses the shared layout plus one content template. Every page
// file defines a "content" block rendered inside the layout.
func mustPage(name string) *template.Template {
	t := template.Must(template.New("layout.html").Funcs(pageFuncs).
		ParseFS(pageFS, "templates/layout.html"))
	return template.Must(t.ParseFS(pageFS, "templates/"+name))
}

var (
	dashboardPage      = mustPage("dashboard.html")
	eventListPage      = mustPage("event_list.html")
	eventDetailPage    = mustPage("event_detail.html")
	eventFormPage      = mustPage("event_form.html")
	malwareListPage    = mustPage("malware_list.html")
	malwareDetailPage  = mustPage("malware_detail.html")
	malwareFormPage    = mustPage("malware_form.html")
	phishListPage      = mustPage("phish_list.html")
	phishDetailPage    = mustPage("phish_detail.html")
	phishFormPage      = mustPage("phish_form.html")
	iocListPage        = mustPage("ioc_list.html")
	iocFormPage        = mustPage("ioc_form.html")
	mitigationListPage = mustPage("mitigation_list.html")
	mitigationFormPage = mustPage("mitigation_form.html")
	aptListPage        = mustPage("apt_list.html")
	aptDetailPage      = mustPage("apt_detail.html")
	aptFormPage        = mustPage("apt_form.html")
	reportsPage        = mustPage("reports.html")
	settingsPage       = mustPage("settings.html")
)

// page carries what the layout itself needs
type page struct {
	Title  string
	Active string
}

// renderPage executes the template into a buffer first so a render error
// never leaks a half-written body.
func renderPage(w http.ResponseWriter, r *http.Request, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		writeError(w, r, goerr.Wrap(err, "failed to render page"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	data, err := s.dashboard.Load(r.Context())
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderPage(w, r, dashboardPage, struct {
		page
		Data *usecase.DashboardData
	}{page{"Dashboard", "dashboard"}, data})
}

func (s *Server) handleEventList(w http.ResponseWriter, r *http.Request) {
	events, err := s.events.List(r.Context())
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderPage(w, r, eventListPage, struct {
		page
		Events []*model.Event
	}{page{"Events", "events"}, events})
}

func (s *Server) handleEventDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, goerr.New("invalid event id"), http.StatusBadRequest)
		return
	}
	detail, err := s.events.GetDetail(r.Context(), types.EventID(id))
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderPage(w, r, eventDetailPage, struct {
		page
		Detail *usecase.EventDetail
	}{page{detail.Event.Title, "events"}, detail})
}

// eventFormData backs both the new and the edit form
type eventFormData struct {
	page
	Action   string
	Event    *model.Event
	Types    []types.EventType
	Statuses []types.EventStatus
}

func (s *Server) handleEventNewForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, eventFormPage, eventFormData{
		page:     page{"New Event", "events"},
		Action:   "/events",
		Event:    &model.Event{Status: types.EventStatusOpen},
		Types:    types.AllEventTypes(),
		Statuses: types.AllEventStatuses(),
	})
}

func (s *Server) handleEventEditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, goerr.New("invalid event id"), http.StatusBadRequest)
		return
	}
	event, err := s.events.Get(r.Context(), types.EventID(id))
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderPage(w, r, eventFormPage, eventFormData{
		page:     page{"Edit Event", "events"},
		Action:   "/events/" + event.ID.String(),
		Event:    event,
		Types:    types.AllEventTypes(),
		Statuses: types.AllEventStatuses(),
	})
}

func (s *Server) handleMalwareList(w http.ResponseWriter, r *http.Request) {
	malware, err := s.malware.List(r.Context())
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderPage(w, r, malwareListPage, struct {
		page
		Malware []*model.Malware
	}{page{"Malware", "malware"}, malware})
}

func (s *Server) handleMalwareDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, goerr.New("invalid malware id"), http.StatusBadRequest)
		return
	}
	malware, err := s.malware.Get(r.Context(), types.MalwareID(id))
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	iocs, err := s.malware.ListIOCs(r.Context(), malware.ID)
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderPage(w, r, malwareDetailPage, struct {
		page
		Malware *model.Malware
		IOCs    []*model.IOC
	}{page{malware.Name, "malware"}, malware, iocs})
}

// malwareFormData backs both the new and the edit form. The new form
// prefills the event reference from the `event_id` query parameter so the
// event detail page can link straight into it.
type malwareFormData struct {
	page
	Action  string
	Malware *model.Malware
	EventID string
}

func (s *Server) handleMalwareNewForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, malwareFormPage, malwareFormData{
		page:    page{"New Malware", "malware"},
		Action:  "/malware",
		Malware: &model.Malware{},
		EventID: r.URL.Query().Get("event_id"),
	})
}

func (s *Server) handleMalwareEditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, goerr.New("invalid malware id"), http.StatusBadRequest)
		return
	}
	malware, err := s.malware.Get(r.Context(), types.MalwareID(id))
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	data := malwareFormData{
		page:    page{"Edit Malware", "malware"},
		Action:  "/malware/" + malware.ID.String(),
		Malware: malware,
	}
	if malware.EventID != nil {
		data.EventID = malware.EventID.String()
	}
	renderPage(w, r, malwareFormPage, data)
}

func (s *Server) handlePhishList(w http.ResponseWriter, r *http.Request) {
	phishing, err := s.phishing.List(r.Context())
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderPage(w, r, phishListPage, struct {
		page
		Phishing []*model.Phish
	}{page{"Phishing", "phishing"}, phishing})
}

func (s *Server) handlePhishDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, goerr.New("invalid phishing id"), http.StatusBadRequest)
		return
	}
	phish, err := s.phishing.Get(r.Context(), types.PhishID(id))
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	iocs, err := s.phishing.ListIOCs(r.Context(), phish.ID)
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderPage(w, r, phishDetailPage, struct {
		page
		Phish *model.Phish
		IOCs  []*model.IOC
	}{page{phish.Subject, "phishing"}, phish, iocs})
}

type phishFormData struct {
	page
	Action  string
	Phish   *model.Phish
	EventID string
}

func (s *Server) handlePhishNewForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, phishFormPage, phishFormData{
		page:    page{"New Phishing", "phishing"},
		Action:  "/phishing",
		Phish:   &model.Phish{},
		EventID: r.URL.Query().Get("event_id"),
	})
}

func (s *Server) handlePhishEditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, goerr.New("invalid phishing id"), http.StatusBadRequest)
		return
	}
	phish, err := s.phishing.Get(r.Context(), types.PhishID(id))
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	data := phishFormData{
		page:   page{"Edit Phishing", "phishing"},
		Action: "/phishing/" + phish.ID.String(),
		Phish:  phish,
	}
	if phish.EventID != nil {
		data.EventID = phish.EventID.String()
	}
	renderPage(w, r, phishFormPage, data)
}

func (s *Server) handleIOCList(w http.ResponseWriter, r *http.Request) {
	iocs, err := s.iocs.List(r.Context())
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderPage(w, r, iocListPage, struct {
		page
		IOCs []*model.IOC
	}{page{"IOCs", "iocs"}, iocs})
}

type iocFormData struct {
	page
	Action    string
	IOC       *model.IOC
	MalwareID string
	PhishID   string
}

func (s *Server) handleIOCNewForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, iocFormPage, iocFormData{
		page:      page{"New IOC", "iocs"},
		Action:    "/iocs",
		IOC:       &model.IOC{},
		MalwareID: r.URL.Query().Get("malware_id"),
		PhishID:   r.URL.Query().Get("phish_id"),
	})
}

func (s *Server) handleIOCEditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, goerr.New("invalid ioc id"), http.StatusBadRequest)
		return
	}
	ioc, err := s.iocs.Get(r.Context(), types.IOCID(id))
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	data := iocFormData{
		page:   page{"Edit IOC", "iocs"},
		Action: "/iocs/" + ioc.ID.String(),
		IOC:    ioc,
	}
	if ioc.MalwareID != nil {
		data.MalwareID = ioc.MalwareID.String()
	}
	if ioc.PhishID != nil {
		data.PhishID = ioc.PhishID.String()
	}
	renderPage(w, r, iocFormPage, data)
}

func (s *Server) handleMitigationList(w http.ResponseWriter, r *http.Request) {
	mitigations, err := s.mitigations.List(r.Context())
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderPage(w, r, mitigationListPage, struct {
		page
		Mitigations []*model.Mitigation
	}{page{"Mitigations", "mitigations"}, mitigations})
}

type mitigationFormData struct {
	page
	Action     string
	Mitigation *model.Mitigation
	EventID    string
}

func (s *Server) handleMitigationNewForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, mitigationFormPage, mitigationFormData{
		page:       page{"New Mitigation", "mitigations"},
		Action:     "/mitigations",
		Mitigation: &model.Mitigation{},
		EventID:    r.URL.Query().Get("event_id"),
	})
}

func (s *Server) handleMitigationEditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, goerr.New("invalid mitigation id"), http.StatusBadRequest)
		return
	}
	mitigation, err := s.mitigations.Get(r.Context(), types.MitigationID(id))
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderPage(w, r, mitigationFormPage, mitigationFormData{
		page:       page{"Edit Mitigation", "mitigations"},
		Action:     "/mitigations/" + mitigation.ID.String(),
		Mitigation: mitigation,
		EventID:    mitigation.EventID.String(),
	})
}

func (s *Server) handleAPTList(w http.ResponseWriter, r *http.Request) {
	apts, err := s.apts.List(r.Context())
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderPage(w, r, aptListPage, struct {
		page
		APTs []*model.APT
	}{page{"APT Profiles", "apts"}, apts})
}

func (s *Server) handleAPTDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, goerr.New("invalid apt id"), http.StatusBadRequest)
		return
	}
	apt, err := s.apts.Get(r.Context(), types.APTID(id))
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	links, err := s.apts.Links(r.Context(), apt.ID)
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderPage(w, r, aptDetailPage, struct {
		page
		APT   *model.APT
		Links *model.APTLinks
	}{page{apt.Name, "apts"}, apt, links})
}

type aptFormData struct {
	page
	Action string
	APT    *model.APT
}

func (s *Server) handleAPTNewForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, aptFormPage, aptFormData{
		page:   page{"New APT Profile", "apts"},
		Action: "/apts",
		APT:    &model.APT{},
	})
}

func (s *Server) handleAPTEditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, goerr.New("invalid apt id"), http.StatusBadRequest)
		return
	}
	apt, err := s.apts.Get(r.Context(), types.APTID(id))
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderPage(w, r, aptFormPage, aptFormData{
		page:   page{"Edit APT Profile", "apts"},
		Action: "/apts/" + apt.ID.String(),
		APT:    apt,
	})
}

func (s *Server) handleReportsPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, reportsPage, struct {
		page
	}{page{"Reports", "reports"}})
}

func (s *Server) handleSettingsPage(w http.ResponseWriter, r *http.Request) {
	settings := s.settings.Get(r.Context())
	counts, err := s.settings.Counts(r.Context())
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	families, err := s.settings.Families(r.Context())
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderPage(w, r, settingsPage, struct {
		page
		Settings        *model.Settings
		Counts          *model.EntityCounts
		Families        []*model.MalwareFamily
		BackupAvailable bool
	}{page{"Settings", "settings"}, settings, counts, families, s.dbPath != ""})
}
