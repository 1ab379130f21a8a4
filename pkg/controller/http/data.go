package http

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/harrier/pkg/service/report"
)

func (s *Server) handleSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid form"), http.StatusBadRequest)
		return
	}
	if _, err := s.settings.Update(r.Context(), r.PostFormValue("notification_email")); err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

func (s *Server) handleSettingsAddFamily(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid form"), http.StatusBadRequest)
		return
	}
	if _, err := s.settings.AddFamily(r.Context(), r.PostFormValue("name")); err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	doc, err := s.exporter.Export(r.Context())
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("harrier-export-%s.json", s.now().Format("2006-01-02"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	if s.dbPath == "" {
		writeError(w, r, goerr.New("backup requires a file-backed database"), http.StatusConflict)
		return
	}

	f, err := os.Open(s.dbPath)
	if err != nil {
		writeError(w, r, goerr.Wrap(err, "failed to open database file"), http.StatusInternalServerError)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("harrier-backup-%s.db", s.now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = io.Copy(w, f)
}

func (s *Server) handleClearData(w http.ResponseWriter, r *http.Request) {
	if err := s.settings.ClearData(r.Context()); err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// csvUpload pulls the `file` part out of a multipart upload
func csvUpload(r *http.Request) (io.ReadCloser, error) {
	f, _, err := r.FormFile("file")
	if err != nil {
		return nil, goerr.Wrap(err, "csv upload requires a `file` field")
	}
	return f, nil
}

func (s *Server) handleImportMalwareCSV(w http.ResponseWriter, r *http.Request) {
	f, err := csvUpload(r)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	defer f.Close()

	result, err := s.importer.ImportMalwareCSV(r.Context(), f)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleImportPhishCSV(w http.ResponseWriter, r *http.Request) {
	f, err := csvUpload(r)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	defer f.Close()

	result, err := s.importer.ImportPhishCSV(r.Context(), f)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

const defaultRecentEventLimit = 50

func (s *Server) handleRecentEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.repo.ListEvents(r.Context())
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].EffectiveDate().After(events[j].EffectiveDate())
	})
	if limit := intQuery(r, "limit", defaultRecentEventLimit); len(events) > limit {
		events = events[:limit]
	}

	type item struct {
		ID       int    `json:"id"`
		Title    string `json:"title"`
		Type     string `json:"type"`
		Severity string `json:"severity"`
		Status   string `json:"status"`
		Date     string `json:"date"`
	}
	resp := struct {
		Items []item `json:"items"`
	}{Items: []item{}}
	for _, e := range events {
		resp.Items = append(resp.Items, item{
			ID:       e.ID.Int(),
			Title:    e.Title,
			Type:     e.TypeLabel(),
			Severity: e.Severity,
			Status:   e.Status.Label(),
			Date:     e.EffectiveDate().UTC().Format("2006-01-02 15:04"),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReportGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid form"), http.StatusBadRequest)
		return
	}

	params, err := report.ParseParams(
		r.PostFormValue("audience"),
		r.PostFormValue("period_type"),
		r.PostFormValue("period"),
	)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	if _, err := params.Window(); err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}

	html, err := s.reports.Generate(r.Context(), params)
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"html": string(html)})
}
