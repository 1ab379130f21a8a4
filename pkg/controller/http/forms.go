package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/harrier/pkg/domain/types"
	"github.com/secmon-lab/harrier/pkg/usecase"
)

func eventInput(r *http.Request) usecase.EventInput {
	return usecase.EventInput{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Severity:    r.PostFormValue("severity"),
		Type:        r.PostFormValue("type"),
		Status:      r.PostFormValue("status"),
		EventDate:   r.PostFormValue("event_date"),
		ClosedDate:  r.PostFormValue("closed_date"),
	}
}

func (s *Server) handleEventCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid form"), http.StatusBadRequest)
		return
	}
	event, err := s.events.Create(r.Context(), eventInput(r))
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/events/"+event.ID.String(), http.StatusSeeOther)
}

func (s *Server) handleEventUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, goerr.New("invalid event id"), http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid form"), http.StatusBadRequest)
		return
	}
	event, err := s.events.Update(r.Context(), types.EventID(id), eventInput(r))
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/events/"+event.ID.String(), http.StatusSeeOther)
}

func (s *Server) handleEventDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, goerr.New("invalid event id"), http.StatusBadRequest)
		return
	}
	if err := s.events.Delete(r.Context(), types.EventID(id)); err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/events", http.StatusSeeOther)
}

func malwareInput(r *http.Request) usecase.MalwareInput {
	return usecase.MalwareInput{
		Name:           r.PostFormValue("name"),
		Family:         r.PostFormValue("family"),
		Category:       r.PostFormValue("category"),
		Description:    r.PostFormValue("description"),
		OccurrenceDate: r.PostFormValue("occurrence_date"),
		EventID:        r.PostFormValue("event_id"),
	}
}

func (s *Server) handleMalwareCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid form"), http.StatusBadRequest)
		return
	}
	malware, err := s.malware.Create(r.Context(), malwareInput(r))
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/malware/"+malware.ID.String(), http.StatusSeeOther)
}

func (s *Server) handleMalwareUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, goerr.New("invalid malware id"), http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid form"), http.StatusBadRequest)
		return
	}
	malware, err := s.malware.Update(r.Context(), types.MalwareID(id), malwareInput(r))
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/malware/"+malware.ID.String(), http.StatusSeeOther)
}

func (s *Server) handleMalwareDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, goerr.New("invalid malware id"), http.StatusBadRequest)
		return
	}
	if err := s.malware.Delete(r.Context(), types.MalwareID(id)); err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/malware", http.StatusSeeOther)
}

func phishInput(r *http.Request) usecase.PhishInput {
	return usecase.PhishInput{
		Subject:        r.PostFormValue("subject"),
		Sender:         r.PostFormValue("sender"),
		Target:         r.PostFormValue("target"),
		Description:    r.PostFormValue("description"),
		RiskLevel:      r.PostFormValue("risk_level"),
		OccurrenceDate: r.PostFormValue("occurrence_date"),
		EventID:        r.PostFormValue("event_id"),
	}
}

func (s *Server) handlePhishCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid form"), http.StatusBadRequest)
		return
	}
	phish, err := s.phishing.Create(r.Context(), phishInput(r))
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/phishing/"+phish.ID.String(), http.StatusSeeOther)
}

func (s *Server) handlePhishUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, goerr.New("invalid phishing id"), http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid form"), http.StatusBadRequest)
		return
	}
	phish, err := s.phishing.Update(r.Context(), types.PhishID(id), phishInput(r))
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/phishing/"+phish.ID.String(), http.StatusSeeOther)
}

func (s *Server) handlePhishDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, goerr.New("invalid phishing id"), http.StatusBadRequest)
		return
	}
	if err := s.phishing.Delete(r.Context(), types.PhishID(id)); err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/phishing", http.StatusSeeOther)
}

func iocInput(r *http.Request) usecase.IOCInput {
	return usecase.IOCInput{
		Type:        r.PostFormValue("type"),
		Value:       r.PostFormValue("value"),
		Description: r.PostFormValue("description"),
		Confidence:  r.PostFormValue("confidence"),
		MalwareID:   r.PostFormValue("malware_id"),
		PhishID:     r.PostFormValue("phish_id"),
	}
}

func (s *Server) handleIOCCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid form"), http.StatusBadRequest)
		return
	}
	if _, err := s.iocs.Create(r.Context(), iocInput(r)); err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/iocs", http.StatusSeeOther)
}

func (s *Server) handleIOCUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, goerr.New("invalid ioc id"), http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid form"), http.StatusBadRequest)
		return
	}
	if _, err := s.iocs.Update(r.Context(), types.IOCID(id), iocInput(r)); err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/iocs", http.StatusSeeOther)
}

func (s *Server) handleIOCDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, goerr.New("invalid ioc id"), http.StatusBadRequest)
		return
	}
	if err := s.iocs.Delete(r.Context(), types.IOCID(id)); err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/iocs", http.StatusSeeOther)
}

func mitigationInput(r *http.Request) usecase.MitigationInput {
	return usecase.MitigationInput{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		AssignedTo:  r.PostFormValue("assigned_to"),
		EventID:     r.PostFormValue("event_id"),
	}
}

func (s *Server) handleMitigationCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid form"), http.StatusBadRequest)
		return
	}
	if _, err := s.mitigations.Create(r.Context(), mitigationInput(r)); err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/mitigations", http.StatusSeeOther)
}

func (s *Server) handleMitigationUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, goerr.New("invalid mitigation id"), http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid form"), http.StatusBadRequest)
		return
	}
	if _, err := s.mitigations.Update(r.Context(), types.MitigationID(id), mitigationInput(r)); err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/mitigations", http.StatusSeeOther)
}

func (s *Server) handleMitigationDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, goerr.New("invalid mitigation id"), http.StatusBadRequest)
		return
	}
	if err := s.mitigations.Delete(r.Context(), types.MitigationID(id)); err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/mitigations", http.StatusSeeOther)
}

func aptInput(r *http.Request) usecase.APTInput {
	return usecase.APTInput{
		Name:        r.PostFormValue("name"),
		Aliases:     r.PostFormValue("aliases"),
		Description: r.PostFormValue("description"),
		Tactics:     r.PostFormValue("tactics"),
		Techniques:  r.PostFormValue("techniques"),
	}
}

func (s *Server) handleAPTCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid form"), http.StatusBadRequest)
		return
	}
	apt, err := s.apts.Create(r.Context(), aptInput(r))
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/apts/"+apt.ID.String(), http.StatusSeeOther)
}

func (s *Server) handleAPTUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, goerr.New("invalid apt id"), http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid form"), http.StatusBadRequest)
		return
	}
	apt, err := s.apts.Update(r.Context(), types.APTID(id), aptInput(r))
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/apts/"+apt.ID.String(), http.StatusSeeOther)
}

func (s *Server) handleAPTDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, goerr.New("invalid apt id"), http.StatusBadRequest)
		return
	}
	if err := s.apts.Delete(r.Context(), types.APTID(id)); err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/apts", http.StatusSeeOther)
}

func (s *Server) handleAPTLink(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, goerr.New("invalid apt id"), http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid form"), http.StatusBadRequest)
		return
	}
	err := s.apts.Link(r.Context(), types.APTID(id),
		r.PostFormValue("class"), r.PostFormValue("target_id"))
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/apts/"+types.APTID(id).String(), http.StatusSeeOther)
}

func (s *Server) handleAPTUnlink(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, r, goerr.New("invalid apt id"), http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid form"), http.StatusBadRequest)
		return
	}
	err := s.apts.Unlink(r.Context(), types.APTID(id),
		r.PostFormValue("class"), r.PostFormValue("target_id"))
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/apts/"+types.APTID(id).String(), http.StatusSeeOther)
}
