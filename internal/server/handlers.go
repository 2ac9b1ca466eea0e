package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/sooryaraj/folio/internal/contact"
	"github.com/sooryaraj/folio/internal/content"
	"github.com/sooryaraj/folio/internal/logging"
	"github.com/sooryaraj/folio/internal/version"
	"github.com/sooryaraj/folio/internal/view"
)

// missingFieldsNotice is shown when a post arrives without a name or message.
const missingFieldsNotice = "Please fill in your name and a message."

// lineBreaks rewrites form line breaks the way a textarea's value reports
// them, so a posted message matches what the page's script would encode.
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func formValue(values url.Values, key string) string {
	return lineBreaks.Replace(values.Get(key))
}

// handleIndex renders the page with an empty draft.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	site := s.store.Site()
	ctrl := contact.NewController(site.Email, site.Subject)
	s.renderPage(w, r, http.StatusOK, site, ctrl.Draft(), "")
}

// handleContact runs one submission through a fresh controller and
// redirects the browser to the resulting mailto: URI.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	site := s.store.Site()
	ctrl := contact.NewController(site.Email, site.Subject)
	ctrl.UpdateSenderName(formValue(r.PostForm, "name"))
	ctrl.UpdateMessageBody(formValue(r.PostForm, "message"))
	if subject := formValue(r.PostForm, "subject"); subject != "" {
		ctrl.UpdateSubject(subject)
	}

	draft := ctrl.Draft()
	if draft.SenderName == "" || draft.MessageBody == "" {
		s.renderPage(w, r, http.StatusBadRequest, site, draft, missingFieldsNotice)
		return
	}

	sub := ctrl.Submit()
	s.logger.Info(r.Context(), "Contact form submitted",
		"name_len", len(draft.SenderName),
		"message_len", len(draft.MessageBody),
		"subject", logging.SanitizeForLog(sub.Subject))

	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, sub.URI, http.StatusSeeOther)
}

// handleMailto previews the URI a submission would produce.
func (s *Server) handleMailto(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	site := s.store.Site()
	ctrl := contact.NewController(site.Email, site.Subject)
	ctrl.UpdateSenderName(formValue(q, "name"))
	ctrl.UpdateMessageBody(formValue(q, "message"))
	if subject := formValue(q, "subject"); subject != "" {
		ctrl.UpdateSubject(subject)
	}

	writeJSON(w, r, s.logger, http.StatusOK, ctrl.Submit())
}

// handleHealth reports status, version and what is being served.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	site := s.store.Site()

	liveReload := map[string]interface{}{"enabled": s.hub != nil}
	if s.hub != nil {
		liveReload["clients"] = s.hub.ClientCount()
	}

	health := map[string]interface{}{
		"status":     "healthy",
		"timestamp":  s.now().UTC(),
		"version":    version.GetShortVersion(),
		"build_info": version.GetBuildInfo(),
		"checks": map[string]interface{}{
			"content": map[string]interface{}{
				"status":   "healthy",
				"photos":   len(site.Photos),
				"videos":   len(site.Videos),
				"projects": len(site.Projects),
			},
			"live_reload": liveReload,
		},
	}

	writeJSON(w, r, s.logger, http.StatusOK, health)
}

// renderPage buffers the page so a render error can still become a 500.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int,
	site *content.Site, draft contact.Draft, notice string) {
	opts := view.PageOptions{
		Draft:      draft,
		Notice:     notice,
		FormMode:   view.FormModeServer,
		LiveReload: s.hub != nil,
		Year:       s.now().Year(),
	}

	var buf bytes.Buffer
	if err := view.Page(site, opts).Render(r.Context(), &buf); err != nil {
		s.logger.Error(r.Context(), err, "Failed to render page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, r *http.Request, logger logging.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn(r.Context(), err, "Failed to encode JSON response")
	}
}

