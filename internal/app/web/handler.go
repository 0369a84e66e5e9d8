package web

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"github.com/far4599/ytd-web/internal/models"
	"github.com/far4599/ytd-web/internal/pkg/log"
	"github.com/far4599/ytd-web/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/page.html"))

// Handler serves one handler per user action. Each builds a fresh Page from
// the cached metadata and the request it received.
type Handler struct {
	vs *service.VideoService
	ds *service.DownloadService
}

func NewHandler(vs *service.VideoService, ds *service.DownloadService) *Handler {
	return &Handler{
		vs: vs,
		ds: ds,
	}
}

// Index handles GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, Page{})
}

// Video handles GET /video?url=, the URL submit.
func (h *Handler) Video(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if len(url) == 0 {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	info, err := h.vs.Resolve(r.Context(), url)
	if err != nil {
		h.render(w, statusOf(err), NewPage(url, nil).WithError(err.Error()))
		return
	}

	h.render(w, http.StatusOK, NewPage(url, info))
}

// Select handles POST /video/streams/{key}/select, a resolution button press.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	page, key, ok := h.streamPage(w, r)
	if !ok {
		return
	}

	h.render(w, http.StatusOK, page.WithRow(key, Row.Select))
}

// Download handles POST /video/streams/{key}/download, the file name submit.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	page, key, ok := h.streamPage(w, r)
	if !ok {
		return
	}

	page = page.WithRow(key, Row.Select)

	filename := strings.TrimSpace(r.PostFormValue("filename"))
	if len(filename) == 0 {
		h.render(w, http.StatusOK, page.WithRow(key, func(row Row) Row {
			return row.Prompt("enter a file name")
		}))
		return
	}

	page = page.WithRow(key, func(row Row) Row {
		return row.Start(filename)
	})

	status := http.StatusOK
	res, err := h.ds.Download(r.Context(), page.URL, key, filename)
	if err != nil {
		status = statusOf(err)
		page = page.WithRow(key, func(row Row) Row {
			return row.Fail(err.Error())
		})
	} else {
		page = page.WithRow(key, func(row Row) Row {
			return row.Succeed(service.SuccessMessage(res))
		})
	}

	h.render(w, status, page)
}

// ClearCache handles POST /cache/clear
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.vs.ClearCache()
	log.Logger.Info("metadata cache cleared")

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// streamPage resolves the form url and checks that key is one of its
// streams. It writes the response itself when ok is false.
func (h *Handler) streamPage(w http.ResponseWriter, r *http.Request) (page Page, key string, ok bool) {
	url := r.PostFormValue("url")
	key = chi.URLParam(r, "key")

	info, err := h.vs.Resolve(r.Context(), url)
	if err != nil {
		h.render(w, statusOf(err), NewPage(url, nil).WithError(err.Error()))
		return Page{}, "", false
	}

	page = NewPage(url, info)
	if _, found := info.Stream(key); !found {
		h.render(w, http.StatusNotFound, page.WithError("unknown stream '"+key+"'"))
		return Page{}, "", false
	}

	return page, key, true
}

func (h *Handler) render(w http.ResponseWriter, status int, page Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := pageTmpl.Execute(w, page); err != nil {
		log.Logger.Errorw("failed to render page", "error", err)
	}
}

// statusOf maps a failure reason to an HTTP status.
func statusOf(err error) int {
	switch models.ReasonOf(err) {
	case models.ReasonInvalidURL, models.ReasonInvalidFilename, models.ReasonUnavailable:
		return http.StatusUnprocessableEntity
	case models.ReasonStreamNotFound:
		return http.StatusNotFound
	case models.ReasonCanceled:
		return http.StatusRequestTimeout
	}

	return http.StatusInternalServerError
}

type errorResponse struct {
	Reason  models.Reason `json:"reason"`
	Message string        `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Logger.Errorw("failed to write response", "error", err)
	}
}

func writeFailure(w http.ResponseWriter, err error) {
	resp := errorResponse{Reason: models.ReasonOf(err), Message: err.Error()}

	var rf *models.ResolutionFailure
	var df *models.DownloadFailure
	switch {
	case errors.As(err, &rf):
		resp.Message = rf.Message
	case errors.As(err, &df):
		resp.Message = df.Message
	}

	writeJSON(w, statusOf(err), resp)
}
