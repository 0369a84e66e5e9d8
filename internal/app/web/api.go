package web

import (
	"encoding/json"
	"net/http"

	"github.com/far4599/ytd-web/internal/models"
	"github.com/far4599/ytd-web/internal/service"
)

type StreamResponse struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Resolution  string `json:"resolution"`
	BitrateKbps int    `json:"bitrate_kbps"`
	Ext         string `json:"ext,omitempty"`
	Filesize    int64  `json:"filesize,omitempty"`
}

type InfoResponse struct {
	URL             string           `json:"url"`
	Title           string           `json:"title"`
	ThumbnailURL    string           `json:"thumbnail_url"`
	DurationMinutes float64          `json:"duration_minutes"`
	Duration        string           `json:"duration"`
	Streams         []StreamResponse `json:"streams"`
}

type DownloadRequest struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Filename string `json:"filename"`
}

type DownloadResponse struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Message  string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Succeeded int64  `json:"downloads_succeeded"`
	Failed    int64  `json:"downloads_failed"`
}

// APIInfo handles GET /api/v1/info?url=
func (h *Handler) APIInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.vs.Resolve(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newInfoResponse(info))
}

// APIDownload handles POST /api/v1/download
func (h *Handler) APIDownload(w http.ResponseWriter, r *http.Request) {
	var req DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}

	res, err := h.ds.Download(r.Context(), req.URL, req.Key, req.Filename)
	if err != nil {
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, DownloadResponse{
		Filename: res.Filename,
		Path:     res.Path,
		Size:     res.Size,
		Message:  service.SuccessMessage(res),
	})
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	succeeded, failed := h.ds.Stats()

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Succeeded: succeeded,
		Failed:    failed,
	})
}

func newInfoResponse(info *models.VideoInfo) InfoResponse {
	resp := InfoResponse{
		URL:             info.URL,
		Title:           info.Title,
		ThumbnailURL:    info.ThumbnailURL,
		DurationMinutes: info.DurationMinutes,
		Duration:        service.DurationText(info),
		Streams:         make([]StreamResponse, 0, len(info.Streams)),
	}

	for _, s := range info.Streams {
		resp.Streams = append(resp.Streams, StreamResponse{
			Key:         s.Key,
			Label:       service.StreamLabel(s),
			Resolution:  s.ResolutionLabel,
			BitrateKbps: s.BitrateKbps,
			Ext:         s.Ext,
			Filesize:    s.Filesize,
		})
	}

	return resp
}
