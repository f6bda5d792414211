// Package httpapi exposes the provisioning pipeline over HTTP/JSON.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/deviceprov/internal/logging"
	"github.com/dmitrijs2005/deviceprov/internal/server/provisioning"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Provisioner is the pipeline entry point the handlers call.
type Provisioner interface {
	Provision(ctx context.Context, uid, platform string) (*provisioning.Result, error)
}

type Handler struct {
	provisioner Provisioner
	logger      logging.Logger
}

// NewRouter wires middleware and routes.
func NewRouter(p Provisioner, logger logging.Logger) chi.Router {
	h := &Handler{provisioner: p, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(withRequestID)
	r.Use(withLogging(logger))

	r.Get("/healthz", h.Health)
	r.Post("/api/devices", h.AddDevice)

	return r
}

type addDeviceRequest struct {
	UID      string `json:"uid"`
	Platform string `json:"platform"`
}

// addDeviceResponse is the success body. download_url is the only field
// callers are guaranteed to get; device_id and expires_at are informational
// and omitted when unknown.
type addDeviceResponse struct {
	DownloadURL string `json:"download_url"`
	DeviceID    string `json:"device_id,omitempty"`
	ExpiresAt   string `json:"expires_at,omitempty"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) AddDevice(w http.ResponseWriter, r *http.Request) {
	var req addDeviceRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	res, err := h.provisioner.Provision(r.Context(), req.UID, req.Platform)
	if err != nil {
		var pe *provisioning.Error
		if !errors.As(err, &pe) {
			h.logger.Error(r.Context(), "provision failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}
		writeJSON(w, statusForKind(pe.Kind), errorResponse{Error: pe.Message, Detail: pe.Detail})
		return
	}

	out := addDeviceResponse{DownloadURL: res.DownloadURL, DeviceID: res.DeviceID}
	if !res.ExpiresAt.IsZero() {
		out.ExpiresAt = res.ExpiresAt.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, out)
}

func statusForKind(k provisioning.Kind) int {
	switch k {
	case provisioning.KindInvalidRequest:
		return http.StatusBadRequest
	case provisioning.KindKeyFormat:
		return http.StatusUnprocessableEntity
	case provisioning.KindBroker, provisioning.KindBuild, provisioning.KindStorage:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
