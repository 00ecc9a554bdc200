package http

import (
	"net/http"
	"time"

	"github.com/vitalpoint/identity/internal/identity/store"
	"github.com/vitalpoint/identity/pkg/httpx"
)

// SystemHandler serves liveness and readiness probes.
type SystemHandler struct {
	Store     store.Store
	Version   string
	StartTime time.Time
}

// HandleLivez handles GET /livez
//
//	@Summary	Liveness probe
//	@Tags		System
//	@Produce	json
//	@Success	200	{object}	StatusResponse
//	@Router		/livez [get].
func (h *SystemHandler) HandleLivez(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": h.Version,
		"uptime":  time.Since(h.StartTime).Round(time.Second).String(),
	})
}

// HandleReadyz handles GET /readyz
//
//	@Summary	Readiness probe
//	@Description	Verifies the database connection.
//	@Tags		System
//	@Produce	json
//	@Success	200	{object}	StatusResponse
//	@Failure	503	{object}	ErrorResponse	"Database unreachable"
//	@Router		/readyz [get].
func (h *SystemHandler) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "internal_error", "database unreachable")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}
