package http

import (
	"net/http"
	"strconv"

	"github.com/vitalpoint/identity/internal/identity/service"
	"github.com/vitalpoint/identity/pkg/httpx"
)

// AuditHandler exposes the append-only trail to administrators.
type AuditHandler struct {
	Audit *service.AuditService
}

// HandleList handles GET /v1/audit
//
//	@Summary		List audit entries
//	@Description	Returns security transitions in chronological order. Administrator only.
//	@Tags			Audit
//	@Security		BearerAuth
//	@Produce		json
//	@Param			limit	query		int	false	"Page size (default 50, max 500)"
//	@Param			offset	query		int	false	"Offset"
//	@Success		200		{array}		AuditEntryResponse
//	@Failure		401		{object}	ErrorResponse	"Invalid or missing token"
//	@Failure		403		{object}	ErrorResponse	"Not an administrator"
//	@Failure		500		{object}	ErrorResponse	"Internal server error"
//	@Router			/v1/audit [get].
func (h *AuditHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := h.Audit.List(ctx, limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, AuditEntryResponse{
			ID:          e.ID,
			Action:      e.Action,
			PerformedBy: e.PerformedBy,
			Details:     e.Details,
			CreatedAt:   e.CreatedAt,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, out)
}
