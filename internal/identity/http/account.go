package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vitalpoint/identity/internal/identity/domain"
	"github.com/vitalpoint/identity/internal/identity/service"
	"github.com/vitalpoint/identity/pkg/httpx"
	"github.com/vitalpoint/identity/pkg/slogx"
)

// AccountHandler exposes self-service account maintenance.
type AccountHandler struct {
	Accounts *service.AccountService
	Login    *service.LoginService
}

// HandleGet handles GET /v1/account
//
//	@Summary		Get own account
//	@Tags			Account
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	AccountResponse
//	@Failure		401	{object}	ErrorResponse	"Invalid or missing token"
//	@Failure		403	{object}	ErrorResponse	"Step-up required"
//	@Failure		500	{object}	ErrorResponse	"Internal server error"
//	@Router			/v1/account [get].
func (h *AccountHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	account, ok := AccountFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "missing bearer token")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAccountResponse(account))
}

// HandleUpdate handles PATCH /v1/account
//
//	@Summary		Update own profile
//	@Description	Applies the provided fields. Email, password and role cannot be changed here.
//	@Tags			Account
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ProfileUpdateRequest	true	"Fields to change"
//	@Success		200		{object}	StatusResponse
//	@Failure		400		{object}	ErrorResponse	"Invalid input or username taken"
//	@Failure		401		{object}	ErrorResponse	"Invalid or missing token"
//	@Failure		500		{object}	ErrorResponse	"Internal server error"
//	@Router			/v1/account [patch].
func (h *AccountHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	account, ok := AccountFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "missing bearer token")
		return
	}

	var req ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "request body is not valid JSON")
		return
	}

	update := domain.ProfileUpdate{
		Name:     req.Name,
		Username: req.Username,
		Age:      req.Age,
		Gender:   req.Gender,
		Contact:  req.Contact,
	}
	if err := h.Accounts.UpdateProfile(ctx, account.ID, update); err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("profile updated", "account_id", account.ID)
	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// HandleDelete handles DELETE /v1/account
//
//	@Summary		Delete own account
//	@Description	Soft-deletes the account, scrubs contact details and revokes the presented token. Audit entries are retained.
//	@Tags			Account
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	StatusResponse
//	@Failure		401	{object}	ErrorResponse	"Invalid or missing token"
//	@Failure		500	{object}	ErrorResponse	"Internal server error"
//	@Router			/v1/account [delete].
func (h *AccountHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	account, ok := AccountFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "missing bearer token")
		return
	}

	if err := h.Accounts.SoftDelete(ctx, account.ID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	// The session is useless now; revoke it so it cannot be replayed
	// against the not-found checks.
	if err := h.Login.Logout(ctx, account.ID, bearerToken(r)); err != nil {
		log.Warn("failed to revoke token after delete", "account_id", account.ID, "err", err)
	}

	log.Info("account deleted", "account_id", account.ID)
	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func toAccountResponse(a domain.Account) AccountResponse {
	return AccountResponse{
		ID:               a.ID,
		Name:             a.Name,
		Username:         a.Username,
		Email:            a.Email,
		Age:              a.Age,
		Gender:           a.Gender,
		Contact:          a.Contact,
		Role:             string(a.Role),
		Verified:         a.Verified,
		ProviderStatus:   a.ProviderStatus,
		TwoFactorEnabled: a.TwoFactor.Enabled,
		CreatedAt:        a.CreatedAt.UTC().Format(time.RFC3339),
	}
}
