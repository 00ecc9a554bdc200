package http

import (
	"encoding/json"
	"net/http"

	"github.com/vitalpoint/identity/internal/identity/service"
	"github.com/vitalpoint/identity/pkg/httpx"
	"github.com/vitalpoint/identity/pkg/slogx"
)

// LoginHandler handles session issuance and revocation.
type LoginHandler struct {
	Login *service.LoginService
}

// HandleLogin handles POST /v1/login
//
//	@Summary		Log in
//	@Description	Verifies credentials. Returns a full session token, or a short-lived pending token plus an emailed challenge when the account has two-factor enabled.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Email-or-username and password"
//	@Success		200		{object}	LoginResponse	"Session token"
//	@Failure		400		{object}	ErrorResponse	"Verification still pending"
//	@Failure		401		{object}	ErrorResponse	"Invalid credentials"
//	@Failure		403		{object}	ErrorResponse	"Account blocked"
//	@Failure		404		{object}	ErrorResponse	"No such account"
//	@Failure		429		{object}	ErrorResponse	"Rate limit exceeded"
//	@Failure		500		{object}	ErrorResponse	"Internal server error"
//	@Router			/v1/login [post].
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "request body is not valid JSON")
		return
	}
	if req.Identifier == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "identifier and password are required")
		return
	}

	result, err := h.Login.Login(ctx, req.Identifier, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("login", "second_factor_required", result.SecondFactorRequired)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, LoginResponse{
		Token:                result.Token,
		TokenType:            "Bearer",
		SecondFactorRequired: result.SecondFactorRequired,
		DeliveryFailed:       result.DeliveryFailed,
	})
}

// HandleLogout handles POST /v1/logout
//
//	@Summary		Log out
//	@Description	Revokes the presented token. Pending tokens may be revoked too. Idempotent.
//	@Tags			Sessions
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	StatusResponse	"Token revoked"
//	@Failure		401	{object}	ErrorResponse	"Invalid or missing token"
//	@Failure		403	{object}	ErrorResponse	"Session revoked or expired"
//	@Failure		500	{object}	ErrorResponse	"Internal server error"
//	@Router			/v1/logout [post].
func (h *LoginHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	account, ok := AccountFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "missing bearer token")
		return
	}

	if err := h.Login.Logout(ctx, account.ID, bearerToken(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("logout", "account_id", account.ID)
	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}
