package http

import (
	"encoding/json"
	"net/http"

	"github.com/vitalpoint/identity/internal/identity/service"
	"github.com/vitalpoint/identity/pkg/httpx"
	"github.com/vitalpoint/identity/pkg/slogx"
)

// TwoFactorHandler handles step-up verification, enrollment and recovery
// codes.
type TwoFactorHandler struct {
	TwoFactor *service.TwoFactorService
}

// HandleVerifyChallenge handles POST /v1/2fa/verify
//
//	@Summary		Verify a second-factor challenge
//	@Description	Consumes the emailed challenge code and upgrades the pending session to a full one. Confirms enrollment when the challenge was a setup one.
//	@Tags			TwoFactor
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ChallengeVerifyRequest	true	"Challenge code"
//	@Success		200		{object}	TokenResponse			"Full session token"
//	@Failure		400		{object}	ErrorResponse			"No challenge, expired, or mismatch"
//	@Failure		401		{object}	ErrorResponse			"Invalid or missing token"
//	@Failure		429		{object}	ErrorResponse			"Rate limit exceeded"
//	@Failure		500		{object}	ErrorResponse			"Internal server error"
//	@Router			/v1/2fa/verify [post].
func (h *TwoFactorHandler) HandleVerifyChallenge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	account, ok := AccountFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "missing bearer token")
		return
	}

	var req ChallengeVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "request body is not valid JSON")
		return
	}

	token, err := h.TwoFactor.VerifyChallenge(ctx, account.ID, req.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("second factor verified", "account_id", account.ID)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{Token: token, TokenType: "Bearer"})
}

// HandleVerifyRecovery handles POST /v1/2fa/recovery
//
//	@Summary		Verify via recovery code
//	@Description	Burns one single-use recovery code and upgrades the pending session to a full one.
//	@Tags			TwoFactor
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RecoveryVerifyRequest	true	"Raw recovery code"
//	@Success		200		{object}	TokenResponse			"Full session token"
//	@Failure		400		{object}	ErrorResponse			"Two-factor not enabled"
//	@Failure		401		{object}	ErrorResponse			"Invalid or already-used recovery code"
//	@Failure		429		{object}	ErrorResponse			"Rate limit exceeded"
//	@Failure		500		{object}	ErrorResponse			"Internal server error"
//	@Router			/v1/2fa/recovery [post].
func (h *TwoFactorHandler) HandleVerifyRecovery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	account, ok := AccountFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "missing bearer token")
		return
	}

	var req RecoveryVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "request body is not valid JSON")
		return
	}

	token, err := h.TwoFactor.VerifyRecoveryCode(ctx, account.ID, req.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("recovery code used", "account_id", account.ID)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{Token: token, TokenType: "Bearer"})
}

// HandleToggle handles POST /v1/2fa/toggle
//
//	@Summary		Toggle two-factor
//	@Description	Disables two-factor when enabled. When disabled, begins enrollment: emails a setup code and returns the recovery codes exactly once. Enablement becomes durable only after the setup code is verified.
//	@Tags			TwoFactor
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	TwoFactorToggleResponse	"New two-factor state"
//	@Failure		401	{object}	ErrorResponse			"Invalid or missing token"
//	@Failure		403	{object}	ErrorResponse			"Step-up required"
//	@Failure		500	{object}	ErrorResponse			"Internal server error"
//	@Router			/v1/2fa/toggle [post].
func (h *TwoFactorHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	account, ok := AccountFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "missing bearer token")
		return
	}

	result, err := h.TwoFactor.Toggle(ctx, account.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("two-factor toggled", "account_id", account.ID,
		"enabled", result.Enabled, "setup_pending", result.SetupPending)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, TwoFactorToggleResponse{
		Enabled:        result.Enabled,
		SetupPending:   result.SetupPending,
		RecoveryCodes:  result.RecoveryCodes,
		DeliveryFailed: result.DeliveryFailed,
	})
}

// HandleRegenerateRecoveryCodes handles POST /v1/2fa/recovery-codes
//
//	@Summary		Regenerate recovery codes
//	@Description	Discards all existing recovery codes and returns a fresh set exactly once.
//	@Tags			TwoFactor
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	RecoveryCodesResponse	"Raw recovery codes (shown once)"
//	@Failure		400	{object}	ErrorResponse			"Two-factor not enabled"
//	@Failure		401	{object}	ErrorResponse			"Invalid or missing token"
//	@Failure		500	{object}	ErrorResponse			"Internal server error"
//	@Router			/v1/2fa/recovery-codes [post].
func (h *TwoFactorHandler) HandleRegenerateRecoveryCodes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	account, ok := AccountFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "missing bearer token")
		return
	}

	codes, err := h.TwoFactor.RegenerateRecoveryCodes(ctx, account.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("recovery codes regenerated", "account_id", account.ID)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, RecoveryCodesResponse{RecoveryCodes: codes})
}
