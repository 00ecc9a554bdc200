package http

import (
	"encoding/json"
	"net/http"

	"github.com/vitalpoint/identity/internal/identity/domain"
	"github.com/vitalpoint/identity/internal/identity/service"
	"github.com/vitalpoint/identity/pkg/httpx"
	"github.com/vitalpoint/identity/pkg/slogx"
)

// RegistrationHandler handles account creation and email verification.
type RegistrationHandler struct {
	Registration *service.RegistrationService
}

// HandleRegister handles POST /v1/register
//
//	@Summary		Register a new account
//	@Description	Creates an unverified account and emails a verification code valid for 5 minutes.
//	@Tags			Registration
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterRequest		true	"Registration details"
//	@Success		201		{object}	RegisterResponse	"Account created; delivery_failed warns when the code could not be emailed"
//	@Failure		400		{object}	ErrorResponse		"Invalid input, duplicate account, or verification already pending"
//	@Failure		429		{object}	ErrorResponse		"Rate limit exceeded"
//	@Failure		500		{object}	ErrorResponse		"Internal server error"
//	@Router			/v1/register [post].
func (h *RegistrationHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "request body is not valid JSON")
		return
	}

	result, err := h.Registration.Register(ctx, req.Name, req.Username, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("account registered", "account_id", result.AccountID)
	httpx.WriteJSON(w, http.StatusCreated, RegisterResponse{
		AccountID:      result.AccountID,
		DeliveryFailed: result.DeliveryFailed,
	})
}

// HandleVerifyEmail handles POST /v1/verify-email
//
//	@Summary		Verify an email address
//	@Description	Consumes the emailed one-time code, locks the chosen role onto the account and returns a routing hint. Never issues a session.
//	@Tags			Registration
//	@Accept			json
//	@Produce		json
//	@Param			request	body		VerifyEmailRequest	true	"Email, code and desired role"
//	@Success		200		{object}	VerifyEmailResponse	"Verification succeeded"
//	@Failure		400		{object}	ErrorResponse		"Expired or mismatched code, already verified, or invalid role"
//	@Failure		404		{object}	ErrorResponse		"No account for this email"
//	@Failure		429		{object}	ErrorResponse		"Rate limit exceeded"
//	@Failure		500		{object}	ErrorResponse		"Internal server error"
//	@Router			/v1/verify-email [post].
func (h *RegistrationHandler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "request body is not valid JSON")
		return
	}

	result, err := h.Registration.VerifyEmail(ctx, req.Email, req.Code, domain.Role(req.Role))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("email verified", "role", result.Role)
	httpx.WriteJSON(w, http.StatusOK, VerifyEmailResponse{
		Role:     string(result.Role),
		NextStep: result.NextStep,
	})
}
