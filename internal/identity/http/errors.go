package http

import (
	"errors"
	"net/http"

	"github.com/vitalpoint/identity/internal/identity/service"
	"github.com/vitalpoint/identity/pkg/httpx"
	"github.com/vitalpoint/identity/pkg/slogx"
)

// ErrorResponse is the single error shape this API produces.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	httpx.WriteJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeServiceError renders a service-layer error using the closed error
// vocabulary. Anything unrecognized is logged and rendered as
// internal_error so internals never leak.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "validation_error", "request input is invalid")
	case errors.Is(err, service.ErrInvalidRole):
		writeError(w, http.StatusBadRequest, "validation_error", "role must be standard or provider")
	case errors.Is(err, service.ErrDuplicateActiveAccount):
		writeError(w, http.StatusBadRequest, "duplicate_account", "an active account already uses this email")
	case errors.Is(err, service.ErrUsernameTaken):
		writeError(w, http.StatusBadRequest, "duplicate_account", "username is already taken")
	case errors.Is(err, service.ErrVerificationPending):
		writeError(w, http.StatusBadRequest, "verification_pending", "a verification code is already outstanding")
	case errors.Is(err, service.ErrAlreadyVerified):
		writeError(w, http.StatusBadRequest, "already_verified", "account is already verified")
	case errors.Is(err, service.ErrCodeExpired), errors.Is(err, service.ErrChallengeExpired):
		writeError(w, http.StatusBadRequest, "code_expired", "the code has expired")
	case errors.Is(err, service.ErrCodeMismatch), errors.Is(err, service.ErrChallengeMismatch):
		writeError(w, http.StatusBadRequest, "code_mismatch", "the code does not match")
	case errors.Is(err, service.ErrNoChallenge):
		writeError(w, http.StatusBadRequest, "no_challenge", "no challenge is outstanding")
	case errors.Is(err, service.ErrTwoFactorDisabled):
		writeError(w, http.StatusBadRequest, "two_factor_not_enabled", "two-factor is not enabled for this account")
	case errors.Is(err, service.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "not_found", "account not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
	case errors.Is(err, service.ErrInvalidRecoveryCode):
		writeError(w, http.StatusUnauthorized, "invalid_recovery_code", "recovery code is invalid or already used")
	case errors.Is(err, service.ErrTokenInvalid):
		writeError(w, http.StatusUnauthorized, "invalid_token", "token is invalid")
	case errors.Is(err, service.ErrAccountBlocked):
		writeError(w, http.StatusForbidden, "blocked", "account is blocked")
	case errors.Is(err, service.ErrTokenRevoked):
		writeError(w, http.StatusForbidden, "session_revoked", "session has been revoked")
	case errors.Is(err, service.ErrTokenExpired):
		writeError(w, http.StatusForbidden, "session_expired", "session has expired")
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
