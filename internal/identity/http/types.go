package http

import "time"

type RegisterRequest struct {
	Name     string `json:"name" example:"Ann Example"`
	Username string `json:"username" example:"ann1"`
	Email    string `json:"email" example:"ann@example.com"`
	Password string `json:"password" example:"correct horse battery staple"`
}

type RegisterResponse struct {
	AccountID string `json:"account_id"`
	// DeliveryFailed warns that the verification code could not be emailed.
	// The registration itself succeeded.
	DeliveryFailed bool `json:"delivery_failed,omitempty"`
}

type VerifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code" example:"482913"`
	Role  string `json:"role" enums:"standard,provider"`
}

type VerifyEmailResponse struct {
	Role     string `json:"role"`
	NextStep string `json:"next_step" example:"login"`
}

type LoginRequest struct {
	// Identifier is an email address or a username.
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type" example:"Bearer"`
	// SecondFactorRequired means the token is a short-lived pending one and
	// must be upgraded via the step-up endpoints.
	SecondFactorRequired bool `json:"second_factor_required,omitempty"`
	DeliveryFailed       bool `json:"delivery_failed,omitempty"`
}

type ChallengeVerifyRequest struct {
	Code string `json:"code" example:"482913"`
}

type RecoveryVerifyRequest struct {
	Code string `json:"code" example:"9f3ab1c2"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type" example:"Bearer"`
}

type RecoveryCodesResponse struct {
	// RecoveryCodes are shown exactly once and never retrievable again.
	RecoveryCodes []string `json:"recovery_codes"`
}

type TwoFactorToggleResponse struct {
	Enabled        bool     `json:"enabled"`
	SetupPending   bool     `json:"setup_pending"`
	RecoveryCodes  []string `json:"recovery_codes,omitempty"`
	DeliveryFailed bool     `json:"delivery_failed,omitempty"`
}

type AccountResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	Age              *int   `json:"age,omitempty"`
	Gender           string `json:"gender,omitempty"`
	Contact          string `json:"contact,omitempty"`
	Role             string `json:"role"`
	Verified         bool   `json:"verified"`
	ProviderStatus   string `json:"provider_status,omitempty"`
	TwoFactorEnabled bool   `json:"two_factor_enabled"`
	CreatedAt        string `json:"created_at"`
}

type ProfileUpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	Username *string `json:"username,omitempty"`
	Age      *int    `json:"age,omitempty"`
	Gender   *string `json:"gender,omitempty"`
	Contact  *string `json:"contact,omitempty"`
}

type AuditEntryResponse struct {
	ID          int64          `json:"id"`
	Action      string         `json:"action"`
	PerformedBy string         `json:"performed_by"`
	Details     map[string]any `json:"details,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}
