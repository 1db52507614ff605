package dto

// ResetPasswordRequest completes a password reset for the given email.
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// RequestPasswordResetRequest starts the reset flow for an email address.
type RequestPasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// MessageResponse is a generic message body.
type MessageResponse struct {
	Message string `json:"message"`
}

// VerifyCodeResponse confirms a successful email verification.
type VerifyCodeResponse struct {
	Message    string `json:"message"`
	IsVerified bool   `json:"is_verified"`
}

// RefreshResponse is the terminal body produced by the mediation guard
// when an expired access token is refreshed.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Message     string `json:"message"`
}
