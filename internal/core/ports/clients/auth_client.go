package clients

import "context"

// TokenPair is an access token with its type, as issued by the auth service.
// Both values are opaque to this service.
type TokenPair struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// TokenVerifier is the subset of the auth client the mediation guard needs.
type TokenVerifier interface {
	// VerifyToken asks the auth service to validate an access token and
	// returns the resolved subject ID on success.
	VerifyToken(ctx context.Context, accessToken string) (string, error)

	// RefreshToken exchanges a refresh token for a new access token.
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
}

// AuthServiceClient is the full outbound port to the external auth service.
type AuthServiceClient interface {
	TokenVerifier

	// Login issues the initial token pair for a freshly created user.
	Login(ctx context.Context, userID string) (*TokenPair, error)

	// SendPasswordResetLink asks the auth service to dispatch a reset link.
	SendPasswordResetLink(ctx context.Context, email string) error
}
