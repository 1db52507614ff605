// Package authsvc is the outbound HTTP client for the external auth service.
// Token issuance, verification and refresh are owned entirely by that
// service; this client never inspects token contents.
package authsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sloth-platform/sloth-users/internal/apperrors"
	"github.com/sloth-platform/sloth-users/internal/core/ports/clients"
)

// StatusError carries a non-success upstream status and its body text so
// handlers can preserve them when feasible.
type StatusError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("auth service returned %d: %s", e.StatusCode, e.Message)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// Client talks to the external auth service over HTTP with a bounded
// timeout. A timeout or transport failure is reported as
// apperrors.ErrAuthUnavailable, never as an authorization failure.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the auth service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

var _ clients.AuthServiceClient = (*Client)(nil)

type verifyTokenRequest struct {
	Token string `json:"token"`
}

type verifyTokenResponse struct {
	UserID string `json:"user_id"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type loginRequest struct {
	UserID string `json:"user_id"`
}

// VerifyToken calls POST /verify_token and returns the resolved subject ID.
// A 401 upstream maps to apperrors.ErrTokenExpired so the mediation guard
// can attempt a refresh; any other non-200 maps to apperrors.ErrInvalidToken
// wrapped in a StatusError preserving the upstream status.
func (c *Client) VerifyToken(ctx context.Context, accessToken string) (string, error) {
	resp, body, err := c.postJSON(ctx, "/verify_token", verifyTokenRequest{Token: accessToken})
	if err != nil {
		return "", err
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		var out verifyTokenResponse
		if err := json.Unmarshal(body, &out); err != nil {
			return "", fmt.Errorf("failed to decode verify_token response: %w", err)
		}
		return out.UserID, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return "", apperrors.ErrTokenExpired
	default:
		return "", &StatusError{StatusCode: resp.StatusCode, Message: string(body), Err: apperrors.ErrInvalidToken}
	}
}

// RefreshToken calls POST /refresh_token and returns the new token pair.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*clients.TokenPair, error) {
	resp, body, err := c.postJSON(ctx, "/refresh_token", refreshTokenRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: string(body), Err: apperrors.ErrRefreshTokenInvalid}
	}

	var pair clients.TokenPair
	if err := json.Unmarshal(body, &pair); err != nil {
		return nil, fmt.Errorf("failed to decode refresh_token response: %w", err)
	}
	return &pair, nil
}

// Login calls POST /login to issue the initial token pair for a new user.
func (c *Client) Login(ctx context.Context, userID string) (*clients.TokenPair, error) {
	resp, body, err := c.postJSON(ctx, "/login", loginRequest{UserID: userID})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: string(body), Err: errors.New("failed to create tokens in auth service")}
	}

	var pair clients.TokenPair
	if err := json.Unmarshal(body, &pair); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}
	return &pair, nil
}

// SendPasswordResetLink calls POST /send_password_reset_link?email=...
// Non-2xx statuses propagate as a StatusError.
func (c *Client) SendPasswordResetLink(ctx context.Context, email string) error {
	endpoint := c.baseURL + "/send_password_reset_link?email=" + url.QueryEscape(email)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build reset link request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrAuthUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, Message: string(body), Err: errors.New("failed to dispatch password reset link")}
	}
	return nil
}

// postJSON performs a POST with a JSON body and returns the response along
// with its fully read body. Transport failures wrap ErrAuthUnavailable.
func (c *Client) postJSON(ctx context.Context, path string, payload any) (*http.Response, []byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode request for %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrAuthUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}
	return resp, body, nil
}
