package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sloth-platform/sloth-users/internal/adapters/authsvc"
	"github.com/sloth-platform/sloth-users/internal/apperrors"
	"github.com/sloth-platform/sloth-users/internal/core/ports/clients"
	"github.com/sloth-platform/sloth-users/internal/dto"
)

// refreshTokenBody is the optional request-body fragment the guard sniffs
// for a refresh token. The body is restored afterwards so handlers can
// still bind it.
type refreshTokenBody struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenMediation creates the guard applied to every protected route. It
// decides pass / refresh / reject per request by delegating to the external
// auth service:
//
//   - Missing or malformed bearer header rejects immediately, before any
//     network call.
//   - A verified access token passes through with the resolved subject ID
//     placed in the request context.
//   - An expired access token plus a refresh token in the body produces a
//     terminal refresh response; the wrapped handler never runs.
//   - An expired access token without a refresh token rejects with
//     "access token expired", never "invalid access token".
//   - A transport failure reaching the auth service rejects with 503, never
//     with an authorization status.
func TokenMediation(verifier clients.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": apperrors.ErrUnauthenticated.Error()})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": apperrors.ErrUnauthenticated.Error()})
			return
		}

		accessToken := parts[1]
		refreshToken := sniffRefreshToken(c)

		userID, err := verifier.VerifyToken(c.Request.Context(), accessToken)
		if err == nil {
			// Store the user ID in the request context for downstream logic.
			ctxWithUser := context.WithValue(c.Request.Context(), userIDKey, userID)
			enrichedLogger := logger.With(slog.String("user_id", userID))
			ctxWithLoggerAndUser := context.WithValue(ctxWithUser, loggerCtxKey, enrichedLogger)
			c.Request = c.Request.WithContext(ctxWithLoggerAndUser)
			c.Next()
			return
		}

		switch {
		case errors.Is(err, apperrors.ErrAuthUnavailable):
			logger.Error("Auth service unreachable during verification", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": apperrors.ErrAuthUnavailable.Error()})

		case errors.Is(err, apperrors.ErrTokenExpired):
			if refreshToken == "" {
				logger.Info("Access token expired, no refresh token supplied")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": apperrors.ErrTokenExpired.Error()})
				return
			}
			mediateRefresh(c, verifier, refreshToken)

		default:
			status := http.StatusUnauthorized
			var statusErr *authsvc.StatusError
			if errors.As(err, &statusErr) && statusErr.StatusCode >= 400 && statusErr.StatusCode < 600 {
				status = statusErr.StatusCode
			}
			logger.Warn("Access token rejected by verifier", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(status, gin.H{"message": apperrors.ErrInvalidToken.Error()})
		}
	}
}

// mediateRefresh performs the refresh leg of the mediation policy.
// Refreshing is terminal for the request: on success the new access token is
// the response and the originally requested handler does not run.
func mediateRefresh(c *gin.Context, verifier clients.TokenVerifier, refreshToken string) {
	logger := GetLoggerFromCtx(c.Request.Context())

	pair, err := verifier.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrAuthUnavailable) {
			logger.Error("Auth service unreachable during refresh", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": apperrors.ErrAuthUnavailable.Error()})
			return
		}
		logger.Info("Refresh token rejected", slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": apperrors.ErrRefreshTokenInvalid.Error()})
		return
	}

	tokenType := pair.TokenType
	if tokenType == "" {
		tokenType = "bearer"
	}

	logger.Info("Access token refreshed")
	c.AbortWithStatusJSON(http.StatusOK, dto.RefreshResponse{
		AccessToken: pair.AccessToken,
		TokenType:   tokenType,
		Message:     "Access token refreshed successfully",
	})
}

// sniffRefreshToken reads an optional refresh_token from the request body
// and restores the body for the wrapped handler.
func sniffRefreshToken(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))

	if len(raw) == 0 {
		return ""
	}

	var body refreshTokenBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.RefreshToken
}
