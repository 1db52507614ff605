package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sloth-platform/sloth-users/internal/adapters/authsvc"
	"github.com/sloth-platform/sloth-users/internal/apperrors"
	portssvc "github.com/sloth-platform/sloth-users/internal/core/ports/services"
	"github.com/sloth-platform/sloth-users/internal/dto"
	"github.com/sloth-platform/sloth-users/internal/middleware"
)

// passwordResetHandler handles the password reset flows.
type passwordResetHandler struct {
	userService portssvc.UserSvcFacade
}

func newPasswordResetHandler(us portssvc.UserSvcFacade) *passwordResetHandler {
	return &passwordResetHandler{
		userService: us,
	}
}

// requestPasswordReset godoc
// @Summary Request a password reset link
// @Description Asks the auth service to dispatch a reset link. The response never reveals whether the email is registered.
// @Tags users
// @Accept  json
// @Produce  json
// @Param   request body dto.RequestPasswordResetRequest true "Email"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 503 {object} map[string]string "Auth service unavailable"
// @Router /users/request_password_reset [post]
func (h *passwordResetHandler) requestPasswordReset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RequestPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request format: " + err.Error()})
		return
	}

	known, err := h.userService.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		var statusErr *authsvc.StatusError
		switch {
		case errors.Is(err, apperrors.ErrAuthUnavailable):
			logger.Error("Auth service unavailable during reset request", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": apperrors.ErrAuthUnavailable.Error()})
		case errors.As(err, &statusErr):
			logger.Error("Auth service rejected reset link dispatch", slog.Int("status", statusErr.StatusCode), slog.String("detail", statusErr.Message))
			c.JSON(statusErr.StatusCode, gin.H{"message": "Error contacting auth service: " + statusErr.Message})
		default:
			logger.Error("Failed to request password reset", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to request password reset"})
		}
		return
	}

	if !known {
		logger.Info("Password reset requested for unknown email")
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "A password reset link has been sent to the provided email"})
}

// resetPassword godoc
// @Summary Complete a password reset
// @Description Consumes the cached reset token and sets a new password, rejecting any password present in history
// @Tags users
// @Accept  json
// @Produce  json
// @Param   request body dto.ResetPasswordRequest true "Email and new password"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} map[string]string "Invalid or expired token, or password reuse"
// @Router /users/reset_password [post]
func (h *passwordResetHandler) resetPassword(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request format: " + err.Error()})
		return
	}

	err := h.userService.ResetPassword(c.Request.Context(), req.Email, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrResetTokenExpired):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Reset token has expired"})
		case errors.Is(err, apperrors.ErrResetTokenInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired token"})
		case errors.Is(err, apperrors.ErrPasswordReused):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error() + ". Please choose a different password."})
		default:
			logger.Error("Failed to reset password", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to reset password"})
		}
		return
	}

	logger.Info("Password reset completed")
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password changed successfully"})
}
