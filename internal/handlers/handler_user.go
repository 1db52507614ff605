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

// userHandler handles HTTP requests related to users.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

// newUserHandler creates a new userHandler.
func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{
		userService: us,
	}
}

// createUser godoc
// @Summary Create a new user
// @Description Creates a user, seeds its password history and issues the initial token pair via the auth service
// @Tags users
// @Accept  json
// @Produce  json
// @Param   user body dto.CreateUserRequest true "User details"
// @Success 201 {object} dto.CreateUserResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Duplicate email or username"
// @Failure 502 {object} map[string]string "Auth service failed to issue tokens"
// @Router /users [post]
func (h *userHandler) createUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create user request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request format: " + err.Error()})
		return
	}

	createdUser, pair, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		var statusErr *authsvc.StatusError
		switch {
		case errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Duplicate user on create", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"message": "User with this email or username already exists"})
		case errors.Is(err, apperrors.ErrAuthUnavailable):
			logger.Error("Auth service unavailable during signup", slog.String("error", err.Error()))
			c.JSON(http.StatusBadGateway, gin.H{"message": "Failed to create tokens in auth service"})
		case errors.As(err, &statusErr):
			logger.Error("Auth service rejected token issuance during signup", slog.Int("status", statusErr.StatusCode), slog.String("detail", statusErr.Message))
			c.JSON(http.StatusBadGateway, gin.H{"message": "Failed to create tokens in auth service: " + statusErr.Message})
		default:
			logger.Error("Failed to create user in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user"})
		}
		return
	}

	logger.Info("User created successfully", slog.String("new_user_id", createdUser.UserID))
	c.JSON(http.StatusCreated, dto.CreateUserResponse{
		UserResponse: dto.ToUserResponse(createdUser),
		AccessToken:  pair.AccessToken,
		TokenType:    pair.TokenType,
	})
}

// getUser godoc
// @Summary Get a user by ID
// @Description Retrieves details for a specific user by their ID
// @Tags users
// @Produce  json
// @Param   userID path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} map[string]string "Unauthenticated"
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /users/{userID} [get]
func (h *userHandler) getUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("User not found", slog.String("target_user_id", userID))
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		} else {
			logger.Error("Failed to get user from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve user"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// listUsers godoc
// @Summary List users
// @Description Retrieves the full user collection
// @Tags users
// @Produce  json
// @Success 200 {object} dto.ListUsersResponse
// @Failure 401 {object} map[string]string "Unauthenticated"
// @Failure 500 {object} map[string]string "Failed to list users"
// @Security BearerAuth
// @Router /users [get]
func (h *userHandler) listUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list users from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to list users"})
		return
	}

	logger.Info("Users listed successfully", slog.Int("count", len(users)))
	c.JSON(http.StatusOK, dto.ToListUsersResponse(users))
}

// updateUser godoc
// @Summary Update a user
// @Description Applies a partial update; omitted fields keep their stored values
// @Tags users
// @Accept  json
// @Produce  json
// @Param   userID path string true "User ID to update"
// @Param   user body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthenticated"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 409 {object} map[string]string "Duplicate email or username"
// @Security BearerAuth
// @Router /users/{userID} [patch]
func (h *userHandler) updateUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for update user request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request format: " + err.Error()})
		return
	}

	updatedUser, err := h.userService.UpdateUser(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("User not found for update", slog.String("target_user_id", userID))
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"message": "User with this email or username already exists"})
		default:
			logger.Error("Failed to update user in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update user"})
		}
		return
	}

	logger.Info("User updated successfully", slog.String("target_user_id", userID))
	c.JSON(http.StatusOK, dto.ToUserResponse(updatedUser))
}

// deleteUser godoc
// @Summary Delete a user
// @Description Deletes a user by ID; deletion is irreversible
// @Tags users
// @Produce  json
// @Param   userID path string true "User ID to delete"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthenticated"
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /users/{userID} [delete]
func (h *userHandler) deleteUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	err := h.userService.DeleteUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("User not found for deletion", slog.String("target_user_id", userID))
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		} else {
			logger.Error("Failed to delete user in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete user"})
		}
		return
	}

	logger.Info("User deleted successfully", slog.String("target_user_id", userID))
	c.Status(http.StatusNoContent)
}

// verifyCode godoc
// @Summary Verify an email with a 6-digit code
// @Description Compares the submitted code against the cached one and marks the user verified on a match
// @Tags users
// @Produce  json
// @Param   userID path string true "User ID"
// @Param   verification_code query string true "6-digit verification code"
// @Success 200 {object} dto.VerifyCodeResponse
// @Failure 400 {object} map[string]string "Codes do not match"
// @Failure 401 {object} map[string]string "Unauthenticated"
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /users/verify_code/{userID} [post]
func (h *userHandler) verifyCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")
	code := c.Query("verification_code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "verification_code query parameter is required"})
		return
	}

	err := h.userService.VerifyCode(c.Request.Context(), userID, code)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("User not found for verification", slog.String("target_user_id", userID))
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		case errors.Is(err, apperrors.ErrCodeMismatch):
			logger.Info("Verification code mismatch", slog.String("target_user_id", userID))
			c.JSON(http.StatusBadRequest, gin.H{"message": "Verification codes do not match"})
		default:
			logger.Error("Failed to verify code", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to verify code"})
		}
		return
	}

	logger.Info("Email verified", slog.String("target_user_id", userID))
	c.JSON(http.StatusOK, dto.VerifyCodeResponse{
		Message:    "Email verified successfully",
		IsVerified: true,
	})
}
