package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sloth-platform/sloth-users/internal/core/domain"
)

// CreateUserRequest defines the payload for creating a user.
type CreateUserRequest struct {
	Username   string           `json:"username" binding:"required"`
	Email      string           `json:"email" binding:"required,email"`
	Password   string           `json:"password" binding:"required,min=8"`
	Phone      string           `json:"phone" binding:"required,e164"`
	IsVerified bool             `json:"is_verified"`
	Rating     *decimal.Decimal `json:"rating" binding:"omitempty,userrating"`
	Role       string           `json:"role" binding:"required"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	Username   *string          `json:"username"`
	Email      *string          `json:"email" binding:"omitempty,email"`
	Password   *string          `json:"password" binding:"omitempty,min=8"`
	Phone      *string          `json:"phone" binding:"omitempty,e164"`
	IsVerified *bool            `json:"is_verified"`
	Rating     *decimal.Decimal `json:"rating" binding:"omitempty,userrating"`
	Role       *string          `json:"role"`
}

// UserResponse is the canonical representation of a user returned by the API.
type UserResponse struct {
	ID         string           `json:"id"`
	Username   string           `json:"username"`
	Email      string           `json:"email"`
	Phone      string           `json:"phone"`
	IsVerified bool             `json:"is_verified"`
	Rating     *decimal.Decimal `json:"rating,omitempty"`
	Role       string           `json:"role"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// CreateUserResponse echoes the created record plus the initial token pair
// issued by the auth service.
type CreateUserResponse struct {
	UserResponse
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ListUsersResponse wraps the full user collection.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToUserResponse converts a domain.User to its API representation.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.UserID,
		Username:   user.Username,
		Email:      user.Email,
		Phone:      user.Phone,
		IsVerified: user.IsVerified,
		Rating:     user.Rating,
		Role:       user.Role,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

// ToListUsersResponse converts a slice of domain.User to ListUsersResponse.
func ToListUsersResponse(users []domain.User) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i := range users {
		userResponses[i] = ToUserResponse(&users[i])
	}
	return ListUsersResponse{Users: userResponses}
}
