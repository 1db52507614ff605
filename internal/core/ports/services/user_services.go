package services

import (
	"context"

	"github.com/sloth-platform/sloth-users/internal/core/domain"
	"github.com/sloth-platform/sloth-users/internal/core/ports/clients"
	"github.com/sloth-platform/sloth-users/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// ListUsers retrieves the full user collection.
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// CreateUser creates a new user and obtains an initial token pair
	// from the auth service.
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, *clients.TokenPair, error)

	// UpdateUser applies a partial update to an existing user.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error)
}

// UserLifecycleSvc defines operations for managing user lifecycle
type UserLifecycleSvc interface {
	// DeleteUser removes a user by ID. Irreversible, no soft-delete tier.
	DeleteUser(ctx context.Context, userID string) error
}

// UserVerificationSvc defines the email verification flow
type UserVerificationSvc interface {
	// VerifyCode compares a submitted 6-digit code against the cached one
	// and marks the user verified on an exact match.
	VerifyCode(ctx context.Context, userID string, code string) error
}

// PasswordResetSvc defines the password reset flows
type PasswordResetSvc interface {
	// RequestPasswordReset asks the auth service to dispatch a reset link.
	// It reports whether the email belongs to a known user; callers must
	// not reveal that to the client.
	RequestPasswordReset(ctx context.Context, email string) (bool, error)

	// ResetPassword consumes a cached reset token and sets a new password,
	// rejecting any password present in the user's history.
	ResetPassword(ctx context.Context, email string, newPassword string) error
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserLifecycleSvc
	UserVerificationSvc
	PasswordResetSvc
}
