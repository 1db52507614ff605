package repositories

import (
	"context"

	"github.com/sloth-platform/sloth-users/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a specific user by their email.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUsers retrieves the full user collection.
	FindUsers(ctx context.Context) ([]domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// CreateUser persists a new user through the create procedure and
	// returns the store-assigned ID.
	CreateUser(ctx context.Context, user domain.User) (string, error)

	// UpdateUser applies a sparse patch in a single atomic statement.
	// Nil patch fields leave the stored values untouched.
	UpdateUser(ctx context.Context, userID string, patch domain.UserPatch) error

	// MarkUserVerified sets the verification flag for a user.
	MarkUserVerified(ctx context.Context, userID string) error
}

// UserLifecycleManager defines operations for managing user lifecycle
type UserLifecycleManager interface {
	// DeleteUser removes a user by ID. Deletion is irreversible.
	DeleteUser(ctx context.Context, userID string) error
}

// UserRepositoryFacade combines all user-related repository interfaces
// This is a facade for clients that need access to all operations
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserLifecycleManager
}
