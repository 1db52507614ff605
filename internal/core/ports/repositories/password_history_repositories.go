package repositories

import (
	"context"

	"github.com/sloth-platform/sloth-users/internal/core/domain"
)

// PasswordHistoryRepository provides access to the append-only passwords table.
type PasswordHistoryRepository interface {
	// AppendPassword records a newly set password hash for the user.
	AppendPassword(ctx context.Context, userID string, passwordHash string) error

	// FindPasswordHistory returns every historical hash for the user,
	// oldest first.
	FindPasswordHistory(ctx context.Context, userID string) ([]domain.PasswordHistoryEntry, error)
}
