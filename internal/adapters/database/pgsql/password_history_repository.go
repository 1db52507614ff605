package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sloth-platform/sloth-users/internal/core/domain"
	portsrepo "github.com/sloth-platform/sloth-users/internal/core/ports/repositories"
	"github.com/sloth-platform/sloth-users/internal/models"
)

// PgxPasswordHistoryRepository reads and appends rows of the append-only
// passwords table. Rows are never mutated or deleted.
type PgxPasswordHistoryRepository struct {
	db *pgxpool.Pool
}

func NewPasswordHistoryRepository(db *pgxpool.Pool) *PgxPasswordHistoryRepository {
	return &PgxPasswordHistoryRepository{db: db}
}

var _ portsrepo.PasswordHistoryRepository = (*PgxPasswordHistoryRepository)(nil)

func (r *PgxPasswordHistoryRepository) AppendPassword(ctx context.Context, userID string, passwordHash string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO passwords (user_id, hashed_pass, created_at) VALUES ($1, $2, NOW())`,
		userID, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to append password history: %w", err)
	}
	return nil
}

func (r *PgxPasswordHistoryRepository) FindPasswordHistory(ctx context.Context, userID string) ([]domain.PasswordHistoryEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, hashed_pass, created_at FROM passwords WHERE user_id = $1 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query password history: %w", err)
	}
	defer rows.Close()

	entries := []domain.PasswordHistoryEntry{}
	for rows.Next() {
		var m models.PasswordHistoryEntry
		if err := rows.Scan(&m.UserID, &m.HashedPass, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan password history row: %w", err)
		}
		entries = append(entries, domain.PasswordHistoryEntry{
			UserID:       m.UserID,
			PasswordHash: m.HashedPass,
			CreatedAt:    m.CreatedAt,
		})
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating password history rows: %w", rows.Err())
	}

	return entries, nil
}
