package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sloth-platform/sloth-users/internal/apperrors"
	"github.com/sloth-platform/sloth-users/internal/core/domain"
	portsrepo "github.com/sloth-platform/sloth-users/internal/core/ports/repositories"
	"github.com/sloth-platform/sloth-users/internal/models"
)

// PgxUserRepository reaches the users schema exclusively through its stored
// procedures and functions; table shapes beyond the returned row sets are
// opaque to this service.
type PgxUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{db: db}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

// Helper to convert models.User to domain.User
func toDomainUser(m models.User) domain.User {
	var rating *decimal.Decimal
	if m.Rating.Valid {
		r := m.Rating.Decimal
		rating = &r
	}
	return domain.User{
		UserID:       m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.HashedPass,
		Phone:        m.Phone,
		IsVerified:   m.IsVerified,
		Rating:       rating,
		Role:         m.Role,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func scanUserRow(row pgx.Row) (*models.User, error) {
	var m models.User
	err := row.Scan(
		&m.ID,
		&m.Username,
		&m.Email,
		&m.HashedPass,
		&m.Phone,
		&m.IsVerified,
		&m.Rating,
		&m.Role,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateUser runs the create procedure. The procedure assigns the ID and
// returns it via its INOUT parameter.
func (r *PgxUserRepository) CreateUser(ctx context.Context, user domain.User) (string, error) {
	var rating decimal.NullDecimal
	if user.Rating != nil {
		rating = decimal.NullDecimal{Decimal: *user.Rating, Valid: true}
	}

	var userID string
	err := r.db.QueryRow(ctx,
		`CALL create_user_procedure($1, $2, $3, $4, $5, $6, $7, NULL)`,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Phone,
		user.IsVerified,
		rating,
		user.Role,
	).Scan(&userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", fmt.Errorf("user with this email or username already exists: %w", apperrors.ErrDuplicate)
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}
	return userID, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	m, err := scanUserRow(r.db.QueryRow(ctx, `SELECT * FROM get_user_by_id($1)`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}

	domainUser := toDomainUser(*m)
	return &domainUser, nil
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	m, err := scanUserRow(r.db.QueryRow(ctx, `SELECT * FROM get_user_by_email($1)`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	domainUser := toDomainUser(*m)
	return &domainUser, nil
}

func (r *PgxUserRepository) FindUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `SELECT * FROM get_all_users()`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		m, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, toDomainUser(*m))
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", rows.Err())
	}

	return users, nil
}

// UpdateUser runs the update procedure with positional nullable parameters.
// NULL parameters keep the stored value; the merge happens inside a single
// UPDATE, so concurrent updates never see a read-modify-write window.
func (r *PgxUserRepository) UpdateUser(ctx context.Context, userID string, patch domain.UserPatch) error {
	var rating decimal.NullDecimal
	if patch.Rating != nil {
		rating = decimal.NullDecimal{Decimal: *patch.Rating, Valid: true}
	}

	_, err := r.db.Exec(ctx,
		`CALL update_user_procedure($1, $2, $3, $4, $5, $6, $7, $8)`,
		userID,
		patch.Username,
		patch.Email,
		patch.Phone,
		patch.IsVerified,
		rating,
		patch.Role,
		patch.PasswordHash,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return fmt.Errorf("user with this email or username already exists: %w", apperrors.ErrDuplicate)
			case "P0002":
				return fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
			}
		}
		return fmt.Errorf("failed to execute update user procedure: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) MarkUserVerified(ctx context.Context, userID string) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE users SET is_verified = TRUE, updated_at = NOW() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	return nil
}

// DeleteUser calls the delete function, which raises when no row matches.
// The raised condition, not an affected-row count, signals not-found.
func (r *PgxUserRepository) DeleteUser(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `SELECT delete_user_by_id($1)`, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && (pgErr.Code == "P0001" || pgErr.Code == "P0002") {
			return fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
