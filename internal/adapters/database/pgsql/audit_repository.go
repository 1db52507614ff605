package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sloth-platform/sloth-users/internal/core/domain"
	portsrepo "github.com/sloth-platform/sloth-users/internal/core/ports/repositories"
)

// PgxAuditRepository invokes the request audit procedure.
type PgxAuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *PgxAuditRepository {
	return &PgxAuditRepository{db: db}
}

var _ portsrepo.AuditLogRepository = (*PgxAuditRepository)(nil)

func (r *PgxAuditRepository) LogRequest(ctx context.Context, info domain.RequestInfo) error {
	_, err := r.db.Exec(ctx,
		`CALL log_request_procedure($1, $2, $3, $4)`,
		info.UserAgent,
		info.Cookie,
		info.RealIP,
		info.Referer,
	)
	if err != nil {
		return fmt.Errorf("failed to log request: %w", err)
	}
	return nil
}
