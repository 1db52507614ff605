package repositories

import (
	"context"

	"github.com/sloth-platform/sloth-users/internal/core/domain"
)

// AuditLogRepository records per-request metadata through the audit procedure.
type AuditLogRepository interface {
	LogRequest(ctx context.Context, info domain.RequestInfo) error
}
