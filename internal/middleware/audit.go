package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/sloth-platform/sloth-users/internal/core/domain"
	portsrepo "github.com/sloth-platform/sloth-users/internal/core/ports/repositories"
)

// RequestAudit persists per-request metadata through the audit procedure.
// Audit failures are logged and never fail the request.
func RequestAudit(auditRepo portsrepo.AuditLogRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		info := domain.RequestInfo{
			UserAgent: headerPtr(c, "User-Agent"),
			Cookie:    headerPtr(c, "Cookie"),
			RealIP:    headerPtr(c, "X-Real-Ip"),
			Referer:   headerPtr(c, "Referer"),
		}

		if err := auditRepo.LogRequest(c.Request.Context(), info); err != nil {
			GetLoggerFromCtx(c.Request.Context()).Warn("Failed to persist request audit entry", slog.String("error", err.Error()))
		}

		c.Next()
	}
}

func headerPtr(c *gin.Context, name string) *string {
	v := c.GetHeader(name)
	if v == "" {
		return nil
	}
	return &v
}
