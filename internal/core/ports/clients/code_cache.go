package clients

import (
	"context"
	"time"
)

// CodeCache is the short-lived key/value store holding verification codes
// and password reset tokens. Entries are deleted on successful consumption.
type CodeCache interface {
	SetVerificationCode(ctx context.Context, email string, code string, ttl time.Duration) error
	GetVerificationCode(ctx context.Context, email string) (string, error)
	DeleteVerificationCode(ctx context.Context, email string) error

	GetResetToken(ctx context.Context, email string) (string, error)
	DeleteResetToken(ctx context.Context, email string) error
}
