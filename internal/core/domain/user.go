package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a user of the platform in the domain.
type User struct {
	UserID       string `json:"userID"` // Primary Key (UUID)
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Phone        string `json:"phone"`
	IsVerified   bool   `json:"isVerified"`
	// Rating is optional and bounded to [1.00, 5.00] with two decimal places.
	Rating    *decimal.Decimal `json:"rating,omitempty"`
	Role      string           `json:"role"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// PasswordHistoryEntry is one append-only row of a user's password history.
// Entries are never mutated or deleted; they exist to block password reuse.
type PasswordHistoryEntry struct {
	UserID       string
	PasswordHash string
	CreatedAt    time.Time
}

// RequestInfo carries per-request metadata persisted for auditing.
type RequestInfo struct {
	UserAgent *string
	Cookie    *string
	RealIP    *string
	Referer   *string
}
