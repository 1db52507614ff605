package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User mirrors the row shape returned by the user store functions.
type User struct {
	ID         string              `db:"id"`
	Username   string              `db:"username"`
	Email      string              `db:"email"`
	HashedPass string              `db:"hashed_pass"`
	Phone      string              `db:"phone"`
	IsVerified bool                `db:"is_verified"`
	Rating     decimal.NullDecimal `db:"rating"`
	Role       string              `db:"role"`
	CreatedAt  time.Time           `db:"created_at"`
	UpdatedAt  time.Time           `db:"updated_at"`
}

// PasswordHistoryEntry mirrors a row of the append-only passwords table.
type PasswordHistoryEntry struct {
	UserID     string    `db:"user_id"`
	HashedPass string    `db:"hashed_pass"`
	CreatedAt  time.Time `db:"created_at"`
}
