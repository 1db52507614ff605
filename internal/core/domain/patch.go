package domain

import "github.com/shopspring/decimal"

// UserPatch is a sparse set of user fields for partial updates.
// A nil field means "keep the stored value"; the store coalesces nils
// inside a single UPDATE so the merge never spans two round trips.
type UserPatch struct {
	Username     *string
	Email        *string
	Phone        *string
	IsVerified   *bool
	Rating       *decimal.Decimal
	Role         *string
	PasswordHash *string
}
