package utils

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sloth-platform/sloth-users/internal/apperrors"
)

// VerifyPasswordResetToken parses a reset token issued by the auth service
// and returns the user ID it was issued for. Tokens are HS256-signed with
// the shared secret and carry the user ID in the subject claim.
func VerifyPasswordResetToken(tokenString string, secret string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperrors.ErrResetTokenExpired
		}
		return "", apperrors.ErrResetTokenInvalid
	}

	if !token.Valid || claims.Subject == "" {
		return "", apperrors.ErrResetTokenInvalid
	}

	return claims.Subject, nil
}
