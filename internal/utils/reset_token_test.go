package utils_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sloth-platform/sloth-users/internal/apperrors"
	"github.com/sloth-platform/sloth-users/internal/utils"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifyPasswordResetToken_Valid(t *testing.T) {
	token := signToken(t, testSecret, jwt.RegisteredClaims{
		Subject:   "user-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	userID, err := utils.VerifyPasswordResetToken(token, testSecret)

	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestVerifyPasswordResetToken_Expired(t *testing.T) {
	token := signToken(t, testSecret, jwt.RegisteredClaims{
		Subject:   "user-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})

	_, err := utils.VerifyPasswordResetToken(token, testSecret)

	assert.ErrorIs(t, err, apperrors.ErrResetTokenExpired)
}

func TestVerifyPasswordResetToken_WrongSecret(t *testing.T) {
	token := signToken(t, "some-other-secret", jwt.RegisteredClaims{
		Subject:   "user-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	_, err := utils.VerifyPasswordResetToken(token, testSecret)

	assert.ErrorIs(t, err, apperrors.ErrResetTokenInvalid)
}

func TestVerifyPasswordResetToken_MissingSubject(t *testing.T) {
	token := signToken(t, testSecret, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	_, err := utils.VerifyPasswordResetToken(token, testSecret)

	assert.ErrorIs(t, err, apperrors.ErrResetTokenInvalid)
}

func TestVerifyPasswordResetToken_Garbage(t *testing.T) {
	_, err := utils.VerifyPasswordResetToken("not.a.jwt", testSecret)

	assert.ErrorIs(t, err, apperrors.ErrResetTokenInvalid)
}

func TestGenerateVerificationCode_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 50; i++ {
		code, err := utils.GenerateVerificationCode()
		require.NoError(t, err)
		assert.True(t, pattern.MatchString(code), "code %q is not 6 digits", code)
	}
}

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := utils.HashPassword("hunter22hunter22")
	require.NoError(t, err)

	assert.NotEqual(t, "hunter22hunter22", hash)
	assert.True(t, utils.CheckPasswordHash("hunter22hunter22", hash))
	assert.False(t, utils.CheckPasswordHash("hunter23hunter23", hash))
}
