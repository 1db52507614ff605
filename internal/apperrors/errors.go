package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthenticated indicates a missing or malformed bearer token.
var ErrUnauthenticated = errors.New("missing or invalid access token")

// ErrInvalidToken indicates the external verifier rejected the access token.
var ErrInvalidToken = errors.New("invalid access token")

// ErrTokenExpired indicates the access token expired and a refresh may be attempted.
var ErrTokenExpired = errors.New("access token expired")

// ErrRefreshTokenInvalid indicates the refresh token was rejected by the auth service.
var ErrRefreshTokenInvalid = errors.New("refresh token is invalid or expired")

// ErrAuthUnavailable indicates the external auth service could not be reached.
// It is a transport failure, never an authorization decision.
var ErrAuthUnavailable = errors.New("auth service is unavailable")

// ErrResetTokenInvalid indicates the password reset token failed validation.
var ErrResetTokenInvalid = errors.New("invalid reset token")

// ErrResetTokenExpired indicates the password reset token has expired.
var ErrResetTokenExpired = errors.New("reset token has expired")

// ErrPasswordReused indicates the new password matches an entry in the user's password history.
var ErrPasswordReused = errors.New("password was already used")

// ErrCodeMismatch indicates the submitted verification code does not match the stored one.
var ErrCodeMismatch = errors.New("verification codes do not match")
