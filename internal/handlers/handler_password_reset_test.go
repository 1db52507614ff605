package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sloth-platform/sloth-users/internal/adapters/authsvc"
	"github.com/sloth-platform/sloth-users/internal/apperrors"
	"github.com/sloth-platform/sloth-users/internal/dto"
)

type PasswordResetHandlerTestSuite struct {
	UserHandlerTestSuite
}

func (suite *PasswordResetHandlerTestSuite) TestRequestPasswordReset_KnownEmail() {
	reqBody := dto.RequestPasswordResetRequest{Email: "known@example.com"}
	suite.mockUserService.On("RequestPasswordReset", mock.Anything, reqBody.Email).Return(true, nil).Once()

	rec := suite.performRequest(http.MethodPost, "/api/v1/users/request_password_reset", reqBody)

	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), "A password reset link has been sent")
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *PasswordResetHandlerTestSuite) TestRequestPasswordReset_UnknownEmailLooksIdentical() {
	reqBody := dto.RequestPasswordResetRequest{Email: "unknown@example.com"}
	suite.mockUserService.On("RequestPasswordReset", mock.Anything, reqBody.Email).Return(false, nil).Once()

	rec := suite.performRequest(http.MethodPost, "/api/v1/users/request_password_reset", reqBody)

	// Unknown emails must be indistinguishable from known ones.
	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), "A password reset link has been sent")
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *PasswordResetHandlerTestSuite) TestRequestPasswordReset_AuthUnavailable() {
	reqBody := dto.RequestPasswordResetRequest{Email: "known@example.com"}
	suite.mockUserService.On("RequestPasswordReset", mock.Anything, reqBody.Email).
		Return(true, fmt.Errorf("%w: connection refused", apperrors.ErrAuthUnavailable)).Once()

	rec := suite.performRequest(http.MethodPost, "/api/v1/users/request_password_reset", reqBody)

	suite.Equal(http.StatusServiceUnavailable, rec.Code)
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *PasswordResetHandlerTestSuite) TestRequestPasswordReset_UpstreamStatusPreserved() {
	reqBody := dto.RequestPasswordResetRequest{Email: "known@example.com"}
	suite.mockUserService.On("RequestPasswordReset", mock.Anything, reqBody.Email).
		Return(true, &authsvc.StatusError{StatusCode: http.StatusBadGateway, Message: "mailer down"}).Once()

	rec := suite.performRequest(http.MethodPost, "/api/v1/users/request_password_reset", reqBody)

	suite.Equal(http.StatusBadGateway, rec.Code)
	suite.Contains(rec.Body.String(), "mailer down")
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *PasswordResetHandlerTestSuite) TestResetPassword_Success() {
	reqBody := dto.ResetPasswordRequest{Email: "reset@example.com", NewPassword: "brandnewpass1"}
	suite.mockUserService.On("ResetPassword", mock.Anything, reqBody.Email, reqBody.NewPassword).Return(nil).Once()

	rec := suite.performRequest(http.MethodPost, "/api/v1/users/reset_password", reqBody)

	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), "Password changed successfully")
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *PasswordResetHandlerTestSuite) TestResetPassword_ExpiredToken() {
	reqBody := dto.ResetPasswordRequest{Email: "reset@example.com", NewPassword: "brandnewpass1"}
	suite.mockUserService.On("ResetPassword", mock.Anything, reqBody.Email, reqBody.NewPassword).
		Return(apperrors.ErrResetTokenExpired).Once()

	rec := suite.performRequest(http.MethodPost, "/api/v1/users/reset_password", reqBody)

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Contains(rec.Body.String(), "Reset token has expired")
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *PasswordResetHandlerTestSuite) TestResetPassword_InvalidToken() {
	reqBody := dto.ResetPasswordRequest{Email: "reset@example.com", NewPassword: "brandnewpass1"}
	suite.mockUserService.On("ResetPassword", mock.Anything, reqBody.Email, reqBody.NewPassword).
		Return(apperrors.ErrResetTokenInvalid).Once()

	rec := suite.performRequest(http.MethodPost, "/api/v1/users/reset_password", reqBody)

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Contains(rec.Body.String(), "Invalid or expired token")
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *PasswordResetHandlerTestSuite) TestResetPassword_ReusedPassword() {
	reqBody := dto.ResetPasswordRequest{Email: "reset@example.com", NewPassword: "reusedpassword1"}
	suite.mockUserService.On("ResetPassword", mock.Anything, reqBody.Email, reqBody.NewPassword).
		Return(fmt.Errorf("%w: previously set on 2026-01-15 10:30:00", apperrors.ErrPasswordReused)).Once()

	rec := suite.performRequest(http.MethodPost, "/api/v1/users/reset_password", reqBody)

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Contains(rec.Body.String(), "previously set on 2026-01-15 10:30:00")
	suite.Contains(rec.Body.String(), "Please choose a different password")
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *PasswordResetHandlerTestSuite) TestResetPassword_ShortPasswordRejected() {
	reqBody := map[string]string{"email": "reset@example.com", "new_password": "short"}

	rec := suite.performRequest(http.MethodPost, "/api/v1/users/reset_password", reqBody)

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.mockUserService.AssertNotCalled(suite.T(), "ResetPassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestPasswordResetHandler(t *testing.T) {
	suite.Run(t, new(PasswordResetHandlerTestSuite))
}
