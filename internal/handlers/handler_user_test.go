package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sloth-platform/sloth-users/internal/adapters/authsvc"
	"github.com/sloth-platform/sloth-users/internal/apperrors"
	"github.com/sloth-platform/sloth-users/internal/core/domain"
	"github.com/sloth-platform/sloth-users/internal/core/ports/clients"
	portssvc "github.com/sloth-platform/sloth-users/internal/core/ports/services"
	"github.com/sloth-platform/sloth-users/internal/dto"
	"github.com/sloth-platform/sloth-users/internal/handlers"
	"github.com/sloth-platform/sloth-users/internal/platform/config"
)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, *clients.TokenPair, error) {
	args := m.Called(ctx, req)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	var pair *clients.TokenPair
	if args.Get(1) != nil {
		pair = args.Get(1).(*clients.TokenPair)
	}
	return user, pair, args.Error(2)
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserService) VerifyCode(ctx context.Context, userID string, code string) error {
	args := m.Called(ctx, userID, code)
	return args.Error(0)
}

func (m *MockUserService) RequestPasswordReset(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) ResetPassword(ctx context.Context, email string, newPassword string) error {
	args := m.Called(ctx, email, newPassword)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Stub verifier: every bearer token resolves to its own value ---
type stubVerifier struct{}

func (stubVerifier) VerifyToken(ctx context.Context, accessToken string) (string, error) {
	return "authenticated-user", nil
}

func (stubVerifier) RefreshToken(ctx context.Context, refreshToken string) (*clients.TokenPair, error) {
	return nil, apperrors.ErrRefreshTokenInvalid
}

// --- Test Suite ---
type UserHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockUserService *MockUserService
}

func (suite *UserHandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	dto.RegisterCustomValidations()
}

func (suite *UserHandlerTestSuite) SetupTest() {
	suite.router = gin.New()
	suite.mockUserService = new(MockUserService)

	cfg := &config.Config{ServiceName: "users", IsProduction: true}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handlers.RegisterRoutes(suite.router, cfg, suite.mockUserService, stubVerifier{}, logger)
}

func (suite *UserHandlerTestSuite) performRequest(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	return rec
}

func testUser(userID string) *domain.User {
	return &domain.User{
		UserID:     userID,
		Username:   "slothrider",
		Email:      "sloth@example.com",
		Phone:      "+14155552671",
		IsVerified: false,
		Role:       "member",
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
}

// --- CreateUser Tests ---
func (suite *UserHandlerTestSuite) TestCreateUser_Success() {
	userID := uuid.NewString()
	reqBody := dto.CreateUserRequest{
		Username: "slothrider",
		Email:    "sloth@example.com",
		Password: "password123",
		Phone:    "+14155552671",
		Role:     "member",
	}

	suite.mockUserService.On("CreateUser", mock.Anything, reqBody).
		Return(testUser(userID), &clients.TokenPair{AccessToken: "tok", TokenType: "bearer"}, nil).Once()

	rec := suite.performRequest(http.MethodPost, "/api/v1/users", reqBody)

	suite.Equal(http.StatusCreated, rec.Code)

	var resp dto.CreateUserResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	suite.Equal(userID, resp.ID)
	suite.Equal("tok", resp.AccessToken)
	suite.Equal("bearer", resp.TokenType)
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *UserHandlerTestSuite) TestCreateUser_InvalidPhone() {
	reqBody := map[string]any{
		"username": "slothrider",
		"email":    "sloth@example.com",
		"password": "password123",
		"phone":    "not-a-phone",
		"role":     "member",
	}

	rec := suite.performRequest(http.MethodPost, "/api/v1/users", reqBody)

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.mockUserService.AssertNotCalled(suite.T(), "CreateUser", mock.Anything, mock.Anything)
}

func (suite *UserHandlerTestSuite) TestCreateUser_RatingOutOfRange() {
	reqBody := map[string]any{
		"username": "slothrider",
		"email":    "sloth@example.com",
		"password": "password123",
		"phone":    "+14155552671",
		"role":     "member",
		"rating":   5.5,
	}

	rec := suite.performRequest(http.MethodPost, "/api/v1/users", reqBody)

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.mockUserService.AssertNotCalled(suite.T(), "CreateUser", mock.Anything, mock.Anything)
}

func (suite *UserHandlerTestSuite) TestCreateUser_Duplicate() {
	reqBody := dto.CreateUserRequest{
		Username: "slothrider",
		Email:    "taken@example.com",
		Password: "password123",
		Phone:    "+14155552671",
		Role:     "member",
	}

	suite.mockUserService.On("CreateUser", mock.Anything, reqBody).
		Return(nil, nil, apperrors.ErrDuplicate).Once()

	rec := suite.performRequest(http.MethodPost, "/api/v1/users", reqBody)

	suite.Equal(http.StatusConflict, rec.Code)
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *UserHandlerTestSuite) TestCreateUser_AuthUnavailable() {
	reqBody := dto.CreateUserRequest{
		Username: "slothrider",
		Email:    "sloth@example.com",
		Password: "password123",
		Phone:    "+14155552671",
		Role:     "member",
	}

	suite.mockUserService.On("CreateUser", mock.Anything, reqBody).
		Return(nil, nil, fmt.Errorf("failed to issue initial tokens: %w", apperrors.ErrAuthUnavailable)).Once()

	rec := suite.performRequest(http.MethodPost, "/api/v1/users", reqBody)

	suite.Equal(http.StatusBadGateway, rec.Code)
	suite.Contains(rec.Body.String(), "Failed to create tokens in auth service")
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *UserHandlerTestSuite) TestCreateUser_AuthRejectsTokenIssuance() {
	reqBody := dto.CreateUserRequest{
		Username: "slothrider",
		Email:    "sloth@example.com",
		Password: "password123",
		Phone:    "+14155552671",
		Role:     "member",
	}

	statusErr := &authsvc.StatusError{StatusCode: http.StatusInternalServerError, Message: "token store down"}
	suite.mockUserService.On("CreateUser", mock.Anything, reqBody).
		Return(nil, nil, fmt.Errorf("failed to issue initial tokens: %w", statusErr)).Once()

	rec := suite.performRequest(http.MethodPost, "/api/v1/users", reqBody)

	suite.Equal(http.StatusBadGateway, rec.Code)
	suite.Contains(rec.Body.String(), "Failed to create tokens in auth service")
	suite.Contains(rec.Body.String(), "token store down")
	suite.mockUserService.AssertExpectations(suite.T())
}

// --- GetUser Tests ---
func (suite *UserHandlerTestSuite) TestGetUser_Success() {
	userID := uuid.NewString()
	suite.mockUserService.On("GetUserByID", mock.Anything, userID).Return(testUser(userID), nil).Once()

	rec := suite.performRequest(http.MethodGet, "/api/v1/users/"+userID, nil)

	suite.Equal(http.StatusOK, rec.Code)

	var resp dto.UserResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	suite.Equal(userID, resp.ID)
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *UserHandlerTestSuite) TestGetUser_NotFound() {
	userID := uuid.NewString()
	suite.mockUserService.On("GetUserByID", mock.Anything, userID).Return(nil, apperrors.ErrNotFound).Once()

	rec := suite.performRequest(http.MethodGet, "/api/v1/users/"+userID, nil)

	suite.Equal(http.StatusNotFound, rec.Code)
	suite.mockUserService.AssertExpectations(suite.T())
}

// --- ListUsers Tests ---
func (suite *UserHandlerTestSuite) TestListUsers_Success() {
	users := []domain.User{*testUser(uuid.NewString()), *testUser(uuid.NewString())}
	suite.mockUserService.On("ListUsers", mock.Anything).Return(users, nil).Once()

	rec := suite.performRequest(http.MethodGet, "/api/v1/users", nil)

	suite.Equal(http.StatusOK, rec.Code)

	var resp dto.ListUsersResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	suite.Len(resp.Users, 2)
	suite.mockUserService.AssertExpectations(suite.T())
}

// --- UpdateUser Tests ---
func (suite *UserHandlerTestSuite) TestUpdateUser_Success() {
	userID := uuid.NewString()
	newUsername := "renamed"
	reqBody := dto.UpdateUserRequest{Username: &newUsername}

	updated := testUser(userID)
	updated.Username = newUsername
	suite.mockUserService.On("UpdateUser", mock.Anything, userID, reqBody).Return(updated, nil).Once()

	rec := suite.performRequest(http.MethodPatch, "/api/v1/users/"+userID, reqBody)

	suite.Equal(http.StatusOK, rec.Code)

	var resp dto.UserResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	suite.Equal(newUsername, resp.Username)
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *UserHandlerTestSuite) TestUpdateUser_NotFound() {
	userID := uuid.NewString()
	newUsername := "renamed"
	reqBody := dto.UpdateUserRequest{Username: &newUsername}

	suite.mockUserService.On("UpdateUser", mock.Anything, userID, reqBody).Return(nil, apperrors.ErrNotFound).Once()

	rec := suite.performRequest(http.MethodPatch, "/api/v1/users/"+userID, reqBody)

	suite.Equal(http.StatusNotFound, rec.Code)
	suite.mockUserService.AssertExpectations(suite.T())
}

// --- DeleteUser Tests ---
func (suite *UserHandlerTestSuite) TestDeleteUser_Success() {
	userID := uuid.NewString()
	suite.mockUserService.On("DeleteUser", mock.Anything, userID).Return(nil).Once()

	rec := suite.performRequest(http.MethodDelete, "/api/v1/users/"+userID, nil)

	suite.Equal(http.StatusNoContent, rec.Code)
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *UserHandlerTestSuite) TestDeleteUser_NotFound() {
	userID := uuid.NewString()
	suite.mockUserService.On("DeleteUser", mock.Anything, userID).Return(apperrors.ErrNotFound).Once()

	rec := suite.performRequest(http.MethodDelete, "/api/v1/users/"+userID, nil)

	suite.Equal(http.StatusNotFound, rec.Code)
	suite.mockUserService.AssertExpectations(suite.T())
}

// --- VerifyCode Tests ---
func (suite *UserHandlerTestSuite) TestVerifyCode_Success() {
	userID := uuid.NewString()
	suite.mockUserService.On("VerifyCode", mock.Anything, userID, "123456").Return(nil).Once()

	rec := suite.performRequest(http.MethodPost, "/api/v1/users/verify_code/"+userID+"?verification_code=123456", nil)

	suite.Equal(http.StatusOK, rec.Code)

	var resp dto.VerifyCodeResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	suite.True(resp.IsVerified)
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *UserHandlerTestSuite) TestVerifyCode_Mismatch() {
	userID := uuid.NewString()
	suite.mockUserService.On("VerifyCode", mock.Anything, userID, "000000").Return(apperrors.ErrCodeMismatch).Once()

	rec := suite.performRequest(http.MethodPost, "/api/v1/users/verify_code/"+userID+"?verification_code=000000", nil)

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Contains(rec.Body.String(), "Verification codes do not match")
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *UserHandlerTestSuite) TestVerifyCode_MissingCode() {
	userID := uuid.NewString()

	rec := suite.performRequest(http.MethodPost, "/api/v1/users/verify_code/"+userID, nil)

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.mockUserService.AssertNotCalled(suite.T(), "VerifyCode", mock.Anything, mock.Anything, mock.Anything)
}

// --- Run Suite ---
func TestUserHandler(t *testing.T) {
	suite.Run(t, new(UserHandlerTestSuite))
}
