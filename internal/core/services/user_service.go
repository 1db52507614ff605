package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sloth-platform/sloth-users/internal/apperrors"
	"github.com/sloth-platform/sloth-users/internal/core/domain"
	"github.com/sloth-platform/sloth-users/internal/core/ports/clients"
	portsrepo "github.com/sloth-platform/sloth-users/internal/core/ports/repositories"
	portssvc "github.com/sloth-platform/sloth-users/internal/core/ports/services"
	"github.com/sloth-platform/sloth-users/internal/dto"
	"github.com/sloth-platform/sloth-users/internal/middleware"
	"github.com/sloth-platform/sloth-users/internal/utils"
)

// UserService orchestrates user CRUD, email verification and the password
// reset flows. Identity and token concerns are delegated to the external
// auth service through the client port.
type UserService struct {
	userRepo    portsrepo.UserRepositoryFacade
	historyRepo portsrepo.PasswordHistoryRepository
	codeCache   clients.CodeCache
	authClient  clients.AuthServiceClient

	resetTokenSecret string
	codeTTL          time.Duration
}

func NewUserService(
	userRepo portsrepo.UserRepositoryFacade,
	historyRepo portsrepo.PasswordHistoryRepository,
	codeCache clients.CodeCache,
	authClient clients.AuthServiceClient,
	resetTokenSecret string,
	codeTTL time.Duration,
) *UserService {
	return &UserService{
		userRepo:         userRepo,
		historyRepo:      historyRepo,
		codeCache:        codeCache,
		authClient:       authClient,
		resetTokenSecret: resetTokenSecret,
		codeTTL:          codeTTL,
	}
}

var _ portssvc.UserSvcFacade = (*UserService)(nil)

// CreateUser hashes the plaintext password, persists the user through the
// create procedure, seeds the password history, places a verification code
// in the cache and asks the auth service for the initial token pair.
func (s *UserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, *clients.TokenPair, error) {
	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser := domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Phone:        req.Phone,
		IsVerified:   req.IsVerified,
		Rating:       req.Rating,
		Role:         req.Role,
	}

	userID, err := s.userRepo.CreateUser(ctx, newUser)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("failed to create user in service: %w", err)
	}

	if err := s.historyRepo.AppendPassword(ctx, userID, passwordHash); err != nil {
		return nil, nil, fmt.Errorf("failed to seed password history: %w", err)
	}

	// Code placement is best effort; the auth collaborator owns delivery.
	// The user can still request verification later, so failures are
	// logged and never abort the signup.
	logger := middleware.GetLoggerFromCtx(ctx)
	if code, codeErr := utils.GenerateVerificationCode(); codeErr != nil {
		logger.Warn("Failed to generate verification code", slog.String("error", codeErr.Error()))
	} else if cacheErr := s.codeCache.SetVerificationCode(ctx, req.Email, code, s.codeTTL); cacheErr != nil {
		logger.Warn("Failed to store verification code", slog.String("error", cacheErr.Error()))
	}

	pair, err := s.authClient.Login(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to issue initial tokens: %w", err)
	}

	created, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load created user: %w", err)
	}

	return created, pair, nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user by ID in service: %w", err)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.FindUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users in service: %w", err)
	}
	return users, nil
}

// UpdateUser applies a partial update. Omitted fields keep their stored
// values; the merge itself happens inside the update procedure in a single
// statement. A supplied password is hashed before the merge. The password
// history check is deliberately not applied here, only in the reset flow.
func (s *UserService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load user for update: %w", err)
	}

	patch := domain.UserPatch{
		Username:   req.Username,
		Email:      req.Email,
		Phone:      req.Phone,
		IsVerified: req.IsVerified,
		Rating:     req.Rating,
		Role:       req.Role,
	}

	if req.Password != nil {
		passwordHash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		patch.PasswordHash = &passwordHash
	}

	if err := s.userRepo.UpdateUser(ctx, userID, patch); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update user in service: %w", err)
	}

	updated, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load updated user: %w", err)
	}
	return updated, nil
}

func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	err := s.userRepo.DeleteUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete user in service: %w", err)
	}
	return nil
}

// VerifyCode compares the submitted code against the cached one for the
// user's email. On an exact match the user is marked verified and the
// cache entry is consumed. A missing entry counts as a mismatch.
func (s *UserService) VerifyCode(ctx context.Context, userID string, code string) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to load user for verification: %w", err)
	}

	storedCode, err := s.codeCache.GetVerificationCode(ctx, user.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrCodeMismatch
		}
		return fmt.Errorf("failed to read verification code: %w", err)
	}

	if storedCode != code {
		return apperrors.ErrCodeMismatch
	}

	if err := s.userRepo.MarkUserVerified(ctx, userID); err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}

	if err := s.codeCache.DeleteVerificationCode(ctx, user.Email); err != nil {
		return fmt.Errorf("failed to evict verification code: %w", err)
	}

	return nil
}

// RequestPasswordReset checks email existence locally before asking the
// auth service to dispatch a reset link. The returned bool tells the
// handler whether the email was known; the response body must stay generic
// either way to avoid revealing account existence.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) (bool, error) {
	_, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up email for reset: %w", err)
	}

	if err := s.authClient.SendPasswordResetLink(ctx, email); err != nil {
		return true, err
	}

	return true, nil
}

// ResetPassword consumes the cached reset token for the email, rejects any
// password present in the user's history and sets the new credential. Both
// the live credential and the history are written so login and
// reuse-checking stay consistent.
func (s *UserService) ResetPassword(ctx context.Context, email string, newPassword string) error {
	storedToken, err := s.codeCache.GetResetToken(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrResetTokenInvalid
		}
		return fmt.Errorf("failed to read reset token: %w", err)
	}

	userID, err := utils.VerifyPasswordResetToken(storedToken, s.resetTokenSecret)
	if err != nil {
		return err
	}

	history, err := s.historyRepo.FindPasswordHistory(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load password history: %w", err)
	}
	for _, entry := range history {
		if utils.CheckPasswordHash(newPassword, entry.PasswordHash) {
			return fmt.Errorf("%w: previously set on %s",
				apperrors.ErrPasswordReused, entry.CreatedAt.Format("2006-01-02 15:04:05"))
		}
	}

	passwordHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.userRepo.UpdateUser(ctx, userID, domain.UserPatch{PasswordHash: &passwordHash}); err != nil {
		return fmt.Errorf("failed to update credential: %w", err)
	}

	if err := s.historyRepo.AppendPassword(ctx, userID, passwordHash); err != nil {
		return fmt.Errorf("failed to append password history: %w", err)
	}

	if err := s.codeCache.DeleteResetToken(ctx, email); err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	return nil
}
