package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/selcuk/alumnihub/internal/app/models/dto"
	"github.com/selcuk/alumnihub/internal/app/repositories"
	"github.com/selcuk/alumnihub/internal/pkg/apperrors"
	"github.com/selcuk/alumnihub/internal/pkg/auth"
	"github.com/selcuk/alumnihub/internal/pkg/logger"
)

// minPasswordLength is the minimum accepted password length.
const minPasswordLength = 6

// AuthService implements admin authentication operations.
type AuthService struct {
	userRepo   *repositories.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo *repositories.UserRepository, jwtService *auth.JWTService) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Login verifies admin credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.Disabled {
		return nil, apperrors.ErrAccountDisabled
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	logger.Info().Str("username", user.Username).Msg("Admin logged in")
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	}, nil
}

// ChangePassword verifies the current password and stores a new one. The new
// password must meet the minimum length and match its confirmation.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, req dto.ChangePasswordRequest) error {
	if len(req.NewPassword) < minPasswordLength {
		return apperrors.NewValidationError(fmt.Sprintf("new password must be at least %d characters", minPasswordLength))
	}
	if req.NewPassword != req.ConfirmPassword {
		return apperrors.NewValidationError("password confirmation does not match")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.CurrentPassword) {
		return apperrors.ErrInvalidCredentials
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	logger.Info().Str("username", user.Username).Msg("Admin password changed")
	return nil
}
