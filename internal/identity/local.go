package identity

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/selcuk/alumnihub/internal/app/models"
	"github.com/selcuk/alumnihub/internal/app/repositories"
	"github.com/selcuk/alumnihub/internal/pkg/apperrors"
	"github.com/selcuk/alumnihub/internal/pkg/auth"
)

// LocalProvider implements Provider on the local users table. UIDs are the
// decimal form of the users.id column.
type LocalProvider struct {
	userRepo   *repositories.UserRepository
	jwtService *auth.JWTService
}

// NewLocalProvider creates a LocalProvider.
func NewLocalProvider(userRepo *repositories.UserRepository, jwtService *auth.JWTService) *LocalProvider {
	return &LocalProvider{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

func (p *LocalProvider) CreateUser(ctx context.Context, username, email, password, displayName string) (*UserInfo, error) {
	if username == "" || email == "" || password == "" {
		return nil, apperrors.NewBadRequestError("username, email and password are required")
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:    username,
		Email:       email,
		Password:    hashed,
		DisplayName: displayName,
		RoleType:    models.RoleViewer,
	}
	if err := p.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUsernameAlreadyExists) {
			return nil, apperrors.ErrUsernameAlreadyExists
		}
		if errors.Is(err, repositories.ErrEmailAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return userInfo(user), nil
}

func (p *LocalProvider) VerifyToken(ctx context.Context, token string) (*TokenInfo, error) {
	claims, err := p.jwtService.ValidateAndExtractClaims(token)
	if err != nil {
		return nil, err
	}

	// The account must still exist and be enabled
	user, err := p.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, err
	}
	if user.Disabled {
		return nil, apperrors.ErrAccountDisabled
	}

	return &TokenInfo{
		UID:      strconv.FormatInt(user.ID, 10),
		Username: user.Username,
		Role:     string(user.RoleType),
	}, nil
}

func (p *LocalProvider) GetUser(ctx context.Context, uid string) (*UserInfo, error) {
	user, err := p.lookup(ctx, uid)
	if err != nil {
		return nil, err
	}
	return userInfo(user), nil
}

func (p *LocalProvider) UpdateUser(ctx context.Context, uid string, update UserUpdate) (*UserInfo, error) {
	user, err := p.lookup(ctx, uid)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if update.Email != nil {
		fields["email"] = *update.Email
	}
	if update.DisplayName != nil {
		fields["display_name"] = *update.DisplayName
	}
	if update.Disabled != nil {
		fields["disabled"] = *update.Disabled
	}
	if update.Password != nil {
		hashed, err := auth.HashPassword(*update.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		fields["password"] = hashed
	}

	if err := p.userRepo.UpdateFields(ctx, user.ID, fields); err != nil {
		if errors.Is(err, repositories.ErrEmailAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	return p.GetUser(ctx, uid)
}

func (p *LocalProvider) DeleteUser(ctx context.Context, uid string) error {
	user, err := p.lookup(ctx, uid)
	if err != nil {
		return err
	}
	if err := p.userRepo.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("error deleting user: %w", err)
	}
	return nil
}

func (p *LocalProvider) lookup(ctx context.Context, uid string) (*models.User, error) {
	id, err := strconv.ParseInt(uid, 10, 64)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid user id")
	}
	user, err := p.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func userInfo(user *models.User) *UserInfo {
	return &UserInfo{
		UID:         strconv.FormatInt(user.ID, 10),
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Disabled:    user.Disabled,
	}
}
