package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_user_service.go -package=mocks english-assistant/internal/service UserService

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"english-assistant/internal/contextutil"
	"english-assistant/internal/storage"
)

// User is an account created through Google sign-in.
type User struct {
	ID        string
	GoogleID  string
	Email     string
	Name      string
	Picture   string
	FirstName string
	LastName  string
	Audience  string
	Language  string
	IsActive  bool
	LastLogin time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GoogleProfile is the identity returned by Google after sign-in.
type GoogleProfile struct {
	GoogleID  string `json:"googleId" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Name      string `json:"name" validate:"max=200"`
	Picture   string `json:"picture"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

// UpdateAudienceParams sets the learner audience.
type UpdateAudienceParams struct {
	Audience string `json:"audience" validate:"required,oneof=student college worker senior"`
}

// UpdateLanguageParams sets the interface language.
type UpdateLanguageParams struct {
	Language string `json:"language" validate:"required,notblank,max=50"`
}

// UpdateProfileParams is a partial profile update. Nil fields are left unchanged.
type UpdateProfileParams struct {
	FirstName *string `json:"firstName" validate:"omitnil,max=100"`
	LastName  *string `json:"lastName" validate:"omitnil,max=100"`
	// Audience may be set to "" to clear it.
	Audience *string `json:"audience" validate:"omitempty,oneof=student college worker senior"`
}

// UserService manages accounts.
type UserService interface {
	// LoginGoogle creates or refreshes the account for a Google identity.
	LoginGoogle(ctx context.Context, profile GoogleProfile) (User, error)
	// Get returns ErrNotFound for unknown users and ErrUnauthorized for inactive ones.
	Get(ctx context.Context, id string) (User, error)
	UpdateAudience(ctx context.Context, id string, params UpdateAudienceParams) (User, error)
	UpdateLanguage(ctx context.Context, id string, params UpdateLanguageParams) (User, error)
	UpdateProfile(ctx context.Context, id string, params UpdateProfileParams) (User, error)
}

// userService implements UserService.
type userService struct {
	store storage.UserStore
}

// NewUserService creates a new UserService.
func NewUserService(store storage.UserStore) UserService {
	return &userService{store: store}
}

func (s *userService) LoginGoogle(ctx context.Context, profile GoogleProfile) (User, error) {
	if err := validateStruct(profile); err != nil {
		return User{}, err
	}

	u := &storage.User{
		GoogleID:  profile.GoogleID,
		Email:     profile.Email,
		Name:      profile.Name,
		Picture:   profile.Picture,
		FirstName: strings.TrimSpace(profile.FirstName),
		LastName:  strings.TrimSpace(profile.LastName),
	}
	if err := s.store.UpsertGoogle(ctx, u); err != nil {
		return User{}, WrapError(err, "failed to save user")
	}
	if !u.IsActive {
		return User{}, fmt.Errorf("account is disabled: %w", ErrUnauthorized)
	}

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "user signed in", "user_id", u.ID)
	return toUser(u), nil
}

func (s *userService) Get(ctx context.Context, id string) (User, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return User{}, err
	}
	return toUser(u), nil
}

func (s *userService) UpdateAudience(ctx context.Context, id string, params UpdateAudienceParams) (User, error) {
	if err := validateStruct(params); err != nil {
		return User{}, err
	}
	return s.update(ctx, id, func(u *storage.User) {
		u.Audience = params.Audience
	})
}

func (s *userService) UpdateLanguage(ctx context.Context, id string, params UpdateLanguageParams) (User, error) {
	params.Language = strings.TrimSpace(params.Language)
	if err := validateStruct(params); err != nil {
		return User{}, err
	}
	return s.update(ctx, id, func(u *storage.User) {
		u.Language = params.Language
	})
}

func (s *userService) UpdateProfile(ctx context.Context, id string, params UpdateProfileParams) (User, error) {
	params.FirstName = trimPtr(params.FirstName)
	params.LastName = trimPtr(params.LastName)
	if err := validateStruct(params); err != nil {
		return User{}, err
	}
	return s.update(ctx, id, func(u *storage.User) {
		if params.FirstName != nil {
			u.FirstName = *params.FirstName
		}
		if params.LastName != nil {
			u.LastName = *params.LastName
		}
		if params.Audience != nil {
			u.Audience = *params.Audience
		}
	})
}

func (s *userService) load(ctx context.Context, id string) (*storage.User, error) {
	u, err := s.store.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, WrapError(err, "failed to get user")
	}
	if !u.IsActive {
		return nil, fmt.Errorf("account is disabled: %w", ErrUnauthorized)
	}
	return u, nil
}

func (s *userService) update(ctx context.Context, id string, apply func(*storage.User)) (User, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return User{}, err
	}
	apply(u)
	if err := s.store.UpdateProfile(ctx, u); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return User{}, WrapError(err, "failed to update user")
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "user profile updated", "user_id", id)
	return toUser(u), nil
}

func toUser(u *storage.User) User {
	return User{
		ID:        u.ID,
		GoogleID:  u.GoogleID,
		Email:     u.Email,
		Name:      u.Name,
		Picture:   u.Picture,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Audience:  u.Audience,
		Language:  u.Language,
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
