package service

import (
	"context"
	"fmt"
	"sync"

	"ikigai/internal/model/dto"
	"ikigai/internal/repository"
	pkgerrors "ikigai/pkg/errors"
)

var (
	userService *UserService
	userOnce    sync.Once
)

func User() *UserService {
	userOnce.Do(func() {
		userService = &UserService{}
	})
	return userService
}

type UserService struct{}

// GetUserProfile returns the profile view for /users/me.
func (s *UserService) GetUserProfile(ctx context.Context, userID string) (*dto.UserProfileData, error) {
	profile, err := repository.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}
	if profile == nil {
		return nil, pkgerrors.ProfileNotFound
	}

	return &dto.UserProfileData{
		ID:      profile.UserID,
		Persona: string(profile.Persona),
		Name:    profile.Name,
		Email:   profile.Email,
	}, nil
}

// UpdateUserName renames the profile.
func (s *UserService) UpdateUserName(ctx context.Context, userID, name string) error {
	profile, err := repository.GetProfileByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to query profile: %w", err)
	}
	if profile == nil {
		return pkgerrors.ProfileNotFound
	}

	return repository.UpdateProfile(ctx, userID, map[string]any{"name": name})
}
