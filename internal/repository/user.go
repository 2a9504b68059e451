package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ikigai/internal/model"
	"ikigai/storage/database"
)

// CreateAuthUser inserts a new credentials row.
func CreateAuthUser(ctx context.Context, user *model.AuthUser) error {
	return database.DB().WithContext(ctx).Create(user).Error
}

// GetAuthUserByEmail looks a user up by normalized email, nil when absent.
func GetAuthUserByEmail(ctx context.Context, email string) (*model.AuthUser, error) {
	var user model.AuthUser
	err := database.DB().WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetAuthUserByPublicID looks a user up by public id, nil when absent.
func GetAuthUserByPublicID(ctx context.Context, publicID string) (*model.AuthUser, error) {
	var user model.AuthUser
	err := database.DB().WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteAuthUser hard-deletes a credentials row. Used to compensate a
// registration whose profile insert failed, so the email frees up again.
func DeleteAuthUser(ctx context.Context, publicID string) error {
	return database.DB().WithContext(ctx).
		Unscoped().
		Where("public_id = ?", publicID).
		Delete(&model.AuthUser{}).Error
}

// CreateProfile inserts the profile row backing a registered user.
func CreateProfile(ctx context.Context, profile *model.Profile) error {
	return database.DB().WithContext(ctx).Create(profile).Error
}

// GetProfileByUserID returns the profile for a public user id, nil when absent.
func GetProfileByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	var profile model.Profile
	err := database.DB().WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile applies the given column updates to a user's profile.
func UpdateProfile(ctx context.Context, userID string, updates map[string]any) error {
	return database.DB().WithContext(ctx).
		Model(&model.Profile{}).
		Where("user_id = ?", userID).
		Updates(updates).Error
}
