package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"ikigai/internal/model"
	"ikigai/storage/database"
)

// CreateGoal inserts a new goal row.
func CreateGoal(ctx context.Context, goal *model.Goal) error {
	return database.DB().WithContext(ctx).Create(goal).Error
}

// GetGoal returns one goal scoped to its owner, nil when absent.
func GetGoal(ctx context.Context, userID string, goalID int64) (*model.Goal, error) {
	var goal model.Goal
	err := database.DB().WithContext(ctx).
		Where("user_id = ? AND public_id = ?", userID, goalID).
		First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// ListGoals returns a user's goals, newest first.
func ListGoals(ctx context.Context, userID string) ([]*model.Goal, error) {
	var goals []*model.Goal
	err := database.DB().WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&goals).Error
	if err != nil {
		return nil, err
	}
	return goals, nil
}

// CountActiveGoals counts a user's goals still in progress.
func CountActiveGoals(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := database.DB().WithContext(ctx).
		Model(&model.Goal{}).
		Where("user_id = ? AND status = ?", userID, model.GoalStatusActive).
		Count(&count).Error
	return count, err
}

// RecordGoalProgress bumps completed_days and stamps the progress time;
// the service layer decides whether the goal flips to completed.
func RecordGoalProgress(ctx context.Context, userID string, goalID int64, status model.GoalStatus, at time.Time) error {
	return database.DB().WithContext(ctx).
		Model(&model.Goal{}).
		Where("user_id = ? AND public_id = ?", userID, goalID).
		Updates(map[string]any{
			"completed_days":   gorm.Expr("completed_days + 1"),
			"status":           status,
			"last_progress_at": at,
		}).Error
}

// DeleteGoal soft-deletes one goal scoped to its owner.
func DeleteGoal(ctx context.Context, userID string, goalID int64) error {
	return database.DB().WithContext(ctx).
		Where("user_id = ? AND public_id = ?", userID, goalID).
		Delete(&model.Goal{}).Error
}
