package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"ikigai/internal/model"
	"ikigai/internal/model/dto"
	"ikigai/internal/repository"
	pkgerrors "ikigai/pkg/errors"
	"ikigai/pkg/snowflake"
)

const (
	maxActiveGoals    = 10
	defaultTargetDays = 30
)

var (
	goalService *GoalService
	goalOnce    sync.Once
)

func Goal() *GoalService {
	goalOnce.Do(func() {
		goalService = &GoalService{}
	})
	return goalService
}

// GoalService manages the wellbeing goals grown in the user's garden.
type GoalService struct{}

// CreateGoal plants a new goal for the user.
func (s *GoalService) CreateGoal(ctx context.Context, userID string, req dto.CreateGoalRequest) (*dto.GoalData, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, pkgerrors.GoalTitleRequired
	}

	active, err := repository.CountActiveGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count goals: %w", err)
	}
	if active >= maxActiveGoals {
		return nil, pkgerrors.GoalLimitReached
	}

	id, err := snowflake.NextID(snowflake.GeneratorTypeGoal)
	if err != nil {
		return nil, fmt.Errorf("failed to generate goal ID: %w", err)
	}

	targetDays := req.TargetDays
	if targetDays <= 0 {
		targetDays = defaultTargetDays
	}

	goal := &model.Goal{
		PublicID:   id,
		UserID:     userID,
		Title:      strings.TrimSpace(req.Title),
		Category:   req.Category,
		TargetDays: targetDays,
		Status:     model.GoalStatusActive,
	}
	if err := repository.CreateGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goalData(goal), nil
}

// ListGoals returns the user's goals, newest first.
func (s *GoalService) ListGoals(ctx context.Context, userID string) (*dto.GoalListData, error) {
	goals, err := repository.ListGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	data := &dto.GoalListData{
		Goals: make([]dto.GoalData, 0, len(goals)),
		Total: len(goals),
	}
	for _, g := range goals {
		data.Goals = append(data.Goals, *goalData(g))
	}
	return data, nil
}

// RecordProgress marks one day of progress. Reaching the target flips the
// goal to completed.
func (s *GoalService) RecordProgress(ctx context.Context, userID string, goalID int64) (*dto.GoalData, error) {
	goal, err := repository.GetGoal(ctx, userID, goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goal: %w", err)
	}
	if goal == nil {
		return nil, pkgerrors.GoalNotFound
	}
	if goal.Status == model.GoalStatusCompleted {
		return nil, pkgerrors.GoalAlreadyDone
	}

	now := time.Now().UTC()
	status := model.GoalStatusActive
	if goal.CompletedDays+1 >= goal.TargetDays {
		status = model.GoalStatusCompleted
	}

	if err := repository.RecordGoalProgress(ctx, userID, goalID, status, now); err != nil {
		return nil, fmt.Errorf("failed to record progress: %w", err)
	}

	goal.CompletedDays++
	goal.Status = status
	goal.LastProgressAt = &now
	return goalData(goal), nil
}

// DeleteGoal removes a goal from the garden.
func (s *GoalService) DeleteGoal(ctx context.Context, userID string, goalID int64) error {
	goal, err := repository.GetGoal(ctx, userID, goalID)
	if err != nil {
		return fmt.Errorf("failed to query goal: %w", err)
	}
	if goal == nil {
		return pkgerrors.GoalNotFound
	}
	return repository.DeleteGoal(ctx, userID, goalID)
}

func goalData(g *model.Goal) *dto.GoalData {
	data := &dto.GoalData{
		ID:            fmt.Sprintf("%d", g.PublicID),
		Title:         g.Title,
		Category:      g.Category,
		TargetDays:    g.TargetDays,
		CompletedDays: g.CompletedDays,
		Status:        string(g.Status),
	}
	if g.TargetDays > 0 {
		data.Progress = float64(g.CompletedDays) / float64(g.TargetDays)
		if data.Progress > 1 {
			data.Progress = 1
		}
	}
	if g.LastProgressAt != nil {
		data.LastProgressAt = g.LastProgressAt.Format(time.RFC3339)
	}
	return data
}
