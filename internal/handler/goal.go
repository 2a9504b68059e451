package handler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"ikigai/internal/middleware"
	"ikigai/internal/model/dto"
	"ikigai/internal/service"
	pkgerrors "ikigai/pkg/errors"
	"ikigai/pkg/response"
)

// CreateGoal plants a new goal.
// POST /v1/goals
func CreateGoal(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, fmt.Errorf("user ID not found in context"))
		return
	}

	var req dto.CreateGoalRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Goal().CreateGoal(ctx, userID, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// ListGoals returns the caller's goals.
// GET /v1/goals
func ListGoals(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, fmt.Errorf("user ID not found in context"))
		return
	}

	result, err := service.Goal().ListGoals(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// RecordGoalProgress marks one day of progress on a goal.
// POST /v1/goals/:goal_id/progress
func RecordGoalProgress(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, fmt.Errorf("user ID not found in context"))
		return
	}

	goalID, err := strconv.ParseInt(c.Param("goal_id"), 10, 64)
	if err != nil {
		response.Error(ctx, c, pkgerrors.GoalNotFound)
		return
	}

	result, err := service.Goal().RecordProgress(ctx, userID, goalID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// DeleteGoal removes a goal.
// DELETE /v1/goals/:goal_id
func DeleteGoal(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, fmt.Errorf("user ID not found in context"))
		return
	}

	goalID, err := strconv.ParseInt(c.Param("goal_id"), 10, 64)
	if err != nil {
		response.Error(ctx, c, pkgerrors.GoalNotFound)
		return
	}

	if err := service.Goal().DeleteGoal(ctx, userID, goalID); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}
