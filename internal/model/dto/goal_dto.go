package dto

// ========== Goal DTOs ==========

type CreateGoalRequest struct {
	Title      string `json:"title" binding:"required"`
	Category   string `json:"category"`
	TargetDays int    `json:"target_days"`
}

type GoalData struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Category       string  `json:"category"`
	TargetDays     int     `json:"target_days"`
	CompletedDays  int     `json:"completed_days"`
	Status         string  `json:"status"`
	Progress       float64 `json:"progress"`
	LastProgressAt string  `json:"last_progress_at,omitempty"`
}

type GoalListData struct {
	Goals []GoalData `json:"goals"`
	Total int        `json:"total"`
}
