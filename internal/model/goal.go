package model

import "time"

// GoalStatus tracks a daruma goal through its life.
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
)

// Goal is one daruma-garden goal belonging to an elder.
type Goal struct {
	BaseModel
	PublicID       int64      `gorm:"uniqueIndex;not null" json:"public_id"`
	UserID         string     `gorm:"type:varchar(32);not null;index:idx_goals_user" json:"user_id"`
	Title          string     `gorm:"type:varchar(128);not null" json:"title"`
	Category       string     `gorm:"type:varchar(32);not null;default:''" json:"category"`
	TargetDays     int        `gorm:"not null;default:30" json:"target_days"`
	CompletedDays  int        `gorm:"not null;default:0" json:"completed_days"`
	Status         GoalStatus `gorm:"type:varchar(16);not null;default:'active';index:idx_goals_status" json:"status"`
	LastProgressAt *time.Time `json:"last_progress_at,omitempty"`
}

func (Goal) TableName() string {
	return "goals"
}
