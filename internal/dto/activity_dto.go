package dto

import "time"

type RecordActivityInput struct {
	ActivityType string `json:"activity_type" binding:"required"`
	Description  string `json:"description" binding:"omitempty,max=500"`
}

type ActivityFilter struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

type ActivityResponse struct {
	ID           uint      `json:"id"`
	ActivityType string    `json:"activity_type"`
	Points       int       `json:"points"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

// RecordActivityResponse carries the ledger entry together with whatever the
// achievement evaluation that follows it produced.
type RecordActivityResponse struct {
	Activity    ActivityResponse      `json:"activity"`
	TotalPoints int                   `json:"total_points"`
	Level       int                   `json:"level"`
	Unlocked    []AchievementResponse `json:"unlocked"`
	LevelUp     *LevelUp              `json:"level_up,omitempty"`
}

type PaginatedActivityResponse struct {
	Data []ActivityResponse `json:"data"`
	Meta PaginationMeta     `json:"meta"`
}
