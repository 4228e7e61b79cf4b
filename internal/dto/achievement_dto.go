package dto

import "time"

type AchievementResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	AchievementType string `json:"achievement_type"`
	RequiredValue   int    `json:"required_value"`
	PointsReward    int    `json:"points_reward"`
	IconURL         string `json:"icon_url"`
}

type AchievementStatusResponse struct {
	AchievementResponse
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

type LevelUp struct {
	Old int `json:"old"`
	New int `json:"new"`
}

type EvaluationResult struct {
	Unlocked    []AchievementResponse `json:"unlocked"`
	LevelUp     *LevelUp              `json:"level_up"`
	TotalPoints int                   `json:"total_points"`
	Level       int                   `json:"level"`
}
