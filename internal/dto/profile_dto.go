package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateProfileInput struct {
	DisplayName string `json:"display_name" binding:"required,min=1,max=100"`
}

type ProfileResponse struct {
	UserID          uuid.UUID `json:"user_id"`
	DisplayName     string    `json:"display_name"`
	TotalPoints     int       `json:"total_points"`
	Level           int       `json:"level"`
	NextLevelPoints int       `json:"next_level_points"`
	StationsAdded   int       `json:"stations_added"`
	ReviewsAdded    int       `json:"reviews_added"`
	RefillsLogged   int       `json:"refills_logged"`
	CreatedAt       time.Time `json:"created_at"`
}

type ImpactStatsResponse struct {
	Members       int64 `json:"members"`
	StationsAdded int64 `json:"stations_added"`
	ReviewsAdded  int64 `json:"reviews_added"`
	RefillsLogged int64 `json:"refills_logged"`
}
