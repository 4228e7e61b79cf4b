package model

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds the gamification state for one user. It is created once at
// registration with zero counters and level 1, and afterwards is only mutated
// through the ledger/evaluator services: total_points and the per-category
// counters never decrease, level is derived from total_points.
type Profile struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	DisplayName   string    `gorm:"size:100;not null" json:"display_name"`
	TotalPoints   int       `gorm:"not null;default:0" json:"total_points"`
	Level         int       `gorm:"not null;default:1" json:"level"`
	StationsAdded int       `gorm:"not null;default:0" json:"stations_added"`
	ReviewsAdded  int       `gorm:"not null;default:0" json:"reviews_added"`
	RefillsLogged int       `gorm:"not null;default:0" json:"refills_logged"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}
