package model

import (
	"time"

	"github.com/google/uuid"
)

type ActivityType string

const (
	ActivityStationAdded        ActivityType = "station_added"
	ActivityReviewAdded         ActivityType = "review_added"
	ActivityRefillLogged        ActivityType = "refill_logged"
	ActivityProfileUpdated      ActivityType = "profile_updated"
	ActivityAchievementUnlocked ActivityType = "achievement_unlocked"
)

// ActivityEvent is an append-only ledger record. Rows are never updated or
// deleted, so the sum of points per user always equals the profile total.
type ActivityEvent struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	UserID       uuid.UUID    `gorm:"type:uuid;index:idx_activity_user_date,priority:1;not null" json:"user_id"`
	ActivityType ActivityType `gorm:"size:50;not null" json:"activity_type"`
	Points       int          `gorm:"not null" json:"points"`
	Description  string       `gorm:"size:500;not null" json:"description"`
	CreatedAt    time.Time    `gorm:"index:idx_activity_user_date,priority:2" json:"created_at"`
}
