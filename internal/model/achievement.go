package model

import (
	"time"

	"github.com/google/uuid"
)

type AchievementType string

const (
	AchievementStationsAdded AchievementType = "stations_added"
	AchievementReviewsAdded  AchievementType = "reviews_added"
	AchievementRefillsLogged AchievementType = "refills_logged"
	AchievementTotalPoints   AchievementType = "total_points"
)

// Achievement is a catalog entry. The catalog is seeded at startup and
// read-only at runtime; it is managed out-of-band.
type Achievement struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description     string          `gorm:"type:text" json:"description"`
	AchievementType AchievementType `gorm:"size:50;not null" json:"achievement_type"`
	RequiredValue   int             `gorm:"not null" json:"required_value"`
	PointsReward    int             `gorm:"not null" json:"points_reward"`
	Icon            string          `gorm:"size:50" json:"icon"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// UserAchievement records a one-way Locked -> Unlocked transition.
// The unique index on (user_id, achievement_id) is what makes concurrent
// evaluations race-safe: the losing insert is a no-op.
type UserAchievement struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	UserID        uuid.UUID   `gorm:"type:uuid;uniqueIndex:idx_user_achievement,priority:1;not null" json:"user_id"`
	AchievementID uint        `gorm:"uniqueIndex:idx_user_achievement,priority:2;not null" json:"achievement_id"`
	Achievement   Achievement `gorm:"foreignKey:AchievementID" json:"achievement"`
	UnlockedAt    time.Time   `gorm:"autoCreateTime" json:"unlocked_at"`
}
