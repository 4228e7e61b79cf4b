package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"refillmap.com/gamification/internal/model"
	"refillmap.com/gamification/pkg/apperror"
)

type AchievementRepository interface {
	FindAll(ctx context.Context) ([]model.Achievement, error)
	FindUnlockedIDs(ctx context.Context, userID uuid.UUID) (map[uint]bool, error)
	ListUnlocked(ctx context.Context, userID uuid.UUID) ([]model.UserAchievement, error)
	Unlock(ctx context.Context, userID uuid.UUID, achievement *model.Achievement) (bool, error)
}

type achievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) FindAll(ctx context.Context) ([]model.Achievement, error) {
	var achievements []model.Achievement
	if err := r.db.WithContext(ctx).
		Order("id").
		Find(&achievements).Error; err != nil {
		return nil, fmt.Errorf("%w: load achievement catalog: %v", apperror.ErrPersistence, err)
	}
	return achievements, nil
}

func (r *achievementRepository) FindUnlockedIDs(ctx context.Context, userID uuid.UUID) (map[uint]bool, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&model.UserAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("%w: load unlocked achievements: %v", apperror.ErrPersistence, err)
	}

	unlocked := make(map[uint]bool, len(ids))
	for _, id := range ids {
		unlocked[id] = true
	}
	return unlocked, nil
}

func (r *achievementRepository) ListUnlocked(ctx context.Context, userID uuid.UUID) ([]model.UserAchievement, error) {
	var unlocks []model.UserAchievement
	if err := r.db.WithContext(ctx).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Order("unlocked_at DESC").
		Find(&unlocks).Error; err != nil {
		return nil, fmt.Errorf("%w: list unlocked achievements: %v", apperror.ErrPersistence, err)
	}
	return unlocks, nil
}

// Unlock inserts the (user, achievement) join row, appends the
// achievement_unlocked ledger event carrying the reward points, and adds the
// reward to the profile total, all in one transaction. The unique index on
// (user_id, achievement_id) turns a concurrent duplicate into a zero-row
// insert; that case returns (false, nil) and nothing else is written.
func (r *achievementRepository) Unlock(ctx context.Context, userID uuid.UUID, achievement *model.Achievement) (bool, error) {
	unlocked := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			DoNothing: true,
		}).Create(&model.UserAchievement{
			UserID:        userID,
			AchievementID: achievement.ID,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// A concurrent evaluation already unlocked it.
			return nil
		}

		event := &model.ActivityEvent{
			UserID:       userID,
			ActivityType: model.ActivityAchievementUnlocked,
			Points:       achievement.PointsReward,
			Description:  fmt.Sprintf("Unlocked achievement: %s", achievement.Name),
		}
		if err := tx.Create(event).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Profile{}).
			Where("user_id = ?", userID).
			Update("total_points", gorm.Expr("total_points + ?", achievement.PointsReward)).Error; err != nil {
			return err
		}

		unlocked = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%w: unlock achievement %q: %v", apperror.ErrPersistence, achievement.Name, err)
	}
	return unlocked, nil
}
