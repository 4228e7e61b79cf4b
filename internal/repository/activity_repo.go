package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"refillmap.com/gamification/internal/model"
	"refillmap.com/gamification/pkg/apperror"
)

type ActivityRepository interface {
	RecordActivity(ctx context.Context, event *model.ActivityEvent, counterColumn string) error
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.ActivityEvent, int64, error)
	SumPointsByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountByType(ctx context.Context, activityType model.ActivityType) (int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// RecordActivity appends the ledger event and applies its point value (plus
// the optional counter increment) to the profile in a single transaction.
// The increments run as SQL expressions, so concurrent calls for the same
// user never lose an update. counterColumn comes from the service's internal
// activity-kind map, never from request input.
func (r *activityRepository) RecordActivity(ctx context.Context, event *model.ActivityEvent, counterColumn string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"total_points": gorm.Expr("total_points + ?", event.Points),
		}
		if counterColumn != "" {
			updates[counterColumn] = gorm.Expr(counterColumn + " + 1")
		}

		res := tx.Model(&model.Profile{}).
			Where("user_id = ?", event.UserID).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: profile %s", apperror.ErrNotFound, event.UserID)
		}

		return tx.Create(event).Error
	})
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: record activity: %v", apperror.ErrPersistence, err)
	}
	return nil
}

func (r *activityRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.ActivityEvent, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&model.ActivityEvent{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: count activities: %v", apperror.ErrPersistence, err)
	}

	var events []model.ActivityEvent
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: list activities: %v", apperror.ErrPersistence, err)
	}

	return events, total, nil
}

func (r *activityRepository) SumPointsByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&model.ActivityEvent{}).
		Select("COALESCE(SUM(points), 0)").
		Where("user_id = ?", userID).
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("%w: sum points: %v", apperror.ErrPersistence, err)
	}
	return sum, nil
}

func (r *activityRepository) CountByType(ctx context.Context, activityType model.ActivityType) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ActivityEvent{}).
		Where("activity_type = ?", activityType).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("%w: count activities by type: %v", apperror.ErrPersistence, err)
	}
	return count, nil
}
