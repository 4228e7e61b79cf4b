package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"refillmap.com/gamification/internal/model"
	"refillmap.com/gamification/pkg/apperror"
)

type CounterTotals struct {
	StationsAdded int64 `json:"stations_added"`
	ReviewsAdded  int64 `json:"reviews_added"`
	RefillsLogged int64 `json:"refills_logged"`
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	FindByID(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	RaiseLevel(ctx context.Context, userID uuid.UUID, level int) (bool, error)
	Count(ctx context.Context) (int64, error)
	SumCounters(ctx context.Context) (*CounterTotals, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// Create inserts a zeroed profile. A second call for the same user is a
// no-op, so the registration hook can be retried safely.
func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(profile).Error
	if err != nil {
		return fmt.Errorf("%w: create profile: %v", apperror.ErrPersistence, err)
	}
	return nil
}

func (r *profileRepository) FindByID(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: profile %s", apperror.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("%w: find profile: %v", apperror.ErrPersistence, err)
	}

	return &profile, nil
}

// RaiseLevel stores a new level only if it exceeds the current one, so the
// level never moves backwards even when evaluations race. Returns whether
// this call performed the update.
func (r *profileRepository) RaiseLevel(ctx context.Context, userID uuid.UUID, level int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("user_id = ? AND level < ?", userID, level).
		Update("level", level)
	if res.Error != nil {
		return false, fmt.Errorf("%w: raise level: %v", apperror.ErrPersistence, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *profileRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Profile{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("%w: count profiles: %v", apperror.ErrPersistence, err)
	}
	return count, nil
}

func (r *profileRepository) SumCounters(ctx context.Context) (*CounterTotals, error) {
	var totals CounterTotals
	err := r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Select(
			"COALESCE(SUM(stations_added), 0) AS stations_added, " +
				"COALESCE(SUM(reviews_added), 0) AS reviews_added, " +
				"COALESCE(SUM(refills_logged), 0) AS refills_logged",
		).
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("%w: sum counters: %v", apperror.ErrPersistence, err)
	}
	return &totals, nil
}
