package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"refillmap.com/gamification/internal/bootstrap"
	"refillmap.com/gamification/internal/model"
	"refillmap.com/gamification/pkg/apperror"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, bootstrap.Migrate(db))
	return db
}

func TestProfileCreateIsIdempotent(t *testing.T) {
	db := setupDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, repo.Create(ctx, &model.Profile{UserID: userID, DisplayName: "Alice", Level: 1}))
	// A retried registration hook must not fail or reset anything.
	require.NoError(t, repo.Create(ctx, &model.Profile{UserID: userID, DisplayName: "Alice again", Level: 1}))

	profile, err := repo.FindByID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "Alice", profile.DisplayName)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestProfileFindByIDNotFound(t *testing.T) {
	db := setupDB(t)
	repo := NewProfileRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRaiseLevelNeverDecreases(t *testing.T) {
	db := setupDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, repo.Create(ctx, &model.Profile{UserID: userID, DisplayName: "Bob", Level: 1}))

	raised, err := repo.RaiseLevel(ctx, userID, 3)
	require.NoError(t, err)
	require.True(t, raised)

	// A stale evaluation reporting a lower level is a no-op.
	raised, err = repo.RaiseLevel(ctx, userID, 2)
	require.NoError(t, err)
	require.False(t, raised)

	profile, err := repo.FindByID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 3, profile.Level)
}

func TestRecordActivityIsAtomic(t *testing.T) {
	db := setupDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	event := &model.ActivityEvent{
		UserID:       uuid.New(),
		ActivityType: model.ActivityRefillLogged,
		Points:       5,
		Description:  "Logged a water bottle refill",
	}
	err := repo.RecordActivity(ctx, event, "refills_logged")
	require.ErrorIs(t, err, apperror.ErrNotFound)

	// The failed profile update must roll back the event append.
	var count int64
	require.NoError(t, db.Model(&model.ActivityEvent{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestRecordActivityWithoutCounter(t *testing.T) {
	db := setupDB(t)
	profileRepo := NewProfileRepository(db)
	activityRepo := NewActivityRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, profileRepo.Create(ctx, &model.Profile{UserID: userID, DisplayName: "Cara", Level: 1}))

	event := &model.ActivityEvent{
		UserID:       userID,
		ActivityType: model.ActivityProfileUpdated,
		Points:       10,
		Description:  "Updated your profile",
	}
	require.NoError(t, activityRepo.RecordActivity(ctx, event, ""))

	profile, err := profileRepo.FindByID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 10, profile.TotalPoints)
	require.Zero(t, profile.StationsAdded)
	require.Zero(t, profile.ReviewsAdded)
	require.Zero(t, profile.RefillsLogged)
}

func TestListByUserPaginates(t *testing.T) {
	db := setupDB(t)
	profileRepo := NewProfileRepository(db)
	activityRepo := NewActivityRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, profileRepo.Create(ctx, &model.Profile{UserID: userID, DisplayName: "Dina", Level: 1}))

	for i := 0; i < 7; i++ {
		event := &model.ActivityEvent{
			UserID:       userID,
			ActivityType: model.ActivityRefillLogged,
			Points:       5,
			Description:  fmt.Sprintf("refill %d", i),
		}
		require.NoError(t, activityRepo.RecordActivity(ctx, event, "refills_logged"))
	}

	events, total, err := activityRepo.ListByUser(ctx, userID, 1, 5)
	require.NoError(t, err)
	require.Equal(t, int64(7), total)
	require.Len(t, events, 5)

	events, _, err = activityRepo.ListByUser(ctx, userID, 2, 5)
	require.NoError(t, err)
	require.Len(t, events, 2)
}

func TestUnlockWritesEventAndReward(t *testing.T) {
	db := setupDB(t)
	profileRepo := NewProfileRepository(db)
	achievementRepo := NewAchievementRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, profileRepo.Create(ctx, &model.Profile{UserID: userID, DisplayName: "Eko", Level: 1}))

	def := model.Achievement{
		Name:            "Pioneer",
		AchievementType: model.AchievementStationsAdded,
		RequiredValue:   1,
		PointsReward:    25,
	}
	require.NoError(t, db.Create(&def).Error)

	won, err := achievementRepo.Unlock(ctx, userID, &def)
	require.NoError(t, err)
	require.True(t, won)

	var event model.ActivityEvent
	require.NoError(t, db.Where("user_id = ?", userID).First(&event).Error)
	require.Equal(t, model.ActivityAchievementUnlocked, event.ActivityType)
	require.Equal(t, 25, event.Points)
	require.Equal(t, "Unlocked achievement: Pioneer", event.Description)

	profile, err := profileRepo.FindByID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 25, profile.TotalPoints)

	ids, err := achievementRepo.FindUnlockedIDs(ctx, userID)
	require.NoError(t, err)
	require.True(t, ids[def.ID])

	unlocks, err := achievementRepo.ListUnlocked(ctx, userID)
	require.NoError(t, err)
	require.Len(t, unlocks, 1)
	require.Equal(t, "Pioneer", unlocks[0].Achievement.Name)
}
