package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"refillmap.com/gamification/internal/dto"
	"refillmap.com/gamification/internal/model"
	"refillmap.com/gamification/internal/repository"
	"refillmap.com/gamification/pkg/apperror"
	"refillmap.com/gamification/pkg/icons"
)

const (
	PointsStationAdded   = 50
	PointsReviewAdded    = 15
	PointsRefillLogged   = 5
	PointsProfileUpdated = 10

	PointsPerLevel = 1000

	MaxDescriptionLength = 500
)

var activityPoints = map[model.ActivityType]int{
	model.ActivityStationAdded:   PointsStationAdded,
	model.ActivityReviewAdded:    PointsReviewAdded,
	model.ActivityRefillLogged:   PointsRefillLogged,
	model.ActivityProfileUpdated: PointsProfileUpdated,
	// Reward points come from the achievement itself, see Unlock.
	model.ActivityAchievementUnlocked: 0,
}

var activityDescriptions = map[model.ActivityType]string{
	model.ActivityStationAdded:        "Added a new refill station",
	model.ActivityReviewAdded:         "Wrote a review for a station",
	model.ActivityRefillLogged:        "Logged a water bottle refill",
	model.ActivityProfileUpdated:      "Updated your profile",
	model.ActivityAchievementUnlocked: "Unlocked an achievement",
}

var activityCounterColumns = map[model.ActivityType]string{
	model.ActivityStationAdded: "stations_added",
	model.ActivityReviewAdded:  "reviews_added",
	model.ActivityRefillLogged: "refills_logged",
}

// LevelForPoints derives the level tier from a point total. Level is never
// stored independently of points, only raised to match this value.
func LevelForPoints(points int) int {
	return points/PointsPerLevel + 1
}

type GamificationService interface {
	RecordActivity(ctx context.Context, userID uuid.UUID, activityType model.ActivityType, description string) (*dto.RecordActivityResponse, error)
	EvaluateAchievements(ctx context.Context, userID uuid.UUID) (*dto.EvaluationResult, error)
}

type gamificationService struct {
	profileRepo     repository.ProfileRepository
	activityRepo    repository.ActivityRepository
	achievementRepo repository.AchievementRepository
	catalog         *CatalogCache
	sanitizer       *bluemonday.Policy
}

func NewGamificationService(
	profileRepo repository.ProfileRepository,
	activityRepo repository.ActivityRepository,
	achievementRepo repository.AchievementRepository,
	catalog *CatalogCache,
) GamificationService {
	return &gamificationService{
		profileRepo:     profileRepo,
		activityRepo:    activityRepo,
		achievementRepo: achievementRepo,
		catalog:         catalog,
		sanitizer:       bluemonday.StrictPolicy(),
	}
}

// RecordActivity appends a ledger event, applies its point value and counter
// increment atomically, then re-evaluates achievements for the user as a
// continuation of the same logical operation.
func (s *gamificationService) RecordActivity(ctx context.Context, userID uuid.UUID, activityType model.ActivityType, description string) (*dto.RecordActivityResponse, error) {
	points, ok := activityPoints[activityType]
	if !ok {
		return nil, fmt.Errorf("%w: unknown activity type %q", apperror.ErrInvalidActivity, activityType)
	}

	description, err := s.resolveDescription(activityType, description)
	if err != nil {
		return nil, err
	}

	event := &model.ActivityEvent{
		UserID:       userID,
		ActivityType: activityType,
		Points:       points,
		Description:  description,
	}
	if err := s.activityRepo.RecordActivity(ctx, event, activityCounterColumns[activityType]); err != nil {
		return nil, err
	}

	eval, err := s.EvaluateAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.RecordActivityResponse{
		Activity:    toActivityResponse(event),
		TotalPoints: eval.TotalPoints,
		Level:       eval.Level,
		Unlocked:    eval.Unlocked,
		LevelUp:     eval.LevelUp,
	}, nil
}

func (s *gamificationService) resolveDescription(activityType model.ActivityType, description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return activityDescriptions[activityType], nil
	}
	if len(description) > MaxDescriptionLength {
		return "", fmt.Errorf("%w: description exceeds %d characters", apperror.ErrInvalidActivity, MaxDescriptionLength)
	}

	sanitized := strings.TrimSpace(s.sanitizer.Sanitize(description))
	if sanitized == "" {
		return "", fmt.Errorf("%w: description is empty after sanitizing", apperror.ErrInvalidActivity)
	}
	return sanitized, nil
}

// EvaluateAchievements unlocks every achievement whose threshold the user now
// meets, then recomputes the level from the resulting point total. Running it
// again immediately unlocks nothing and reports no level change, so callers
// may retry it freely.
func (s *gamificationService) EvaluateAchievements(ctx context.Context, userID uuid.UUID) (*dto.EvaluationResult, error) {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	definitions, err := s.catalog.All(ctx)
	if err != nil {
		return nil, err
	}

	unlockedIDs, err := s.achievementRepo.FindUnlockedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	var newlyUnlocked []dto.AchievementResponse

	// Reward points can push total_points over another threshold, so keep
	// scanning until a full pass unlocks nothing.
	for {
		progressed := false
		for i := range definitions {
			def := &definitions[i]
			if unlockedIDs[def.ID] {
				continue
			}
			if !meetsThreshold(profile, def) {
				continue
			}

			won, err := s.achievementRepo.Unlock(ctx, userID, def)
			if err != nil {
				return nil, err
			}
			unlockedIDs[def.ID] = true
			if !won {
				// A concurrent evaluation inserted it first; its reward is
				// already accounted for in the store.
				continue
			}

			profile.TotalPoints += def.PointsReward
			newlyUnlocked = append(newlyUnlocked, toAchievementResponse(def))
			progressed = true
		}
		if !progressed {
			break
		}
	}

	// Reload for an authoritative total before deriving the level; concurrent
	// operations may have added points since our snapshot.
	fresh, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &dto.EvaluationResult{
		Unlocked:    newlyUnlocked,
		TotalPoints: fresh.TotalPoints,
		Level:       fresh.Level,
	}

	newLevel := LevelForPoints(fresh.TotalPoints)
	if newLevel > fresh.Level {
		raised, err := s.profileRepo.RaiseLevel(ctx, userID, newLevel)
		if err != nil {
			return nil, err
		}
		if raised {
			result.LevelUp = &dto.LevelUp{Old: fresh.Level, New: newLevel}
		}
		result.Level = newLevel
	}

	return result, nil
}

func meetsThreshold(profile *model.Profile, def *model.Achievement) bool {
	var current int
	switch def.AchievementType {
	case model.AchievementStationsAdded:
		current = profile.StationsAdded
	case model.AchievementReviewsAdded:
		current = profile.ReviewsAdded
	case model.AchievementRefillsLogged:
		current = profile.RefillsLogged
	case model.AchievementTotalPoints:
		current = profile.TotalPoints
	default:
		return false
	}
	return current >= def.RequiredValue
}

func toActivityResponse(event *model.ActivityEvent) dto.ActivityResponse {
	return dto.ActivityResponse{
		ID:           event.ID,
		ActivityType: string(event.ActivityType),
		Points:       event.Points,
		Description:  event.Description,
		CreatedAt:    event.CreatedAt,
	}
}

func toAchievementResponse(def *model.Achievement) dto.AchievementResponse {
	return dto.AchievementResponse{
		ID:              def.ID,
		Name:            def.Name,
		Description:     def.Description,
		AchievementType: string(def.AchievementType),
		RequiredValue:   def.RequiredValue,
		PointsReward:    def.PointsReward,
		IconURL:         icons.Resolve(def.Icon),
	}
}
