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
)

type ProfileService interface {
	Register(ctx context.Context, userID uuid.UUID, input dto.CreateProfileInput) (*dto.ProfileResponse, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error)
	ListActivities(ctx context.Context, userID uuid.UUID, filter dto.ActivityFilter) (*dto.PaginatedActivityResponse, error)
	ListAchievements(ctx context.Context, userID uuid.UUID) ([]dto.AchievementStatusResponse, error)
}

type profileService struct {
	profileRepo     repository.ProfileRepository
	activityRepo    repository.ActivityRepository
	achievementRepo repository.AchievementRepository
	catalog         *CatalogCache
	sanitizer       *bluemonday.Policy
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	activityRepo repository.ActivityRepository,
	achievementRepo repository.AchievementRepository,
	catalog *CatalogCache,
) ProfileService {
	return &profileService{
		profileRepo:     profileRepo,
		activityRepo:    activityRepo,
		achievementRepo: achievementRepo,
		catalog:         catalog,
		sanitizer:       bluemonday.StrictPolicy(),
	}
}

// Register creates the zeroed gamification profile for a freshly registered
// user. Retries are safe: a profile that already exists is returned as-is.
func (s *profileService) Register(ctx context.Context, userID uuid.UUID, input dto.CreateProfileInput) (*dto.ProfileResponse, error) {
	displayName := strings.TrimSpace(s.sanitizer.Sanitize(input.DisplayName))
	if displayName == "" {
		return nil, fmt.Errorf("%w: display name is empty after sanitizing", apperror.ErrBadRequest)
	}

	profile := &model.Profile{
		UserID:      userID,
		DisplayName: displayName,
		Level:       1,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, userID)
}

func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(profile), nil
}

func (s *profileService) ListActivities(ctx context.Context, userID uuid.UUID, filter dto.ActivityFilter) (*dto.PaginatedActivityResponse, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	events, total, err := s.activityRepo.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}

	data := make([]dto.ActivityResponse, 0, len(events))
	for i := range events {
		data = append(data, toActivityResponse(&events[i]))
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &dto.PaginatedActivityResponse{
		Data: data,
		Meta: dto.PaginationMeta{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalItems:  total,
			Limit:       limit,
		},
	}, nil
}

// ListAchievements returns the whole catalog annotated with the caller's
// unlock state, the shape the profile page's badge grid renders.
func (s *profileService) ListAchievements(ctx context.Context, userID uuid.UUID) ([]dto.AchievementStatusResponse, error) {
	definitions, err := s.catalog.All(ctx)
	if err != nil {
		return nil, err
	}

	unlocks, err := s.achievementRepo.ListUnlocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	statuses := make([]dto.AchievementStatusResponse, 0, len(definitions))
	statusByID := make(map[uint]*dto.AchievementStatusResponse, len(definitions))
	for i := range definitions {
		statuses = append(statuses, dto.AchievementStatusResponse{
			AchievementResponse: toAchievementResponse(&definitions[i]),
		})
		statusByID[definitions[i].ID] = &statuses[len(statuses)-1]
	}

	for i := range unlocks {
		if status, ok := statusByID[unlocks[i].AchievementID]; ok {
			status.Unlocked = true
			at := unlocks[i].UnlockedAt
			status.UnlockedAt = &at
		}
	}

	return statuses, nil
}

func toProfileResponse(profile *model.Profile) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		UserID:          profile.UserID,
		DisplayName:     profile.DisplayName,
		TotalPoints:     profile.TotalPoints,
		Level:           profile.Level,
		NextLevelPoints: profile.Level * PointsPerLevel,
		StationsAdded:   profile.StationsAdded,
		ReviewsAdded:    profile.ReviewsAdded,
		RefillsLogged:   profile.RefillsLogged,
		CreatedAt:       profile.CreatedAt,
	}
}
