package service

import (
	"context"

	"refillmap.com/gamification/internal/dto"
	"refillmap.com/gamification/internal/repository"
)

type StatService interface {
	GetImpactStats(ctx context.Context) (*dto.ImpactStatsResponse, error)
}

type statService struct {
	profileRepo repository.ProfileRepository
}

func NewStatService(profileRepo repository.ProfileRepository) StatService {
	return &statService{
		profileRepo: profileRepo,
	}
}

// GetImpactStats aggregates the community-wide counters shown on the landing
// page (total refills logged, stations contributed, reviews, member count).
func (s *statService) GetImpactStats(ctx context.Context) (*dto.ImpactStatsResponse, error) {
	members, err := s.profileRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	totals, err := s.profileRepo.SumCounters(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.ImpactStatsResponse{
		Members:       members,
		StationsAdded: totals.StationsAdded,
		ReviewsAdded:  totals.ReviewsAdded,
		RefillsLogged: totals.RefillsLogged,
	}, nil
}
