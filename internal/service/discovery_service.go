package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kindredapp/kindred/internal/config"
	"github.com/kindredapp/kindred/internal/geo"
	"github.com/kindredapp/kindred/internal/model"
	"gorm.io/gorm"
)

// DiscoveryService computes the swipe-candidate queue for a user
type DiscoveryService struct {
	profiles ProfileStore
	swipes   SwipeStore
	cfg      config.DiscoveryConfig
}

func NewDiscoveryService(profiles ProfileStore, swipes SwipeStore, cfg config.DiscoveryConfig) *DiscoveryService {
	return &DiscoveryService{
		profiles: profiles,
		swipes:   swipes,
		cfg:      cfg,
	}
}

// FetchProfiles returns up to maxCount candidates for the user to swipe on,
// each annotated with the distance to the requester. Candidates come back in
// scan order (most recently active first), not re-sorted by distance.
//
// There is no pagination cursor: every call re-scans the recent-activity
// window and re-applies the exclusion set, so a candidate the user saw but
// did not swipe on may reappear on the next call. That is intended behavior,
// keeping the queue fresh as other users' activity changes.
func (s *DiscoveryService) FetchProfiles(ctx context.Context, userID uuid.UUID, maxCount int) ([]model.DiscoveredProfile, error) {
	if maxCount <= 0 {
		maxCount = s.cfg.DefaultLimit
	}
	if s.cfg.MaxLimit > 0 && maxCount > s.cfg.MaxLimit {
		maxCount = s.cfg.MaxLimit
	}

	requester, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	if !requester.ProfileComplete {
		return nil, ErrProfileIncomplete
	}

	swiped, err := s.swipes.SwipedTargetIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	excluded := make(map[uuid.UUID]bool, len(swiped))
	for _, id := range swiped {
		excluded[id] = true
	}

	// Over-fetch so the exclusion set cannot starve the result
	window := maxCount + len(excluded) + 1
	candidates, err := s.profiles.Candidates(ctx, userID, window)
	if err != nil {
		return nil, err
	}

	results := []model.DiscoveredProfile{}
	for i := range candidates {
		candidate := &candidates[i]
		if excluded[candidate.UserID] {
			continue
		}

		distance, ok := mutuallyCompatible(requester, candidate)
		if !ok {
			continue
		}

		results = append(results, model.DiscoveredProfile{
			Profile:    *candidate,
			DistanceKm: distance,
		})
		if len(results) >= maxCount {
			break
		}
	}

	return results, nil
}

// mutuallyCompatible applies the symmetric compatibility filter: both users'
// gender preference, age range, and distance radius must be satisfied in
// both directions. It returns the computed distance when the pair passes.
func mutuallyCompatible(requester, candidate *model.Profile) (float64, bool) {
	if !requester.WantsGender(candidate.Gender) {
		return 0, false
	}
	if !candidate.WantsGender(requester.Gender) {
		return 0, false
	}
	if !requester.WantsAge(candidate.Age) {
		return 0, false
	}
	if !candidate.WantsAge(requester.Age) {
		return 0, false
	}

	distance := geo.Distance(
		requester.Latitude, requester.Longitude,
		candidate.Latitude, candidate.Longitude,
	)
	// The tighter radius of the two governs
	if distance > requester.DistanceKm || distance > candidate.DistanceKm {
		return 0, false
	}

	return distance, true
}
