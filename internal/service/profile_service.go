package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kindredapp/kindred/internal/model"
	"github.com/kindredapp/kindred/internal/repository"
	"gorm.io/gorm"
)

const minAge = 18

// ProfileService handles the profile lifecycle: the one-shot save at
// onboarding completion and the partial updates allowed afterwards.
type ProfileService struct {
	profiles *repository.ProfileRepository
}

func NewProfileService(profiles *repository.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// SaveProfile writes the whole profile at onboarding completion. Age is
// derived from the date of birth here, never taken from the client.
func (s *ProfileService) SaveProfile(ctx context.Context, userID uuid.UUID, req model.SaveProfileRequest) (*model.Profile, error) {
	if req.AgeMin > req.AgeMax {
		return nil, ErrInvalidAgeRange
	}
	if req.DistanceKm <= 0 {
		return nil, ErrInvalidDistance
	}

	now := time.Now()
	age := model.AgeAt(req.DateOfBirth, now)
	if age < minAge {
		return nil, ErrUnderage
	}

	profile := &model.Profile{
		UserID:      userID,
		Name:        req.Name,
		DateOfBirth: req.DateOfBirth,
		Age:         age,
		Gender:      req.Gender,
		Bio:         req.Bio,
		Photos:      req.Photos,
		City:        req.City,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Interests:   req.Interests,
		Height:      req.Height,
		Education:   req.Education,
		Occupation:  req.Occupation,

		LookingFor: req.LookingFor,
		AgeMin:     req.AgeMin,
		AgeMax:     req.AgeMax,
		DistanceKm: req.DistanceKm,

		ProfileComplete:     true,
		OnboardingCompleted: true,
		LastActiveAt:        now,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfile returns a user's profile
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// UpdateBasicInfo updates name and bio
func (s *ProfileService) UpdateBasicInfo(ctx context.Context, userID uuid.UUID, req model.UpdateBasicInfoRequest) (*model.Profile, error) {
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name": req.Name,
		"bio":  req.Bio,
	}
	if err := s.profiles.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

// UpdatePreferences applies partial preference changes. The resulting age
// range must still satisfy min <= max.
func (s *ProfileService) UpdatePreferences(ctx context.Context, userID uuid.UUID, req model.UpdatePreferencesRequest) (*model.Profile, error) {
	current, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	ageMin, ageMax := current.AgeMin, current.AgeMax
	if req.AgeMin != nil {
		ageMin = *req.AgeMin
	}
	if req.AgeMax != nil {
		ageMax = *req.AgeMax
	}
	if ageMin > ageMax {
		return nil, ErrInvalidAgeRange
	}

	updates := map[string]interface{}{}
	if req.LookingFor != "" {
		updates["looking_for"] = req.LookingFor
	}
	if req.AgeMin != nil {
		updates["age_min"] = *req.AgeMin
	}
	if req.AgeMax != nil {
		updates["age_max"] = *req.AgeMax
	}
	if req.DistanceKm != nil {
		if *req.DistanceKm <= 0 {
			return nil, ErrInvalidDistance
		}
		updates["distance_km"] = *req.DistanceKm
	}

	if len(updates) > 0 {
		if err := s.profiles.Update(ctx, userID, updates); err != nil {
			return nil, err
		}
	}
	return s.GetProfile(ctx, userID)
}

// RegisterPushToken stores the device token used for match and message pushes
func (s *ProfileService) RegisterPushToken(ctx context.Context, userID uuid.UUID, token string) error {
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return err
	}
	return s.profiles.SetPushToken(ctx, userID, token)
}

// TouchLastActive records activity; discovery ranks candidates by this
func (s *ProfileService) TouchLastActive(ctx context.Context, userID uuid.UUID) error {
	return s.profiles.TouchLastActive(ctx, userID)
}
