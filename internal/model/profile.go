package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Gender is a user's own gender
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// LookingFor is the gender(s) a user wants to be shown
type LookingFor string

const (
	LookingForMale     LookingFor = "male"
	LookingForFemale   LookingFor = "female"
	LookingForEveryone LookingFor = "everyone"
)

// Profile is the dating profile plus discovery preferences for one user.
// It is written as a whole when onboarding completes; a user either has a
// complete profile or none at all, and only complete profiles are eligible
// for discovery.
type Profile struct {
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	DateOfBirth time.Time `json:"date_of_birth" gorm:"not null"`
	// Age is derived from DateOfBirth and recomputed whenever the profile is saved.
	Age       int                        `json:"age" gorm:"not null"`
	Gender    Gender                     `json:"gender" gorm:"type:varchar(10);not null"`
	Bio       string                     `json:"bio" gorm:"type:text"`
	Photos    datatypes.JSONSlice[string] `json:"photos"`
	City      string                     `json:"city" gorm:"size:100"`
	Latitude  float64                    `json:"latitude"`
	Longitude float64                    `json:"longitude"`
	Interests datatypes.JSONSlice[string] `json:"interests"`
	Height    *int                       `json:"height,omitempty"`
	Education *string                    `json:"education,omitempty" gorm:"size:100"`
	Occupation *string                   `json:"occupation,omitempty" gorm:"size:100"`

	// Discovery preferences
	LookingFor LookingFor `json:"looking_for" gorm:"type:varchar(10);default:'everyone'"`
	AgeMin     int        `json:"age_min" gorm:"default:18"`
	AgeMax     int        `json:"age_max" gorm:"default:99"`
	DistanceKm float64    `json:"distance_km" gorm:"default:50"`

	// Metadata
	ProfileComplete     bool      `json:"profile_complete" gorm:"default:false;index"`
	OnboardingCompleted bool      `json:"onboarding_completed" gorm:"default:false"`
	PushToken           string    `json:"-" gorm:"size:500"`
	LastActiveAt        time.Time `json:"last_active_at" gorm:"index"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// WantsGender reports whether the profile owner wants to see the given gender.
func (p *Profile) WantsGender(g Gender) bool {
	return p.LookingFor == LookingForEveryone || string(p.LookingFor) == string(g)
}

// WantsAge reports whether the given age falls inside the owner's preferred range.
func (p *Profile) WantsAge(age int) bool {
	return age >= p.AgeMin && age <= p.AgeMax
}

// AgeAt returns full years between the date of birth and the given time.
func AgeAt(dateOfBirth, now time.Time) int {
	age := now.Year() - dateOfBirth.Year()
	if now.Month() < dateOfBirth.Month() ||
		(now.Month() == dateOfBirth.Month() && now.Day() < dateOfBirth.Day()) {
		age--
	}
	return age
}
