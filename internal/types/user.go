package types

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile holds dietary settings collected during onboarding.
type UserProfile struct {
	Diet      []string `json:"diet"`
	Allergies []string `json:"allergies"`
}

// SavedRecipe is a recipe the user kept from a suggestion.
type SavedRecipe struct {
	ID      uuid.UUID `json:"id"`
	Recipe  Recipe    `json:"recipe"`
	SavedAt time.Time `json:"saved_at"`
}

// OnboardingStart is the wizard state of a new user.
const OnboardingStart = "profile"

// UserRecord is everything stored per username.
type UserRecord struct {
	Pantry     []string      `json:"pantry"`
	Profile    UserProfile   `json:"profile"`
	History    []SavedRecipe `json:"history"`
	Onboarding string        `json:"onboarding,omitempty"`
}

// NewUserRecord returns the record used for a username seen for the first time.
func NewUserRecord() *UserRecord {
	return &UserRecord{
		Pantry: []string{},
		Profile: UserProfile{
			Diet:      []string{},
			Allergies: []string{},
		},
		History:    []SavedRecipe{},
		Onboarding: OnboardingStart,
	}
}

// Normalize replaces nil slices with empty ones so records always encode as
// arrays, and fills an empty onboarding state.
func (r *UserRecord) Normalize() {
	if r.Pantry == nil {
		r.Pantry = []string{}
	}
	if r.Profile.Diet == nil {
		r.Profile.Diet = []string{}
	}
	if r.Profile.Allergies == nil {
		r.Profile.Allergies = []string{}
	}
	if r.History == nil {
		r.History = []SavedRecipe{}
	}
	if r.Onboarding == "" {
		r.Onboarding = OnboardingStart
	}
}
