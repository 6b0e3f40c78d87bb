// Package onboarding implements the first-run wizard as a small state machine.
// A user moves from profile, to pantry, to complete; each step fills part of
// the user record.
package onboarding

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pageza/recipe-buddy/backend/internal/types"
)

var (
	ErrInvalidTransition = errors.New("invalid onboarding transition")
	ErrMissingStep       = errors.New("missing onboarding step data")
	ErrInvalidStep       = errors.New("invalid onboarding step data")
	ErrUnknownState      = errors.New("unknown onboarding state")
)

// State is a wizard position.
type State string

const (
	StateProfile  State = types.OnboardingStart
	StatePantry   State = "pantry"
	StateComplete State = "complete"
)

// Event moves the wizard between states.
type Event string

const (
	EventSubmit Event = "submit"
	EventSkip   Event = "skip"
	EventBack   Event = "back"
)

var transitions = map[State]map[Event]State{
	StateProfile: {
		EventSubmit: StatePantry,
		EventSkip:   StatePantry,
	},
	StatePantry: {
		EventSubmit: StateComplete,
		EventBack:   StateProfile,
	},
	StateComplete: {
		EventBack: StatePantry,
	},
}

// ParseState reads a stored state. An empty value is the start state.
func ParseState(s string) (State, error) {
	if s == "" {
		return StateProfile, nil
	}
	st := State(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := transitions[st]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownState, s)
	}
	return st, nil
}

// Next returns the state reached by firing event in state.
func Next(state State, event Event) (State, error) {
	next, ok := transitions[state][event]
	if !ok {
		return state, fmt.Errorf("%w: %s in %s", ErrInvalidTransition, event, state)
	}
	return next, nil
}

// Events lists the events allowed in state, in a stable order.
func Events(state State) []Event {
	var out []Event
	for _, e := range []Event{EventSubmit, EventSkip, EventBack} {
		if _, ok := transitions[state][e]; ok {
			out = append(out, e)
		}
	}
	return out
}

// ProfileStep is the data submitted in the profile state.
type ProfileStep struct {
	Diet      []string `json:"diet"`
	Allergies []string `json:"allergies"`
}

// Validate restricts Diet to the known diet options and returns the cleaned
// step with diets in their canonical spelling.
func (p ProfileStep) Validate() (ProfileStep, error) {
	out := ProfileStep{
		Diet:      []string{},
		Allergies: types.CleanList(p.Allergies),
	}
	for _, d := range types.CleanList(p.Diet) {
		canonical, ok := knownDiet(d)
		if !ok {
			return ProfileStep{}, fmt.Errorf("%w: unknown diet %q", ErrInvalidStep, d)
		}
		out.Diet = append(out.Diet, canonical)
	}
	return out, nil
}

func knownDiet(d string) (string, bool) {
	for _, opt := range types.DietOptions {
		if strings.EqualFold(opt, d) {
			return opt, true
		}
	}
	return "", false
}

// PantryStep is the data submitted in the pantry state.
type PantryStep struct {
	Items []string `json:"items"`
}

// Input is one wizard action. Profile is required when submitting the profile
// step and Pantry when submitting the pantry step.
type Input struct {
	Event   Event        `json:"event" binding:"required"`
	Profile *ProfileStep `json:"profile,omitempty"`
	Pantry  *PantryStep  `json:"pantry,omitempty"`
}

// Apply fires in.Event against the record's onboarding state. Submitted step
// data is written into rec and the new state is stored on it. rec is left
// unchanged on error.
func Apply(rec *types.UserRecord, in Input) (State, error) {
	current, err := ParseState(rec.Onboarding)
	if err != nil {
		return "", err
	}
	next, err := Next(current, in.Event)
	if err != nil {
		return current, err
	}

	if in.Event == EventSubmit {
		switch current {
		case StateProfile:
			if in.Profile == nil {
				return current, fmt.Errorf("%w: profile", ErrMissingStep)
			}
			step, err := in.Profile.Validate()
			if err != nil {
				return current, err
			}
			rec.Profile = types.UserProfile{Diet: step.Diet, Allergies: step.Allergies}
		case StatePantry:
			if in.Pantry == nil {
				return current, fmt.Errorf("%w: pantry", ErrMissingStep)
			}
			rec.Pantry = types.CleanList(in.Pantry.Items)
		}
	}

	rec.Onboarding = string(next)
	return next, nil
}

// Status is the wizard position reported to clients.
type Status struct {
	State  State   `json:"state"`
	Events []Event `json:"events"`
}

// StatusOf reports the record's wizard position.
func StatusOf(rec *types.UserRecord) (Status, error) {
	st, err := ParseState(rec.Onboarding)
	if err != nil {
		return Status{}, err
	}
	return Status{State: st, Events: Events(st)}, nil
}
