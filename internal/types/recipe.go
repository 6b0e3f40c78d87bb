package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Recipe is a single recipe card, either produced by the model or by the
// local fallback generator.
type Recipe struct {
	Title            string   `json:"title"`
	Summary          string   `json:"summary"`
	TotalTimeMinutes int      `json:"total_time_minutes"`
	Ingredients      []string `json:"ingredients"`
	Steps            []string `json:"steps"`
	Tags             []string `json:"tags"`
}

// UnmarshalJSON accepts total_time_minutes as a JSON number or a numeric
// string. Everything else about the record is taken as-is, and null leaves
// the record unchanged.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	type Alias Recipe
	aux := &struct {
		TotalTimeMinutes json.Number `json:"total_time_minutes"`
		*Alias
	}{
		Alias: (*Alias)(r),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.TotalTimeMinutes == "" {
		r.TotalTimeMinutes = 0
		return nil
	}
	if n, err := aux.TotalTimeMinutes.Int64(); err == nil {
		r.TotalTimeMinutes = int(n)
		return nil
	}
	f, err := aux.TotalTimeMinutes.Float64()
	if err != nil {
		return fmt.Errorf("invalid total_time_minutes %q: %w", aux.TotalTimeMinutes, err)
	}
	r.TotalTimeMinutes = int(f)
	return nil
}

// RawPlaceholder carries model output that could not be interpreted.
type RawPlaceholder struct {
	Recipe string `json:"recipe"`
}

// Source identifies where a suggestion's content came from.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
	SourceRaw      Source = "raw"
)

// Reason explains why a suggestion did not come straight from the model.
type Reason string

const (
	ReasonNone       Reason = ""
	ReasonNoResponse Reason = "no_response"
	ReasonStructural Reason = "structural"
	ReasonSyntax     Reason = "syntax"
	ReasonUnexpected Reason = "unexpected"
)

// Suggestion is the result of one generation request. Exactly one of Recipes
// or Raw is populated; renderers branch on IsPlaceholder.
type Suggestion struct {
	ID          uuid.UUID        `json:"id"`
	Source      Source           `json:"source"`
	Reason      Reason           `json:"reason,omitempty"`
	Notice      string           `json:"notice,omitempty"`
	Recipes     []Recipe         `json:"recipes,omitempty"`
	Raw         []RawPlaceholder `json:"raw,omitempty"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// IsPlaceholder reports whether the suggestion holds unparsed model text
// instead of recipe records.
func (s *Suggestion) IsPlaceholder() bool {
	return s.Source == SourceRaw
}

// Len returns the number of renderable cards.
func (s *Suggestion) Len() int {
	if s.IsPlaceholder() {
		return len(s.Raw)
	}
	return len(s.Recipes)
}
