package service

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/recipe-buddy/backend/internal/types"
)

// Policy decides what a failed interpretation turns into.
type Policy string

const (
	// PolicyFallback routes every failure to the local fallback generator.
	PolicyFallback Policy = "fallback"
	// PolicyPreserveRaw keeps the model's text as a raw placeholder whenever
	// text was returned but could not be used.
	PolicyPreserveRaw Policy = "raw"
)

// ParsePolicy validates a configured policy name.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyFallback:
		return PolicyFallback, nil
	case PolicyPreserveRaw:
		return PolicyPreserveRaw, nil
	default:
		return "", fmt.Errorf("unknown fallback policy %q", s)
	}
}

// User-visible notices attached to non-model outcomes.
const (
	NoticeNoResponse = "Recipe model unavailable. Showing locally generated recipes."
	NoticeSyntax     = "Model returned non-JSON output."
	NoticeStructural = "Model returned an unexpected number of recipes."
	NoticeUnexpected = "Unexpected error occurred."
	noticeFallback   = " Falling back to local generator."
	noticeRaw        = " Displaying raw response."
)

// Interpreter turns raw generation output into a renderable suggestion.
type Interpreter struct {
	batchSize int
	stripper  Stripper
	policy    Policy
	now       func() time.Time
}

// NewInterpreter creates an Interpreter. A nil stripper means no stripping and
// a non-positive batch size means DefaultBatchSize.
func NewInterpreter(batchSize int, stripper Stripper, policy Policy) *Interpreter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if stripper == nil {
		stripper = NoopStripper{}
	}
	if policy == "" {
		policy = PolicyFallback
	}
	return &Interpreter{
		batchSize: batchSize,
		stripper:  stripper,
		policy:    policy,
		now:       time.Now,
	}
}

// BatchSize is the number of recipes the interpreter expects.
func (i *Interpreter) BatchSize() int {
	return i.batchSize
}

// Interpret never fails: empty raw text (no response) yields the fallback
// batch, usable text yields the model batch, and anything else is resolved by
// the configured policy.
func (i *Interpreter) Interpret(raw string, prefs types.PreferenceSet) (s *types.Suggestion) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Interpreter] recovered while interpreting response: %v", r)
			s = i.failure(raw, prefs, types.ReasonUnexpected, fmt.Errorf("%w: %v", ErrMalformedOutput, r))
		}
	}()

	if strings.TrimSpace(raw) == "" {
		return i.fallback(prefs, types.ReasonNoResponse, NoticeNoResponse)
	}

	recipes, reason, err := i.decodeBatch(i.stripper.Strip(raw))
	if err != nil {
		return i.failure(raw, prefs, reason, err)
	}

	return i.result(types.SourceModel, types.ReasonNone, "", recipes, nil)
}

// decodeBatch parses text as an array of exactly batchSize recipe objects.
// Every element must be an object; fields are not validated.
func (i *Interpreter) decodeBatch(text string) ([]types.Recipe, types.Reason, error) {
	var value interface{}
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return nil, types.ReasonSyntax, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	items, ok := value.([]interface{})
	if !ok {
		return nil, types.ReasonStructural, fmt.Errorf("%w: expected a JSON array, got %T", ErrMalformedOutput, value)
	}
	if len(items) != i.batchSize {
		return nil, types.ReasonStructural, fmt.Errorf("%w: expected %d recipes, got %d", ErrMalformedOutput, i.batchSize, len(items))
	}
	for n, item := range items {
		if _, ok := item.(map[string]interface{}); !ok {
			return nil, types.ReasonUnexpected, fmt.Errorf("%w: recipe %d is %T, not an object", ErrMalformedOutput, n+1, item)
		}
	}

	var recipes []types.Recipe
	if err := json.Unmarshal([]byte(text), &recipes); err != nil {
		return nil, types.ReasonUnexpected, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return recipes, types.ReasonNone, nil
}

func (i *Interpreter) failure(raw string, prefs types.PreferenceSet, reason types.Reason, err error) *types.Suggestion {
	log.Printf("[Interpreter] %s failure: %v", reason, err)
	notice := failureNotice(reason)

	if i.policy == PolicyPreserveRaw && strings.TrimSpace(raw) != "" {
		return i.result(types.SourceRaw, reason, notice+noticeRaw, nil, []types.RawPlaceholder{{Recipe: raw}})
	}
	return i.fallback(prefs, reason, notice+noticeFallback)
}

func (i *Interpreter) fallback(prefs types.PreferenceSet, reason types.Reason, notice string) *types.Suggestion {
	return i.result(types.SourceFallback, reason, notice, Fallback(prefs, i.batchSize), nil)
}

func (i *Interpreter) result(source types.Source, reason types.Reason, notice string, recipes []types.Recipe, raw []types.RawPlaceholder) *types.Suggestion {
	return &types.Suggestion{
		ID:          uuid.New(),
		Source:      source,
		Reason:      reason,
		Notice:      notice,
		Recipes:     recipes,
		Raw:         raw,
		GeneratedAt: i.now().UTC(),
	}
}

func failureNotice(reason types.Reason) string {
	switch reason {
	case types.ReasonSyntax:
		return NoticeSyntax
	case types.ReasonStructural:
		return NoticeStructural
	default:
		return NoticeUnexpected
	}
}
