package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/recipe-buddy/backend/internal/types"
)

// SuggestionConfig holds the generation settings used by SuggestionService.
// AutoPull provisions the model before generating when the generator is
// also a ModelProvisioner. The pull has its own PullTimeout budget.
type SuggestionConfig struct {
	Model       string
	Temperature float64
	Timeout     time.Duration
	AutoPull    bool
	PullTimeout time.Duration
}

// SuggestionService runs the prompt → generate → interpret pipeline for a user.
type SuggestionService struct {
	users       UserStore
	sessions    SessionStore
	generator   Generator
	interpreter *Interpreter
	exporter    Exporter
	cfg         SuggestionConfig
	now         func() time.Time
}

// NewSuggestionService wires a SuggestionService. generator and exporter may
// be nil: without a generator every request uses the fallback, without an
// exporter Export returns ErrExportDisabled.
func NewSuggestionService(users UserStore, sessions SessionStore, generator Generator, interpreter *Interpreter, exporter Exporter, cfg SuggestionConfig) *SuggestionService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.PullTimeout <= 0 {
		cfg.PullTimeout = DefaultPullTimeout
	}
	return &SuggestionService{
		users:       users,
		sessions:    sessions,
		generator:   generator,
		interpreter: interpreter,
		exporter:    exporter,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Preferences combines a request with the stored user record. Profile diets
// extend the constraints and allergies become "avoid" constraints.
func Preferences(req types.SuggestRequest, user *types.UserRecord) types.PreferenceSet {
	meal, _ := types.ParseMealType(req.MealType)

	constraints := types.CleanList(req.Constraints)
	seen := make(map[string]struct{}, len(constraints))
	for _, c := range constraints {
		seen[strings.ToLower(c)] = struct{}{}
	}
	add := func(c string) {
		if _, ok := seen[strings.ToLower(c)]; ok {
			return
		}
		seen[strings.ToLower(c)] = struct{}{}
		constraints = append(constraints, c)
	}
	for _, d := range types.CleanList(user.Profile.Diet) {
		add(d)
	}
	for _, a := range types.CleanList(user.Profile.Allergies) {
		add("avoid " + a)
	}

	return types.PreferenceSet{
		Pantry:           copyStrings(user.Pantry),
		MealType:         meal,
		TimeLimitMinutes: req.TimeLimitMinutes,
		MoodKeywords:     types.CleanList(req.Mood),
		Constraints:      constraints,
		MustUse:          types.CleanList(req.MustUse),
	}
}

// Suggest produces a suggestion for username. Generation problems never
// surface as errors; only user store failures do.
func (s *SuggestionService) Suggest(ctx context.Context, username string, req types.SuggestRequest) (*types.Suggestion, error) {
	user, err := s.users.Get(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", username, err)
	}

	prefs := Preferences(req, user)
	prompt := BuildPrompt(prefs, s.interpreter.BatchSize())

	raw := s.generate(ctx, req.Model, prompt)
	suggestion := s.interpreter.Interpret(raw, prefs)
	if suggestion.Source != types.SourceModel {
		log.Printf("[SuggestionService] %s suggestion for %s (reason: %s)", suggestion.Source, username, suggestion.Reason)
	}

	if err := s.sessions.Save(ctx, username, suggestion); err != nil {
		log.Printf("[SuggestionService] failed to save session for %s: %v", username, err)
	}
	return suggestion, nil
}

// generate returns the raw model text, or "" when there is no usable response.
func (s *SuggestionService) generate(ctx context.Context, model, prompt string) string {
	if model == "" {
		model = s.cfg.Model
	}
	if s.generator == nil || model == "" {
		log.Printf("[SuggestionService] no generation model configured, using local generator")
		return ""
	}

	if s.cfg.AutoPull {
		s.provision(ctx, model)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	raw, err := s.generator.Generate(ctx, GenerateRequest{
		Model:       model,
		Prompt:      prompt,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		log.Printf("[SuggestionService] generation failed: %v", err)
		return ""
	}
	return raw
}

// provision makes sure model is installed. Failures are logged and the
// generate call is attempted anyway.
func (s *SuggestionService) provision(ctx context.Context, model string) {
	p, ok := s.generator.(ModelProvisioner)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.PullTimeout)
	defer cancel()

	if err := p.EnsureModel(ctx, model); err != nil {
		log.Printf("[SuggestionService] model %s not available: %v", model, err)
	}
}

// Latest returns the most recent suggestion for username.
func (s *SuggestionService) Latest(ctx context.Context, username string) (*types.Suggestion, error) {
	return s.sessions.Get(ctx, username)
}

// SaveToHistory appends the recipe at index of the latest suggestion to the
// user's history.
func (s *SuggestionService) SaveToHistory(ctx context.Context, username string, index int) (*types.SavedRecipe, error) {
	latest, err := s.sessions.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	if latest.IsPlaceholder() || index < 0 || index >= len(latest.Recipes) {
		return nil, ErrNotSaveable
	}

	user, err := s.users.Get(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", username, err)
	}

	saved := types.SavedRecipe{
		ID:      uuid.New(),
		Recipe:  latest.Recipes[index],
		SavedAt: s.now().UTC(),
	}
	user.History = append(user.History, saved)

	if err := s.users.Put(ctx, username, user); err != nil {
		return nil, fmt.Errorf("failed to save history for %s: %w", username, err)
	}
	return &saved, nil
}

// History lists saved recipes, filtered by query when the store can search.
func (s *SuggestionService) History(ctx context.Context, username, query string) ([]types.SavedRecipe, error) {
	if query != "" {
		if searcher, ok := s.users.(HistorySearcher); ok {
			return searcher.SearchHistory(ctx, username, query)
		}
	}

	user, err := s.users.Get(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", username, err)
	}
	return user.History, nil
}

// Export publishes the latest suggestion and returns its URL.
func (s *SuggestionService) Export(ctx context.Context, username string) (string, error) {
	if s.exporter == nil {
		return "", ErrExportDisabled
	}
	latest, err := s.sessions.Get(ctx, username)
	if err != nil {
		return "", err
	}
	url, err := s.exporter.Export(ctx, username, latest)
	if err != nil {
		return "", fmt.Errorf("failed to export suggestion: %w", err)
	}
	return url, nil
}
