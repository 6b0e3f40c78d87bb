package service

import (
	"context"
	"errors"

	"github.com/pageza/recipe-buddy/backend/internal/types"
)

var (
	ErrServiceUnavailable = errors.New("generation service unavailable")
	ErrMalformedOutput    = errors.New("malformed generation output")
	ErrNoSession          = errors.New("no suggestion for user")
	ErrNotSaveable        = errors.New("suggestion has no recipe at that position")
	ErrExportDisabled     = errors.New("suggestion export is not configured")
)

// GenerateRequest is a single completion request to the generation service.
type GenerateRequest struct {
	Model       string
	Prompt      string
	Temperature float64
}

// Generator is the text-generation boundary. An error means no usable
// response was produced.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// ModelProvisioner checks for and fetches models on the generation service.
type ModelProvisioner interface {
	ListModels(ctx context.Context) ([]string, error)
	EnsureModel(ctx context.Context, model string) error
}

// UserStore is a get/put key-value store of user records keyed by username.
// Get returns a fresh default record for unknown usernames without storing it.
type UserStore interface {
	Get(ctx context.Context, username string) (*types.UserRecord, error)
	Put(ctx context.Context, username string, record *types.UserRecord) error
}

// HistorySearcher finds saved recipes related to a free-text query.
type HistorySearcher interface {
	SearchHistory(ctx context.Context, username, query string) ([]types.SavedRecipe, error)
}

// SessionStore holds the most recent suggestion per user.
type SessionStore interface {
	Save(ctx context.Context, username string, s *types.Suggestion) error
	Get(ctx context.Context, username string) (*types.Suggestion, error)
}

// Exporter publishes a suggestion and returns a URL it can be fetched from.
type Exporter interface {
	Export(ctx context.Context, username string, s *types.Suggestion) (string, error)
}
