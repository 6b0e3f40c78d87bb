package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pageza/recipe-buddy/backend/internal/types"
)

// FileStore keeps every user record in a single JSON object keyed by
// username. Each operation reads the whole file and Put writes it back.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by the JSON file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path is the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the record for username, or a default record when there is
// none. The default record is not written.
func (s *FileStore) Get(ctx context.Context, username string) (*types.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return nil, err
	}
	if rec, ok := users[username]; ok && rec != nil {
		rec.Normalize()
		return rec, nil
	}
	return types.NewUserRecord(), nil
}

// Put stores record under username, replacing any previous record.
func (s *FileStore) Put(ctx context.Context, username string, record *types.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return err
	}
	record.Normalize()
	users[username] = record
	return s.write(users)
}

// SearchHistory returns saved recipes whose title or summary contains query,
// ignoring case.
func (s *FileStore) SearchHistory(ctx context.Context, username, query string) ([]types.SavedRecipe, error) {
	rec, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	return matchHistory(rec.History, query), nil
}

// load reads the file, creating it as an empty object when missing. A file
// that does not hold valid JSON reads as empty.
func (s *FileStore) load() (map[string]*types.UserRecord, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read user store: %w", err)
	}

	users := map[string]*types.UserRecord{}
	if err := json.Unmarshal(data, &users); err != nil {
		log.Printf("[FileStore] %s is not valid JSON, treating as empty: %v", s.path, err)
		return map[string]*types.UserRecord{}, nil
	}
	return users, nil
}

func (s *FileStore) ensure() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(s.path, []byte("{}"), 0o644); err != nil {
			return fmt.Errorf("failed to create user store: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to stat user store: %w", err)
	}
	return nil
}

func (s *FileStore) write(users map[string]*types.UserRecord) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode user store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write user store: %w", err)
	}
	return nil
}

func matchHistory(history []types.SavedRecipe, query string) []types.SavedRecipe {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []types.SavedRecipe{}
	for _, h := range history {
		if q == "" ||
			strings.Contains(strings.ToLower(h.Recipe.Title), q) ||
			strings.Contains(strings.ToLower(h.Recipe.Summary), q) {
			out = append(out, h)
		}
	}
	return out
}
