package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipe-buddy/backend/internal/models"
	"github.com/pageza/recipe-buddy/backend/internal/service"
	"github.com/pageza/recipe-buddy/backend/internal/types"
)

// SearchLimit caps the number of saved recipes returned by a history search.
const SearchLimit = 10

// GormStore keeps user records in the users and saved_recipes tables.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore returns a store over a migrated database.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Get returns the record for username, or a default record when there is
// none. The default record is not written.
func (s *GormStore) Get(ctx context.Context, username string) (*types.UserRecord, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("username = ?", username).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.NewUserRecord(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return toRecord(&user), nil
}

// Put upserts the user row and replaces its history in one transaction.
func (s *GormStore) Put(ctx context.Context, username string, record *types.UserRecord) error {
	record.Normalize()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Where("username = ?", username).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = models.User{Username: username}
			applyRecord(&user, record)
			if err := tx.Omit("History").Create(&user).Error; err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to load user: %w", err)
		default:
			applyRecord(&user, record)
			if err := tx.Model(&user).
				Select("Pantry", "Diet", "Allergies", "Onboarding").
				Updates(&user).Error; err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.SavedRecipe{}).Error; err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		if len(record.History) == 0 {
			return nil
		}

		rows := make([]models.SavedRecipe, len(record.History))
		for i, h := range record.History {
			rows[i] = toSavedRecipe(user.ID, i, h)
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to save history: %w", err)
		}
		return nil
	})
}

// SearchHistory ranks saved recipes by embedding distance on postgres, and
// falls back to a case-insensitive title/summary match elsewhere.
func (s *GormStore) SearchHistory(ctx context.Context, username, query string) ([]types.SavedRecipe, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []types.SavedRecipe{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	q := s.db.WithContext(ctx).Where("user_id = ?", user.ID).Limit(SearchLimit)
	if s.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{service.GenerateEmbedding(query)}},
		})
	} else {
		like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(summary) LIKE ?", like, like).Order("position")
	}

	var rows []models.SavedRecipe
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to search history: %w", err)
	}

	out := make([]types.SavedRecipe, len(rows))
	for i := range rows {
		out[i] = fromSavedRecipe(&rows[i])
	}
	return out, nil
}

func applyRecord(user *models.User, record *types.UserRecord) {
	user.Pantry = models.JSONBStringArray(record.Pantry)
	user.Diet = models.JSONBStringArray(record.Profile.Diet)
	user.Allergies = models.JSONBStringArray(record.Profile.Allergies)
	user.Onboarding = record.Onboarding
}

func toRecord(user *models.User) *types.UserRecord {
	rec := &types.UserRecord{
		Pantry: user.Pantry.Strings(),
		Profile: types.UserProfile{
			Diet:      user.Diet.Strings(),
			Allergies: user.Allergies.Strings(),
		},
		History:    make([]types.SavedRecipe, len(user.History)),
		Onboarding: user.Onboarding,
	}
	for i := range user.History {
		rec.History[i] = fromSavedRecipe(&user.History[i])
	}
	rec.Normalize()
	return rec
}

func toSavedRecipe(userID uuid.UUID, position int, h types.SavedRecipe) models.SavedRecipe {
	id := h.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return models.SavedRecipe{
		ID:               id,
		UserID:           userID,
		Position:         position,
		Title:            h.Recipe.Title,
		Summary:          h.Recipe.Summary,
		TotalTimeMinutes: h.Recipe.TotalTimeMinutes,
		Ingredients:      models.JSONBStringArray(h.Recipe.Ingredients),
		Steps:            models.JSONBStringArray(h.Recipe.Steps),
		Tags:             models.JSONBStringArray(h.Recipe.Tags),
		Embedding:        service.RecipeEmbedding(h.Recipe),
		SavedAt:          h.SavedAt,
	}
}

func fromSavedRecipe(row *models.SavedRecipe) types.SavedRecipe {
	return types.SavedRecipe{
		ID: row.ID,
		Recipe: types.Recipe{
			Title:            row.Title,
			Summary:          row.Summary,
			TotalTimeMinutes: row.TotalTimeMinutes,
			Ingredients:      row.Ingredients.Strings(),
			Steps:            row.Steps.Strings(),
			Tags:             row.Tags.Strings(),
		},
		SavedAt: row.SavedAt.UTC(),
	}
}
