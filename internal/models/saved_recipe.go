package models

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
)

// SavedRecipe is a recipe a user kept from a suggestion.
type SavedRecipe struct {
	ID               uuid.UUID        `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID           uuid.UUID        `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Position         int              `gorm:"not null" json:"position"`
	Title            string           `gorm:"size:255;not null" json:"title"`
	Summary          string           `gorm:"type:text" json:"summary"`
	TotalTimeMinutes int              `json:"total_time_minutes"`
	Ingredients      JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Steps            JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"steps"`
	Tags             JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"tags"`
	Embedding        pgvector.Vector  `gorm:"type:vector(3)" json:"-"`
	SavedAt          time.Time        `gorm:"not null" json:"saved_at"`
}

func (SavedRecipe) TableName() string {
	return "saved_recipes"
}
