package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the relational form of a user record. Profile fields are kept
// inline, saved recipes live in their own table.
type User struct {
	ID         uuid.UUID        `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	Username   string           `gorm:"size:100;not null;uniqueIndex" json:"username"`
	Pantry     JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"pantry"`
	Diet       JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"diet"`
	Allergies  JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"allergies"`
	Onboarding string           `gorm:"size:20" json:"onboarding"`
	History    []SavedRecipe    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"history"`
}

// BeforeCreate assigns an ID when none is set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
