package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Recipe struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	TimeMinutes int       `gorm:"not null;check:time_minutes >= 0" json:"time_minutes"`
	Price       float64   `gorm:"type:numeric(6,2);not null" json:"price"`
	Link        string    `gorm:"size:255" json:"link"`
	ImageKey    string    `gorm:"size:255" json:"-"`
	ImageURL    string    `gorm:"size:255" json:"image_url"`
	// UserID is fixed at creation and never updated afterwards.
	UserID      uuid.UUID    `gorm:"type:varchar(36);not null;index" json:"-"`
	Tags        []Tag        `gorm:"many2many:recipe_tags" json:"tags"`
	Ingredients []Ingredient `gorm:"many2many:recipe_ingredients" json:"ingredients"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
