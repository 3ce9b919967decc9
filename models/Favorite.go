package models

import "gorm.io/gorm"

// Favorite is a user's saved-recipe bookmark, independent of rating or review.
type Favorite struct {
	gorm.Model
	UserID   uint `gorm:"not null;index"`
	RecipeID uint `gorm:"not null;index"`

	Recipe Recipe `gorm:"foreignKey:RecipeID"`
}
