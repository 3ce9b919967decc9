package models

import "gorm.io/gorm"

// Review is a free-text comment on a recipe. The author is never the recipe's
// owner; the controllers reject self-reviews.
type Review struct {
	gorm.Model
	RecipeID uint   `gorm:"not null;index"`
	UserID   uint   `gorm:"not null;index"`
	Content  string `gorm:"not null"`

	User   User   `gorm:"foreignKey:UserID"`
	Recipe Recipe `gorm:"foreignKey:RecipeID"`
}
