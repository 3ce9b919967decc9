package models

import "gorm.io/gorm"

// UserRating is a single user's rating of a recipe. A user may rate a recipe
// at most once, enforced by the composite unique index.
type UserRating struct {
	gorm.Model
	UserID   uint    `gorm:"not null;uniqueIndex:idx_ratings_user_recipe"`
	RecipeID uint    `gorm:"not null;uniqueIndex:idx_ratings_user_recipe"`
	Rating   float64 `gorm:"not null"`
}
