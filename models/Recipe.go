package models

import (
	"gorm.io/gorm"
)

// Recipe is a user-owned recipe. Rating is derived state: it always holds the
// arithmetic mean of the recipe's UserRating rows, or 0 when none exist.
type Recipe struct {
	gorm.Model
	UserID          uint   `gorm:"not null;uniqueIndex:idx_recipes_owner_name"`
	Name            string `gorm:"type:varchar(40);not null;uniqueIndex:idx_recipes_owner_name"`
	ImageURL        string
	Description     string  `gorm:"type:varchar(200);not null"`
	Ingredients     string  `gorm:"type:varchar(400);not null"`
	PreparationTime int     `gorm:"not null"`
	Serves          int     `gorm:"not null"`
	Rating          float64 `gorm:"not null;default:0"`
	CategoryID      *uint

	User      User         `gorm:"foreignKey:UserID"`
	Category  *Category    `gorm:"foreignKey:CategoryID"`
	Steps     []Step       `gorm:"foreignKey:RecipeID"`
	Ratings   []UserRating `gorm:"foreignKey:RecipeID"`
	Reviews   []Review     `gorm:"foreignKey:RecipeID"`
	Favorites []Favorite   `gorm:"foreignKey:RecipeID"`
}
