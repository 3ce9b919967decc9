package models

import "gorm.io/gorm"

// Step is one ordered instruction belonging to a recipe.
type Step struct {
	gorm.Model
	RecipeID uint   `gorm:"not null;index"`
	Position int    `gorm:"not null"`
	Content  string `gorm:"not null"`
}
