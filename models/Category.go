package models

import "gorm.io/gorm"

// Category groups recipes. Membership is optional.
type Category struct {
	gorm.Model
	Name     string `gorm:"type:varchar(20);not null"`
	ImageURL string

	Recipes []Recipe `gorm:"foreignKey:CategoryID"`
}
