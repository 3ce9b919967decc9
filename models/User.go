package models

import "gorm.io/gorm"

// User represents an application account that can authenticate with the API.
type User struct {
	gorm.Model
	Name            string `gorm:"type:varchar(40);not null"`
	Email           string `gorm:"type:varchar(40);uniqueIndex;not null"`
	PasswordHash    string `gorm:"not null"`
	Admin           bool   `gorm:"not null;default:false"`
	ProfileImageURL string

	Recipes   []Recipe     `gorm:"foreignKey:UserID"`
	Reviews   []Review     `gorm:"foreignKey:UserID"`
	Ratings   []UserRating `gorm:"foreignKey:UserID"`
	Favorites []Favorite   `gorm:"foreignKey:UserID"`
}
