package models

import "gorm.io/gorm"

// Category groups games for browsing. SortOrder drives display order.
type Category struct {
	gorm.Model
	Slug        string `gorm:"size:120;uniqueIndex;not null"`
	Name        string `gorm:"size:255;not null"`
	Description string
	Color       string `gorm:"size:20"`
	Icon        string `gorm:"size:100"`
	SortOrder   int    `gorm:"not null;default:0;index"`
}
