package models

import (
	"time"
)

// Blog is a single blog post. Slug is unique across all posts and is either
// supplied by the client or derived from the title.
type Blog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Title      string    `gorm:"size:200;not null" json:"title"`
	Slug       string    `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Excerpt    string    `gorm:"size:300" json:"excerpt"`
	CoverImage *string   `json:"coverImage"`
	Published  bool      `gorm:"default:false" json:"published"`
	Views      int64     `gorm:"default:0" json:"views"`
}
