package models

import (
	"time"
)

// Project is a portfolio entry. Tags are stored as a JSON array in a single
// column; normalization of the inbound tag shapes happens in the controller.
type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Slug        string    `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"size:500;not null" json:"description"`
	Content     *string   `gorm:"type:text" json:"content"`
	Thumbnail   *string   `json:"thumbnail"`
	ProjectURL  *string   `json:"projectUrl"`
	GithubURL   *string   `json:"githubUrl"`
	Tags        []string  `gorm:"serializer:json;type:jsonb" json:"tags"`
	Featured    bool      `gorm:"default:false" json:"featured"`
}
