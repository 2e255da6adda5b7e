package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// LikedPost is a social-media item a user engaged with, kept as creative
// inspiration for ad generation. Rows are immutable once ingested.
type LikedPost struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      string         `gorm:"column:user_id;not null" json:"user_id"`
	Email       *string        `gorm:"column:email" json:"email,omitempty"`
	ImageURL    string         `gorm:"column:image_url;not null" json:"image_url"`
	Description string         `gorm:"column:description;not null" json:"description"`
	Labels      pq.StringArray `gorm:"column:labels;type:text[];not null;default:ARRAY[]::text[]" json:"labels"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
