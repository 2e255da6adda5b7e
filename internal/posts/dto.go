package post

import (
	"time"

	"github.com/google/uuid"

	"github.com/adforgehq/adforge-backend/pkg/db/models"
)

// PostDTO represents a liked post in the dashboard feed.
type PostDTO struct {
	ID          uuid.UUID `json:"id"`
	UserID      string    `json:"user_id"`
	Email       *string   `json:"email,omitempty"`
	ImageURL    string    `json:"image_url"`
	Description string    `json:"description,omitempty"`
	Labels      []string  `json:"labels"`
	CreatedAt   time.Time `json:"created_at"`
}

// PostListResult wraps one page of liked posts.
type PostListResult struct {
	Posts      []PostDTO `json:"posts"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// NewPostDTO maps a liked post row to its API payload.
func NewPostDTO(row models.LikedPost) PostDTO {
	labels := []string{}
	if len(row.Labels) > 0 {
		labels = append(labels, row.Labels...)
	}
	return PostDTO{
		ID:          row.ID,
		UserID:      row.UserID,
		Email:       row.Email,
		ImageURL:    row.ImageURL,
		Description: row.Description,
		Labels:      labels,
		CreatedAt:   row.CreatedAt,
	}
}

// NewPostDTOs maps a slice of liked post rows.
func NewPostDTOs(rows []models.LikedPost) []PostDTO {
	dtos := make([]PostDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, NewPostDTO(row))
	}
	return dtos
}
