package post

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adforgehq/adforge-backend/pkg/db/models"
	"github.com/adforgehq/adforge-backend/pkg/pagination"
)

// PostRepository defines read operations over liked posts.
type PostRepository interface {
	FindByID(context.Context, uuid.UUID) (*models.LikedPost, error)
	List(context.Context, pagination.Params) ([]models.LikedPost, string, error)
	Create(context.Context, *models.LikedPost) (*models.LikedPost, error)
}

// Repository wires liked post persistence to GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new liked post row. Ingest tooling is the only writer.
func (r *Repository) Create(ctx context.Context, post *models.LikedPost) (*models.LikedPost, error) {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// FindByID loads one liked post.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.LikedPost, error) {
	var post models.LikedPost
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns one page of posts newest first plus the next cursor.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.LikedPost, string, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx)
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.LikedPost
	err = qb.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).
		Error
	if err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}
