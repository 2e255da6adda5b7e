package ad

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adforgehq/adforge-backend/pkg/db"
	"github.com/adforgehq/adforge-backend/pkg/db/models"
	"github.com/adforgehq/adforge-backend/pkg/pagination"
)

// AdRepository defines persistence operations for generated ads.
type AdRepository interface {
	Create(context.Context, *models.GeneratedAd) error
	FindByID(context.Context, uuid.UUID) (*models.GeneratedAd, error)
	List(context.Context, pagination.Params) ([]models.GeneratedAd, string, error)
	UpdateImageKey(context.Context, uuid.UUID, string) error
}

// Repository wires generated ad persistence to GORM.
type Repository struct {
	db     *gorm.DB
	client *db.Client
}

// NewRepository builds a repository tied to the provided db client.
func NewRepository(client *db.Client) *Repository {
	return &Repository{db: client.DB(), client: client}
}

// Create inserts the ad row and its product join rows in one transaction.
// The associated product rows themselves are never touched.
func (r *Repository) Create(ctx context.Context, ad *models.GeneratedAd) error {
	return r.client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Omit("Products.*").Create(ad).Error
	})
}

// FindByID loads one ad with its campaign and products.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.GeneratedAd, error) {
	var ad models.GeneratedAd
	err := r.db.WithContext(ctx).
		Preload("Campaign").
		Preload("Products").
		First(&ad, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

// List returns one page of ads newest first with products preloaded.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.GeneratedAd, string, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).Preload("Products")
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.GeneratedAd
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

// UpdateImageKey repoints the ad's image blob reference.
func (r *Repository) UpdateImageKey(ctx context.Context, id uuid.UUID, key string) error {
	return r.db.WithContext(ctx).
		Model(&models.GeneratedAd{}).
		Where("id = ?", id).
		Update("image_key", key).
		Error
}
