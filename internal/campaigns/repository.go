package campaign

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adforgehq/adforge-backend/pkg/db/models"
	"github.com/adforgehq/adforge-backend/pkg/pagination"
)

// CampaignRepository defines persistence operations for brand campaigns.
type CampaignRepository interface {
	Create(context.Context, *models.BrandCampaign) (*models.BrandCampaign, error)
	FindByID(context.Context, uuid.UUID) (*models.BrandCampaign, error)
	List(context.Context, pagination.Params) ([]models.BrandCampaign, string, error)
}

// Repository wires brand campaign persistence to GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new campaign row.
func (r *Repository) Create(ctx context.Context, campaign *models.BrandCampaign) (*models.BrandCampaign, error) {
	if err := r.db.WithContext(ctx).Create(campaign).Error; err != nil {
		return nil, err
	}
	return campaign, nil
}

// FindByID loads one campaign.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.BrandCampaign, error) {
	var campaign models.BrandCampaign
	if err := r.db.WithContext(ctx).First(&campaign, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

// List returns one page of campaigns newest first plus the next cursor.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.BrandCampaign, string, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx)
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.BrandCampaign
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
