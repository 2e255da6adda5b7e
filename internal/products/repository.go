package product

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adforgehq/adforge-backend/pkg/db/models"
	"github.com/adforgehq/adforge-backend/pkg/pagination"
)

const maxSimilarityLabels = 3

// ProductRepository defines persistence operations for brand products.
type ProductRepository interface {
	Create(context.Context, *models.BrandProduct) (*models.BrandProduct, error)
	FindByID(context.Context, uuid.UUID) (*models.BrandProduct, error)
	FindByIDs(context.Context, []uuid.UUID) ([]models.BrandProduct, error)
	FindAll(context.Context) ([]models.BrandProduct, error)
	FindByLabels(context.Context, []string) ([]models.BrandProduct, error)
	List(context.Context, pagination.Params) ([]models.BrandProduct, string, error)
}

// Repository wires brand product persistence to GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.BrandProduct) (*models.BrandProduct, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads one product.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.BrandProduct, error) {
	var product models.BrandProduct
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads the products for the given ids, in no particular order.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.BrandProduct, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.BrandProduct
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

// FindAll returns the full catalog newest first.
func (r *Repository) FindAll(ctx context.Context) ([]models.BrandProduct, error) {
	var rows []models.BrandProduct
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// FindByLabels matches products whose name, category, or sub-category
// contains any of the first three labels, case-insensitively.
func (r *Repository) FindByLabels(ctx context.Context, labels []string) ([]models.BrandProduct, error) {
	patterns := make([]string, 0, maxSimilarityLabels)
	for _, label := range labels {
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			patterns = append(patterns, "%"+strings.ToLower(trimmed)+"%")
		}
		if len(patterns) == maxSimilarityLabels {
			break
		}
	}
	if len(patterns) == 0 {
		return nil, nil
	}

	qb := r.db.WithContext(ctx)
	var matcher *gorm.DB
	for _, pattern := range patterns {
		clause := r.db.Where(
			"LOWER(name) LIKE ? OR LOWER(category) LIKE ? OR LOWER(sub_category) LIKE ?",
			pattern, pattern, pattern,
		)
		if matcher == nil {
			matcher = clause
		} else {
			matcher = matcher.Or(clause)
		}
	}

	var rows []models.BrandProduct
	err := qb.Where(matcher).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// List returns one page of products newest first plus the next cursor.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.BrandProduct, string, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx)
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.BrandProduct
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
