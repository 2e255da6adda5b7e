package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adforgehq/adforge-backend/pkg/db/models"
	pkgerrors "github.com/adforgehq/adforge-backend/pkg/errors"
	"github.com/adforgehq/adforge-backend/pkg/logger"
	"github.com/adforgehq/adforge-backend/pkg/pagination"
)

const (
	defaultCategory    = "General"
	defaultSubCategory = "Uncategorized"
)

var maxDiscount = decimal.NewFromInt(100)

// Service exposes brand product management and similarity matching.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	ListProducts(ctx context.Context, params pagination.Params) (*ProductListResult, error)
	FindForSelection(ctx context.Context, ids []uuid.UUID) ([]models.BrandProduct, error)
	SimilarToPost(ctx context.Context, post *models.LikedPost) ([]models.BrandProduct, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name               string
	Category           string
	SubCategory        string
	Description        string
	SellingPrice       decimal.Decimal
	DiscountPercentage decimal.Decimal
	Features           []string
	ImageLink          string
}

// service implements the product service.
type service struct {
	repo ProductRepository
	log  *logger.Logger
}

// NewService constructs a product service instance.
func NewService(repo ProductRepository, log *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, log: log}, nil
}

// CreateProduct validates and persists a new catalog entry. Pricing
// violations are rejected outright, never clamped.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.SellingPrice.Sign() < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "selling_price cannot be negative")
	}
	if input.DiscountPercentage.Sign() < 0 || input.DiscountPercentage.GreaterThan(maxDiscount) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount_percentage must be between 0 and 100")
	}

	row := &models.BrandProduct{
		ID:                 uuid.New(),
		Name:               name,
		Category:           strings.TrimSpace(input.Category),
		SubCategory:        strings.TrimSpace(input.SubCategory),
		Description:        strings.TrimSpace(input.Description),
		SellingPrice:       input.SellingPrice,
		DiscountPercentage: input.DiscountPercentage,
		Features:           trimmedFeatures(input.Features),
		ImageLink:          strings.TrimSpace(input.ImageLink),
	}
	if row.Category == "" {
		row.Category = defaultCategory
	}
	if row.SubCategory == "" {
		row.SubCategory = defaultSubCategory
	}

	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}

	dto := NewProductDTO(*created)
	return &dto, nil
}

// ListProducts returns one page of the catalog newest first.
func (s *service) ListProducts(ctx context.Context, params pagination.Params) (*ProductListResult, error) {
	rows, nextCursor, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return &ProductListResult{
		Products:   NewProductDTOs(rows),
		NextCursor: nextCursor,
	}, nil
}

// FindForSelection loads the requested products and fails when any id is
// missing, so a stale selection surfaces as a validation error.
func (s *service) FindForSelection(ctx context.Context, ids []uuid.UUID) ([]models.BrandProduct, error) {
	if len(ids) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_ids are required")
	}

	seen := map[uuid.UUID]struct{}{}
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	rows, err := s.repo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load products")
	}
	if len(rows) != len(unique) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "one or more selected products do not exist")
	}
	return rows, nil
}

// SimilarToPost matches catalog entries against the post's first three
// labels. An empty match, a post without labels, or a lookup failure all
// fall back to the full catalog so ad creation always has products to offer.
func (s *service) SimilarToPost(ctx context.Context, post *models.LikedPost) ([]models.BrandProduct, error) {
	var labels []string
	if post != nil {
		labels = post.Labels
	}

	if len(labels) > 0 {
		rows, err := s.repo.FindByLabels(ctx, labels)
		if err != nil {
			s.log.Error(ctx, "similarity lookup failed, falling back to full catalog", err)
		} else if len(rows) > 0 {
			return rows, nil
		}
	}

	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load catalog")
	}
	return rows, nil
}

func trimmedFeatures(features []string) []string {
	out := make([]string, 0, len(features))
	for _, feature := range features {
		if trimmed := strings.TrimSpace(feature); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
