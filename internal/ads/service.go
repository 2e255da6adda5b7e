package ad

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/adforgehq/adforge-backend/internal/generation"
	"github.com/adforgehq/adforge-backend/pkg/db/models"
	"github.com/adforgehq/adforge-backend/pkg/enums"
	pkgerrors "github.com/adforgehq/adforge-backend/pkg/errors"
	"github.com/adforgehq/adforge-backend/pkg/logger"
	"github.com/adforgehq/adforge-backend/pkg/pagination"
	"github.com/adforgehq/adforge-backend/pkg/storage/local"
)

const (
	opRegenerateAd = "regenerate_ad"

	// WarningImageMissing is attached to a successful create whose image
	// blob could not be written. The ad is usable and can be regenerated.
	WarningImageMissing = "ad created but its image could not be stored, regenerate to retry"
)

// Service exposes generated ad reads, creation, and image regeneration.
type Service interface {
	ListAds(ctx context.Context, params pagination.Params) (*AdListResult, error)
	GetAd(ctx context.Context, id uuid.UUID) (*AdDetailDTO, error)
	GetAdImage(ctx context.Context, id uuid.UUID) ([]byte, error)
	CreateAdFromPost(ctx context.Context, postID uuid.UUID, input CreateAdInput) (*CreateAdResult, error)
	RegenerateImage(ctx context.Context, id uuid.UUID) (*AdDetailDTO, error)
}

// CreateAdInput holds the validated payload to create an ad from a post.
// Platform is optional and defaults to the instagram feed format.
type CreateAdInput struct {
	CampaignID uuid.UUID
	ProductIDs []uuid.UUID
	Platform   enums.AdPlatform
}

type postLoader interface {
	GetPost(ctx context.Context, id uuid.UUID) (*models.LikedPost, error)
}

type campaignLoader interface {
	GetCampaign(ctx context.Context, id uuid.UUID) (*models.BrandCampaign, error)
}

type productSelector interface {
	FindForSelection(ctx context.Context, ids []uuid.UUID) ([]models.BrandProduct, error)
}

type creativePipeline interface {
	Run(ctx context.Context, post *models.LikedPost, campaign *models.BrandCampaign, products []models.BrandProduct, platform enums.AdPlatform) (*models.GeneratedAd, error)
	GenerateCreative(ctx context.Context, operation string, products []models.BrandProduct) (*generation.Creative, error)
}

type blobStore interface {
	Write(key string, data []byte) error
	Read(key string) ([]byte, error)
	Exists(key string) (bool, error)
	Delete(key string) error
}

type service struct {
	repo      AdRepository
	posts     postLoader
	campaigns campaignLoader
	products  productSelector
	pipeline  creativePipeline
	blobs     blobStore
	log       *logger.Logger
}

// NewService constructs an ad service instance.
func NewService(repo AdRepository, posts postLoader, campaigns campaignLoader, products productSelector, pipeline creativePipeline, blobs blobStore, log *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ad repository required")
	}
	if posts == nil {
		return nil, fmt.Errorf("post loader required")
	}
	if campaigns == nil {
		return nil, fmt.Errorf("campaign loader required")
	}
	if products == nil {
		return nil, fmt.Errorf("product selector required")
	}
	if pipeline == nil {
		return nil, fmt.Errorf("generation pipeline required")
	}
	if blobs == nil {
		return nil, fmt.Errorf("blob store required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		posts:     posts,
		campaigns: campaigns,
		products:  products,
		pipeline:  pipeline,
		blobs:     blobs,
		log:       log,
	}, nil
}

// ListAds returns one page of the gallery newest first. Each row carries an
// image_exists flag checked against the blob store, so a missing blob shows
// up as a regenerate candidate instead of a broken image.
func (s *service) ListAds(ctx context.Context, params pagination.Params) (*AdListResult, error) {
	rows, nextCursor, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list ads")
	}

	dtos := make([]AdSummaryDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, NewAdSummaryDTO(row, s.imageExists(ctx, row)))
	}
	return &AdListResult{Ads: dtos, NextCursor: nextCursor}, nil
}

// GetAd loads one ad with campaign, products, and the generation snapshot.
func (s *service) GetAd(ctx context.Context, id uuid.UUID) (*AdDetailDTO, error) {
	row, err := s.loadAd(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := NewAdDetailDTO(*row, s.imageExists(ctx, *row))
	return &dto, nil
}

// GetAdImage returns the raw image bytes for an ad.
func (s *service) GetAdImage(ctx context.Context, id uuid.UUID) ([]byte, error) {
	row, err := s.loadAd(ctx, id)
	if err != nil {
		return nil, err
	}
	if !row.HasImage() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ad has no image")
	}

	data, err := s.blobs.Read(row.ImageKey)
	if err != nil {
		if errors.Is(err, local.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ad image is missing, regenerate to restore it")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read ad image")
	}
	return data, nil
}

// CreateAdFromPost generates and persists one ad for the given post,
// campaign, and product selection.
func (s *service) CreateAdFromPost(ctx context.Context, postID uuid.UUID, input CreateAdInput) (*CreateAdResult, error) {
	if len(input.ProductIDs) < generation.MinProducts || len(input.ProductIDs) > generation.MaxProducts {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "select between 1 and 5 products")
	}

	ctx = s.log.WithPostID(ctx, postID.String())

	post, err := s.posts.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	campaign, err := s.campaigns.GetCampaign(ctx, input.CampaignID)
	if err != nil {
		return nil, err
	}
	products, err := s.products.FindForSelection(ctx, input.ProductIDs)
	if err != nil {
		return nil, err
	}

	created, err := s.pipeline.Run(ctx, post, campaign, products, input.Platform)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "ad generation failed, please try again")
	}

	result := &CreateAdResult{Ad: NewAdDetailDTO(*created, created.HasImage())}
	if !created.HasImage() {
		result.Warning = WarningImageMissing
	}
	return result, nil
}

// RegenerateImage replaces an ad's image in place. The new blob is written
// first, then the row is repointed, and only then is the old blob deleted, so
// a failure at any step leaves the ad serving its previous image. Ad copy and
// the generation snapshot are not touched.
func (s *service) RegenerateImage(ctx context.Context, id uuid.UUID) (*AdDetailDTO, error) {
	row, err := s.loadAd(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(row.Products) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ad has no products to regenerate from")
	}

	creative, err := s.pipeline.GenerateCreative(ctx, opRegenerateAd, row.Products)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "regeneration failed")
	}

	newKey := generation.NewImageKey()
	if err := s.blobs.Write(newKey, creative.Image); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "regeneration failed")
	}

	if err := s.repo.UpdateImageKey(ctx, row.ID, newKey); err != nil {
		err = multierr.Append(err, s.blobs.Delete(newKey))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "regeneration failed")
	}

	oldKey := row.ImageKey
	row.ImageKey = newKey
	if oldKey != "" && oldKey != newKey {
		if err := s.blobs.Delete(oldKey); err != nil {
			s.log.Warn(s.log.WithAdID(ctx, row.ID.String()), "orphaned image blob left behind after regeneration")
		}
	}

	s.log.Info(s.log.WithAdID(ctx, row.ID.String()), "regenerated ad image")
	dto := NewAdDetailDTO(*row, true)
	return &dto, nil
}

func (s *service) loadAd(ctx context.Context, id uuid.UUID) (*models.GeneratedAd, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ad not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load ad")
	}
	return row, nil
}

func (s *service) imageExists(ctx context.Context, ad models.GeneratedAd) bool {
	if !ad.HasImage() {
		return false
	}
	exists, err := s.blobs.Exists(ad.ImageKey)
	if err != nil {
		s.log.Warn(s.log.WithAdID(ctx, ad.ID.String()), "image existence check failed")
		return false
	}
	return exists
}
