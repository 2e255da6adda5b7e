package campaign

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adforgehq/adforge-backend/pkg/db"
	"github.com/adforgehq/adforge-backend/pkg/db/models"
	pkgerrors "github.com/adforgehq/adforge-backend/pkg/errors"
	"github.com/adforgehq/adforge-backend/pkg/pagination"
	"github.com/adforgehq/adforge-backend/pkg/types"
)

const uniqueNameConstraint = "brand_campaigns_name_key"

// Service exposes brand campaign management.
type Service interface {
	CreateCampaign(ctx context.Context, input CreateCampaignInput) (*models.BrandCampaign, error)
	ListCampaigns(ctx context.Context, params pagination.Params) (*CampaignListResult, error)
	GetCampaign(ctx context.Context, id uuid.UUID) (*models.BrandCampaign, error)
}

// CreateCampaignInput holds the validated payload to create a campaign.
type CreateCampaignInput struct {
	Name        string
	BrandVoice  string
	ColorScheme types.JSONMap
	FontKey     *string
	LogoKey     *string
}

// CampaignListResult wraps one page of campaigns.
type CampaignListResult struct {
	Campaigns  []models.BrandCampaign `json:"campaigns"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}

type service struct {
	repo CampaignRepository
}

// NewService constructs a campaign service instance.
func NewService(repo CampaignRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("campaign repository required")
	}
	return &service{repo: repo}, nil
}

// CreateCampaign validates and persists a new campaign.
func (s *service) CreateCampaign(ctx context.Context, input CreateCampaignInput) (*models.BrandCampaign, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	row := &models.BrandCampaign{
		ID:          uuid.New(),
		Name:        name,
		BrandVoice:  strings.TrimSpace(input.BrandVoice),
		ColorScheme: input.ColorScheme,
		FontKey:     input.FontKey,
		LogoKey:     input.LogoKey,
	}

	created, err := s.repo.Create(ctx, row)
	if err != nil {
		if db.IsUniqueViolation(err, uniqueNameConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a campaign with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create campaign")
	}
	return created, nil
}

// ListCampaigns returns one page of campaigns newest first.
func (s *service) ListCampaigns(ctx context.Context, params pagination.Params) (*CampaignListResult, error) {
	rows, nextCursor, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list campaigns")
	}
	return &CampaignListResult{Campaigns: rows, NextCursor: nextCursor}, nil
}

// GetCampaign loads one campaign or reports a not-found error.
func (s *service) GetCampaign(ctx context.Context, id uuid.UUID) (*models.BrandCampaign, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load campaign")
	}
	return row, nil
}
