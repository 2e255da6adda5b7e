package ad

import (
	"time"

	"github.com/google/uuid"

	"github.com/adforgehq/adforge-backend/pkg/db/models"
	"github.com/adforgehq/adforge-backend/pkg/types"
)

// AdProductDTO is the short product reference shown on an ad.
type AdProductDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// AdSummaryDTO is one row of the ad gallery.
type AdSummaryDTO struct {
	ID           uuid.UUID      `json:"id"`
	CampaignID   uuid.UUID      `json:"campaign_id"`
	SourcePostID *uuid.UUID     `json:"source_post_id,omitempty"`
	AdCopy       string         `json:"ad_copy"`
	Platform     string         `json:"platform"`
	ImageExists  bool           `json:"image_exists"`
	ProductCount int            `json:"product_count"`
	Products     []AdProductDTO `json:"products"`
	CreatedAt    time.Time      `json:"created_at"`
}

// AdDetailDTO is the full ad payload including the generation snapshot.
type AdDetailDTO struct {
	AdSummaryDTO
	Campaign         *models.BrandCampaign `json:"campaign,omitempty"`
	GenerationParams types.JSONMap         `json:"generation_params,omitempty"`
}

// AdListResult wraps one page of ads.
type AdListResult struct {
	Ads        []AdSummaryDTO `json:"ads"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// CreateAdResult carries the created ad plus a warning when the image blob
// could not be persisted.
type CreateAdResult struct {
	Ad      AdDetailDTO `json:"ad"`
	Warning string      `json:"warning,omitempty"`
}

// NewAdSummaryDTO maps an ad row to its gallery payload.
func NewAdSummaryDTO(ad models.GeneratedAd, imageExists bool) AdSummaryDTO {
	products := make([]AdProductDTO, 0, len(ad.Products))
	for _, product := range ad.Products {
		products = append(products, AdProductDTO{ID: product.ID, Name: product.Name})
	}
	return AdSummaryDTO{
		ID:           ad.ID,
		CampaignID:   ad.CampaignID,
		SourcePostID: ad.SourcePostID,
		AdCopy:       ad.AdCopy,
		Platform:     ad.Platform.String(),
		ImageExists:  imageExists,
		ProductCount: len(products),
		Products:     products,
		CreatedAt:    ad.CreatedAt,
	}
}

// NewAdDetailDTO maps an ad row to its full payload.
func NewAdDetailDTO(ad models.GeneratedAd, imageExists bool) AdDetailDTO {
	return AdDetailDTO{
		AdSummaryDTO:     NewAdSummaryDTO(ad, imageExists),
		Campaign:         ad.Campaign,
		GenerationParams: ad.GenerationParams,
	}
}
