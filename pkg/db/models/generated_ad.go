package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/adforgehq/adforge-backend/pkg/enums"
	"github.com/adforgehq/adforge-backend/pkg/types"
)

// GeneratedAd is the persisted output of one successful pipeline run: copy,
// image blob key, and the generation-parameter snapshot kept for audit and
// reproducibility. The ad owns its image blob exclusively; the campaign and
// source post are non-owning references and the product relation is shared.
type GeneratedAd struct {
	ID               uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CampaignID       uuid.UUID        `gorm:"column:campaign_id;type:uuid;not null" json:"campaign_id"`
	Campaign         *BrandCampaign   `gorm:"foreignKey:CampaignID;constraint:OnDelete:CASCADE" json:"campaign,omitempty"`
	SourcePostID     *uuid.UUID       `gorm:"column:source_post_id;type:uuid" json:"source_post_id,omitempty"`
	SourcePost       *LikedPost       `gorm:"foreignKey:SourcePostID;constraint:OnDelete:SET NULL" json:"source_post,omitempty"`
	Products         []BrandProduct   `gorm:"many2many:generated_ad_products" json:"products,omitempty"`
	AdCopy           string           `gorm:"column:ad_copy;not null;default:''" json:"ad_copy"`
	ImageKey         string           `gorm:"column:image_key;not null;default:''" json:"image_key"`
	Platform         enums.AdPlatform `gorm:"column:platform;not null;default:'instagram'" json:"platform"`
	GenerationParams types.JSONMap    `gorm:"column:generation_params;type:jsonb" json:"generation_params,omitempty"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// HasImage reports whether an image blob key is attached. A row without one is
// the recoverable "ad created, image missing" state, not a hard failure.
func (a GeneratedAd) HasImage() bool {
	return a.ImageKey != ""
}
