package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/adforgehq/adforge-backend/pkg/types"
)

// BrandCampaign is the branding context an ad is generated under: voice,
// color scheme, and optional font/logo blobs referenced by blob-store key.
type BrandCampaign struct {
	ID          uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string        `gorm:"column:name;not null;uniqueIndex:brand_campaigns_name_key" json:"name"`
	BrandVoice  string        `gorm:"column:brand_voice;not null;default:''" json:"brand_voice"`
	ColorScheme types.JSONMap `gorm:"column:color_scheme;type:jsonb" json:"color_scheme,omitempty"`
	FontKey     *string       `gorm:"column:font_key" json:"font_key,omitempty"`
	LogoKey     *string       `gorm:"column:logo_key" json:"logo_key,omitempty"`
	CreatedAt   time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
