package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// BrandProduct is a sellable item with the pricing and feature metadata the
// prompt builder and ad-copy generator draw from. Every optional attribute has
// a zero-value default, so feature extraction never has to guard attribute
// access.
type BrandProduct struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name               string          `gorm:"column:name;not null" json:"name"`
	Category           string          `gorm:"column:category;not null;default:'General'" json:"category"`
	SubCategory        string          `gorm:"column:sub_category;not null;default:'Uncategorized'" json:"sub_category"`
	Description        string          `gorm:"column:description;not null;default:''" json:"description"`
	SellingPrice       decimal.Decimal `gorm:"column:selling_price;type:numeric(10,2);not null;default:0" json:"selling_price"`
	DiscountPercentage decimal.Decimal `gorm:"column:discount_percentage;type:numeric(5,2);not null;default:0" json:"discount_percentage"`
	Features           pq.StringArray  `gorm:"column:features;type:text[];not null;default:ARRAY[]::text[]" json:"features"`
	ImageLink          string          `gorm:"column:image_link;not null;default:''" json:"image_link"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

var oneHundred = decimal.NewFromInt(100)

// DiscountedPrice is the final price after the discount is applied.
func (p BrandProduct) DiscountedPrice() decimal.Decimal {
	if p.DiscountPercentage.IsPositive() {
		return p.SellingPrice.Sub(p.SavingsAmount())
	}
	return p.SellingPrice
}

// SavingsAmount is the absolute amount saved by the discount.
func (p BrandProduct) SavingsAmount() decimal.Decimal {
	if p.DiscountPercentage.IsPositive() {
		return p.SellingPrice.Mul(p.DiscountPercentage.Div(oneHundred))
	}
	return decimal.Zero
}

// HasDiscount reports whether the special-offer pricing line applies. A full
// discount leaves no price worth framing as an offer, so it falls back to the
// plain price line.
func (p BrandProduct) HasDiscount() bool {
	return p.SellingPrice.IsPositive() &&
		p.DiscountPercentage.IsPositive() &&
		p.DiscountedPrice().IsPositive()
}
