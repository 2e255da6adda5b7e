package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/adforgehq/adforge-backend/pkg/db/models"
)

// ProductDTO represents the brand product payload returned to clients.
// Pricing fields are decimal strings to keep cents exact in transit.
type ProductDTO struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Category           string    `json:"category"`
	SubCategory        string    `json:"sub_category"`
	Description        string    `json:"description,omitempty"`
	SellingPrice       string    `json:"selling_price"`
	DiscountPercentage string    `json:"discount_percentage"`
	DiscountedPrice    string    `json:"discounted_price"`
	SavingsAmount      string    `json:"savings_amount"`
	HasDiscount        bool      `json:"has_discount"`
	Features           []string  `json:"features"`
	ImageLink          string    `json:"image_link,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// ProductListResult wraps one page of products.
type ProductListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// NewProductDTO maps a product row to its API payload.
func NewProductDTO(product models.BrandProduct) ProductDTO {
	features := []string{}
	if len(product.Features) > 0 {
		features = append(features, product.Features...)
	}
	return ProductDTO{
		ID:                 product.ID,
		Name:               product.Name,
		Category:           product.Category,
		SubCategory:        product.SubCategory,
		Description:        product.Description,
		SellingPrice:       product.SellingPrice.StringFixed(2),
		DiscountPercentage: product.DiscountPercentage.StringFixed(2),
		DiscountedPrice:    product.DiscountedPrice().StringFixed(2),
		SavingsAmount:      product.SavingsAmount().StringFixed(2),
		HasDiscount:        product.HasDiscount(),
		Features:           features,
		ImageLink:          product.ImageLink,
		CreatedAt:          product.CreatedAt,
	}
}

// NewProductDTOs maps a slice of product rows.
func NewProductDTOs(products []models.BrandProduct) []ProductDTO {
	dtos := make([]ProductDTO, 0, len(products))
	for _, product := range products {
		dtos = append(dtos, NewProductDTO(product))
	}
	return dtos
}
