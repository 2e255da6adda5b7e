package generation

import (
	"fmt"
	"strings"

	"github.com/adforgehq/adforge-backend/pkg/db/models"
)

const (
	genericAdCopy      = "Check out our amazing products!"
	placeholderName    = "Amazing Product"
	maxAdCopyFeatures  = 2
	callToActionLine   = "🛒 Shop now!"
	hashtagLine        = "#sale #trending #quality"
	adCopySectionBreak = "\n\n"
)

// BuildAdCopy writes the caption for an ad from the first selected product.
// Sections are separated by blank lines: headline, up to two features, a
// pricing line when the product carries one, a call to action, and hashtags.
func BuildAdCopy(products []models.BrandProduct) string {
	if len(products) == 0 {
		return genericAdCopy
	}

	featured := products[0]
	name := strings.TrimSpace(featured.Name)
	if name == "" {
		name = placeholderName
	}

	sections := []string{fmt.Sprintf("🔥 %s", name)}

	var features []string
	for _, feature := range featured.Features {
		if trimmed := strings.TrimSpace(feature); trimmed != "" && len(features) < maxAdCopyFeatures {
			features = append(features, trimmed)
		}
	}
	if len(features) > 0 {
		sections = append(sections, "✨ "+strings.Join(features, " | "))
	}

	if pricing := pricingLine(featured); pricing != "" {
		sections = append(sections, pricing)
	}

	sections = append(sections, callToActionLine, hashtagLine)

	return strings.Join(sections, adCopySectionBreak)
}

// pricingLine prefers the discounted special-offer framing, falls back to the
// plain price, and stays empty when the product has no positive price.
func pricingLine(product models.BrandProduct) string {
	if product.SellingPrice.Sign() <= 0 {
		return ""
	}
	if product.HasDiscount() {
		return fmt.Sprintf("💰 Special Offer: $%s (Save %s%%!)",
			product.DiscountedPrice().StringFixed(2),
			product.DiscountPercentage.String())
	}
	return fmt.Sprintf("💰 Price: $%s", product.SellingPrice.StringFixed(2))
}
