package generation

import (
	"fmt"
	"strings"

	"github.com/adforgehq/adforge-backend/pkg/db/models"
)

// NegativePrompt steers the image model away from artifacts that make a
// product shot unusable as ad creative.
const NegativePrompt = "blurry, low quality, distorted, ugly, text, watermark, logo, signature"

const (
	maxPromptRunes     = 1000
	maxPromptNames     = 2
	maxPromptFeatures  = 3
	fallbackFeatureSet = "premium quality"
)

var promptDescriptors = []string{
	"high quality commercial photography",
	"studio lighting",
	"clean modern background",
	"professional composition",
	"vibrant colors",
	"social media ready",
}

// BuildPrompt assembles the text-to-image prompt from the selected products.
// Up to two product names lead the prompt, followed by the first distinct
// category, up to three pooled features, and a fixed set of style descriptors.
// The result is capped at 1000 characters.
func BuildPrompt(products []models.BrandProduct) string {
	var names []string
	var category string
	var features []string
	for _, product := range products {
		if name := strings.TrimSpace(product.Name); name != "" && len(names) < maxPromptNames {
			names = append(names, name)
		}
		if category == "" {
			category = strings.TrimSpace(product.Category)
		}
		for _, feature := range product.Features {
			if trimmed := strings.TrimSpace(feature); trimmed != "" && len(features) < maxPromptFeatures {
				features = append(features, trimmed)
			}
		}
	}

	featuresText := fallbackFeatureSet
	if len(features) > 0 {
		featuresText = strings.Join(features, ", ")
	}

	parts := []string{}
	if len(names) > 0 {
		parts = append(parts, fmt.Sprintf("Professional product photography of %s", strings.Join(names, ", ")))
	} else {
		parts = append(parts, "Professional product photography")
	}
	if category != "" {
		parts = append(parts, fmt.Sprintf("%s product", category))
	}
	parts = append(parts, fmt.Sprintf("featuring %s", featuresText))
	parts = append(parts, promptDescriptors...)

	prompt := strings.Join(parts, ", ")
	if runes := []rune(prompt); len(runes) > maxPromptRunes {
		prompt = string(runes[:maxPromptRunes])
	}
	return prompt
}
