package generation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adforgehq/adforge-backend/pkg/db/models"
	"github.com/adforgehq/adforge-backend/pkg/enums"
	"github.com/adforgehq/adforge-backend/pkg/errors"
	"github.com/adforgehq/adforge-backend/pkg/logger"
	"github.com/adforgehq/adforge-backend/pkg/metrics"
	"github.com/adforgehq/adforge-backend/pkg/stability"
	"github.com/adforgehq/adforge-backend/pkg/types"
)

const (
	// MinProducts and MaxProducts bound the product selection for one ad.
	MinProducts = 1
	MaxProducts = 5

	opCreateAd = "create_ad"
)

// ImageGenerator is the slice of the Stability client the pipeline needs.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req stability.GenerateRequest) ([]byte, error)
	Endpoint() string
}

// BlobWriter persists image bytes under a key.
type BlobWriter interface {
	Write(key string, data []byte) error
}

// AdCreator persists a generated ad together with its product associations.
type AdCreator interface {
	Create(ctx context.Context, ad *models.GeneratedAd) error
}

// Creative is the output of one successful image generation call plus the
// parameters that produced it.
type Creative struct {
	Image          []byte
	Prompt         string
	NegativePrompt string
	Seed           uint32
	Endpoint       string
	GeneratedAt    time.Time
}

// Params returns the snapshot stored on the ad row.
func (c *Creative) Params() types.JSONMap {
	return types.JSONMap{
		"prompt":               c.Prompt,
		"negative_prompt":      c.NegativePrompt,
		"api_endpoint":         c.Endpoint,
		"generation_timestamp": c.GeneratedAt.UTC().Format(time.RFC3339),
	}
}

// Pipeline drives one ad generation end to end: prompt assembly, the image
// call, blob persistence, and the database write.
type Pipeline struct {
	generator ImageGenerator
	blobs     BlobWriter
	ads       AdCreator
	metrics   *metrics.GenerationMetrics
	log       *logger.Logger
	now       func() time.Time
	seed      func() uint32
}

// NewPipeline wires the pipeline dependencies. metrics may be nil.
func NewPipeline(generator ImageGenerator, blobs BlobWriter, ads AdCreator, m *metrics.GenerationMetrics, log *logger.Logger) *Pipeline {
	return &Pipeline{
		generator: generator,
		blobs:     blobs,
		ads:       ads,
		metrics:   m,
		log:       log,
		now:       time.Now,
		seed:      stability.NewSeed,
	}
}

// GenerateCreative runs prompt assembly and one image call for the given
// products. Failures come back as the client's typed request error; callers
// decide how the failure surfaces. The operation label feeds metrics.
func (p *Pipeline) GenerateCreative(ctx context.Context, operation string, products []models.BrandProduct) (*Creative, error) {
	prompt := BuildPrompt(products)
	seed := p.seed()

	start := p.now()
	image, err := p.generator.GenerateImage(ctx, stability.GenerateRequest{
		Prompt:         prompt,
		NegativePrompt: NegativePrompt,
		Seed:           seed,
	})
	p.metrics.ObserveDuration(operation, p.now().Sub(start))
	if err != nil {
		kind := string(stability.FailureConnection)
		if typed := stability.AsRequestError(err); typed != nil {
			kind = string(typed.Kind)
		}
		p.metrics.IncFailure(operation, kind)
		p.log.Error(ctx, "image generation failed", err)
		return nil, err
	}

	p.metrics.IncSuccess(operation)
	return &Creative{
		Image:          image,
		Prompt:         prompt,
		NegativePrompt: NegativePrompt,
		Seed:           seed,
		Endpoint:       p.generator.Endpoint(),
		GeneratedAt:    p.now(),
	}, nil
}

// Run generates and persists one ad for the post, campaign, and product
// selection. External generation failures are absorbed: the call returns a
// nil ad with no error and nothing is written. A blob write failure after a
// successful generation still commits the row, with the image marked absent.
func (p *Pipeline) Run(ctx context.Context, post *models.LikedPost, campaign *models.BrandCampaign, products []models.BrandProduct, platform enums.AdPlatform) (*models.GeneratedAd, error) {
	if len(products) < MinProducts || len(products) > MaxProducts {
		return nil, errors.New(errors.CodeValidation, "an ad needs between 1 and 5 products")
	}
	if campaign == nil {
		return nil, errors.New(errors.CodeValidation, "an ad needs a campaign")
	}
	if platform == "" {
		platform = enums.DefaultAdPlatform
	}
	if !platform.IsValid() {
		return nil, errors.New(errors.CodeValidation, "unsupported ad platform")
	}

	creative, err := p.GenerateCreative(ctx, opCreateAd, products)
	if err != nil {
		return nil, nil
	}

	ad := &models.GeneratedAd{
		ID:               uuid.New(),
		CampaignID:       campaign.ID,
		Products:         products,
		AdCopy:           BuildAdCopy(products),
		Platform:         platform,
		GenerationParams: creative.Params(),
	}
	if post != nil {
		postID := post.ID
		ad.SourcePostID = &postID
	}

	imageKey := NewImageKey()
	if err := p.blobs.Write(imageKey, creative.Image); err != nil {
		p.log.Error(ctx, "image blob write failed, saving ad without image", err)
	} else {
		ad.ImageKey = imageKey
	}

	if err := p.ads.Create(ctx, ad); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "persist generated ad")
	}

	p.log.Info(p.log.WithAdID(ctx, ad.ID.String()), "generated ad")
	return ad, nil
}

// NewImageKey returns a fresh blob key for a generated image.
func NewImageKey() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "generated_ad_" + hex[:8] + ".png"
}
