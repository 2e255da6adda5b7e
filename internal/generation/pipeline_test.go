package generation

import (
	"context"
	"io"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adforgehq/adforge-backend/pkg/db/models"
	"github.com/adforgehq/adforge-backend/pkg/enums"
	apperrors "github.com/adforgehq/adforge-backend/pkg/errors"
	"github.com/adforgehq/adforge-backend/pkg/logger"
	"github.com/adforgehq/adforge-backend/pkg/stability"
)

type stubGenerator struct {
	image   []byte
	err     error
	calls   int
	lastReq stability.GenerateRequest
}

func (s *stubGenerator) GenerateImage(_ context.Context, req stability.GenerateRequest) ([]byte, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.image, nil
}

func (s *stubGenerator) Endpoint() string {
	return "https://api.stability.ai/v2beta/stable-image/generate/core"
}

type stubBlobs struct {
	written map[string][]byte
	err     error
}

func (s *stubBlobs) Write(key string, data []byte) error {
	if s.err != nil {
		return s.err
	}
	if s.written == nil {
		s.written = map[string][]byte{}
	}
	s.written[key] = data
	return nil
}

type stubAds struct {
	created []*models.GeneratedAd
	err     error
}

func (s *stubAds) Create(_ context.Context, ad *models.GeneratedAd) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, ad)
	return nil
}

func newTestPipeline(gen *stubGenerator, blobs *stubBlobs, ads *stubAds) *Pipeline {
	log := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return NewPipeline(gen, blobs, ads, nil, log)
}

func testFixtures() (*models.LikedPost, *models.BrandCampaign, []models.BrandProduct) {
	post := &models.LikedPost{ID: uuid.New()}
	campaign := &models.BrandCampaign{ID: uuid.New(), Name: "Summer Sale"}
	products := []models.BrandProduct{
		{ID: uuid.New(), Name: "Adidas Running Shoes", Category: "Footwear"},
		{ID: uuid.New(), Name: "Nike Air Max", Category: "Footwear"},
	}
	return post, campaign, products
}

var imageKeyRe = regexp.MustCompile(`^generated_ad_[0-9a-f]{8}\.png$`)

func TestPipelineRunPersistsAdWithImage(t *testing.T) {
	gen := &stubGenerator{image: []byte("png-bytes")}
	blobs := &stubBlobs{}
	ads := &stubAds{}
	post, campaign, products := testFixtures()

	ad, err := newTestPipeline(gen, blobs, ads).Run(context.Background(), post, campaign, products, "")
	require.NoError(t, err)
	require.NotNil(t, ad)

	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, NegativePrompt, gen.lastReq.NegativePrompt)
	assert.NotEmpty(t, gen.lastReq.Prompt)

	require.Len(t, ads.created, 1)
	created := ads.created[0]
	assert.Equal(t, campaign.ID, created.CampaignID)
	require.NotNil(t, created.SourcePostID)
	assert.Equal(t, post.ID, *created.SourcePostID)
	assert.Len(t, created.Products, 2)
	assert.Equal(t, enums.AdPlatformInstagram, created.Platform)
	assert.NotEmpty(t, created.AdCopy)

	assert.Regexp(t, imageKeyRe, created.ImageKey)
	assert.Equal(t, []byte("png-bytes"), blobs.written[created.ImageKey])

	params := created.GenerationParams
	assert.Equal(t, gen.lastReq.Prompt, params["prompt"])
	assert.Equal(t, NegativePrompt, params["negative_prompt"])
	assert.Equal(t, gen.Endpoint(), params["api_endpoint"])
	assert.NotEmpty(t, params["generation_timestamp"])
}

func TestPipelineRunHonorsPlatform(t *testing.T) {
	gen := &stubGenerator{image: []byte("png-bytes")}
	ads := &stubAds{}
	post, campaign, products := testFixtures()

	pipeline := newTestPipeline(gen, &stubBlobs{}, ads)

	ad, err := pipeline.Run(context.Background(), post, campaign, products, enums.AdPlatformPinterest)
	require.NoError(t, err)
	assert.Equal(t, enums.AdPlatformPinterest, ad.Platform)

	_, err = pipeline.Run(context.Background(), post, campaign, products, enums.AdPlatform("myspace"))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.As(err).Code())
}

func TestPipelineRunRejectsBadProductCounts(t *testing.T) {
	gen := &stubGenerator{image: []byte("png-bytes")}
	ads := &stubAds{}
	post, campaign, products := testFixtures()

	pipeline := newTestPipeline(gen, &stubBlobs{}, ads)

	_, err := pipeline.Run(context.Background(), post, campaign, nil, "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.As(err).Code())

	six := make([]models.BrandProduct, 6)
	for i := range six {
		six[i] = products[0]
	}
	_, err = pipeline.Run(context.Background(), post, campaign, six, "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.As(err).Code())

	assert.Zero(t, gen.calls, "validation failures must not reach the image API")
	assert.Empty(t, ads.created)
}

func TestPipelineRunAbsorbsGenerationFailure(t *testing.T) {
	gen := &stubGenerator{err: &stability.RequestError{Kind: stability.FailureTimeout}}
	blobs := &stubBlobs{}
	ads := &stubAds{}
	post, campaign, products := testFixtures()

	ad, err := newTestPipeline(gen, blobs, ads).Run(context.Background(), post, campaign, products, "")

	require.NoError(t, err)
	assert.Nil(t, ad)
	assert.Empty(t, blobs.written)
	assert.Empty(t, ads.created, "no row may be written when generation fails")
}

func TestPipelineRunDegradesOnBlobWriteFailure(t *testing.T) {
	gen := &stubGenerator{image: []byte("png-bytes")}
	blobs := &stubBlobs{err: io.ErrClosedPipe}
	ads := &stubAds{}
	post, campaign, products := testFixtures()

	ad, err := newTestPipeline(gen, blobs, ads).Run(context.Background(), post, campaign, products, "")

	require.NoError(t, err)
	require.NotNil(t, ad)
	assert.Empty(t, ad.ImageKey)
	assert.False(t, ad.HasImage())
	require.Len(t, ads.created, 1, "the ad row still commits without its image")
}

func TestPipelineRunWrapsPersistenceFailure(t *testing.T) {
	gen := &stubGenerator{image: []byte("png-bytes")}
	ads := &stubAds{err: io.ErrUnexpectedEOF}
	post, campaign, products := testFixtures()

	ad, err := newTestPipeline(gen, &stubBlobs{}, ads).Run(context.Background(), post, campaign, products, "")

	require.Error(t, err)
	assert.Nil(t, ad)
	assert.Equal(t, apperrors.CodeInternal, apperrors.As(err).Code())
}

func TestNewImageKeyFormat(t *testing.T) {
	assert.Regexp(t, imageKeyRe, NewImageKey())
	assert.NotEqual(t, NewImageKey(), NewImageKey())
}
