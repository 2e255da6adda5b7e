package ad

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/adforgehq/adforge-backend/internal/generation"
	"github.com/adforgehq/adforge-backend/pkg/db/models"
	"github.com/adforgehq/adforge-backend/pkg/enums"
	pkgerrors "github.com/adforgehq/adforge-backend/pkg/errors"
	"github.com/adforgehq/adforge-backend/pkg/logger"
	"github.com/adforgehq/adforge-backend/pkg/pagination"
	"github.com/adforgehq/adforge-backend/pkg/stability"
	"github.com/adforgehq/adforge-backend/pkg/storage/local"
)

type stubAdRepo struct {
	ads          map[uuid.UUID]*models.GeneratedAd
	created      []*models.GeneratedAd
	updatedKeys  map[uuid.UUID]string
	updateKeyErr error
	listRows     []models.GeneratedAd
	listNext     string
	listErr      error
}

func newStubAdRepo() *stubAdRepo {
	return &stubAdRepo{
		ads:         map[uuid.UUID]*models.GeneratedAd{},
		updatedKeys: map[uuid.UUID]string{},
	}
}

func (s *stubAdRepo) Create(_ context.Context, ad *models.GeneratedAd) error {
	s.created = append(s.created, ad)
	s.ads[ad.ID] = ad
	return nil
}

func (s *stubAdRepo) FindByID(_ context.Context, id uuid.UUID) (*models.GeneratedAd, error) {
	if ad, ok := s.ads[id]; ok {
		copied := *ad
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubAdRepo) List(_ context.Context, _ pagination.Params) ([]models.GeneratedAd, string, error) {
	return s.listRows, s.listNext, s.listErr
}

func (s *stubAdRepo) UpdateImageKey(_ context.Context, id uuid.UUID, key string) error {
	if s.updateKeyErr != nil {
		return s.updateKeyErr
	}
	s.updatedKeys[id] = key
	if ad, ok := s.ads[id]; ok {
		ad.ImageKey = key
	}
	return nil
}

type stubPostLoader struct {
	post *models.LikedPost
	err  error
}

func (s *stubPostLoader) GetPost(_ context.Context, _ uuid.UUID) (*models.LikedPost, error) {
	return s.post, s.err
}

type stubCampaignLoader struct {
	campaign *models.BrandCampaign
	err      error
}

func (s *stubCampaignLoader) GetCampaign(_ context.Context, _ uuid.UUID) (*models.BrandCampaign, error) {
	return s.campaign, s.err
}

type stubSelector struct {
	products []models.BrandProduct
	err      error
}

func (s *stubSelector) FindForSelection(_ context.Context, _ []uuid.UUID) ([]models.BrandProduct, error) {
	return s.products, s.err
}

type stubPipeline struct {
	runAd       *models.GeneratedAd
	runErr      error
	runPlatform enums.AdPlatform
	creative    *generation.Creative
	creativeErr error
}

func (s *stubPipeline) Run(_ context.Context, _ *models.LikedPost, _ *models.BrandCampaign, _ []models.BrandProduct, platform enums.AdPlatform) (*models.GeneratedAd, error) {
	s.runPlatform = platform
	return s.runAd, s.runErr
}

func (s *stubPipeline) GenerateCreative(_ context.Context, _ string, _ []models.BrandProduct) (*generation.Creative, error) {
	return s.creative, s.creativeErr
}

type stubBlobs struct {
	blobs     map[string][]byte
	writeErr  error
	deleteErr error
	deleted   []string
}

func newStubBlobs() *stubBlobs {
	return &stubBlobs{blobs: map[string][]byte{}}
}

func (s *stubBlobs) Write(key string, data []byte) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.blobs[key] = data
	return nil
}

func (s *stubBlobs) Read(key string) ([]byte, error) {
	if data, ok := s.blobs[key]; ok {
		return data, nil
	}
	return nil, local.ErrNotFound
}

func (s *stubBlobs) Exists(key string) (bool, error) {
	_, ok := s.blobs[key]
	return ok, nil
}

func (s *stubBlobs) Delete(key string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, key)
	delete(s.blobs, key)
	return nil
}

type serviceDeps struct {
	repo      *stubAdRepo
	posts     *stubPostLoader
	campaigns *stubCampaignLoader
	selector  *stubSelector
	pipeline  *stubPipeline
	blobs     *stubBlobs
}

func newTestService(t *testing.T, deps serviceDeps) Service {
	t.Helper()
	if deps.repo == nil {
		deps.repo = newStubAdRepo()
	}
	if deps.posts == nil {
		deps.posts = &stubPostLoader{post: &models.LikedPost{ID: uuid.New()}}
	}
	if deps.campaigns == nil {
		deps.campaigns = &stubCampaignLoader{campaign: &models.BrandCampaign{ID: uuid.New()}}
	}
	if deps.selector == nil {
		deps.selector = &stubSelector{products: []models.BrandProduct{{ID: uuid.New(), Name: "Shoes"}}}
	}
	if deps.pipeline == nil {
		deps.pipeline = &stubPipeline{}
	}
	if deps.blobs == nil {
		deps.blobs = newStubBlobs()
	}
	log := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(deps.repo, deps.posts, deps.campaigns, deps.selector, deps.pipeline, deps.blobs, log)
	require.NoError(t, err)
	return svc
}

func seededAd(repo *stubAdRepo, blobs *stubBlobs, imageKey string) *models.GeneratedAd {
	ad := &models.GeneratedAd{
		ID:         uuid.New(),
		CampaignID: uuid.New(),
		AdCopy:     "🔥 Shoes",
		ImageKey:   imageKey,
		Products:   []models.BrandProduct{{ID: uuid.New(), Name: "Shoes"}},
	}
	repo.ads[ad.ID] = ad
	if imageKey != "" {
		blobs.blobs[imageKey] = []byte("old-image")
	}
	return ad
}

func TestCreateAdFromPostReturnsDependencyErrorOnGenerationFailure(t *testing.T) {
	repo := newStubAdRepo()
	svc := newTestService(t, serviceDeps{repo: repo, pipeline: &stubPipeline{runAd: nil}})

	_, err := svc.CreateAdFromPost(context.Background(), uuid.New(), CreateAdInput{
		CampaignID: uuid.New(),
		ProductIDs: []uuid.UUID{uuid.New()},
	})

	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
	assert.Empty(t, repo.created)
}

func TestCreateAdFromPostValidatesProductCount(t *testing.T) {
	svc := newTestService(t, serviceDeps{})

	_, err := svc.CreateAdFromPost(context.Background(), uuid.New(), CreateAdInput{CampaignID: uuid.New()})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	six := make([]uuid.UUID, 6)
	for i := range six {
		six[i] = uuid.New()
	}
	_, err = svc.CreateAdFromPost(context.Background(), uuid.New(), CreateAdInput{CampaignID: uuid.New(), ProductIDs: six})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateAdFromPostWarnsOnMissingImage(t *testing.T) {
	created := &models.GeneratedAd{ID: uuid.New(), CampaignID: uuid.New()}
	svc := newTestService(t, serviceDeps{pipeline: &stubPipeline{runAd: created}})

	result, err := svc.CreateAdFromPost(context.Background(), uuid.New(), CreateAdInput{
		CampaignID: uuid.New(),
		ProductIDs: []uuid.UUID{uuid.New()},
	})
	require.NoError(t, err)

	assert.Equal(t, WarningImageMissing, result.Warning)
	assert.False(t, result.Ad.ImageExists)
}

func TestCreateAdFromPostSucceeds(t *testing.T) {
	created := &models.GeneratedAd{ID: uuid.New(), CampaignID: uuid.New(), ImageKey: "generated_ad_00aabbcc.png"}
	pipeline := &stubPipeline{runAd: created}
	svc := newTestService(t, serviceDeps{pipeline: pipeline})

	result, err := svc.CreateAdFromPost(context.Background(), uuid.New(), CreateAdInput{
		CampaignID: uuid.New(),
		ProductIDs: []uuid.UUID{uuid.New()},
		Platform:   enums.AdPlatformFacebook,
	})
	require.NoError(t, err)

	assert.Empty(t, result.Warning)
	assert.True(t, result.Ad.ImageExists)
	assert.Equal(t, created.ID, result.Ad.ID)
	assert.Equal(t, enums.AdPlatformFacebook, pipeline.runPlatform)
}

func TestRegenerateImageRepointsAndDeletesOldBlob(t *testing.T) {
	repo := newStubAdRepo()
	blobs := newStubBlobs()
	ad := seededAd(repo, blobs, "generated_ad_0ld00000.png")
	pipeline := &stubPipeline{creative: &generation.Creative{Image: []byte("new-image")}}
	svc := newTestService(t, serviceDeps{repo: repo, blobs: blobs, pipeline: pipeline})

	dto, err := svc.RegenerateImage(context.Background(), ad.ID)
	require.NoError(t, err)
	assert.True(t, dto.ImageExists)

	newKey := repo.updatedKeys[ad.ID]
	require.NotEmpty(t, newKey)
	assert.NotEqual(t, "generated_ad_0ld00000.png", newKey)
	assert.Equal(t, []byte("new-image"), blobs.blobs[newKey])
	assert.Contains(t, blobs.deleted, "generated_ad_0ld00000.png")
	assert.NotContains(t, blobs.blobs, "generated_ad_0ld00000.png")
}

func TestRegenerateImageFailureLeavesAdUntouched(t *testing.T) {
	repo := newStubAdRepo()
	blobs := newStubBlobs()
	ad := seededAd(repo, blobs, "generated_ad_0ld00000.png")
	pipeline := &stubPipeline{creativeErr: &stability.RequestError{Kind: stability.FailureAPIError, Status: 500}}
	svc := newTestService(t, serviceDeps{repo: repo, blobs: blobs, pipeline: pipeline})

	_, err := svc.RegenerateImage(context.Background(), ad.ID)

	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
	assert.Empty(t, repo.updatedKeys)
	assert.Equal(t, []byte("old-image"), blobs.blobs["generated_ad_0ld00000.png"], "old blob must stay intact")
	assert.Empty(t, blobs.deleted)
}

func TestRegenerateImageCleansUpNewBlobWhenRepointFails(t *testing.T) {
	repo := newStubAdRepo()
	repo.updateKeyErr = gorm.ErrInvalidTransaction
	blobs := newStubBlobs()
	ad := seededAd(repo, blobs, "generated_ad_0ld00000.png")
	pipeline := &stubPipeline{creative: &generation.Creative{Image: []byte("new-image")}}
	svc := newTestService(t, serviceDeps{repo: repo, blobs: blobs, pipeline: pipeline})

	_, err := svc.RegenerateImage(context.Background(), ad.ID)

	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
	assert.Contains(t, blobs.blobs, "generated_ad_0ld00000.png", "old blob must stay intact")
	require.Len(t, blobs.blobs, 1, "the new blob must be cleaned up")
}

func TestRegenerateImageNotFound(t *testing.T) {
	svc := newTestService(t, serviceDeps{})

	_, err := svc.RegenerateImage(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestGetAdImageReadsBlob(t *testing.T) {
	repo := newStubAdRepo()
	blobs := newStubBlobs()
	ad := seededAd(repo, blobs, "generated_ad_0ld00000.png")
	svc := newTestService(t, serviceDeps{repo: repo, blobs: blobs})

	data, err := svc.GetAdImage(context.Background(), ad.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("old-image"), data)
}

func TestGetAdImageMissingBlobIsNotFound(t *testing.T) {
	repo := newStubAdRepo()
	blobs := newStubBlobs()
	ad := seededAd(repo, blobs, "generated_ad_0ld00000.png")
	delete(blobs.blobs, ad.ImageKey)
	svc := newTestService(t, serviceDeps{repo: repo, blobs: blobs})

	_, err := svc.GetAdImage(context.Background(), ad.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestGetAdImageWithoutKeyIsNotFound(t *testing.T) {
	repo := newStubAdRepo()
	blobs := newStubBlobs()
	ad := seededAd(repo, blobs, "")
	svc := newTestService(t, serviceDeps{repo: repo, blobs: blobs})

	_, err := svc.GetAdImage(context.Background(), ad.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestListAdsFlagsMissingImages(t *testing.T) {
	repo := newStubAdRepo()
	blobs := newStubBlobs()
	blobs.blobs["generated_ad_11111111.png"] = []byte("img")
	repo.listRows = []models.GeneratedAd{
		{ID: uuid.New(), ImageKey: "generated_ad_11111111.png"},
		{ID: uuid.New(), ImageKey: "generated_ad_22222222.png"},
		{ID: uuid.New()},
	}
	svc := newTestService(t, serviceDeps{repo: repo, blobs: blobs})

	result, err := svc.ListAds(context.Background(), pagination.Params{})
	require.NoError(t, err)

	require.Len(t, result.Ads, 3)
	assert.True(t, result.Ads[0].ImageExists)
	assert.False(t, result.Ads[1].ImageExists)
	assert.False(t, result.Ads[2].ImageExists)
}
