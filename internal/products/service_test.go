package product

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adforgehq/adforge-backend/pkg/db/models"
	pkgerrors "github.com/adforgehq/adforge-backend/pkg/errors"
	"github.com/adforgehq/adforge-backend/pkg/logger"
	"github.com/adforgehq/adforge-backend/pkg/pagination"
)

type stubRepo struct {
	created     []*models.BrandProduct
	createErr   error
	byIDs       []models.BrandProduct
	byIDsErr    error
	all         []models.BrandProduct
	allErr      error
	byLabels    []models.BrandProduct
	byLabelsErr error
	gotLabels   []string
}

func (s *stubRepo) Create(_ context.Context, product *models.BrandProduct) (*models.BrandProduct, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, product)
	return product, nil
}

func (s *stubRepo) FindByID(_ context.Context, id uuid.UUID) (*models.BrandProduct, error) {
	for i := range s.all {
		if s.all[i].ID == id {
			return &s.all[i], nil
		}
	}
	return nil, nil
}

func (s *stubRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]models.BrandProduct, error) {
	return s.byIDs, s.byIDsErr
}

func (s *stubRepo) FindAll(_ context.Context) ([]models.BrandProduct, error) {
	return s.all, s.allErr
}

func (s *stubRepo) FindByLabels(_ context.Context, labels []string) ([]models.BrandProduct, error) {
	s.gotLabels = labels
	return s.byLabels, s.byLabelsErr
}

func (s *stubRepo) List(_ context.Context, _ pagination.Params) ([]models.BrandProduct, string, error) {
	return s.all, "", nil
}

func newTestService(t *testing.T, repo *stubRepo) Service {
	t.Helper()
	log := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(repo, log)
	require.NoError(t, err)
	return svc
}

func TestCreateProductAppliesDefaults(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo)

	dto, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:         "  Adidas Running Shoes  ",
		SellingPrice: decimal.RequireFromString("100.00"),
		Features:     []string{" breathable mesh ", "", "cushioned sole"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Adidas Running Shoes", dto.Name)
	assert.Equal(t, "General", dto.Category)
	assert.Equal(t, "Uncategorized", dto.SubCategory)
	assert.Equal(t, []string{"breathable mesh", "cushioned sole"}, dto.Features)
	assert.Equal(t, "100.00", dto.SellingPrice)
	assert.Equal(t, "100.00", dto.DiscountedPrice)
	assert.Equal(t, "0.00", dto.SavingsAmount)
	assert.False(t, dto.HasDiscount)
	require.Len(t, repo.created, 1)
}

func TestCreateProductComputesDiscountedPrice(t *testing.T) {
	svc := newTestService(t, &stubRepo{})

	dto, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:               "Adidas Running Shoes",
		SellingPrice:       decimal.RequireFromString("80.00"),
		DiscountPercentage: decimal.RequireFromString("25"),
	})
	require.NoError(t, err)

	assert.Equal(t, "60.00", dto.DiscountedPrice)
	assert.Equal(t, "20.00", dto.SavingsAmount)
	assert.True(t, dto.HasDiscount)
}

func TestCreateProductRejectsBadPricing(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo)

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{
			name:  "missing name",
			input: CreateProductInput{SellingPrice: decimal.NewFromInt(10)},
		},
		{
			name: "negative price",
			input: CreateProductInput{
				Name:         "Shoes",
				SellingPrice: decimal.RequireFromString("-1"),
			},
		},
		{
			name: "discount above 100",
			input: CreateProductInput{
				Name:               "Shoes",
				SellingPrice:       decimal.NewFromInt(10),
				DiscountPercentage: decimal.RequireFromString("100.01"),
			},
		},
		{
			name: "negative discount",
			input: CreateProductInput{
				Name:               "Shoes",
				SellingPrice:       decimal.NewFromInt(10),
				DiscountPercentage: decimal.RequireFromString("-5"),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(context.Background(), tc.input)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}
	assert.Empty(t, repo.created)
}

func TestFindForSelectionRejectsUnknownIDs(t *testing.T) {
	known := models.BrandProduct{ID: uuid.New(), Name: "Shoes"}
	repo := &stubRepo{byIDs: []models.BrandProduct{known}}
	svc := newTestService(t, repo)

	rows, err := svc.FindForSelection(context.Background(), []uuid.UUID{known.ID})
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = svc.FindForSelection(context.Background(), []uuid.UUID{known.ID, uuid.New()})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.FindForSelection(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSimilarToPostUsesLabelMatches(t *testing.T) {
	match := models.BrandProduct{ID: uuid.New(), Name: "Adidas Running Shoes"}
	repo := &stubRepo{byLabels: []models.BrandProduct{match}}
	svc := newTestService(t, repo)

	post := &models.LikedPost{ID: uuid.New(), Labels: pq.StringArray{"running", "shoes"}}
	rows, err := svc.SimilarToPost(context.Background(), post)
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, match.ID, rows[0].ID)
	assert.Equal(t, []string{"running", "shoes"}, repo.gotLabels)
}

func TestSimilarToPostFallsBackToFullCatalog(t *testing.T) {
	catalog := []models.BrandProduct{{ID: uuid.New()}, {ID: uuid.New()}}

	t.Run("post without labels", func(t *testing.T) {
		repo := &stubRepo{all: catalog}
		svc := newTestService(t, repo)

		rows, err := svc.SimilarToPost(context.Background(), &models.LikedPost{ID: uuid.New()})
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("no matches", func(t *testing.T) {
		repo := &stubRepo{all: catalog}
		svc := newTestService(t, repo)

		post := &models.LikedPost{ID: uuid.New(), Labels: pq.StringArray{"zzz"}}
		rows, err := svc.SimilarToPost(context.Background(), post)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("lookup failure", func(t *testing.T) {
		repo := &stubRepo{all: catalog, byLabelsErr: io.ErrUnexpectedEOF}
		svc := newTestService(t, repo)

		post := &models.LikedPost{ID: uuid.New(), Labels: pq.StringArray{"running"}}
		rows, err := svc.SimilarToPost(context.Background(), post)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})
}
