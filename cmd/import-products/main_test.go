package main

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	productsvc "github.com/adforgehq/adforge-backend/internal/products"
	"github.com/adforgehq/adforge-backend/pkg/db/models"
	"github.com/adforgehq/adforge-backend/pkg/errors"
	"github.com/adforgehq/adforge-backend/pkg/logger"
	"github.com/adforgehq/adforge-backend/pkg/pagination"
)

type fakeProductService struct {
	inputs []productsvc.CreateProductInput
	errOn  string
}

func (f *fakeProductService) CreateProduct(_ context.Context, input productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	if f.errOn != "" && input.Name == f.errOn {
		return nil, errors.New(errors.CodeValidation, "name is required")
	}
	f.inputs = append(f.inputs, input)
	return &productsvc.ProductDTO{Name: input.Name}, nil
}

func (f *fakeProductService) ListProducts(context.Context, pagination.Params) (*productsvc.ProductListResult, error) {
	return nil, nil
}

func (f *fakeProductService) FindForSelection(context.Context, []uuid.UUID) ([]models.BrandProduct, error) {
	return nil, nil
}

func (f *fakeProductService) SimilarToPost(context.Context, *models.LikedPost) ([]models.BrandProduct, error) {
	return nil, nil
}

const importHeader = "name,category,sub_category,description,selling_price,discount_percentage,features,image_link\n"

func TestImportProductsParsesRows(t *testing.T) {
	csvBody := importHeader +
		`Trail Runner,Shoes,Running,Grippy trail shoe,129.99,25%,"Vibram sole, Gore-Tex, Rock plate",https://example.com/trail.png` + "\n"

	svc := &fakeProductService{}
	imported, failed, err := importProducts(context.Background(), svc, strings.NewReader(csvBody), logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("importProducts() error = %v", err)
	}
	if imported != 1 || failed != 0 {
		t.Fatalf("imported = %d, failed = %d, want 1 and 0", imported, failed)
	}

	got := svc.inputs[0]
	if got.Name != "Trail Runner" {
		t.Errorf("Name = %q", got.Name)
	}
	if got.SellingPrice.StringFixed(2) != "129.99" {
		t.Errorf("SellingPrice = %s", got.SellingPrice)
	}
	if got.DiscountPercentage.String() != "25" {
		t.Errorf("DiscountPercentage = %s, want percent sign stripped", got.DiscountPercentage)
	}
	if len(got.Features) != 3 || got.Features[1] != "Gore-Tex" {
		t.Errorf("Features = %v", got.Features)
	}
}

func TestImportProductsSkipsBadRows(t *testing.T) {
	csvBody := importHeader +
		"Good Product,Shoes,,,10.00,0,,\n" +
		"Bad Price,Shoes,,,not-a-number,0,,\n" +
		",Shoes,,,5.00,0,,\n"

	svc := &fakeProductService{errOn: ""}
	imported, failed, err := importProducts(context.Background(), svc, strings.NewReader(csvBody), logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("importProducts() error = %v", err)
	}
	if imported != 2 || failed != 1 {
		t.Fatalf("imported = %d, failed = %d, want 2 and 1", imported, failed)
	}
}

func TestImportProductsRejectsMissingColumns(t *testing.T) {
	csvBody := "name,category\nSolo,Shoes\n"

	svc := &fakeProductService{}
	if _, _, err := importProducts(context.Background(), svc, strings.NewReader(csvBody), logger.New(logger.Options{ServiceName: "test"})); err == nil {
		t.Fatal("importProducts() expected header error")
	}
}
