package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/adforgehq/adforge-backend/api/responses"
	"github.com/adforgehq/adforge-backend/api/validators"
	productsvc "github.com/adforgehq/adforge-backend/internal/products"
	pkgerrors "github.com/adforgehq/adforge-backend/pkg/errors"
	"github.com/adforgehq/adforge-backend/pkg/logger"
)

// ListProducts serves one page of the catalog.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type createProductRequest struct {
	Name               string   `json:"name" validate:"required"`
	Category           string   `json:"category,omitempty"`
	SubCategory        string   `json:"sub_category,omitempty"`
	Description        string   `json:"description,omitempty"`
	SellingPrice       string   `json:"selling_price" validate:"required"`
	DiscountPercentage string   `json:"discount_percentage,omitempty"`
	Features           []string `json:"features,omitempty"`
	ImageLink          string   `json:"image_link,omitempty"`
}

func (req createProductRequest) toCreateInput() (productsvc.CreateProductInput, error) {
	price, err := decimal.NewFromString(req.SellingPrice)
	if err != nil {
		return productsvc.CreateProductInput{}, pkgerrors.New(pkgerrors.CodeValidation, "selling_price must be a decimal string")
	}

	discount := decimal.Zero
	if req.DiscountPercentage != "" {
		discount, err = decimal.NewFromString(req.DiscountPercentage)
		if err != nil {
			return productsvc.CreateProductInput{}, pkgerrors.New(pkgerrors.CodeValidation, "discount_percentage must be a decimal string")
		}
	}

	return productsvc.CreateProductInput{
		Name:               req.Name,
		Category:           req.Category,
		SubCategory:        req.SubCategory,
		Description:        req.Description,
		SellingPrice:       price,
		DiscountPercentage: discount,
		Features:           req.Features,
		ImageLink:          req.ImageLink,
	}, nil
}

// CreateProduct handles catalog entry creation.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}
