package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/adforgehq/adforge-backend/api/responses"
	"github.com/adforgehq/adforge-backend/api/validators"
	adsvc "github.com/adforgehq/adforge-backend/internal/ads"
	postsvc "github.com/adforgehq/adforge-backend/internal/posts"
	productsvc "github.com/adforgehq/adforge-backend/internal/products"
	"github.com/adforgehq/adforge-backend/pkg/enums"
	pkgerrors "github.com/adforgehq/adforge-backend/pkg/errors"
	"github.com/adforgehq/adforge-backend/pkg/logger"
)

// ListLikedPosts serves the dashboard feed, newest first.
func ListLikedPosts(svc postsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListPosts(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// SimilarProducts offers the products matched against a post's labels, with
// the full catalog as fallback.
func SimilarProducts(posts postsvc.Service, products productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := validators.ParseIDParam(r, "postId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		post, err := posts.GetPost(r.Context(), postID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := products.SimilarToPost(r.Context(), post)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, productsvc.NewProductDTOs(rows))
	}
}

type createAdRequest struct {
	CampaignID string   `json:"campaign_id" validate:"required,uuid"`
	ProductIDs []string `json:"product_ids" validate:"required,min=1,max=5,dive,uuid"`
	Platform   string   `json:"platform,omitempty"`
}

func (req createAdRequest) toCreateInput() (adsvc.CreateAdInput, error) {
	campaignID, err := uuid.Parse(req.CampaignID)
	if err != nil {
		return adsvc.CreateAdInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid campaign_id")
	}

	productIDs := make([]uuid.UUID, 0, len(req.ProductIDs))
	for _, raw := range req.ProductIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return adsvc.CreateAdInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id").
				WithDetails(map[string]any{"product_id": raw})
		}
		productIDs = append(productIDs, id)
	}

	var platform enums.AdPlatform
	if req.Platform != "" {
		platform, err = enums.ParseAdPlatform(req.Platform)
		if err != nil {
			return adsvc.CreateAdInput{}, pkgerrors.New(pkgerrors.CodeValidation, "unsupported platform").
				WithDetails(map[string]any{"platform": req.Platform})
		}
	}

	return adsvc.CreateAdInput{CampaignID: campaignID, ProductIDs: productIDs, Platform: platform}, nil
}

// CreateAdFromPost kicks off ad generation for a post.
func CreateAdFromPost(svc adsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := validators.ParseIDParam(r, "postId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createAdRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CreateAdFromPost(r.Context(), postID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
