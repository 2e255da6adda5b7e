package controllers

import (
	"net/http"

	"github.com/adforgehq/adforge-backend/api/responses"
	"github.com/adforgehq/adforge-backend/api/validators"
	campaignsvc "github.com/adforgehq/adforge-backend/internal/campaigns"
	"github.com/adforgehq/adforge-backend/pkg/logger"
	"github.com/adforgehq/adforge-backend/pkg/types"
)

// ListCampaigns serves one page of campaigns.
func ListCampaigns(svc campaignsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListCampaigns(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type createCampaignRequest struct {
	Name        string        `json:"name" validate:"required"`
	BrandVoice  string        `json:"brand_voice,omitempty"`
	ColorScheme types.JSONMap `json:"color_scheme,omitempty"`
	FontKey     *string       `json:"font_key,omitempty"`
	LogoKey     *string       `json:"logo_key,omitempty"`
}

// CreateCampaign handles campaign creation.
func CreateCampaign(svc campaignsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createCampaignRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaign, err := svc.CreateCampaign(r.Context(), campaignsvc.CreateCampaignInput{
			Name:        payload.Name,
			BrandVoice:  payload.BrandVoice,
			ColorScheme: payload.ColorScheme,
			FontKey:     payload.FontKey,
			LogoKey:     payload.LogoKey,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, campaign)
	}
}
