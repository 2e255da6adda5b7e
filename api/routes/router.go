package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adforgehq/adforge-backend/api/controllers"
	"github.com/adforgehq/adforge-backend/api/middleware"
	adsvc "github.com/adforgehq/adforge-backend/internal/ads"
	campaignsvc "github.com/adforgehq/adforge-backend/internal/campaigns"
	postsvc "github.com/adforgehq/adforge-backend/internal/posts"
	productsvc "github.com/adforgehq/adforge-backend/internal/products"
	"github.com/adforgehq/adforge-backend/pkg/config"
	"github.com/adforgehq/adforge-backend/pkg/db"
	"github.com/adforgehq/adforge-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	registry *prometheus.Registry,
	postService postsvc.Service,
	productService productsvc.Service,
	campaignService campaignsvc.Service,
	adService adsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/liked-posts", func(r chi.Router) {
			r.Get("/", controllers.ListLikedPosts(postService, logg))
			r.Get("/{postId}/similar-products", controllers.SimilarProducts(postService, productService, logg))
			r.Post("/{postId}/ads", controllers.CreateAdFromPost(adService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(productService, logg))
			r.Post("/", controllers.CreateProduct(productService, logg))
		})

		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", controllers.ListCampaigns(campaignService, logg))
			r.Post("/", controllers.CreateCampaign(campaignService, logg))
		})

		r.Route("/ads", func(r chi.Router) {
			r.Get("/", controllers.ListAds(adService, logg))
			r.Get("/{adId}", controllers.GetAd(adService, logg))
			r.Get("/{adId}/image", controllers.GetAdImage(adService, logg))
			r.Post("/{adId}/regenerate", controllers.RegenerateAdImage(adService, logg))
		})
	})

	return r
}
