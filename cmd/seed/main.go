package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	campaignsvc "github.com/adforgehq/adforge-backend/internal/campaigns"
	postsvc "github.com/adforgehq/adforge-backend/internal/posts"
	productsvc "github.com/adforgehq/adforge-backend/internal/products"
	"github.com/adforgehq/adforge-backend/pkg/config"
	"github.com/adforgehq/adforge-backend/pkg/db"
	"github.com/adforgehq/adforge-backend/pkg/db/models"
	"github.com/adforgehq/adforge-backend/pkg/logger"
	"github.com/adforgehq/adforge-backend/pkg/migrate"
	"github.com/adforgehq/adforge-backend/pkg/types"
)

const (
	seedUserID = "testuser"
	seedEmail  = "test@example.com"
)

type seedProduct struct {
	name        string
	category    string
	description string
	price       string
	discount    string
	features    []string
	imageLink   string
}

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	err = migrate.MaybeRunDev(ctx, cfg, logg, dbClient)
	requireResource(ctx, logg, "migrations", err)

	postRepo := postsvc.NewRepository(dbClient.DB())
	productService, err := productsvc.NewService(productsvc.NewRepository(dbClient.DB()), logg)
	requireResource(ctx, logg, "product service", err)
	campaignService, err := campaignsvc.NewService(campaignsvc.NewRepository(dbClient.DB()))
	requireResource(ctx, logg, "campaign service", err)

	email := seedEmail
	posts := []models.LikedPost{
		{
			UserID:      seedUserID,
			Email:       &email,
			ImageURL:    "https://images.unsplash.com/photo-1600185365483-26d7a4cc7519",
			Description: "Trendy streetwear sneakers on urban background",
			Labels:      []string{"sneakers", "streetwear", "urban", "fashion"},
		},
		{
			UserID:      seedUserID,
			Email:       &email,
			ImageURL:    "https://images.unsplash.com/photo-1542291026-7eec264c27ff",
			Description: "Professional running shoes isolated on white",
			Labels:      []string{"running", "shoes", "sports", "performance"},
		},
	}
	for i := range posts {
		created, err := postRepo.Create(ctx, &posts[i])
		requireResource(ctx, logg, "liked post", err)
		logg.Info(ctx, fmt.Sprintf("created liked post %s", created.ID))
	}

	products := []seedProduct{
		{
			name:        "Nike SB Dunk Low Pro",
			category:    "Skateboarding Shoes",
			description: "Premium skate shoes with Zoom Air cushioning",
			price:       "109.95",
			discount:    "0",
			features:    []string{"Zoom Air", "Reinforced toe", "Gum rubber sole"},
			imageLink:   "https://static.nike.com/a/images/t_PDP_1280_v1/f_auto,q_auto:eco/skwgyqrbfzhu6uyeh0gg/dunk-low-pro-shoes-2k1nqD.png",
		},
		{
			name:        "Adidas Ultraboost Light",
			category:    "Running Shoes",
			description: "Energy-returning running shoes with Primeknit+",
			price:       "189.99",
			discount:    "20",
			features:    []string{"Boost midsole", "Primeknit+", "Continental rubber"},
			imageLink:   "https://assets.adidas.com/images/h_840,f_auto,q_auto,fl_lossy,c_fill,g_auto/4505df81b1d248b392c1af8f00bd1e2a_9366/Ultraboost_Light_Shoes_Black_HP9207_01_standard.jpg",
		},
	}
	for _, p := range products {
		created, err := productService.CreateProduct(ctx, productsvc.CreateProductInput{
			Name:               p.name,
			Category:           p.category,
			Description:        p.description,
			SellingPrice:       decimal.RequireFromString(p.price),
			DiscountPercentage: decimal.RequireFromString(p.discount),
			Features:           p.features,
			ImageLink:          p.imageLink,
		})
		requireResource(ctx, logg, "brand product", err)
		logg.Info(ctx, fmt.Sprintf("created product %s", created.Name))
	}

	campaign, err := campaignService.CreateCampaign(ctx, campaignsvc.CreateCampaignInput{
		Name:       "Summer 2023 Collection",
		BrandVoice: "Youthful, energetic, and rebellious",
		ColorScheme: types.JSONMap{
			"primary":   "#000000",
			"secondary": "#66B933",
			"text":      "#FFFFFF",
		},
	})
	requireResource(ctx, logg, "brand campaign", err)
	logg.Info(ctx, fmt.Sprintf("created campaign %s", campaign.Name))

	logg.Info(ctx, "sample data populated")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
