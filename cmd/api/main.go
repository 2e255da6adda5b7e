package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/adforgehq/adforge-backend/api/routes"
	adsvc "github.com/adforgehq/adforge-backend/internal/ads"
	campaignsvc "github.com/adforgehq/adforge-backend/internal/campaigns"
	"github.com/adforgehq/adforge-backend/internal/generation"
	postsvc "github.com/adforgehq/adforge-backend/internal/posts"
	productsvc "github.com/adforgehq/adforge-backend/internal/products"
	"github.com/adforgehq/adforge-backend/pkg/config"
	"github.com/adforgehq/adforge-backend/pkg/db"
	"github.com/adforgehq/adforge-backend/pkg/logger"
	"github.com/adforgehq/adforge-backend/pkg/metrics"
	"github.com/adforgehq/adforge-backend/pkg/migrate"
	"github.com/adforgehq/adforge-backend/pkg/stability"
	"github.com/adforgehq/adforge-backend/pkg/storage/local"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	blobStore, err := local.New(cfg.Storage.MediaRoot)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap blob storage", err)
		os.Exit(1)
	}

	stabilityClient, err := stability.NewClient(cfg.Stability)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stability client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	generationMetrics := metrics.NewGenerationMetrics(registry)

	postRepo := postsvc.NewRepository(dbClient.DB())
	productRepo := productsvc.NewRepository(dbClient.DB())
	campaignRepo := campaignsvc.NewRepository(dbClient.DB())
	adRepo := adsvc.NewRepository(dbClient)

	postService, err := postsvc.NewService(postRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create post service", err)
		os.Exit(1)
	}

	productService, err := productsvc.NewService(productRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	campaignService, err := campaignsvc.NewService(campaignRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create campaign service", err)
		os.Exit(1)
	}

	pipeline := generation.NewPipeline(stabilityClient, blobStore, adRepo, generationMetrics, logg)

	adService, err := adsvc.NewService(adRepo, postService, campaignService, productService, pipeline, blobStore, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create ad service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, registry, postService, productService, campaignService, adService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
