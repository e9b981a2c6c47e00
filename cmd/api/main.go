package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/khaizansolutions/khaizan-storefront/api/controllers"
	"github.com/khaizansolutions/khaizan-storefront/api/routes"
	"github.com/khaizansolutions/khaizan-storefront/internal/catalog"
	"github.com/khaizansolutions/khaizan-storefront/internal/quote"
	"github.com/khaizansolutions/khaizan-storefront/pkg/config"
	"github.com/khaizansolutions/khaizan-storefront/pkg/db"
	"github.com/khaizansolutions/khaizan-storefront/pkg/logger"
	"github.com/khaizansolutions/khaizan-storefront/pkg/metrics"
	"github.com/khaizansolutions/khaizan-storefront/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	pingers := map[string]controllers.Pinger{
		"redis": redisClient,
	}

	var snapshotStore quote.SnapshotStore
	if cfg.QuoteStore.UsesDatabase() {
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
		pingers["database"] = dbClient

		snapshotStore, err = quote.NewDatabaseStore(dbClient.DB(), logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create database snapshot store", err)
			os.Exit(1)
		}
	} else {
		snapshotStore, err = quote.NewRedisStore(redisClient, logg, cfg.QuoteStore.SnapshotTTL)
		if err != nil {
			logg.Error(context.Background(), "failed to create redis snapshot store", err)
			os.Exit(1)
		}
	}

	catalogClient, err := catalog.NewClient(
		cfg.Catalog.BaseURL,
		catalog.WithTimeout(cfg.Catalog.RequestTimeout),
		catalog.WithPageSizes(cfg.Catalog.DefaultPageSize, cfg.Catalog.MaxPageSize),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog client", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceOptions{
		API:       catalogClient,
		Cache:     redisClient,
		Logger:    logg,
		ListTTL:   cfg.Catalog.ListCacheTTL,
		DetailTTL: cfg.Catalog.DetailCacheTTL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	quoteService, err := quote.NewService(quote.ServiceOptions{
		Store:     snapshotStore,
		Submitter: catalogClient,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create quote service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting storefront api")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:         cfg,
			Logger:         logg,
			QuoteService:   quoteService,
			CatalogService: catalogService,
			HTTPMetrics:    httpMetrics,
			Registry:       registry,
			Pingers:        pingers,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "storefront api stopped unexpectedly", err)
		os.Exit(1)
	}
}
