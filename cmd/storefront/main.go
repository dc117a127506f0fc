package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/storefront/internal/backend"
	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	db, err := store.Open(ctx, cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("store: %v", err)
	}

	client := backend.NewClient(cfg.BackendURL)
	cache := catalog.NewCache(client)

	var producer *events.Producer
	if cfg.KafkaAddress != "" {
		producer = events.NewProducer(cfg.KafkaAddress)
	}

	searchSvc := &search.Service{Index: "product", Catalog: cache}
	if cfg.ESURL != "" {
		esClient, err := search.NewESClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		searchSvc.ES = esClient
	}

	if err := cache.Ensure(ctx); err != nil {
		logger.Warn("initial catalog fetch failed", "error", err)
	} else if err := searchSvc.IndexCatalog(ctx); err != nil {
		logger.Warn("catalog indexing failed", "error", err)
	}

	sessions := session.NewManager(client, cache)
	cartSvc := &cart.Service{
		Store:    &cart.Store{DB: db},
		Backend:  client,
		Shipping: cfg.ShippingRate,
		Events:   producer,
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), httpserver.RequestLogger(logger))

	deps := httpserver.Deps{
		Sessions: sessions,
		Auth:     &httpserver.AuthHTTP{Backend: client, Sessions: sessions},
		Cart:     &httpserver.CartHTTP{Svc: cartSvc, Catalog: cache, Sessions: sessions},
		Chat:     &httpserver.ChatHTTP{Sessions: sessions, Events: producer},
		Catalog:  &httpserver.CatalogHTTP{Backend: client, Catalog: cache, Search: searchSvc, Sessions: sessions},
		Profile:  &httpserver.ProfileHTTP{Backend: client, Sessions: sessions},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	logger.Info("storefront gateway started", "addr", cfg.ListenAddr, "backend", cfg.BackendURL)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
