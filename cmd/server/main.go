package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/canteenhq/canteen/internal/cache"
	"github.com/canteenhq/canteen/internal/config"
	"github.com/canteenhq/canteen/internal/es"
	"github.com/canteenhq/canteen/internal/handlers"
	"github.com/canteenhq/canteen/internal/logging"
	"github.com/canteenhq/canteen/internal/mykafka"
	"github.com/canteenhq/canteen/internal/service/token"
	httpserver "github.com/canteenhq/canteen/internal/transport/http"
)

const menuIndex = "menu"

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}
	if err := config.SeedMenu(db); err != nil {
		log.Fatalf("menu seed error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	} else {
		logger.Warn("KAFKA_ADDRESS not set, domain events disabled")
	}

	var menuCache *cache.MenuCache
	if configuration.REDIS_ADDR != "" {
		rdb := redis.NewClient(&redis.Options{Addr: configuration.REDIS_ADDR})
		menuCache = cache.NewMenuCache(rdb, 5*time.Minute)
	} else {
		logger.Warn("REDIS_ADDR not set, menu cache disabled")
	}

	var esClient *elasticsearch.Client
	if configuration.ES_URL != "" {
		esClient, err = es.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
	} else {
		logger.Warn("ES_URL not set, menu search disabled")
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	tokens := &token.TokenService{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}
	deps := httpserver.Deps{
		DB:             db,
		AuthHandler:    &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret, Producer: prod},
		MenuHandler:    &handlers.MenuHandler{DB: db, Producer: prod, Cache: menuCache, ES: esClient, Index: menuIndex},
		CartHandler:    &handlers.CartHandler{DB: db, Producer: prod},
		OrderHandler:   &handlers.OrderHandler{DB: db, Producer: prod},
		ProfileHandler: &handlers.ProfileHandler{DB: db},
		SearchHandler:  &handlers.SearchHandler{ES: esClient, Index: menuIndex},
		Tokens:         tokens,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http server listening", "addr", configuration.HTTP_ADDR)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "err", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "err", err)
		}
	}

	if err := prod.Close(); err != nil {
		logger.Error("kafka close error", "err", err)
	}

	logger.Info("shutdown complete")
}
