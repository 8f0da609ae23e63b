package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"library-api/config"
	"library-api/controllers"
	"library-api/middleware"
	"library-api/routes"
	"library-api/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	logCloser, err := config.InitLogging(cfg.Log)
	if err != nil {
		log.Fatal("Failed to initialize logging: ", err)
	}
	defer logCloser.Close()

	store, closeStore, err := services.OpenCatalogStore(cfg)
	if err != nil {
		config.Log.WithError(err).Fatal("Failed to open catalog store")
	}

	statsService := services.NewAdminStatsService(store, services.AdminStatsOptions{
		Cache:                   services.NewStatsCache(cfg.StatsCacheTTL, services.SystemClock{}),
		BreakerFailureThreshold: cfg.BreakerFailureThreshold,
		BreakerOpenTimeout:      cfg.BreakerOpenTimeout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go statsService.Cache().RunJanitor(ctx, cfg.StatsCacheCheckPeriod)

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	routes.SetupRoutes(router, routes.Handlers{
		AdminStats: controllers.NewAdminStatsController(statsService),
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		config.Log.WithFields(logrus.Fields{
			"port":        cfg.ServerPort,
			"store":       cfg.StoreDriver,
			"environment": cfg.Environment,
			"cache_ttl":   cfg.StatsCacheTTL.String(),
		}).Info("Server starting")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	config.Log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		config.Log.WithError(err).Error("Server shutdown failed")
	}
	if err := closeStore(shutdownCtx); err != nil {
		config.Log.WithError(err).Error("Failed to close catalog store")
	}
}
