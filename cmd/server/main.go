package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"propertydash/server/config"
	"propertydash/server/internal/aggregator"
	"propertydash/server/internal/api"
	"propertydash/server/internal/cache"
	"propertydash/server/internal/geocode"
	"propertydash/server/internal/providers"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	// .env is optional; deployments configure through the environment.
	if err := godotenv.Load(); err == nil {
		logger.Info("Loaded .env file")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// The offline snapshot backs /search only; live searches keep working
	// without it.
	dataset := providers.NewDataset(logger)
	if err := dataset.Load(cfg.DatasetPath); err != nil {
		logger.WithError(err).Warn("Offline dataset unavailable")
	} else {
		logger.Infof("Loaded %d offline listings", dataset.Len())
	}

	resolver := geocode.NewResolver(cfg, logger)

	providerTimeout := time.Duration(cfg.Providers.Timeout) * time.Second
	adapters := []providers.Provider{
		providers.NewNaver(logger, providerTimeout),
		providers.NewZigbang(logger, providerTimeout),
		providers.NewDabang(logger, providerTimeout),
		providers.NewKB(logger, providerTimeout),
		providers.NewPeterpan(logger, providerTimeout),
		providers.NewSpeedbank(logger),
	}

	orchestrator := aggregator.NewOrchestrator(cfg, resolver, adapters, logger)
	registry := providers.NewMolit(cfg, logger)
	responseCache := cache.New(cfg, logger)

	handler := api.NewHandler(orchestrator, resolver, registry, dataset, responseCache, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, handler)

	logger.Infof("Starting server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
