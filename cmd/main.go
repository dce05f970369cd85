package main

import (
	"fmt"
	"os"

	redisclient "github.com/cardesignspace/gallery-backend/internal/clients/redis"
	"github.com/cardesignspace/gallery-backend/internal/data/repos"
	"github.com/cardesignspace/gallery-backend/internal/db"
	"github.com/cardesignspace/gallery-backend/internal/handlers"
	"github.com/cardesignspace/gallery-backend/internal/platform/logger"
	"github.com/cardesignspace/gallery-backend/internal/server"
	"github.com/cardesignspace/gallery-backend/internal/services"
	"github.com/cardesignspace/gallery-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Redis (optional hot-search cache)
	hotSearchCache, err := redisclient.NewHotSearchCache(log)
	if err != nil {
		log.Warn("Hot-search cache disabled", "error", err)
		hotSearchCache = nil
	} else {
		defer hotSearchCache.Close()
	}

	// Repos
	log.Info("Setting up repos...")
	imageRepo := repos.NewImageRepo(thePG, log)
	tagRepo := repos.NewTagRepo(thePG, log)
	imageTagRepo := repos.NewImageTagRepo(thePG, log)
	curationRepo := repos.NewImageCurationRepo(thePG, log)
	searchStatRepo := repos.NewSearchStatRepo(thePG, log)
	searchHistoryRepo := repos.NewSearchHistoryRepo(thePG, log)

	// Services
	log.Info("Setting up services...")
	tagService := services.NewTagService(thePG, log, tagRepo)
	taggingService := services.NewTaggingService(thePG, log, imageRepo, tagRepo, imageTagRepo)
	curationService := services.NewCurationService(thePG, log, imageRepo, curationRepo)
	searchStatsService := services.NewSearchStatsService(thePG, log, searchStatRepo, searchHistoryRepo, hotSearchCache)

	// Handlers
	log.Info("Setting up handlers...")
	tagHandler := handlers.NewTagHandler(log, tagService, taggingService)
	curationHandler := handlers.NewCurationHandler(log, curationService)
	searchHandler := handlers.NewSearchHandler(log, searchStatsService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		TagHandler:      tagHandler,
		CurationHandler: curationHandler,
		SearchHandler:   searchHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
