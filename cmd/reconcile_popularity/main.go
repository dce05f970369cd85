package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cardesignspace/gallery-backend/internal/data/repos"
	"github.com/cardesignspace/gallery-backend/internal/db"
	"github.com/cardesignspace/gallery-backend/internal/platform/logger"
	"github.com/cardesignspace/gallery-backend/internal/services"
)

// Integrity repair for the denormalized popularity counters: recounts
// every tag's popularity from the live image_tags rows. Run on demand or
// from cron; a clean system reports zero repairs.
func main() {
	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	imageRepo := repos.NewImageRepo(thePG, log)
	tagRepo := repos.NewTagRepo(thePG, log)
	imageTagRepo := repos.NewImageTagRepo(thePG, log)
	taggingService := services.NewTaggingService(thePG, log, imageRepo, tagRepo, imageTagRepo)

	repaired, err := taggingService.ReconcilePopularity(context.Background())
	if err != nil {
		log.Error("popularity reconciliation failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("popularity reconciliation done: tags_repaired=%d\n", repaired)
}
