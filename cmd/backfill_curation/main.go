package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/cardesignspace/gallery-backend/internal/data/repos"
	"github.com/cardesignspace/gallery-backend/internal/db"
	"github.com/cardesignspace/gallery-backend/internal/platform/logger"
	"github.com/cardesignspace/gallery-backend/internal/services"
)

const backfillBatchSize = 500

// Migrates the legacy images.is_featured flag into the curation ledger.
// Re-runnable: the backfill upsert takes the max of old and new score and
// never overwrites a human-authored record. Individual row failures are
// logged and skipped; the run ends with an applied/skipped/failed summary.
func main() {
	var dryRun bool
	var limit int
	var score float64
	flag.BoolVar(&dryRun, "dry-run", false, "print planned writes without applying them")
	flag.IntVar(&limit, "limit", 0, "limit number of images processed")
	flag.Float64Var(&score, "score", 50, "curation score assigned to migrated images")
	flag.Parse()

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
	curationRepo := repos.NewImageCurationRepo(thePG, log)
	curationService := services.NewCurationService(thePG, log, imageRepo, curationRepo)

	ctx := context.Background()
	applied, skipped, failed := 0, 0, 0
	offset := 0

	for {
		batch := backfillBatchSize
		if limit > 0 && limit-(applied+skipped+failed) < batch {
			batch = limit - (applied + skipped + failed)
			if batch <= 0 {
				break
			}
		}
		images, err := imageRepo.ListFeatured(ctx, nil, batch, offset)
		if err != nil {
			log.Error("load featured images", "error", err)
			os.Exit(1)
		}
		if len(images) == 0 {
			break
		}
		offset += len(images)

		for _, img := range images {
			if dryRun {
				fmt.Printf("[dry-run] backfill curation image_id=%s score=%v\n", img.ID, score)
				skipped++
				continue
			}
			if err := curationService.BackfillFromLegacyFlag(ctx, img.ID, score, "migrated from images.is_featured"); err != nil {
				log.Warn("backfill row failed, continuing", "image_id", img.ID, "error", err)
				failed++
				continue
			}
			applied++
		}
	}

	fmt.Printf("curation backfill done: applied=%d skipped=%d failed=%d\n", applied, skipped, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
