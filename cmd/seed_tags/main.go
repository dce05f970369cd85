package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cardesignspace/gallery-backend/internal/data/repos"
	"github.com/cardesignspace/gallery-backend/internal/db"
	types "github.com/cardesignspace/gallery-backend/internal/domain"
	"github.com/cardesignspace/gallery-backend/internal/platform/logger"
)

// The basic taxonomy seeded on every deployment. The upsert keyed on the
// unique name makes re-runs no-ops, so this can ship as a migration step.
var basicTags = []struct {
	Name     string
	Category string
}{
	{"外观", "category"},
	{"内饰", "category"},
	{"细节", "category"},
	{"正面", "angle"},
	{"侧面", "angle"},
	{"尾部", "angle"},
	{"三四侧", "angle"},
	{"工作室", "scene"},
	{"道路", "scene"},
	{"城市", "scene"},
	{"自然", "scene"},
}

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
	tagRepo := repos.NewTagRepo(postgresService.DB(), log)

	ctx := context.Background()
	applied, failed := 0, 0
	for _, seed := range basicTags {
		if _, err := tagRepo.UpsertByName(ctx, nil, seed.Name, seed.Category, types.TagTypeSystem); err != nil {
			log.Warn("seed tag failed, continuing", "name", seed.Name, "error", err)
			failed++
			continue
		}
		applied++
	}

	fmt.Printf("basic tags seeded: applied=%d failed=%d\n", applied, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
