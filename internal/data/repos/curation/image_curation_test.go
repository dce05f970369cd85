package curation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cardesignspace/gallery-backend/internal/data/repos/testutil"
	types "github.com/cardesignspace/gallery-backend/internal/domain"
)

func TestImageCurationRepoUpsert(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewImageCurationRepo(db, testutil.Logger(t))

	img := testutil.SeedImage(t, ctx, tx, "hero.jpg")
	curator := "alice"
	row, err := repo.Upsert(ctx, tx, &types.ImageCuration{
		ImageID:       img.ID,
		IsCurated:     true,
		CurationScore: 30,
		Curator:       &curator,
		Provenance:    types.ProvenanceHuman,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !row.IsCurated || row.CurationScore != 30 {
		t.Fatalf("unexpected row: %+v", row)
	}

	// A second explicit write replaces the record wholesale, lower
	// score included.
	curator2 := "bob"
	until := time.Now().Add(24 * time.Hour).UTC()
	row2, err := repo.Upsert(ctx, tx, &types.ImageCuration{
		ImageID:       img.ID,
		IsCurated:     true,
		CurationScore: 10,
		Curator:       &curator2,
		Provenance:    types.ProvenanceHuman,
		ValidUntil:    &until,
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if row2.ID != row.ID {
		t.Fatal("upsert must keep one record per image")
	}
	if row2.CurationScore != 10 {
		t.Fatalf("score = %v, want 10", row2.CurationScore)
	}
	if row2.Curator == nil || *row2.Curator != "bob" {
		t.Fatalf("curator = %v, want bob", row2.Curator)
	}
	if row2.ValidUntil == nil {
		t.Fatal("valid_until dropped")
	}
}

func TestImageCurationRepoBackfillCreates(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewImageCurationRepo(db, testutil.Logger(t))

	img := testutil.SeedImage(t, ctx, tx, "legacy.jpg")
	if err := repo.UpsertBackfill(ctx, tx, img.ID, 50, "recommended flag"); err != nil {
		t.Fatalf("backfill: %v", err)
	}

	row, err := repo.GetByImageID(ctx, tx, img.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if row == nil {
		t.Fatal("expected a record")
	}
	if !row.IsCurated || row.CurationScore != 50 {
		t.Fatalf("unexpected row: %+v", row)
	}
	if row.Curator == nil || *row.Curator != "migration" {
		t.Fatalf("curator = %v, want migration", row.Curator)
	}
	if row.Provenance != types.ProvenanceMigration {
		t.Fatalf("provenance = %q, want migration", row.Provenance)
	}
}

func TestImageCurationRepoBackfillKeepsHumanRecord(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewImageCurationRepo(db, testutil.Logger(t))

	img := testutil.SeedImage(t, ctx, tx, "curated.jpg")
	testutil.SeedCuration(t, ctx, tx, img.ID, 30, "alice")

	if err := repo.UpsertBackfill(ctx, tx, img.ID, 50, "recommended flag"); err != nil {
		t.Fatalf("backfill: %v", err)
	}

	row, err := repo.GetByImageID(ctx, tx, img.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if row.CurationScore != 50 {
		t.Fatalf("score = %v, want max(30, 50) = 50", row.CurationScore)
	}
	if row.Curator == nil || *row.Curator != "alice" {
		t.Fatalf("curator = %v, must stay alice", row.Curator)
	}
	if row.Provenance != types.ProvenanceHuman {
		t.Fatalf("provenance = %q, must stay human", row.Provenance)
	}

	// A lower repeated backfill never regresses the score.
	if err := repo.UpsertBackfill(ctx, tx, img.ID, 20, "recommended flag"); err != nil {
		t.Fatalf("lower backfill: %v", err)
	}
	row, err = repo.GetByImageID(ctx, tx, img.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if row.CurationScore != 50 {
		t.Fatalf("score = %v after lower backfill, want 50", row.CurationScore)
	}
}

func TestImageCurationRepoBackfillUpdatesMigrationRecord(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewImageCurationRepo(db, testutil.Logger(t))

	img := testutil.SeedImage(t, ctx, tx, "migrated.jpg")
	if err := repo.UpsertBackfill(ctx, tx, img.ID, 40, "first pass"); err != nil {
		t.Fatalf("first backfill: %v", err)
	}
	if err := repo.UpsertBackfill(ctx, tx, img.ID, 60, "second pass"); err != nil {
		t.Fatalf("second backfill: %v", err)
	}

	row, err := repo.GetByImageID(ctx, tx, img.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if row.CurationScore != 60 {
		t.Fatalf("score = %v, want 60", row.CurationScore)
	}
	if row.Reason == nil || *row.Reason != "second pass" {
		t.Fatalf("reason = %v, migration records take the new reason", row.Reason)
	}
}

func TestImageCurationRepoListActive(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewImageCurationRepo(db, testutil.Logger(t))

	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	imgHigh := testutil.SeedImage(t, ctx, tx, "high.jpg")
	imgLow := testutil.SeedImage(t, ctx, tx, "low.jpg")
	imgExpired := testutil.SeedImage(t, ctx, tx, "expired.jpg")
	imgWindowed := testutil.SeedImage(t, ctx, tx, "windowed.jpg")

	seed := func(imageID uuid.UUID, score float64, until *time.Time) {
		t.Helper()
		curator := "alice"
		if _, err := repo.Upsert(ctx, tx, &types.ImageCuration{
			ImageID:       imageID,
			IsCurated:     true,
			CurationScore: score,
			Curator:       &curator,
			Provenance:    types.ProvenanceHuman,
			ValidUntil:    until,
		}); err != nil {
			t.Fatalf("seed curation: %v", err)
		}
	}
	seed(imgHigh.ID, 90, nil)
	seed(imgLow.ID, 10, nil)
	seed(imgExpired.ID, 99, &past)
	seed(imgWindowed.ID, 50, &future)

	rows, err := repo.ListActive(ctx, tx, now, 0, 0)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d active rows, want 3", len(rows))
	}
	if rows[0].ImageID != imgHigh.ID || rows[1].ImageID != imgWindowed.ID || rows[2].ImageID != imgLow.ID {
		t.Fatalf("wrong ordering: %v, %v, %v", rows[0].CurationScore, rows[1].CurationScore, rows[2].CurationScore)
	}

	expired, total, err := repo.List(ctx, tx, "expired", now, 0, 0)
	if err != nil {
		t.Fatalf("list expired: %v", err)
	}
	if total != 1 || len(expired) != 1 || expired[0].ImageID != imgExpired.ID {
		t.Fatalf("expired list wrong: total=%d len=%d", total, len(expired))
	}

	all, total, err := repo.List(ctx, tx, "all", now, 2, 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if total != 4 {
		t.Fatalf("total = %d, want 4", total)
	}
	if len(all) != 2 {
		t.Fatalf("page len = %d, want 2", len(all))
	}
}

func TestImageCurationRepoDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewImageCurationRepo(db, testutil.Logger(t))

	img := testutil.SeedImage(t, ctx, tx, "gone.jpg")
	testutil.SeedCuration(t, ctx, tx, img.ID, 20, "alice")

	removed, err := repo.DeleteByImageID(ctx, tx, img.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !removed {
		t.Fatal("expected removal")
	}
	removed, err = repo.DeleteByImageID(ctx, tx, img.ID)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if removed {
		t.Fatal("second delete must report nothing removed")
	}
}
