package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/cardesignspace/gallery-backend/internal/domain"
)

func SeedImage(tb testing.TB, ctx context.Context, tx *gorm.DB, filename string) *types.Image {
	tb.Helper()
	img := &types.Image{
		ID:       uuid.New(),
		Title:    "image",
		Filename: filename,
	}
	if err := tx.WithContext(ctx).Create(img).Error; err != nil {
		tb.Fatalf("seed image: %v", err)
	}
	return img
}

func SeedTag(tb testing.TB, ctx context.Context, tx *gorm.DB, name, category string) *types.Tag {
	tb.Helper()
	tag := &types.Tag{
		ID:       uuid.New(),
		Name:     name,
		Category: category,
		Type:     types.TagTypeSystem,
		Status:   types.TagStatusActive,
	}
	if err := tx.WithContext(ctx).Create(tag).Error; err != nil {
		tb.Fatalf("seed tag: %v", err)
	}
	return tag
}

func SeedImageTag(tb testing.TB, ctx context.Context, tx *gorm.DB, imageID, tagID uuid.UUID) *types.ImageTag {
	tb.Helper()
	link := &types.ImageTag{
		ImageID: imageID,
		TagID:   tagID,
		Source:  types.SourceManual,
	}
	if err := tx.WithContext(ctx).Create(link).Error; err != nil {
		tb.Fatalf("seed image tag: %v", err)
	}
	return link
}

func SeedCuration(tb testing.TB, ctx context.Context, tx *gorm.DB, imageID uuid.UUID, score float64, curator string) *types.ImageCuration {
	tb.Helper()
	row := &types.ImageCuration{
		ID:            uuid.New(),
		ImageID:       imageID,
		IsCurated:     true,
		CurationScore: score,
		Curator:       &curator,
		Provenance:    types.ProvenanceHuman,
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed curation: %v", err)
	}
	return row
}
