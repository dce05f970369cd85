package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardesignspace/gallery-backend/internal/data/repos"
	types "github.com/cardesignspace/gallery-backend/internal/domain"
	"github.com/cardesignspace/gallery-backend/internal/platform/apierr"
	"github.com/cardesignspace/gallery-backend/internal/platform/logger"
)

// MaxCurationScore bounds curator input; the backfill inherits the same
// bound through its callers.
const MaxCurationScore = 100

type CurationInput struct {
	IsCurated  bool
	Score      float64
	Curator    string
	Reason     string
	ValidUntil *time.Time
}

// CurationService owns per-image curated state. Explicit curator writes
// replace the record; the migration backfill only ever raises the score
// and never overwrites a human-authored record.
type CurationService interface {
	SetCuration(ctx context.Context, imageID uuid.UUID, in CurationInput) (*types.ImageCuration, error)
	BackfillFromLegacyFlag(ctx context.Context, imageID uuid.UUID, score float64, reason string) error
	RemoveCuration(ctx context.Context, imageID uuid.UUID) error

	IsActive(ctx context.Context, imageID uuid.UUID, now time.Time) (bool, error)
	ListActive(ctx context.Context, now time.Time, limit, offset int) ([]uuid.UUID, error)
	ListCurations(ctx context.Context, expire string, now time.Time, limit, offset int) ([]*types.ImageCuration, int64, error)
}

type curationService struct {
	db           *gorm.DB
	log          *logger.Logger
	imageRepo    repos.ImageRepo
	curationRepo repos.ImageCurationRepo
}

func NewCurationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	imageRepo repos.ImageRepo,
	curationRepo repos.ImageCurationRepo,
) CurationService {
	return &curationService{
		db:           db,
		log:          baseLog.With("service", "CurationService"),
		imageRepo:    imageRepo,
		curationRepo: curationRepo,
	}
}

func (s *curationService) SetCuration(ctx context.Context, imageID uuid.UUID, in CurationInput) (*types.ImageCuration, error) {
	if in.Score < 0 || in.Score > MaxCurationScore {
		return nil, apierr.Validation("invalid_curation_score", fmt.Errorf("score %v outside [0, %d]", in.Score, MaxCurationScore))
	}
	// A past valid_until is only meaningful as an explicit deactivation;
	// activating with one would create a record that is dead on arrival.
	if in.IsCurated && in.ValidUntil != nil && !in.ValidUntil.After(time.Now()) {
		return nil, apierr.Validation("valid_until_in_past", fmt.Errorf("cannot activate curation with valid_until in the past"))
	}
	exists, err := s.imageRepo.Exists(ctx, nil, imageID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apierr.NotFound("image_not_found", fmt.Errorf("image %s does not exist", imageID))
	}

	curator := in.Curator
	if curator == "" {
		curator = "system"
	}
	row := &types.ImageCuration{
		ImageID:       imageID,
		IsCurated:     in.IsCurated,
		CurationScore: in.Score,
		Curator:       &curator,
		Provenance:    types.ProvenanceHuman,
		ValidUntil:    in.ValidUntil,
	}
	if in.Reason != "" {
		reason := in.Reason
		row.Reason = &reason
	}
	return s.curationRepo.Upsert(ctx, nil, row)
}

func (s *curationService) BackfillFromLegacyFlag(ctx context.Context, imageID uuid.UUID, score float64, reason string) error {
	if score < 0 {
		return apierr.Validation("invalid_curation_score", fmt.Errorf("score %v is negative", score))
	}
	exists, err := s.imageRepo.Exists(ctx, nil, imageID)
	if err != nil {
		return err
	}
	if !exists {
		return apierr.NotFound("image_not_found", fmt.Errorf("image %s does not exist", imageID))
	}
	return s.curationRepo.UpsertBackfill(ctx, nil, imageID, score, reason)
}

func (s *curationService) RemoveCuration(ctx context.Context, imageID uuid.UUID) error {
	removed, err := s.curationRepo.DeleteByImageID(ctx, nil, imageID)
	if err != nil {
		return err
	}
	if !removed {
		return apierr.NotFound("curation_not_found", fmt.Errorf("no curation record for image %s", imageID))
	}
	return nil
}

func (s *curationService) IsActive(ctx context.Context, imageID uuid.UUID, now time.Time) (bool, error) {
	record, err := s.curationRepo.GetByImageID(ctx, nil, imageID)
	if err != nil {
		return false, err
	}
	return record.ActiveAt(now), nil
}

func (s *curationService) ListActive(ctx context.Context, now time.Time, limit, offset int) ([]uuid.UUID, error) {
	rows, err := s.curationRepo.ListActive(ctx, nil, now, limit, offset)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ImageID)
	}
	return ids, nil
}

func (s *curationService) ListCurations(ctx context.Context, expire string, now time.Time, limit, offset int) ([]*types.ImageCuration, int64, error) {
	return s.curationRepo.List(ctx, nil, expire, now, limit, offset)
}
