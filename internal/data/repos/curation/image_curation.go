package curation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/cardesignspace/gallery-backend/internal/domain"
	"github.com/cardesignspace/gallery-backend/internal/platform/logger"
)

type ImageCurationRepo interface {
	GetByImageID(ctx context.Context, tx *gorm.DB, imageID uuid.UUID) (*types.ImageCuration, error)
	GetByImageIDs(ctx context.Context, tx *gorm.DB, imageIDs []uuid.UUID) ([]*types.ImageCuration, error)

	// Upsert replaces the record for row.ImageID wholesale. Used for
	// explicit curator writes, which always win.
	Upsert(ctx context.Context, tx *gorm.DB, row *types.ImageCuration) (*types.ImageCuration, error)

	// UpsertBackfill is the lower-priority migration writer: one atomic
	// statement that creates the record if absent, and otherwise takes
	// the max of old and new score while leaving curator, reason and
	// provenance untouched on a human-authored record.
	UpsertBackfill(ctx context.Context, tx *gorm.DB, imageID uuid.UUID, score float64, reason string) error

	ListActive(ctx context.Context, tx *gorm.DB, now time.Time, limit, offset int) ([]*types.ImageCuration, error)
	List(ctx context.Context, tx *gorm.DB, expire string, now time.Time, limit, offset int) ([]*types.ImageCuration, int64, error)

	DeleteByImageID(ctx context.Context, tx *gorm.DB, imageID uuid.UUID) (bool, error)
}

type imageCurationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImageCurationRepo(db *gorm.DB, baseLog *logger.Logger) ImageCurationRepo {
	return &imageCurationRepo{db: db, log: baseLog.With("repo", "ImageCurationRepo")}
}

func (r *imageCurationRepo) GetByImageID(ctx context.Context, tx *gorm.DB, imageID uuid.UUID) (*types.ImageCuration, error) {
	if imageID == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByImageIDs(ctx, tx, []uuid.UUID{imageID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *imageCurationRepo) GetByImageIDs(ctx context.Context, tx *gorm.DB, imageIDs []uuid.UUID) ([]*types.ImageCuration, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.ImageCuration
	if len(imageIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("image_id IN ?", imageIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *imageCurationRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ImageCuration) (*types.ImageCuration, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.UpdatedAt = time.Now().UTC()
	if err := t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "image_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"is_curated", "curation_score", "curator", "reason", "provenance", "valid_until", "updated_at",
			}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return r.GetByImageID(ctx, tx, row.ImageID)
}

func (r *imageCurationRepo) UpsertBackfill(ctx context.Context, tx *gorm.DB, imageID uuid.UUID, score float64, reason string) error {
	t := tx
	if t == nil {
		t = r.db
	}
	curator := "migration"
	row := &types.ImageCuration{
		ID:            uuid.New(),
		ImageID:       imageID,
		IsCurated:     true,
		CurationScore: score,
		Curator:       &curator,
		Reason:        &reason,
		Provenance:    types.ProvenanceMigration,
		UpdatedAt:     time.Now().UTC(),
	}
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "image_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"is_curated":     true,
				"curation_score": gorm.Expr("GREATEST(image_curation.curation_score, EXCLUDED.curation_score)"),
				"curator":        gorm.Expr("CASE WHEN image_curation.provenance = 'migration' THEN EXCLUDED.curator ELSE image_curation.curator END"),
				"reason":         gorm.Expr("CASE WHEN image_curation.provenance = 'migration' THEN EXCLUDED.reason ELSE image_curation.reason END"),
				"updated_at":     gorm.Expr("EXCLUDED.updated_at"),
			}),
		}).
		Create(row).Error
}

func (r *imageCurationRepo) ListActive(ctx context.Context, tx *gorm.DB, now time.Time, limit, offset int) ([]*types.ImageCuration, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).
		Where("is_curated = TRUE AND (valid_until IS NULL OR valid_until > ?)", now).
		Order("curation_score DESC, image_id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	var out []*types.ImageCuration
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *imageCurationRepo) List(ctx context.Context, tx *gorm.DB, expire string, now time.Time, limit, offset int) ([]*types.ImageCuration, int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).Model(&types.ImageCuration{}).Where("is_curated = TRUE")
	switch expire {
	case "expired":
		q = q.Where("valid_until IS NOT NULL AND valid_until <= ?", now)
	case "all":
	default: // active
		q = q.Where("valid_until IS NULL OR valid_until > ?", now)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	q = q.Order("curation_score DESC, image_id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	var out []*types.ImageCuration
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *imageCurationRepo) DeleteByImageID(ctx context.Context, tx *gorm.DB, imageID uuid.UUID) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if imageID == uuid.Nil {
		return false, nil
	}
	res := t.WithContext(ctx).Where("image_id = ?", imageID).Delete(&types.ImageCuration{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
