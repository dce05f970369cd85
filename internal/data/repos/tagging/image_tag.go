package tagging

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/cardesignspace/gallery-backend/internal/domain"
	"github.com/cardesignspace/gallery-backend/internal/platform/logger"
)

type ImageTagRepo interface {
	// CreateIgnoreDuplicates inserts links that do not exist yet and
	// reports how many rows were actually written. A pair that is
	// already present is skipped, not an error, so the returned count is
	// exactly the popularity delta the caller owes the tag registry.
	CreateIgnoreDuplicates(ctx context.Context, tx *gorm.DB, rows []*types.ImageTag) (int, error)

	// DeleteByPair removes one link and reports whether a row went away.
	DeleteByPair(ctx context.Context, tx *gorm.DB, imageID, tagID uuid.UUID) (bool, error)
	DeleteByImageID(ctx context.Context, tx *gorm.DB, imageID uuid.UUID) (int64, error)

	GetByImageID(ctx context.Context, tx *gorm.DB, imageID uuid.UUID) ([]*types.ImageTag, error)
	GetByTagID(ctx context.Context, tx *gorm.DB, tagID uuid.UUID) ([]*types.ImageTag, error)
	CountByTagID(ctx context.Context, tx *gorm.DB, tagID uuid.UUID) (int64, error)
	Exists(ctx context.Context, tx *gorm.DB, imageID, tagID uuid.UUID) (bool, error)
}

type imageTagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImageTagRepo(db *gorm.DB, baseLog *logger.Logger) ImageTagRepo {
	return &imageTagRepo{db: db, log: baseLog.With("repo", "ImageTagRepo")}
}

func (r *imageTagRepo) CreateIgnoreDuplicates(ctx context.Context, tx *gorm.DB, rows []*types.ImageTag) (int, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return 0, nil
	}
	res := t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "image_id"}, {Name: "tag_id"}},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

func (r *imageTagRepo) DeleteByPair(ctx context.Context, tx *gorm.DB, imageID, tagID uuid.UUID) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if imageID == uuid.Nil || tagID == uuid.Nil {
		return false, nil
	}
	res := t.WithContext(ctx).
		Where("image_id = ? AND tag_id = ?", imageID, tagID).
		Delete(&types.ImageTag{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *imageTagRepo) DeleteByImageID(ctx context.Context, tx *gorm.DB, imageID uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if imageID == uuid.Nil {
		return 0, nil
	}
	res := t.WithContext(ctx).Where("image_id = ?", imageID).Delete(&types.ImageTag{})
	return res.RowsAffected, res.Error
}

func (r *imageTagRepo) GetByImageID(ctx context.Context, tx *gorm.DB, imageID uuid.UUID) ([]*types.ImageTag, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.ImageTag
	if imageID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("image_id = ?", imageID).
		Order("tag_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *imageTagRepo) GetByTagID(ctx context.Context, tx *gorm.DB, tagID uuid.UUID) ([]*types.ImageTag, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.ImageTag
	if tagID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("tag_id = ?", tagID).
		Order("image_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *imageTagRepo) CountByTagID(ctx context.Context, tx *gorm.DB, tagID uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if tagID == uuid.Nil {
		return 0, nil
	}
	var n int64
	if err := t.WithContext(ctx).
		Model(&types.ImageTag{}).
		Where("tag_id = ?", tagID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *imageTagRepo) Exists(ctx context.Context, tx *gorm.DB, imageID, tagID uuid.UUID) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if imageID == uuid.Nil || tagID == uuid.Nil {
		return false, nil
	}
	var n int64
	if err := t.WithContext(ctx).
		Model(&types.ImageTag{}).
		Where("image_id = ? AND tag_id = ?", imageID, tagID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
