package gallery

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/cardesignspace/gallery-backend/internal/domain"
	"github.com/cardesignspace/gallery-backend/internal/platform/logger"
)

// untaggedCond is the SQL rendering of normalization.HasTagValues == false
// and taggedCond its complement: only a non-empty array, possibly serialized
// once more into a JSON string, counts as tagged. Any other value shape (JSON
// null, empty array, a string whose unwrapped content is not a non-empty
// array, objects, scalars) means "untagged", exactly as the Go predicate
// reads it.
const (
	untaggedCond = `tags IS NULL
		OR jsonb_typeof(tags) NOT IN ('array', 'string')
		OR (jsonb_typeof(tags) = 'array' AND jsonb_array_length(tags) = 0)
		OR (jsonb_typeof(tags) = 'string' AND (btrim(tags #>> '{}') NOT LIKE '[%' OR btrim(tags #>> '{}') ~ '^\[\s*\]$'))`
	taggedCond = `(jsonb_typeof(tags) = 'array' AND jsonb_array_length(tags) > 0)
		OR (jsonb_typeof(tags) = 'string' AND btrim(tags #>> '{}') LIKE '[%' AND btrim(tags #>> '{}') !~ '^\[\s*\]$')`
)

type ImageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Image) ([]*types.Image, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Image, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Image, error)
	Exists(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error)

	UpdateTagsField(ctx context.Context, tx *gorm.DB, id uuid.UUID, tags datatypes.JSON) error

	// ListForTagging backs the admin tagging screen: hasTags nil means no
	// filter, true/false select tagged/untagged via the canonical
	// predicate; search does a substring match on title and filename.
	ListForTagging(ctx context.Context, tx *gorm.DB, hasTags *bool, search string, limit, offset int) ([]*types.Image, int64, error)

	// ListFeatured streams the legacy is_featured flag for the curation
	// backfill.
	ListFeatured(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Image, error)
}

type imageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImageRepo(db *gorm.DB, baseLog *logger.Logger) ImageRepo {
	return &imageRepo{db: db, log: baseLog.With("repo", "ImageRepo")}
}

func (r *imageRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Image) ([]*types.Image, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Image{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *imageRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Image, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *imageRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Image, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Image
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *imageRepo) Exists(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return false, nil
	}
	var n int64
	if err := t.WithContext(ctx).Model(&types.Image{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *imageRepo) UpdateTagsField(ctx context.Context, tx *gorm.DB, id uuid.UUID, tags datatypes.JSON) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).
		Model(&types.Image{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"tags":       tags,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *imageRepo) ListForTagging(ctx context.Context, tx *gorm.DB, hasTags *bool, search string, limit, offset int) ([]*types.Image, int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).Model(&types.Image{})
	if hasTags != nil {
		if *hasTags {
			q = q.Where(taggedCond)
		} else {
			q = q.Where(untaggedCond)
		}
	}
	if search != "" {
		q = q.Where("title LIKE ? OR filename LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	q = q.Order("created_at DESC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	var out []*types.Image
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *imageRepo) ListFeatured(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Image, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).Where("is_featured = TRUE").Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	var out []*types.Image
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
