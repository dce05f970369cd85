package tagging

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/cardesignspace/gallery-backend/internal/domain"
	"github.com/cardesignspace/gallery-backend/internal/platform/logger"
)

type TagRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Tag) ([]*types.Tag, error)

	// UpsertByName is the find-or-create keyed on the unique name: an
	// insert with conflict-as-no-op followed by a re-read, so concurrent
	// callers with the same name converge on a single row without any
	// client-side locking.
	UpsertByName(ctx context.Context, tx *gorm.DB, name, category, tagType string) (*types.Tag, error)

	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Tag, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Tag, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Tag, error)
	GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.Tag, error)

	ListByCategory(ctx context.Context, tx *gorm.DB, category string) ([]*types.Tag, error)
	List(ctx context.Context, tx *gorm.DB, category, nameLike string, limit int) ([]*types.Tag, error)

	// BumpPopularity atomically adds delta to popularity, floored at 0.
	// Returns gorm.ErrRecordNotFound for an unknown id.
	BumpPopularity(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error

	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	SetStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error

	// RecountPopularity rewrites popularity from the live association
	// rows and reports how many tags needed repair.
	RecountPopularity(ctx context.Context, tx *gorm.DB) (int64, error)
}

type tagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTagRepo(db *gorm.DB, baseLog *logger.Logger) TagRepo {
	return &tagRepo{db: db, log: baseLog.With("repo", "TagRepo")}
}

func (r *tagRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Tag) ([]*types.Tag, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Tag{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *tagRepo) UpsertByName(ctx context.Context, tx *gorm.DB, name, category, tagType string) (*types.Tag, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	row := &types.Tag{
		ID:       uuid.New(),
		Name:     name,
		Category: category,
		Type:     tagType,
		Status:   types.TagStatusActive,
	}
	res := t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		return row, nil
	}
	return r.GetByName(ctx, tx, name)
}

func (r *tagRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Tag, error) {
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

func (r *tagRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Tag, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Tag
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *tagRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Tag, error) {
	rows, err := r.GetByNames(ctx, tx, []string{name})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *tagRepo) GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.Tag, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Tag
	if len(names) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("name IN ?", names).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *tagRepo) ListByCategory(ctx context.Context, tx *gorm.DB, category string) ([]*types.Tag, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Tag
	if err := t.WithContext(ctx).
		Where("status = ? AND category = ?", types.TagStatusActive, category).
		Order("popularity DESC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *tagRepo) List(ctx context.Context, tx *gorm.DB, category, nameLike string, limit int) ([]*types.Tag, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).Where("status = ?", types.TagStatusActive)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if nameLike != "" {
		q = q.Where("name LIKE ?", "%"+nameLike+"%")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []*types.Tag
	if err := q.Order("popularity DESC, name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *tagRepo) BumpPopularity(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return gorm.ErrRecordNotFound
	}
	res := t.WithContext(ctx).
		Model(&types.Tag{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"popularity": gorm.Expr("GREATEST(popularity + ?, 0)", delta),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *tagRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return t.WithContext(ctx).
		Model(&types.Tag{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *tagRepo) SetStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error {
	return r.UpdateFields(ctx, tx, id, map[string]interface{}{"status": status})
}

func (r *tagRepo) RecountPopularity(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(ctx).Exec(`
		UPDATE tags SET popularity = sub.cnt, updated_at = NOW()
		FROM (
			SELECT t.id, COUNT(it.tag_id) AS cnt
			FROM tags t
			LEFT JOIN image_tags it ON it.tag_id = t.id
			GROUP BY t.id
		) sub
		WHERE tags.id = sub.id AND tags.popularity <> sub.cnt
	`)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
