package search

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/cardesignspace/gallery-backend/internal/domain"
	"github.com/cardesignspace/gallery-backend/internal/platform/logger"
)

type SearchHistoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.SearchHistory) (*types.SearchHistory, error)
	ListByQuery(ctx context.Context, tx *gorm.DB, query string, limit int) ([]*types.SearchHistory, error)
	CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error)
}

type searchHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSearchHistoryRepo(db *gorm.DB, baseLog *logger.Logger) SearchHistoryRepo {
	return &searchHistoryRepo{db: db, log: baseLog.With("repo", "SearchHistoryRepo")}
}

func (r *searchHistoryRepo) Create(ctx context.Context, tx *gorm.DB, row *types.SearchHistory) (*types.SearchHistory, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *searchHistoryRepo) ListByQuery(ctx context.Context, tx *gorm.DB, query string, limit int) ([]*types.SearchHistory, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).Where("query = ?", query).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []*types.SearchHistory
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *searchHistoryRepo) CountSince(ctx context.Context, tx *gorm.DB, since time.Time) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	q := t.WithContext(ctx).Model(&types.SearchHistory{})
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
