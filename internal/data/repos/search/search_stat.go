package search

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/cardesignspace/gallery-backend/internal/domain"
	"github.com/cardesignspace/gallery-backend/internal/platform/logger"
)

type SearchStatRepo interface {
	// IncrementOrCreate records one search event for a normalized query
	// in a single atomic upsert: insert with count 1, or bump the stored
	// count in the database. Concurrent callers never lose increments
	// because no count is ever read on the client side.
	IncrementOrCreate(ctx context.Context, tx *gorm.DB, query string, now time.Time) error

	GetByQuery(ctx context.Context, tx *gorm.DB, query string) (*types.SearchStat, error)

	// Top returns the hot-search ranking: count DESC, recency as the
	// tiebreak. since bounds the window by last_searched_at; pass the
	// zero time for all-time.
	Top(ctx context.Context, tx *gorm.DB, limit int, since time.Time) ([]*types.SearchStat, error)
}

type searchStatRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSearchStatRepo(db *gorm.DB, baseLog *logger.Logger) SearchStatRepo {
	return &searchStatRepo{db: db, log: baseLog.With("repo", "SearchStatRepo")}
}

func (r *searchStatRepo) IncrementOrCreate(ctx context.Context, tx *gorm.DB, query string, now time.Time) error {
	t := tx
	if t == nil {
		t = r.db
	}
	row := &types.SearchStat{
		ID:             uuid.New(),
		Query:          query,
		Count:          1,
		LastSearchedAt: now,
		UpdatedAt:      now,
	}
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "query"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"count":            gorm.Expr("search_stats.count + 1"),
				"last_searched_at": gorm.Expr("EXCLUDED.last_searched_at"),
				"updated_at":       gorm.Expr("EXCLUDED.updated_at"),
			}),
		}).
		Create(row).Error
}

func (r *searchStatRepo) GetByQuery(ctx context.Context, tx *gorm.DB, query string) (*types.SearchStat, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.SearchStat
	if err := t.WithContext(ctx).Where("query = ?", query).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *searchStatRepo) Top(ctx context.Context, tx *gorm.DB, limit int, since time.Time) ([]*types.SearchStat, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).Model(&types.SearchStat{})
	if !since.IsZero() {
		q = q.Where("last_searched_at >= ?", since)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []*types.SearchStat
	if err := q.Order("count DESC, last_searched_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
