package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	redisclient "github.com/cardesignspace/gallery-backend/internal/clients/redis"
	"github.com/cardesignspace/gallery-backend/internal/data/repos"
	types "github.com/cardesignspace/gallery-backend/internal/domain"
	"github.com/cardesignspace/gallery-backend/internal/normalization"
	"github.com/cardesignspace/gallery-backend/internal/platform/apierr"
	"github.com/cardesignspace/gallery-backend/internal/platform/logger"
)

const hotSearchCacheTTL = 60 * time.Second

type RecordSearchInput struct {
	Query           string
	TranslatedQuery *string
	UserID          *uuid.UUID
	SessionID       *string
	SearchType      string
	ResultsCount    int
	IPAddress       string
	UserAgent       string
	Referrer        string
	DurationMS      int
	IsSuccessful    bool
	ErrorMessage    *string
}

type QueryCount struct {
	Query          string    `json:"query"`
	Count          int       `json:"count"`
	LastSearchedAt time.Time `json:"last_searched_at"`
}

// SearchStatsService owns the hot-search index: one counter row per
// normalized query plus an append-only history log. The counter update
// is a single atomic upsert; the history write is best-effort and never
// fails the event.
type SearchStatsService interface {
	RecordSearch(ctx context.Context, in RecordSearchInput) (string, error)
	TopSearches(ctx context.Context, limit, days int) ([]QueryCount, error)
}

type searchStatsService struct {
	db          *gorm.DB
	log         *logger.Logger
	statRepo    repos.SearchStatRepo
	historyRepo repos.SearchHistoryRepo
	cache       *redisclient.HotSearchCache
}

func NewSearchStatsService(
	db *gorm.DB,
	baseLog *logger.Logger,
	statRepo repos.SearchStatRepo,
	historyRepo repos.SearchHistoryRepo,
	cache *redisclient.HotSearchCache,
) SearchStatsService {
	return &searchStatsService{
		db:          db,
		log:         baseLog.With("service", "SearchStatsService"),
		statRepo:    statRepo,
		historyRepo: historyRepo,
		cache:       cache,
	}
}

func (s *searchStatsService) RecordSearch(ctx context.Context, in RecordSearchInput) (string, error) {
	query := normalization.NormalizeQuery(in.Query)
	if query == "" {
		return "", apierr.Validation("query_required", fmt.Errorf("search query is empty after normalization"))
	}

	now := time.Now().UTC()
	if err := s.statRepo.IncrementOrCreate(ctx, nil, query, now); err != nil {
		return "", err
	}

	searchType := in.SearchType
	if searchType == "" {
		searchType = "smart"
	}
	history := &types.SearchHistory{
		UserID:           in.UserID,
		SessionID:        in.SessionID,
		Query:            query,
		TranslatedQuery:  in.TranslatedQuery,
		SearchType:       searchType,
		ResultsCount:     in.ResultsCount,
		IPAddress:        in.IPAddress,
		UserAgent:        in.UserAgent,
		Referrer:         in.Referrer,
		DeviceType:       normalization.DeviceType(in.UserAgent),
		SearchDurationMS: in.DurationMS,
		IsSuccessful:     in.IsSuccessful,
		ErrorMessage:     in.ErrorMessage,
	}
	if _, err := s.historyRepo.Create(ctx, nil, history); err != nil {
		s.log.Warn("search history write failed", "query", query, "error", err)
	}
	return query, nil
}

func (s *searchStatsService) TopSearches(ctx context.Context, limit, days int) ([]QueryCount, error) {
	cacheKey := fmt.Sprintf("hot_searches:%d:%d", limit, days)
	if raw, ok := s.cache.Get(ctx, cacheKey); ok {
		var cached []QueryCount
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	var since time.Time
	if days > 0 {
		since = time.Now().UTC().AddDate(0, 0, -days)
	}
	rows, err := s.statRepo.Top(ctx, nil, limit, since)
	if err != nil {
		return nil, err
	}
	out := make([]QueryCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, QueryCount{
			Query:          row.Query,
			Count:          row.Count,
			LastSearchedAt: row.LastSearchedAt,
		})
	}
	if raw, err := json.Marshal(out); err == nil {
		s.cache.Set(ctx, cacheKey, raw, hotSearchCacheTTL)
	}
	return out, nil
}
