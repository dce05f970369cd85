package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/cardesignspace/gallery-backend/internal/data/repos"
	"github.com/cardesignspace/gallery-backend/internal/data/repos/testutil"
)

func newSearchFixture(t *testing.T, tx *gorm.DB) (SearchStatsService, repos.SearchStatRepo, repos.SearchHistoryRepo) {
	t.Helper()
	log := testutil.Logger(t)
	statRepo := repos.NewSearchStatRepo(tx, log)
	historyRepo := repos.NewSearchHistoryRepo(tx, log)
	// No redis in tests; the cache client is nil-safe.
	return NewSearchStatsService(tx, log, statRepo, historyRepo, nil), statRepo, historyRepo
}

func TestSearchStatsServiceRecordSearch(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc, statRepo, historyRepo := newSearchFixture(t, tx)

	normalized, err := svc.RecordSearch(ctx, RecordSearchInput{
		Query:        "  BMW   概念车 ",
		UserAgent:    "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)",
		IPAddress:    "203.0.113.9",
		ResultsCount: 12,
		IsSuccessful: true,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if normalized != "BMW 概念车" {
		t.Fatalf("normalized = %q, want %q", normalized, "BMW 概念车")
	}

	// Spacing variants of the same query share one counter row.
	if _, err := svc.RecordSearch(ctx, RecordSearchInput{Query: "BMW 概念车"}); err != nil {
		t.Fatalf("second record: %v", err)
	}
	stat, err := statRepo.GetByQuery(ctx, tx, "BMW 概念车")
	if err != nil {
		t.Fatalf("get stat: %v", err)
	}
	if stat == nil || stat.Count != 2 {
		t.Fatalf("stat = %+v, want count 2", stat)
	}

	history, err := historyRepo.ListByQuery(ctx, tx, "BMW 概念车", 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d history rows, want 2", len(history))
	}
	first := history[len(history)-1]
	if first.DeviceType != "mobile" {
		t.Fatalf("device type = %q, want mobile", first.DeviceType)
	}
	if first.SearchType != "smart" {
		t.Fatalf("search type = %q, want smart default", first.SearchType)
	}
}

func TestSearchStatsServiceTopSearches(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	svc, _, _ := newSearchFixture(t, tx)

	bump := func(query string, times int) {
		t.Helper()
		for i := 0; i < times; i++ {
			if _, err := svc.RecordSearch(ctx, RecordSearchInput{Query: query}); err != nil {
				t.Fatalf("record %q: %v", query, err)
			}
		}
	}
	bump("概念车", 5)
	bump("内饰", 3)
	bump("大灯", 1)

	top, err := svc.TopSearches(ctx, 2, 30)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("got %d rows, want 2", len(top))
	}
	if top[0].Query != "概念车" || top[0].Count != 5 {
		t.Fatalf("leader = %+v", top[0])
	}
	if top[1].Query != "内饰" {
		t.Fatalf("runner-up = %+v", top[1])
	}
}
