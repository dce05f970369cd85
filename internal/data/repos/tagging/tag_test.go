package tagging

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardesignspace/gallery-backend/internal/data/repos/testutil"
	types "github.com/cardesignspace/gallery-backend/internal/domain"
)

func TestTagRepoUpsertByName(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewTagRepo(db, testutil.Logger(t))

	first, err := repo.UpsertByName(ctx, tx, "外观", "category", types.TagTypeManual)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if first.Name != "外观" || first.Status != types.TagStatusActive {
		t.Fatalf("unexpected row: %+v", first)
	}

	again, err := repo.UpsertByName(ctx, tx, "外观", "other", types.TagTypeAI)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if again.ID != first.ID {
		t.Fatalf("upsert must converge on one row, got %s and %s", first.ID, again.ID)
	}
	if again.Category != "category" {
		t.Fatalf("upsert must not rewrite existing row, category = %q", again.Category)
	}

	other, err := repo.UpsertByName(ctx, tx, "正面", "angle", types.TagTypeManual)
	if err != nil {
		t.Fatalf("distinct upsert: %v", err)
	}
	if other.ID == first.ID {
		t.Fatal("distinct names must map to distinct rows")
	}
}

// Races a batch of identical upserts against the shared connection pool.
// Writes commit, so the test cleans its row up itself instead of relying
// on a rollback.
func TestTagRepoUpsertByNameConcurrent(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewTagRepo(db, testutil.Logger(t))

	name := "外观-" + uuid.NewString()
	t.Cleanup(func() {
		db.Where("name = ?", name).Delete(&types.Tag{})
	})

	const callers = 8
	ids := make([]uuid.UUID, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tag, err := repo.UpsertByName(ctx, nil, name, "category", types.TagTypeManual)
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = tag.ID
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d: %v", i, err)
		}
	}
	for i := 1; i < callers; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("callers got distinct ids: %s and %s", ids[0], ids[i])
		}
	}
	var n int64
	if err := db.Model(&types.Tag{}).Where("name = ?", name).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("stored %d rows for one name, want 1", n)
	}
}

func TestTagRepoBumpPopularity(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewTagRepo(db, testutil.Logger(t))

	tag := testutil.SeedTag(t, ctx, tx, "侧面", "angle")

	if err := repo.BumpPopularity(ctx, tx, tag.ID, 2); err != nil {
		t.Fatalf("bump +2: %v", err)
	}
	got, err := repo.GetByID(ctx, tx, tag.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Popularity != 2 {
		t.Fatalf("popularity = %d, want 2", got.Popularity)
	}

	// Decrement past zero must clamp, never go negative.
	if err := repo.BumpPopularity(ctx, tx, tag.ID, -5); err != nil {
		t.Fatalf("bump -5: %v", err)
	}
	got, err = repo.GetByID(ctx, tx, tag.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Popularity != 0 {
		t.Fatalf("popularity = %d, want 0", got.Popularity)
	}

	if err := repo.BumpPopularity(ctx, tx, uuid.New(), 1); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("bump unknown id: err = %v, want ErrRecordNotFound", err)
	}
}

func TestTagRepoListByCategory(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewTagRepo(db, testutil.Logger(t))

	a := testutil.SeedTag(t, ctx, tx, "工作室", "scene")
	b := testutil.SeedTag(t, ctx, tx, "道路", "scene")
	c := testutil.SeedTag(t, ctx, tx, "城市", "scene")
	testutil.SeedTag(t, ctx, tx, "正面", "angle")

	if err := repo.BumpPopularity(ctx, tx, b.ID, 3); err != nil {
		t.Fatalf("bump: %v", err)
	}
	if err := repo.BumpPopularity(ctx, tx, c.ID, 1); err != nil {
		t.Fatalf("bump: %v", err)
	}

	rows, err := repo.ListByCategory(ctx, tx, "scene")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0].ID != b.ID || rows[1].ID != c.ID {
		t.Fatalf("expected popularity DESC ordering, got %s, %s, %s", rows[0].Name, rows[1].Name, rows[2].Name)
	}

	// Disabled tags drop out of category listings.
	if err := repo.SetStatus(ctx, tx, a.ID, types.TagStatusDisabled); err != nil {
		t.Fatalf("set status: %v", err)
	}
	rows, err = repo.ListByCategory(ctx, tx, "scene")
	if err != nil {
		t.Fatalf("list after disable: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows after disable, want 2", len(rows))
	}
}

func TestTagRepoList(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewTagRepo(db, testutil.Logger(t))

	testutil.SeedTag(t, ctx, tx, "内饰", "category")
	testutil.SeedTag(t, ctx, tx, "内饰细节", "category")
	testutil.SeedTag(t, ctx, tx, "自然", "scene")

	rows, err := repo.List(ctx, tx, "category", "内饰", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	rows, err = repo.List(ctx, tx, "", "", 2)
	if err != nil {
		t.Fatalf("list with limit: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("limit ignored, got %d rows", len(rows))
	}
}

func TestTagRepoRecountPopularity(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewTagRepo(db, testutil.Logger(t))

	img := testutil.SeedImage(t, ctx, tx, "a.jpg")
	img2 := testutil.SeedImage(t, ctx, tx, "b.jpg")
	tag := testutil.SeedTag(t, ctx, tx, "三四侧", "angle")
	drifted := testutil.SeedTag(t, ctx, tx, "尾部", "angle")

	testutil.SeedImageTag(t, ctx, tx, img.ID, tag.ID)
	testutil.SeedImageTag(t, ctx, tx, img2.ID, tag.ID)

	// Counter drifted away from the live association rows.
	if err := tx.Model(&types.Tag{}).Where("id = ?", drifted.ID).Update("popularity", 7).Error; err != nil {
		t.Fatalf("force drift: %v", err)
	}

	repaired, err := repo.RecountPopularity(ctx, tx)
	if err != nil {
		t.Fatalf("recount: %v", err)
	}
	if repaired < 2 {
		t.Fatalf("repaired = %d, want at least 2", repaired)
	}

	got, err := repo.GetByID(ctx, tx, tag.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Popularity != 2 {
		t.Fatalf("popularity = %d, want 2", got.Popularity)
	}
	got, err = repo.GetByID(ctx, tx, drifted.ID)
	if err != nil {
		t.Fatalf("get drifted: %v", err)
	}
	if got.Popularity != 0 {
		t.Fatalf("drifted popularity = %d, want 0", got.Popularity)
	}

	// A second pass finds nothing left to fix inside this tx.
	repairedAgain, err := repo.RecountPopularity(ctx, tx)
	if err != nil {
		t.Fatalf("second recount: %v", err)
	}
	if repairedAgain != 0 && repairedAgain >= repaired {
		t.Fatalf("second recount repaired %d rows", repairedAgain)
	}
}
