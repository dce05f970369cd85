package gallery

import (
	"context"
	"testing"

	"gorm.io/datatypes"

	"github.com/cardesignspace/gallery-backend/internal/data/repos/testutil"
	types "github.com/cardesignspace/gallery-backend/internal/domain"
)

func TestImageRepoListForTagging(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewImageRepo(db, testutil.Logger(t))

	seed := func(filename string, tags []byte) *types.Image {
		t.Helper()
		img := testutil.SeedImage(t, ctx, tx, filename)
		if tags != nil {
			if err := repo.UpdateTagsField(ctx, tx, img.ID, datatypes.JSON(tags)); err != nil {
				t.Fatalf("set tags on %s: %v", filename, err)
			}
		}
		return img
	}

	// Untagged in every legacy shape the column accumulated. A bare
	// string or object value is not a tag list either.
	seed("missing.jpg", nil)
	seed("null.jpg", []byte(`null`))
	seed("empty.jpg", []byte(`[]`))
	seed("stringified.jpg", []byte(`"[]"`))
	seed("barestring.jpg", []byte(`"红色"`))
	seed("object.jpg", []byte(`{}`))

	// Tagged, including the degenerate single-empty-member list and a
	// list serialized once more into a JSON string.
	seed("tagged.jpg", []byte(`["外观","正面"]`))
	seed("degenerate.jpg", []byte(`[""]`))
	seed("serialized.jpg", []byte(`"[\"外观\"]"`))

	no := false
	rows, total, err := repo.ListForTagging(ctx, tx, &no, "", 0, 0)
	if err != nil {
		t.Fatalf("list untagged: %v", err)
	}
	if total != 6 || len(rows) != 6 {
		t.Fatalf("untagged total = %d, len = %d, want 6", total, len(rows))
	}

	yes := true
	rows, total, err = repo.ListForTagging(ctx, tx, &yes, "", 0, 0)
	if err != nil {
		t.Fatalf("list tagged: %v", err)
	}
	if total != 3 || len(rows) != 3 {
		t.Fatalf("tagged total = %d, len = %d, want 3", total, len(rows))
	}

	rows, total, err = repo.ListForTagging(ctx, tx, nil, "stringified", 0, 0)
	if err != nil {
		t.Fatalf("list with search: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("search total = %d, want 1", total)
	}

	rows, total, err = repo.ListForTagging(ctx, tx, nil, "", 3, 0)
	if err != nil {
		t.Fatalf("list paged: %v", err)
	}
	if total != 9 {
		t.Fatalf("total = %d, want 9", total)
	}
	if len(rows) != 3 {
		t.Fatalf("page len = %d, want 3", len(rows))
	}
}

func TestImageRepoListFeatured(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewImageRepo(db, testutil.Logger(t))

	testutil.SeedImage(t, ctx, tx, "plain.jpg")
	featured := testutil.SeedImage(t, ctx, tx, "featured.jpg")
	if err := tx.Model(&types.Image{}).Where("id = ?", featured.ID).Update("is_featured", true).Error; err != nil {
		t.Fatalf("flag featured: %v", err)
	}

	rows, err := repo.ListFeatured(ctx, tx, 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != featured.ID {
		t.Fatalf("got %d featured rows", len(rows))
	}
}

func TestImageRepoExists(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewImageRepo(db, testutil.Logger(t))

	img := testutil.SeedImage(t, ctx, tx, "present.jpg")

	ok, err := repo.Exists(ctx, tx, img.ID)
	if err != nil || !ok {
		t.Fatalf("exists = %v, %v", ok, err)
	}

	got, err := repo.GetByID(ctx, tx, img.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Filename != "present.jpg" {
		t.Fatalf("unexpected row: %+v", got)
	}
}
