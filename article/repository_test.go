package article

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	models := []any{
		(*Article)(nil),
		(*Author)(nil),
		(*ArticleToAuthor)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).Exec(ctx); err != nil {
			t.Fatalf("create table for %T: %v", model, err)
		}
	}
	return db
}

func legacyArticle(oldID int, title, slug string, status Status) *Article {
	return &Article{
		OldID:  &oldID,
		Title:  title,
		Slug:   slug,
		URL:    slug,
		Status: status,
	}
}

func TestBulkInsertIsIdempotentOnOldID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	batch := []*Article{
		legacyArticle(40, "Jamarski tabor", "jamarski-tabor", StatusPublished),
		legacyArticle(41, "Občni zbor", "obcni-zbor", StatusPublished),
	}

	inserted, err := repo.BulkInsert(ctx, batch)
	if err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("first insert wrote %d rows, want 2", inserted)
	}

	// Re-running the same batch must not duplicate rows.
	rerun := []*Article{
		legacyArticle(40, "Jamarski tabor", "jamarski-tabor", StatusPublished),
		legacyArticle(41, "Občni zbor", "obcni-zbor", StatusPublished),
	}
	inserted, err = repo.BulkInsert(ctx, rerun)
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if inserted != 0 {
		t.Fatalf("second insert wrote %d rows, want 0", inserted)
	}

	all, err := repo.ListByStatus(ctx, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d articles, want 2", len(all))
	}
}

func TestBulkInsertEmptyBatch(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	inserted, err := repo.BulkInsert(context.Background(), nil)
	if err != nil {
		t.Fatalf("empty batch: %v", err)
	}
	if inserted != 0 {
		t.Fatalf("empty batch wrote %d rows", inserted)
	}
}

func TestGetBySlug(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	if _, err := repo.BulkInsert(ctx, []*Article{
		legacyArticle(7, "Odprava v Kačno jamo", "odprava-v-kacno-jamo", StatusPublished),
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := repo.GetBySlug(ctx, "odprava-v-kacno-jamo")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Odprava v Kačno jamo" {
		t.Fatalf("unexpected title %q", got.Title)
	}

	_, err = repo.GetBySlug(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListByStatusFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	if _, err := repo.BulkInsert(ctx, []*Article{
		legacyArticle(1, "Objavljen", "objavljen", StatusPublished),
		legacyArticle(2, "Osnutek", "osnutek", StatusDraft),
		legacyArticle(3, "Izbrisan", "izbrisan", StatusDeleted),
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	published, err := repo.ListByStatus(ctx, []Status{StatusPublished})
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(published) != 1 || published[0].Slug != "objavljen" {
		t.Fatalf("unexpected published set: %+v", published)
	}

	both, err := repo.ListByStatus(ctx, []Status{StatusPublished, StatusDraft})
	if err != nil {
		t.Fatalf("list published+draft: %v", err)
	}
	if len(both) != 2 {
		t.Fatalf("got %d articles, want 2", len(both))
	}
}

func TestAuthorNamesOrdered(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	if _, err := repo.BulkInsert(ctx, []*Article{
		legacyArticle(9, "Skupna odprava", "skupna-odprava", StatusPublished),
	}); err != nil {
		t.Fatalf("seed article: %v", err)
	}
	stored, err := repo.GetBySlug(ctx, "skupna-odprava")
	if err != nil {
		t.Fatalf("load article: %v", err)
	}

	authors := []*Author{
		{Type: AuthorMember, Name: "Ana"},
		{Type: AuthorGuest, Name: "Boris"},
	}
	if _, err := db.NewInsert().Model(&authors).Exec(ctx); err != nil {
		t.Fatalf("seed authors: %v", err)
	}

	links := []*ArticleToAuthor{
		{ArticleID: stored.ID, AuthorID: authors[1].ID, AuthorOrder: 1},
		{ArticleID: stored.ID, AuthorID: authors[0].ID, AuthorOrder: 0},
	}
	if _, err := db.NewInsert().Model(&links).Exec(ctx); err != nil {
		t.Fatalf("seed links: %v", err)
	}

	names, err := repo.AuthorNames(ctx, stored.ID)
	if err != nil {
		t.Fatalf("author names: %v", err)
	}
	if len(names) != 2 || names[0] != "Ana" || names[1] != "Boris" {
		t.Fatalf("unexpected byline order: %v", names)
	}
}

func TestValidateInsert(t *testing.T) {
	valid := legacyArticle(1, "Naslov", "naslov", StatusPublished)
	if err := valid.ValidateInsert(); err != nil {
		t.Fatalf("valid article rejected: %v", err)
	}

	missingTitle := legacyArticle(1, "", "naslov", StatusPublished)
	if err := missingTitle.ValidateInsert(); err == nil {
		t.Fatalf("expected title validation error")
	}

	badStatus := legacyArticle(1, "Naslov", "naslov", Status("ghost"))
	if err := badStatus.ValidateInsert(); err == nil {
		t.Fatalf("expected status validation error")
	}
}
