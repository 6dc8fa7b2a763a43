package main

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	migrate "github.com/jknm/migrate"
	"github.com/jknm/migrate/article"
	"github.com/jknm/migrate/cmd/migrate/internal/bootstrap"
	"github.com/jknm/migrate/search"
)

type recordingClient struct {
	saved   []search.Record
	cleared []string
}

func (c *recordingClient) SaveRecords(_ context.Context, _ string, records []search.Record) error {
	c.saved = append(c.saved, records...)
	return nil
}

func (c *recordingClient) ClearIndex(_ context.Context, index string) error {
	c.cleared = append(c.cleared, index)
	return nil
}

func strPtr(s string) *string { return &s }

func TestRunReindexUploadsSections(t *testing.T) {
	sqldb, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	client := &recordingClient{}

	original := moduleBuilder
	defer func() { moduleBuilder = original }()
	moduleBuilder = func(opts bootstrap.Options) (*migrate.Module, error) {
		opts.ModuleOpts = append(opts.ModuleOpts,
			migrate.WithDB(db),
			migrate.WithIndexClient(client),
		)
		return bootstrap.BuildModule(opts)
	}

	ctx := context.Background()
	if _, err := db.NewCreateTable().Model((*article.Article)(nil)).Exec(ctx); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.NewCreateTable().Model((*article.Author)(nil)).Exec(ctx); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.NewCreateTable().Model((*article.ArticleToAuthor)(nil)).Exec(ctx); err != nil {
		t.Fatalf("create table: %v", err)
	}

	a := &article.Article{
		Title:           "Jamarski tabor",
		Slug:            "jamarski-tabor",
		URL:             "jamarski-tabor",
		Status:          article.StatusPublished,
		ContentMarkdown: strPtr("# Jamarski tabor\nporočilo\n## Udeleženci\nseznam"),
	}
	if _, err := db.NewInsert().Model(a).Exec(ctx); err != nil {
		t.Fatalf("insert article: %v", err)
	}

	if err := runReindex([]string{"-replace"}); err != nil {
		t.Fatalf("run reindex: %v", err)
	}

	if len(client.cleared) != 1 {
		t.Fatalf("expected one clear call, got %v", client.cleared)
	}
	if len(client.saved) != 2 {
		t.Fatalf("expected 2 section records, got %d", len(client.saved))
	}
	if client.saved[0].Permalink != "https://www.jknm.si/novica/jamarski-tabor" {
		t.Fatalf("unexpected permalink: %q", client.saved[0].Permalink)
	}
}

func TestRunReindexRejectsUnknownStatus(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()
	moduleBuilder = func(opts bootstrap.Options) (*migrate.Module, error) {
		opts.DSN = "file::memory:?cache=shared"
		opts.ModuleOpts = append(opts.ModuleOpts, migrate.WithIndexClient(&recordingClient{}))
		return bootstrap.BuildModule(opts)
	}

	if err := runReindex([]string{"-statuses", "bogus"}); err == nil {
		t.Fatal("expected status parse error")
	}
}
