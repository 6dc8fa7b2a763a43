package bootstrap

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	migrate "github.com/jknm/migrate"
	"github.com/jknm/migrate/article"
)

func memoryDB(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestBuildModuleLayersOverDefaults(t *testing.T) {
	module, err := BuildModule(Options{
		BaseURL:    "https://staging.jknm.si",
		ModuleOpts: []migrate.Option{migrate.WithDB(memoryDB(t))},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if module.Articles() == nil || module.Runs() == nil {
		t.Fatal("repositories not wired")
	}
}

func TestBuildModuleAlgoliaKeyFromEnv(t *testing.T) {
	t.Setenv("ALGOLIA_ADMIN_KEY", "env-secret")

	module, err := BuildModule(Options{
		AlgoliaAppID: "APP",
		AlgoliaIndex: "articles",
		ModuleOpts:   []migrate.Option{migrate.WithDB(memoryDB(t))},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := module.Indexer(); err != nil {
		t.Fatalf("indexer should accept env credentials: %v", err)
	}
}

func TestSplitStatuses(t *testing.T) {
	statuses, err := SplitStatuses(" published , draft ")
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(statuses) != 2 || statuses[0] != article.StatusPublished || statuses[1] != article.StatusDraft {
		t.Fatalf("unexpected statuses: %v", statuses)
	}

	if _, err := SplitStatuses("bogus"); err == nil {
		t.Fatal("expected error for unknown status")
	}

	statuses, err = SplitStatuses("  ")
	if err != nil || statuses != nil {
		t.Fatalf("blank input should yield nil, got %v %v", statuses, err)
	}
}
