package migrate

import (
	"context"
	"database/sql"
	"testing"

	repocache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/jknm/migrate/article"
	"github.com/jknm/migrate/search"
)

func testModule(t *testing.T, mutate func(*Config), opts ...Option) *Module {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	module, err := New(cfg, append([]Option{WithDB(db)}, opts...)...)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	return module
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Site.BaseURL = ""
	if _, err := New(cfg); err == nil {
		t.Fatal("expected config error")
	}
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	module := testModule(t, nil)
	ctx := context.Background()
	if err := module.EnsureSchema(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := module.EnsureSchema(ctx); err != nil {
		t.Fatalf("second run: %v", err)
	}
}

func TestRunStoreServesCachedReads(t *testing.T) {
	service, err := repocache.NewCacheService(repocache.DefaultConfig())
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	module := testModule(t, nil, WithRunCache(service, repocache.NewDefaultKeySerializer()))

	ctx := context.Background()
	if err := module.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema: %v", err)
	}

	run, err := module.Runs().Begin(ctx, "import")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	// First read populates the cache, second one is served from it.
	for i := 0; i < 2; i++ {
		got, err := module.Runs().GetByKey(ctx, run.RunKey)
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		if got.ID != run.ID || got.Status != article.RunRunning {
			t.Fatalf("get %d: got %s/%s, want %s/%s", i, got.ID, got.Status, run.ID, article.RunRunning)
		}
	}

	// The update must not leave a stale running record behind.
	if _, err := module.Runs().Finish(ctx, run, article.RunSucceeded); err != nil {
		t.Fatalf("finish: %v", err)
	}
	got, err := module.Runs().GetByKey(ctx, run.RunKey)
	if err != nil {
		t.Fatalf("get after finish: %v", err)
	}
	if got.Status != article.RunSucceeded {
		t.Fatalf("got status %s, want %s", got.Status, article.RunSucceeded)
	}
}

func TestCacheDisabledSkipsService(t *testing.T) {
	module := testModule(t, func(c *Config) {
		c.Cache.Enabled = false
	})
	if module.cacheService != nil || module.keySerializer != nil {
		t.Fatal("cache collaborators must stay nil when the cache is disabled")
	}
}

func TestImporterRequiresBlockExport(t *testing.T) {
	module := testModule(t, nil)
	if _, err := module.Importer(); err == nil {
		t.Fatal("expected missing source error")
	}

	module = testModule(t, func(c *Config) {
		c.Sources.BlockExport = "articles.json"
	})
	if _, err := module.Importer(); err != nil {
		t.Fatalf("importer: %v", err)
	}
}

func TestIndexerRequiresAlgoliaCredentials(t *testing.T) {
	module := testModule(t, nil)
	if _, err := module.Indexer(); err == nil {
		t.Fatal("expected credential error")
	}
}

type stubIndexClient struct{}

func (stubIndexClient) SaveRecords(context.Context, string, []search.Record) error { return nil }
func (stubIndexClient) ClearIndex(context.Context, string) error                   { return nil }

func TestIndexerWithClientOverride(t *testing.T) {
	module := testModule(t, nil, WithIndexClient(stubIndexClient{}))
	if _, err := module.Indexer(); err != nil {
		t.Fatalf("indexer: %v", err)
	}
}
