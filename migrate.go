// Package migrate moves the jknm.si legacy article archive into the new
// store and keeps the Algolia search index in sync with it.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/jknm/migrate/article"
	"github.com/jknm/migrate/internal/commands/migration"
	"github.com/jknm/migrate/internal/logging"
	"github.com/jknm/migrate/internal/logging/gologger"
	"github.com/jknm/migrate/reconcile"
	"github.com/jknm/migrate/search"
)

// Option overrides one of the module's constructed collaborators.
type Option func(*Module)

// WithDB injects an already opened database instead of opening one from
// the configured driver and DSN.
func WithDB(db *bun.DB) Option {
	return func(m *Module) {
		m.db = db
	}
}

// WithLoggerProvider replaces the default go-logger provider.
func WithLoggerProvider(provider logging.LoggerProvider) Option {
	return func(m *Module) {
		m.provider = provider
	}
}

// WithIndexClient replaces the Algolia REST client, mainly for tests.
func WithIndexClient(client search.IndexClient) Option {
	return func(m *Module) {
		m.indexClient = client
	}
}

// WithRunCache overrides the cache service and key serializer wrapped
// around the run store.
func WithRunCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(m *Module) {
		m.cacheService = service
		m.keySerializer = serializer
	}
}

// Module is the top level runtime facade. It owns the database handle and
// logger provider and hands out the import and reindex services.
type Module struct {
	cfg      Config
	db       *bun.DB
	ownsDB   bool
	provider logging.LoggerProvider

	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	articles    *article.Repository
	runs        *article.RunStore
	indexClient search.IndexClient
}

// New constructs a module from the configuration and optional overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("migrate: config: %w", err)
	}

	m := &Module{cfg: cfg}
	for _, opt := range opts {
		opt(m)
	}

	if m.provider == nil {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, err
		}
		m.provider = provider
	}

	if m.db == nil {
		db, err := openDatabase(cfg.Database)
		if err != nil {
			return nil, err
		}
		m.db = db
		m.ownsDB = true
	}

	// bun needs the m2m join registered before author relations resolve.
	m.db.RegisterModel((*article.ArticleToAuthor)(nil))

	m.configureCacheDefaults()

	m.articles = article.NewRepository(m.db)
	m.runs = article.NewRunStoreWithCache(m.db, m.cacheService, m.keySerializer)
	return m, nil
}

func (m *Module) configureCacheDefaults() {
	if !m.cfg.Cache.Enabled {
		return
	}

	if m.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if m.cfg.Cache.DefaultTTL > 0 {
			cfg.TTL = m.cfg.Cache.DefaultTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			m.cacheService = service
		}
	}

	if m.cacheService != nil && m.keySerializer == nil {
		m.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func openDatabase(cfg DatabaseConfig) (*bun.DB, error) {
	sqldb, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("migrate: open database: %w", err)
	}

	switch strings.ToLower(cfg.Driver) {
	case "sqlite3", "sqlite":
		// SQLite serializes writes; a second connection only buys lock
		// contention during the bulk insert.
		sqldb.SetMaxOpenConns(1)
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	case "postgres", "pg", "pgx":
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		sqldb.Close()
		return nil, fmt.Errorf("migrate: unsupported database driver %q", cfg.Driver)
	}
}

// Close releases the database handle when the module opened it.
func (m *Module) Close() error {
	if m == nil || m.db == nil || !m.ownsDB {
		return nil
	}
	return m.db.Close()
}

// DB exposes the underlying handle for schema setup and advanced callers.
func (m *Module) DB() *bun.DB {
	return m.db
}

// Articles returns the article repository.
func (m *Module) Articles() *article.Repository {
	return m.articles
}

// Runs returns the run bookkeeping store.
func (m *Module) Runs() *article.RunStore {
	return m.runs
}

// Logger returns a namespaced logger from the module provider.
func (m *Module) Logger(module string) logging.Logger {
	return logging.ModuleLogger(m.provider, module)
}

// Importer builds the legacy import service from the configured sources.
func (m *Module) Importer() (*reconcile.Importer, error) {
	if m.cfg.Sources.BlockExport == "" {
		return nil, errors.New("migrate: sources.block_export is not configured")
	}
	return reconcile.NewImporter(reconcile.ImporterConfig{
		BlockExportPath: m.cfg.Sources.BlockExport,
		MarkdownDir:     m.cfg.Sources.MarkdownDir,
		CSVPath:         m.cfg.Sources.CSV,
		Concurrency:     m.cfg.Concurrency,
		AbortOnError:    m.cfg.AbortOnError,
	}, m.articles, m.runs, logging.ReconcileLogger(m.provider))
}

// ImportArticles satisfies migration.ImportRunner: it builds an importer
// from the message instead of the configured sources and runs it.
func (m *Module) ImportArticles(ctx context.Context, msg migration.ImportArticlesMessage) (*reconcile.Report, error) {
	importer, err := reconcile.NewImporter(reconcile.ImporterConfig{
		BlockExportPath: msg.BlockExport,
		MarkdownDir:     msg.MarkdownDir,
		CSVPath:         msg.CSV,
		Concurrency:     msg.Concurrency,
		AbortOnError:    msg.AbortOnError,
		DryRun:          msg.DryRun,
	}, m.articles, m.runs, logging.ReconcileLogger(m.provider))
	if err != nil {
		return nil, err
	}
	return importer.Run(ctx)
}

// ReindexArticles satisfies migration.ReindexRunner.
func (m *Module) ReindexArticles(ctx context.Context, msg migration.ReindexArticlesMessage) (*search.Report, error) {
	opts := []search.IndexerOption{
		search.WithReplace(msg.Replace),
		search.WithDryRun(msg.DryRun),
	}
	if len(msg.Statuses) > 0 {
		opts = append(opts, search.WithStatuses(msg.Statuses...))
	}
	index := m.cfg.Algolia.Index
	if msg.Index != "" {
		index = msg.Index
	}
	indexer, err := m.indexerFor(index, opts...)
	if err != nil {
		return nil, err
	}
	return indexer.Reindex(ctx)
}

// Indexer builds the search reindex service against the configured index.
// Algolia credentials are required unless an index client override was
// supplied.
func (m *Module) Indexer(opts ...search.IndexerOption) (*search.Indexer, error) {
	return m.indexerFor(m.cfg.Algolia.Index, opts...)
}

func (m *Module) indexerFor(index string, opts ...search.IndexerOption) (*search.Indexer, error) {
	client := m.indexClient
	if client == nil {
		if err := m.cfg.Algolia.validate(); err != nil {
			return nil, fmt.Errorf("migrate: algolia config: %w", err)
		}
		algolia, err := search.NewAlgoliaClient(search.AlgoliaConfig{
			AppID:  m.cfg.Algolia.AppID,
			APIKey: m.cfg.Algolia.APIKey,
		})
		if err != nil {
			return nil, err
		}
		client = algolia
	}

	permalinks, err := search.NewPermalinkBuilder(m.cfg.Site.BaseURL, m.cfg.Site.ArticlePath)
	if err != nil {
		return nil, err
	}
	builder, err := search.NewBuilder(permalinks)
	if err != nil {
		return nil, err
	}

	opts = append([]search.IndexerOption{
		search.WithLogger(logging.SearchLogger(m.provider)),
	}, opts...)
	return search.NewIndexer(m.articles, builder, client, index, opts...)
}
