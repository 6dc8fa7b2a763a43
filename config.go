package migrate

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// DatabaseConfig selects the target store. The driver must be registered
// with database/sql by the caller; the sqlite3 driver ships with this
// module.
type DatabaseConfig struct {
	Driver string `json:"driver"`
	DSN    string `json:"dsn"`
}

// Validate implements validation.Validatable.
func (c DatabaseConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Driver, validation.Required),
		validation.Field(&c.DSN, validation.Required),
	)
}

// AlgoliaConfig carries the search credentials. Only needed for reindex
// runs, so it is validated lazily when an indexer is requested.
type AlgoliaConfig struct {
	AppID  string `json:"app_id"`
	APIKey string `json:"api_key"`
	Index  string `json:"index"`
}

func (c AlgoliaConfig) validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.AppID, validation.Required),
		validation.Field(&c.APIKey, validation.Required),
		validation.Field(&c.Index, validation.Required),
	)
}

// SiteConfig configures permalink construction for search records.
type SiteConfig struct {
	BaseURL     string `json:"base_url"`
	ArticlePath string `json:"article_path"`
}

// Validate implements validation.Validatable.
func (c SiteConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
	)
}

// SourcesConfig names the legacy exports consumed by an import run.
type SourcesConfig struct {
	BlockExport string `json:"block_export"`
	MarkdownDir string `json:"markdown_dir"`
	CSV         string `json:"csv"`
}

// CacheConfig toggles the read-through cache in front of the run store.
type CacheConfig struct {
	Enabled    bool          `json:"enabled"`
	DefaultTTL time.Duration `json:"default_ttl"`
}

// LoggingConfig mirrors the logger provider knobs.
type LoggingConfig struct {
	Level     string   `json:"level"`
	Format    string   `json:"format"`
	AddSource bool     `json:"add_source"`
	Focus     []string `json:"focus"`
}

// Config is the top level module configuration.
type Config struct {
	Database     DatabaseConfig `json:"database"`
	Algolia      AlgoliaConfig  `json:"algolia"`
	Site         SiteConfig     `json:"site"`
	Sources      SourcesConfig  `json:"sources"`
	Concurrency  int            `json:"concurrency"`
	AbortOnError bool           `json:"abort_on_error"`
	Cache        CacheConfig    `json:"cache"`
	Logging      LoggingConfig  `json:"logging"`
}

// DefaultConfig returns the configuration for a local sqlite run against
// the production site.
func DefaultConfig() Config {
	return Config{
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "file:migrate.db?_fk=1",
		},
		Algolia: AlgoliaConfig{
			Index: "articles",
		},
		Site: SiteConfig{
			BaseURL: "https://www.jknm.si",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks the parts every run needs.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Database),
		validation.Field(&c.Site),
		validation.Field(&c.Concurrency, validation.Min(0)),
	)
}
