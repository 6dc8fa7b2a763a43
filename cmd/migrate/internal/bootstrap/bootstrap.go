// Package bootstrap shares module construction between the migrate CLIs.
package bootstrap

import (
	"fmt"
	"os"
	"strings"

	migrate "github.com/jknm/migrate"
	"github.com/jknm/migrate/article"
)

// Options captures the flag surface common to the migrate CLIs.
type Options struct {
	Driver       string
	DSN          string
	BaseURL      string
	BlockExport  string
	MarkdownDir  string
	CSV          string
	Concurrency  int
	AbortOnError bool
	AlgoliaAppID string
	AlgoliaKey   string
	AlgoliaIndex string
	LogLevel     string
	LogFormat    string
	ModuleOpts   []migrate.Option
}

// BuildModule constructs a migrate module from CLI options layered over
// the defaults. Empty fields keep their default values; the Algolia key
// falls back to the ALGOLIA_ADMIN_KEY environment variable so it stays
// out of shell history.
func BuildModule(opts Options) (*migrate.Module, error) {
	cfg := migrate.DefaultConfig()

	if v := strings.TrimSpace(opts.Driver); v != "" {
		cfg.Database.Driver = v
	}
	if v := strings.TrimSpace(opts.DSN); v != "" {
		cfg.Database.DSN = v
	}
	if v := strings.TrimSpace(opts.BaseURL); v != "" {
		cfg.Site.BaseURL = v
	}
	cfg.Sources.BlockExport = strings.TrimSpace(opts.BlockExport)
	cfg.Sources.MarkdownDir = strings.TrimSpace(opts.MarkdownDir)
	cfg.Sources.CSV = strings.TrimSpace(opts.CSV)
	cfg.Concurrency = opts.Concurrency
	cfg.AbortOnError = opts.AbortOnError

	cfg.Algolia.AppID = strings.TrimSpace(opts.AlgoliaAppID)
	cfg.Algolia.APIKey = strings.TrimSpace(opts.AlgoliaKey)
	if cfg.Algolia.APIKey == "" {
		cfg.Algolia.APIKey = os.Getenv("ALGOLIA_ADMIN_KEY")
	}
	if v := strings.TrimSpace(opts.AlgoliaIndex); v != "" {
		cfg.Algolia.Index = v
	}

	if v := strings.TrimSpace(opts.LogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := strings.TrimSpace(opts.LogFormat); v != "" {
		cfg.Logging.Format = v
	}

	module, err := migrate.New(cfg, opts.ModuleOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise migrate module: %w", err)
	}
	return module, nil
}

// SplitStatuses parses a comma separated status list.
func SplitStatuses(value string) ([]article.Status, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	statuses := make([]article.Status, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		status := article.Status(trimmed)
		if !status.Valid() {
			return nil, fmt.Errorf("unknown status %q", trimmed)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
