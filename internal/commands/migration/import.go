// Package migration exposes the import and reindex operations as
// dispatchable commands.
package migration

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/jknm/migrate/internal/commands"
	"github.com/jknm/migrate/internal/logging"
	"github.com/jknm/migrate/reconcile"
)

// Imports walk the whole legacy archive, so the handler timeout is far
// above the shared default.
const importTimeout = 30 * time.Minute

// ImportArticlesMessage requests a legacy import run.
type ImportArticlesMessage struct {
	BlockExport  string `json:"block_export"`
	MarkdownDir  string `json:"markdown_dir"`
	CSV          string `json:"csv"`
	Concurrency  int    `json:"concurrency"`
	AbortOnError bool   `json:"abort_on_error"`
	DryRun       bool   `json:"dry_run"`
}

// Type implements command.Message.
func (ImportArticlesMessage) Type() string { return "migration.articles.import" }

// Validate implements command.Message validation.
func (m ImportArticlesMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.BlockExport, validation.Required),
		validation.Field(&m.Concurrency, validation.Min(0)),
	)
}

// ImportRunner executes an import run described by the message.
type ImportRunner interface {
	ImportArticles(ctx context.Context, msg ImportArticlesMessage) (*reconcile.Report, error)
}

// ImportSink receives the run report after a successful execution.
type ImportSink func(*reconcile.Report)

// NewImportArticlesHandler wraps the runner in the shared command
// plumbing. The sink is optional.
func NewImportArticlesHandler(runner ImportRunner, logger logging.Logger, sink ImportSink) *commands.Handler[ImportArticlesMessage] {
	if runner == nil {
		panic("migration: import runner cannot be nil")
	}
	return commands.NewHandler(func(ctx context.Context, msg ImportArticlesMessage) error {
		report, err := runner.ImportArticles(ctx, msg)
		if err != nil {
			return err
		}
		if sink != nil {
			sink(report)
		}
		return nil
	},
		commands.WithLogger[ImportArticlesMessage](logger),
		commands.WithOperation[ImportArticlesMessage]("import_articles"),
		commands.WithTimeout[ImportArticlesMessage](importTimeout),
		commands.WithMessageFields[ImportArticlesMessage](func(msg ImportArticlesMessage) map[string]any {
			return map[string]any{
				"block_export": msg.BlockExport,
				"markdown_dir": msg.MarkdownDir,
				"csv":          msg.CSV,
			}
		}),
	)
}
