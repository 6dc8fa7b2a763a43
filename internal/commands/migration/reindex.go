package migration

import (
	"context"
	"fmt"
	"time"

	"github.com/jknm/migrate/article"
	"github.com/jknm/migrate/internal/commands"
	"github.com/jknm/migrate/internal/logging"
	"github.com/jknm/migrate/search"
)

const reindexTimeout = 10 * time.Minute

// ReindexArticlesMessage requests a search index rebuild. Index overrides
// the configured index name when set.
type ReindexArticlesMessage struct {
	Index    string           `json:"index,omitempty"`
	Statuses []article.Status `json:"statuses"`
	Replace  bool             `json:"replace"`
	DryRun   bool             `json:"dry_run"`
}

// Type implements command.Message.
func (ReindexArticlesMessage) Type() string { return "migration.articles.reindex" }

// Validate implements command.Message validation.
func (m ReindexArticlesMessage) Validate() error {
	for _, status := range m.Statuses {
		if !status.Valid() {
			return fmt.Errorf("unknown status %q", status)
		}
	}
	return nil
}

// ReindexRunner executes a reindex run described by the message.
type ReindexRunner interface {
	ReindexArticles(ctx context.Context, msg ReindexArticlesMessage) (*search.Report, error)
}

// ReindexSink receives the run report after a successful execution.
type ReindexSink func(*search.Report)

// NewReindexArticlesHandler wraps the runner in the shared command
// plumbing. The sink is optional.
func NewReindexArticlesHandler(runner ReindexRunner, logger logging.Logger, sink ReindexSink) *commands.Handler[ReindexArticlesMessage] {
	if runner == nil {
		panic("migration: reindex runner cannot be nil")
	}
	return commands.NewHandler(func(ctx context.Context, msg ReindexArticlesMessage) error {
		report, err := runner.ReindexArticles(ctx, msg)
		if err != nil {
			return err
		}
		if sink != nil {
			sink(report)
		}
		return nil
	},
		commands.WithLogger[ReindexArticlesMessage](logger),
		commands.WithOperation[ReindexArticlesMessage]("reindex_articles"),
		commands.WithTimeout[ReindexArticlesMessage](reindexTimeout),
		commands.WithMessageFields[ReindexArticlesMessage](func(msg ReindexArticlesMessage) map[string]any {
			fields := map[string]any{
				"statuses": msg.Statuses,
				"replace":  msg.Replace,
			}
			if msg.Index != "" {
				fields["index"] = msg.Index
			}
			return fields
		}),
	)
}
