package search

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"

	"github.com/jknm/migrate/article"
	"github.com/jknm/migrate/internal/logging"
)

// ArticleSource supplies the articles to index and their bylines. The
// article.Repository satisfies it.
type ArticleSource interface {
	ListByStatus(ctx context.Context, statuses []article.Status) ([]*article.Article, error)
	AuthorNames(ctx context.Context, articleID int) ([]string, error)
}

// RecordBuilder turns one article into its section records. *Builder
// satisfies it.
type RecordBuilder interface {
	Build(a *article.Article, authors []string) ([]Record, error)
}

// Failure records one article that could not be indexed.
type Failure struct {
	ArticleID int
	OldID     *int
	Title     string
	Err       error
}

// Report summarises a reindex run.
type Report struct {
	Articles int
	Records  int
	Skipped  int
	Failed   int
	Failures []Failure
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithStatuses restricts indexing to the given lifecycle states. The default
// indexes only published articles.
func WithStatuses(statuses ...article.Status) IndexerOption {
	return func(ix *Indexer) {
		ix.statuses = statuses
	}
}

// WithReplace clears the index before uploading, so records of articles that
// no longer exist disappear.
func WithReplace(replace bool) IndexerOption {
	return func(ix *Indexer) {
		ix.replace = replace
	}
}

// WithLogger injects the indexer logger.
func WithLogger(logger logging.Logger) IndexerOption {
	return func(ix *Indexer) {
		if logger != nil {
			ix.logger = logger
		}
	}
}

// WithDryRun builds and validates every record but skips the clear and
// upload calls.
func WithDryRun(dryRun bool) IndexerOption {
	return func(ix *Indexer) {
		ix.dryRun = dryRun
	}
}

// Indexer drives a full reindex: load articles, build per-section records,
// upload.
type Indexer struct {
	source   ArticleSource
	builder  RecordBuilder
	client   IndexClient
	index    string
	statuses []article.Status
	replace  bool
	dryRun   bool
	logger   logging.Logger
}

// NewIndexer wires an indexer. Source, builder, client and index name are all
// required.
func NewIndexer(source ArticleSource, builder RecordBuilder, client IndexClient, index string, opts ...IndexerOption) (*Indexer, error) {
	if source == nil {
		return nil, errors.New("search: article source is required")
	}
	if builder == nil {
		return nil, errors.New("search: record builder is required")
	}
	if client == nil {
		return nil, errors.New("search: index client is required")
	}
	if index == "" {
		return nil, errors.New("search: index name is required")
	}

	ix := &Indexer{
		source:   source,
		builder:  builder,
		client:   client,
		index:    index,
		statuses: []article.Status{article.StatusPublished},
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix, nil
}

// Reindex builds records for every matching article and uploads them.
// Articles without Markdown are skipped and per-article source failures are
// collected into the report while the run continues. A record failing the
// schema contract aborts the run: a non-conforming record means the pipeline
// itself produced a bad artifact, not that the legacy data is dirty.
func (ix *Indexer) Reindex(ctx context.Context) (*Report, error) {
	articles, err := ix.source.ListByStatus(ctx, ix.statuses)
	if err != nil {
		return nil, fmt.Errorf("search: list articles: %w", err)
	}

	report := &Report{Articles: len(articles)}
	var records []Record

	for _, a := range articles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		authors, err := ix.source.AuthorNames(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("search: authors for article %d: %w", a.ID, err)
		}

		built, err := ix.builder.Build(a, authors)
		switch {
		case errors.Is(err, ErrNoMarkdown):
			report.Skipped++
			ix.logger.Debug("reindex.article.skipped", "db_id", a.ID, "title", a.Title)
			continue
		case goerrors.IsCategory(err, goerrors.CategoryValidation):
			return nil, fmt.Errorf("search: record for article %d: %w", a.ID, err)
		case err != nil:
			report.Failed++
			report.Failures = append(report.Failures, Failure{
				ArticleID: a.ID,
				OldID:     a.OldID,
				Title:     a.Title,
				Err:       err,
			})
			ix.logger.Error("reindex.article.failed", "db_id", a.ID, "title", a.Title, "error", err)
			continue
		}

		records = append(records, built...)
	}

	if ix.dryRun {
		report.Records = len(records)
		ix.logger.Info("reindex.dry_run",
			"articles", report.Articles,
			"records", report.Records,
			"skipped", report.Skipped,
			"failed", report.Failed,
		)
		return report, nil
	}

	if ix.replace {
		if err := ix.client.ClearIndex(ctx, ix.index); err != nil {
			return nil, fmt.Errorf("search: clear index %q: %w", ix.index, err)
		}
	}

	if len(records) > 0 {
		if err := ix.client.SaveRecords(ctx, ix.index, records); err != nil {
			return nil, fmt.Errorf("search: upload %d records: %w", len(records), err)
		}
	}

	report.Records = len(records)
	ix.logger.Info("reindex.completed",
		"articles", report.Articles,
		"records", report.Records,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return report, nil
}
