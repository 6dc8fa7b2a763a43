package reconcile

import (
	"context"
	"sync"

	"github.com/jknm/migrate/article"
	"github.com/jknm/migrate/internal/logging"
)

const defaultConcurrency = 4

// Failure records one source record that could not be reconciled.
type Failure struct {
	ID    int
	OldID *int
	Title string
	Err   error
}

// Report tallies a reconciliation run. FromMarkdown plus FromBlocks equals
// the number of successfully matched records.
type Report struct {
	Total        int
	FromMarkdown int
	FromBlocks   int
	Failed       int
	CSVRowErrors []RowError
	Failures     []Failure
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithConcurrency bounds the number of records matched in parallel.
func WithConcurrency(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithAbortOnError stops the run at the first failed record instead of
// collecting failures. Legacy data is known to be inconsistent, so the
// default is to continue.
func WithAbortOnError(abort bool) PipelineOption {
	return func(p *Pipeline) {
		p.abortOnError = abort
	}
}

// WithLogger injects the pipeline logger.
func WithLogger(logger logging.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Pipeline maps the matcher over a block export with bounded concurrency.
// Matching is pure per record, so records are processed independently and
// results are reassembled in input order.
type Pipeline struct {
	matcher      *Matcher
	concurrency  int
	abortOnError bool
	logger       logging.Logger
}

// NewPipeline builds a pipeline around a matcher.
func NewPipeline(matcher *Matcher, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		matcher:     matcher,
		concurrency: defaultConcurrency,
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type outcome struct {
	article *article.Article
	err     error
}

// Run reconciles every record. The returned slice holds the successfully
// matched articles in input order; failures are tallied in the report. With
// AbortOnError the first failure cancels outstanding work and is returned.
func (p *Pipeline) Run(ctx context.Context, sources []BlockArticle) ([]*article.Article, *Report, error) {
	report := &Report{Total: len(sources)}
	if len(sources) == 0 {
		return nil, report, nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	outcomes := make([]outcome, len(sources))
	started := make([]bool, len(sources))
	sem := make(chan struct{}, p.concurrency)
	var wg sync.WaitGroup

	for i := range sources {
		if runCtx.Err() != nil {
			break
		}
		sem <- struct{}{}
		started[i] = true
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			matched, err := p.matcher.Match(sources[i])
			outcomes[i] = outcome{article: matched, err: err}
			if err != nil && p.abortOnError {
				cancel()
			}
		}(i)
	}
	wg.Wait()

	articles := make([]*article.Article, 0, len(sources))
	for i, out := range outcomes {
		if !started[i] {
			continue
		}
		src := sources[i]
		switch {
		case out.err != nil:
			report.Failed++
			report.Failures = append(report.Failures, Failure{
				ID:    src.ID,
				OldID: src.OldID,
				Title: src.Title,
				Err:   out.err,
			})
			p.logger.Error("reconcile.record.failed", "id", src.ID, "title", src.Title, "error", out.err)
			if p.abortOnError {
				return nil, report, out.err
			}
		default:
			if out.article.ContentMarkdown != nil {
				report.FromMarkdown++
			} else {
				report.FromBlocks++
			}
			articles = append(articles, out.article)
		}
	}

	// Distinguish caller cancellation from an abort we triggered ourselves.
	if err := ctx.Err(); err != nil {
		return nil, report, err
	}

	return articles, report, nil
}
