package reconcile

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"

	"github.com/jknm/migrate/article"
	"github.com/jknm/migrate/internal/logging"
)

const runKindImport = "import"

const insertInvalidCode = "IMPORT_PAYLOAD_INVALID"

// Inserter is the write surface the importer needs; article.Repository
// satisfies it.
type Inserter interface {
	BulkInsert(ctx context.Context, articles []*article.Article) (int64, error)
}

// RunRecorder persists run bookkeeping; article.RunStore satisfies it.
type RunRecorder interface {
	Begin(ctx context.Context, kind string) (*article.Run, error)
	Finish(ctx context.Context, run *article.Run, status article.RunStatus) (*article.Run, error)
}

// ImporterConfig names the three legacy exports. BlockExportPath is
// required; the Markdown directory and CSV export are optional and simply
// narrow the match when absent.
type ImporterConfig struct {
	BlockExportPath string
	MarkdownDir     string
	CSVPath         string
	Concurrency     int
	AbortOnError    bool
	// DryRun reconciles and validates everything but writes nothing, not
	// even the run record.
	DryRun bool
}

// Importer loads the legacy sources, reconciles them and bulk-inserts the
// result, recording the run.
type Importer struct {
	cfg    ImporterConfig
	store  Inserter
	runs   RunRecorder
	logger logging.Logger
}

// NewImporter wires an importer. The run recorder is optional.
func NewImporter(cfg ImporterConfig, store Inserter, runs RunRecorder, logger logging.Logger) (*Importer, error) {
	if cfg.BlockExportPath == "" {
		return nil, errors.New("reconcile: block export path is required")
	}
	if store == nil {
		return nil, errors.New("reconcile: article store is required")
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Importer{cfg: cfg, store: store, runs: runs, logger: logger}, nil
}

// Run executes the whole import: load, reconcile, validate, insert. The
// returned report carries per-record failures; Run itself fails only on
// source-level, validation or write errors.
func (im *Importer) Run(ctx context.Context) (*Report, error) {
	var run *article.Run
	if im.runs != nil && !im.cfg.DryRun {
		begun, err := im.runs.Begin(ctx, runKindImport)
		if err != nil {
			return nil, fmt.Errorf("reconcile: record run start: %w", err)
		}
		run = begun
	}

	report, err := im.execute(ctx, run)
	if run != nil {
		status := article.RunSucceeded
		if err != nil {
			status = article.RunFailed
		}
		if report != nil {
			run.Matched = report.FromMarkdown + report.FromBlocks
			run.Converted = report.FromBlocks
			run.Failed = report.Failed
		}
		if _, finishErr := im.runs.Finish(ctx, run, status); finishErr != nil {
			im.logger.Error("import.run.bookkeeping_failed", "run_key", run.RunKey, "error", finishErr)
		}
	}
	return report, err
}

func (im *Importer) execute(ctx context.Context, run *article.Run) (*Report, error) {
	sources, err := LoadBlockExport(im.cfg.BlockExportPath)
	if err != nil {
		return nil, err
	}

	var mdExport MarkdownExport
	if im.cfg.MarkdownDir != "" {
		mdExport, err = LoadMarkdownDir(im.cfg.MarkdownDir)
		if err != nil {
			return nil, err
		}
	}

	var csvIndex CSVIndex
	var rowErrors []RowError
	if im.cfg.CSVPath != "" {
		csvIndex, rowErrors, err = LoadCSV(im.cfg.CSVPath)
		if err != nil {
			return nil, err
		}
		for _, rowErr := range rowErrors {
			im.logger.Warn("import.csv.row_rejected", "line", rowErr.Line, "error", rowErr.Err)
		}
	}

	im.logger.Info("import.sources.loaded",
		"block_records", len(sources),
		"markdown_records", len(mdExport),
		"csv_records", len(csvIndex),
		"csv_row_errors", len(rowErrors),
	)

	pipeline := NewPipeline(NewMatcher(mdExport, csvIndex),
		WithConcurrency(im.cfg.Concurrency),
		WithAbortOnError(im.cfg.AbortOnError),
		WithLogger(im.logger),
	)

	articles, report, err := pipeline.Run(ctx, sources)
	report.CSVRowErrors = rowErrors
	if err != nil {
		return report, err
	}

	// An invalid insert payload is a pipeline bug, not dirty legacy data, so
	// it fails the run outright.
	for _, a := range articles {
		if err := a.ValidateInsert(); err != nil {
			return report, goerrors.Wrap(err, goerrors.CategoryValidation,
				fmt.Sprintf("insert payload for %q is invalid", a.Title)).
				WithTextCode(insertInvalidCode)
		}
	}

	var written int64
	if im.cfg.DryRun {
		im.logger.Info("import.dry_run", "would_write", len(articles))
	} else {
		written, err = im.store.BulkInsert(ctx, articles)
		if err != nil {
			return report, fmt.Errorf("reconcile: bulk insert: %w", err)
		}
		if run != nil {
			run.Written = int(written)
		}
	}

	im.logger.Info("import.completed",
		"total", report.Total,
		"from_markdown", report.FromMarkdown,
		"from_blocks", report.FromBlocks,
		"failed", report.Failed,
		"written", written,
	)
	return report, nil
}
