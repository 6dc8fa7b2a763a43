package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jknm/migrate/cmd/migrate/internal/bootstrap"
	"github.com/jknm/migrate/internal/commands/migration"
	"github.com/jknm/migrate/reconcile"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runImport(os.Args[1:]); err != nil {
		log.Fatalf("migrate import: %v", err)
	}
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("migrate-import", flag.ExitOnError)
	blocks := fs.String("blocks", "articles.json", "Path to the legacy block export")
	markdownDir := fs.String("markdown-dir", "", "Directory holding per-article markdown files named <old_id>.md")
	csvPath := fs.String("csv", "", "Path to the legacy metadata CSV export")
	driver := fs.String("driver", "", "Database driver (defaults to sqlite3)")
	dsn := fs.String("db", "", "Database DSN")
	concurrency := fs.Int("concurrency", 0, "Records reconciled in parallel (0 uses the default)")
	abortOnError := fs.Bool("abort-on-error", false, "Stop at the first failed record instead of collecting failures")
	dryRun := fs.Bool("dry-run", false, "Reconcile and validate without writing anything")
	logLevel := fs.String("log-level", "", "Log level (trace, debug, info, warn, error)")
	logFormat := fs.String("log-format", "", "Log format (console, json, pretty)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		Driver:    *driver,
		DSN:       *dsn,
		LogLevel:  *logLevel,
		LogFormat: *logFormat,
	})
	if err != nil {
		return err
	}
	defer module.Close()

	ctx := context.Background()
	if err := module.EnsureSchema(ctx); err != nil {
		return err
	}

	var report *reconcile.Report
	handler := migration.NewImportArticlesHandler(module, module.Logger("reconcile"),
		func(r *reconcile.Report) { report = r })

	msg := migration.ImportArticlesMessage{
		BlockExport:  *blocks,
		MarkdownDir:  *markdownDir,
		CSV:          *csvPath,
		Concurrency:  *concurrency,
		AbortOnError: *abortOnError,
		DryRun:       *dryRun,
	}
	if err := handler.Execute(ctx, msg); err != nil {
		return fmt.Errorf("run import: %w", err)
	}

	fmt.Fprintf(os.Stdout,
		"imported %d records: %d from markdown, %d from blocks, %d failed, %d csv rows rejected\n",
		report.FromMarkdown+report.FromBlocks,
		report.FromMarkdown, report.FromBlocks,
		report.Failed, len(report.CSVRowErrors),
	)
	for _, failure := range report.Failures {
		fmt.Fprintf(os.Stderr, "  record %d (%s): %v\n", failure.ID, failure.Title, failure.Err)
	}
	return nil
}
