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
	"github.com/jknm/migrate/search"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runReindex(os.Args[1:]); err != nil {
		log.Fatalf("migrate reindex: %v", err)
	}
}

func runReindex(args []string) error {
	fs := flag.NewFlagSet("migrate-reindex", flag.ExitOnError)
	appID := fs.String("app-id", "", "Algolia application ID")
	apiKey := fs.String("api-key", "", "Algolia admin API key (defaults to ALGOLIA_ADMIN_KEY)")
	index := fs.String("index", "", "Algolia index name (defaults to articles)")
	baseURL := fs.String("base-url", "", "Site base URL used for permalinks")
	statuses := fs.String("statuses", "", "Comma separated statuses to index (defaults to published)")
	replace := fs.Bool("replace", false, "Clear the index before uploading")
	dryRun := fs.Bool("dry-run", false, "Build and validate records without uploading")
	driver := fs.String("driver", "", "Database driver (defaults to sqlite3)")
	dsn := fs.String("db", "", "Database DSN")
	logLevel := fs.String("log-level", "", "Log level (trace, debug, info, warn, error)")
	logFormat := fs.String("log-format", "", "Log format (console, json, pretty)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	parsed, err := bootstrap.SplitStatuses(*statuses)
	if err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		Driver:       *driver,
		DSN:          *dsn,
		BaseURL:      *baseURL,
		AlgoliaAppID: *appID,
		AlgoliaKey:   *apiKey,
		AlgoliaIndex: *index,
		LogLevel:     *logLevel,
		LogFormat:    *logFormat,
	})
	if err != nil {
		return err
	}
	defer module.Close()

	var report *search.Report
	handler := migration.NewReindexArticlesHandler(module, module.Logger("search"),
		func(r *search.Report) { report = r })

	msg := migration.ReindexArticlesMessage{
		Statuses: parsed,
		Replace:  *replace,
		DryRun:   *dryRun,
	}
	if err := handler.Execute(context.Background(), msg); err != nil {
		return fmt.Errorf("run reindex: %w", err)
	}

	fmt.Fprintf(os.Stdout,
		"indexed %d records from %d articles, %d skipped, %d failed\n",
		report.Records, report.Articles, report.Skipped, report.Failed,
	)
	for _, failure := range report.Failures {
		fmt.Fprintf(os.Stderr, "  article %d (%s): %v\n", failure.ArticleID, failure.Title, failure.Err)
	}
	return nil
}
