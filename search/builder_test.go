package search

import (
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/jknm/migrate/article"
)

func testBuilder(t *testing.T) *Builder {
	t.Helper()
	permalinks, err := NewPermalinkBuilder("https://www.jknm.si", "")
	if err != nil {
		t.Fatalf("permalink builder: %v", err)
	}
	builder, err := NewBuilder(permalinks)
	if err != nil {
		t.Fatalf("builder: %v", err)
	}
	return builder
}

func sampleArticle(markdown string) *article.Article {
	oldID := 40
	published := time.Date(2009, 7, 1, 10, 0, 0, 0, time.UTC)
	return &article.Article{
		ID:              12,
		OldID:           &oldID,
		Title:           "Jamarski tabor 2009",
		Slug:            "jamarski-tabor-2009",
		URL:             "jamarski-tabor-2009",
		Status:          article.StatusPublished,
		ContentMarkdown: &markdown,
		CreatedAt:       published,
		UpdatedAt:       published,
		PublishedAt:     &published,
	}
}

func TestBuildEmitsOneRecordPerSection(t *testing.T) {
	builder := testBuilder(t)
	a := sampleArticle("# Tabor\nprvi dan\n## Jame\ndrugi dan")

	records, err := builder.Build(a, []string{"Ana"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	first := records[0]
	if first.ObjectID != "12-0" {
		t.Fatalf("objectID = %q", first.ObjectID)
	}
	if first.Permalink != "https://www.jknm.si/novica/jamarski-tabor-2009" {
		t.Fatalf("permalink = %q", first.Permalink)
	}
	if first.Section != "Tabor" || first.SectionOrder != 0 {
		t.Fatalf("unexpected first section: %+v", first)
	}
	if records[1].ObjectID != "12-1" || records[1].Section != "Jame" {
		t.Fatalf("unexpected second record: %+v", records[1])
	}
	if first.OldDBID == nil || *first.OldDBID != 40 {
		t.Fatalf("old db id not carried: %+v", first.OldDBID)
	}
}

func TestBuildRequiresMarkdown(t *testing.T) {
	builder := testBuilder(t)

	a := sampleArticle("")
	if _, err := builder.Build(a, nil); !errors.Is(err, ErrNoMarkdown) {
		t.Fatalf("expected ErrNoMarkdown, got %v", err)
	}

	a.ContentMarkdown = nil
	if _, err := builder.Build(a, nil); !errors.Is(err, ErrNoMarkdown) {
		t.Fatalf("expected ErrNoMarkdown for nil markdown, got %v", err)
	}
}

func TestBuildRejectsContractViolations(t *testing.T) {
	builder := testBuilder(t)

	a := sampleArticle("# Tabor\nvsebina")
	a.Title = ""

	_, err := builder.Build(a, nil)
	if err == nil {
		t.Fatal("expected contract violation")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestBuildDefaultsAuthorsToEmptyList(t *testing.T) {
	builder := testBuilder(t)

	records, err := builder.Build(sampleArticle("# Tabor\nvsebina"), nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if records[0].Authors == nil || len(records[0].Authors) != 0 {
		t.Fatalf("expected empty author list, got %#v", records[0].Authors)
	}
}
