package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jknm/migrate/article"
	"github.com/jknm/migrate/internal/markdown"
)

// ErrNoMarkdown marks an article without a flat Markdown representation.
// Such articles cannot be sectionized and are skipped by the indexer.
var ErrNoMarkdown = errors.New("search: article has no markdown content")

// Builder turns an article into its per-section index records.
type Builder struct {
	permalinks *PermalinkBuilder
}

// NewBuilder constructs a record builder bound to the site permalink rules.
func NewBuilder(permalinks *PermalinkBuilder) (*Builder, error) {
	if permalinks == nil {
		return nil, errors.New("search: permalink builder is required")
	}
	return &Builder{permalinks: permalinks}, nil
}

// Build sectionizes the article's Markdown and emits one validated record per
// section. Section order follows document order and feeds the objectID, so
// rebuilding the same article overwrites its previous records.
func (b *Builder) Build(a *article.Article, authors []string) ([]Record, error) {
	if a == nil {
		return nil, errors.New("search: article is required")
	}
	if a.ContentMarkdown == nil || strings.TrimSpace(*a.ContentMarkdown) == "" {
		return nil, ErrNoMarkdown
	}

	sections, err := markdown.Sectionize([]byte(*a.ContentMarkdown))
	if err != nil {
		return nil, fmt.Errorf("search: sectionize article %d: %w", a.ID, err)
	}
	if len(sections) == 0 {
		return nil, ErrNoMarkdown
	}

	permalink, err := b.permalinks.ArticleURL(a.PermalinkSlug())
	if err != nil {
		return nil, err
	}

	if authors == nil {
		authors = []string{}
	}

	records := make([]Record, 0, len(sections))
	for i, section := range sections {
		record := Record{
			ObjectID:       fmt.Sprintf("%d-%d", a.ID, i),
			Title:          a.Title,
			Permalink:      permalink,
			Content:        section.Content,
			Section:        section.Heading,
			SectionOrder:   i,
			Status:         string(a.Status),
			Authors:        authors,
			ParentPostID:   a.ID,
			ParentPostSlug: a.PermalinkSlug(),
			DBID:           a.ID,
			OldDBID:        a.OldID,
			CreatedAt:      a.CreatedAt,
			LastUpdatedAt:  a.UpdatedAt,
			LastPublished:  a.PublishedAt,
			LastDeleted:    a.DeletedAt,
		}
		if err := record.Validate(); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
