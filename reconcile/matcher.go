package reconcile

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jknm/migrate/article"
	"github.com/jknm/migrate/editorjs"
	"github.com/jknm/migrate/internal/markdown"
)

// ErrNoContent marks a record with neither a Markdown export match nor block
// content to convert.
var ErrNoContent = errors.New("reconcile: record has no usable content")

// Matcher joins one block-export record against the Markdown and CSV sources
// and produces the article to insert.
type Matcher struct {
	markdown MarkdownExport
	csv      CSVIndex
	now      func() time.Time
}

// NewMatcher builds a matcher over the loaded sources. Either source map may
// be nil when that export is unavailable.
func NewMatcher(md MarkdownExport, csv CSVIndex) *Matcher {
	return &Matcher{
		markdown: md,
		csv:      csv,
		now:      time.Now,
	}
}

// Match resolves title and content for one record. The join key is the
// legacy old_id; a record without one can still be converted from its own
// block content but matches nothing.
//
// Title preference: the CSV naslov when present, else the record's own title.
// Content preference: the Markdown export when matched, else the converted
// block document; neither available is an error.
func (m *Matcher) Match(src BlockArticle) (*article.Article, error) {
	title := src.Title
	var mdBody string
	var mdFound bool

	if src.OldID != nil {
		if row, ok := m.csv[*src.OldID]; ok {
			if strings.TrimSpace(row.Naslov) != "" {
				title = row.Naslov
			}
		}
		if raw, ok := m.markdown[*src.OldID]; ok {
			mdBody = raw
			mdFound = true
		}
	}

	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("reconcile: record %d has no title", src.ID)
	}

	slug := article.SlugFromURL(src.URL)
	if slug == "" {
		derived, err := article.SlugFromTitle(title)
		if err != nil {
			return nil, fmt.Errorf("reconcile: derive slug for record %d: %w", src.ID, err)
		}
		slug = derived
	}

	migrated := m.now()
	out := &article.Article{
		OldID:         src.OldID,
		Title:         title,
		Slug:          slug,
		URL:           src.URL,
		Status:        article.StatusPublished,
		ThumbnailCrop: src.ThumbnailCrop,
		CreatedAt:     src.CreatedAt,
		UpdatedAt:     src.UpdatedAt,
		PublishedAt:   &src.CreatedAt,
		MigratedAt:    &migrated,
	}

	switch {
	case mdFound:
		body, err := markdown.StripFrontMatter([]byte(mdBody))
		if err != nil {
			return nil, fmt.Errorf("reconcile: markdown for old_id %d: %w", *src.OldID, err)
		}
		text := string(body)
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("reconcile: markdown for old_id %d is empty", *src.OldID)
		}
		out.ContentMarkdown = &text

		html, err := markdown.RenderHTML(body)
		if err != nil {
			return nil, fmt.Errorf("reconcile: render markdown for old_id %d: %w", *src.OldID, err)
		}
		out.ContentHTML = &html

	case src.Content != nil && len(src.Content.Blocks) > 0:
		tree, err := editorjs.Convert(src.Content)
		if err != nil {
			return nil, fmt.Errorf("reconcile: convert record %d: %w", src.ID, err)
		}
		out.ContentJSON = tree

	default:
		return nil, fmt.Errorf("%w: record %d", ErrNoContent, src.ID)
	}

	// The derived metadata always comes from the block document; the stored
	// analytics were computed against it even for articles indexed from the
	// Markdown export.
	if src.Content != nil {
		out.ReadingTime = article.ReadingTime(src.Content)
		out.ContentLength = article.ContentLength(src.Content)
		out.Excerpt = article.Excerpt(src.Content)
		out.MetaDescription = article.MetaDescription(out.Excerpt)
	}

	return out, nil
}
