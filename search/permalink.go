package search

import (
	"errors"
	"fmt"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

const (
	siteGroup    = "site"
	articleRoute = "article"

	defaultArticlePath = "/novica/:slug"
)

// ErrBaseURLRequired is returned when a permalink builder is constructed
// without a site base URL.
var ErrBaseURLRequired = errors.New("search: base url is required")

// PermalinkBuilder produces public article URLs from slugs.
type PermalinkBuilder struct {
	group *urlkit.Group
}

// NewPermalinkBuilder wires a go-urlkit route manager for the public site.
// articlePath overrides the "/novica/:slug" route when non-empty.
func NewPermalinkBuilder(baseURL, articlePath string) (*PermalinkBuilder, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}
	if strings.TrimSpace(articlePath) == "" {
		articlePath = defaultArticlePath
	}

	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    siteGroup,
				BaseURL: baseURL,
				Paths: map[string]string{
					articleRoute: articlePath,
				},
			},
		},
	})

	return &PermalinkBuilder{group: manager.Group(siteGroup)}, nil
}

// ArticleURL builds the permalink for an article slug.
func (p *PermalinkBuilder) ArticleURL(slug string) (string, error) {
	if p == nil || p.group == nil {
		return "", errors.New("search: permalink builder not configured")
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "", errors.New("search: slug is required for a permalink")
	}
	url, err := p.group.Builder(articleRoute).WithParam("slug", slug).Build()
	if err != nil {
		return "", fmt.Errorf("search: build permalink for %q: %w", slug, err)
	}
	return url, nil
}
