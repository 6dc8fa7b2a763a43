package article

import (
	"strings"

	"github.com/goliatone/go-slug"
)

// SlugFromTitle derives a URL-friendly slug from an article title using the
// shared slug normalization rules.
func SlugFromTitle(title string) (string, error) {
	return slug.Normalize(title)
}

// IsValidSlug reports whether the value already satisfies the slug rules.
func IsValidSlug(value string) bool {
	return slug.IsValid(value)
}

// SlugFromURL cleans a legacy url column value into a slug: lowercase, keep
// only [a-z0-9-], collapse repeated hyphens and trim the ends. Legacy urls
// are near-slugs already, so stripping (rather than transliterating) is the
// historical behaviour.
func SlugFromURL(url string) string {
	lowered := strings.ToLower(strings.TrimSpace(url))

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	for strings.Contains(cleaned, "--") {
		cleaned = strings.ReplaceAll(cleaned, "--", "-")
	}
	return strings.Trim(cleaned, "-")
}
