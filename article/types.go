package article

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/jknm/migrate/plate"
)

// Status is the editorial lifecycle state of an article. Articles are never
// physically deleted; they transition to StatusDeleted instead.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)

// Statuses lists every valid lifecycle state.
func Statuses() []Status {
	return []Status{StatusDraft, StatusPublished, StatusArchived, StatusDeleted}
}

// Valid reports whether the status is one of the four lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived, StatusDeleted:
		return true
	}
	return false
}

// Article is the persisted content record. During migration content lives in
// at most one of three representations: the converted document tree
// (ContentJSON), flat markdown (ContentMarkdown), or the raw legacy export
// (ContentEditorJS). Markdown always wins over the legacy representation for
// indexing.
type Article struct {
	bun.BaseModel `bun:"table:article,alias:a"`

	ID              int         `bun:"id,pk,autoincrement"        json:"id"`
	OldID           *int        `bun:"old_id,unique"              json:"old_id,omitempty"`
	Title           string      `bun:"title,notnull"              json:"title"`
	Slug            string      `bun:"slug,notnull,unique"        json:"slug"`
	URL             string      `bun:"url,notnull"                json:"url"`
	Status          Status      `bun:"status,notnull,default:'draft'" json:"status"`
	ContentJSON     plate.Value `bun:"content_json,type:jsonb,nullzero" json:"content_json,omitempty"`
	ContentHTML     *string     `bun:"content_html"               json:"content_html,omitempty"`
	ContentMarkdown *string     `bun:"content_markdown"           json:"content_markdown,omitempty"`
	ContentEditorJS *string     `bun:"content_editorjs"           json:"content_editorjs,omitempty"`
	Excerpt         *string     `bun:"excerpt"                    json:"excerpt,omitempty"`
	MetaDescription *string     `bun:"meta_description"           json:"meta_description,omitempty"`
	ViewCount       int         `bun:"view_count,notnull,default:0" json:"view_count"`
	ReadingTime     int         `bun:"reading_time,notnull,default:0" json:"reading_time"`
	ContentLength   int         `bun:"content_length,notnull,default:0" json:"content_length"`
	ThumbnailCrop   *Thumbnail  `bun:"thumbnail_crop,type:jsonb"  json:"thumbnail_crop,omitempty"`
	CreatedAt       time.Time   `bun:"created_at,notnull,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time   `bun:"updated_at,notnull,nullzero,default:current_timestamp" json:"updated_at"`
	PublishedAt     *time.Time  `bun:"published_at,nullzero"      json:"published_at,omitempty"`
	ArchivedAt      *time.Time  `bun:"archived_at,nullzero"       json:"archived_at,omitempty"`
	DeletedAt       *time.Time  `bun:"deleted_at,nullzero"        json:"deleted_at,omitempty"`
	MigratedAt      *time.Time  `bun:"migrated_at,nullzero"       json:"migrated_at,omitempty"`

	Authors []*ArticleToAuthor `bun:"rel:has-many,join:id=article_id" json:"authors,omitempty"`
}

// PermalinkSlug returns the identifier used in public URLs: the slug when
// present, otherwise the legacy url column.
func (a *Article) PermalinkSlug() string {
	if a.Slug != "" {
		return a.Slug
	}
	return a.URL
}

// Thumbnail is the stored crop payload for an article's preview image.
type Thumbnail struct {
	ImageURL               string  `json:"image_url"`
	UploadedCustomThumb    bool    `json:"uploaded_custom_thumbnail,omitempty"`
	Unit                   string  `json:"unit"`
	X                      float64 `json:"x"`
	Y                      float64 `json:"y"`
	Width                  float64 `json:"width"`
	Height                 float64 `json:"height"`
}

// AuthorType distinguishes club members from one-off guest authors.
type AuthorType string

const (
	AuthorMember AuthorType = "member"
	AuthorGuest  AuthorType = "guest"
)

// Author is a content author. Guests carry a name only.
type Author struct {
	bun.BaseModel `bun:"table:author,alias:au"`

	ID       int        `bun:"id,pk,autoincrement" json:"id"`
	Type     AuthorType `bun:"author_type,notnull" json:"author_type"`
	Name     string     `bun:"name,notnull"        json:"name"`
	GoogleID *string    `bun:"google_id"           json:"google_id,omitempty"`
	Email    *string    `bun:"email"               json:"email,omitempty"`
	Image    *string    `bun:"image"               json:"image,omitempty"`
}

// ArticleToAuthor is the ordered article/author association. AuthorOrder
// controls byline ordering.
type ArticleToAuthor struct {
	bun.BaseModel `bun:"table:articles_to_authors,alias:ata"`

	ArticleID   int `bun:"article_id,pk"   json:"article_id"`
	AuthorID    int `bun:"author_id,pk"    json:"author_id"`
	AuthorOrder int `bun:"author_order,notnull,default:0" json:"author_order"`

	Author *Author `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
}
