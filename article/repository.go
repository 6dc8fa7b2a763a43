package article

import (
	"context"
	"database/sql"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/uptrace/bun"
)

// ValidateInsert checks an insert payload before it is queued for the bulk
// write. A failure here is a pipeline bug, not dirty legacy data, and callers
// treat it as fatal.
func (a *Article) ValidateInsert() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Title, validation.Required.Error(ErrTitleRequired.Error())),
		validation.Field(&a.URL, validation.Required.Error(ErrURLRequired.Error())),
		validation.Field(&a.Slug, validation.Required.Error(ErrSlugRequired.Error())),
		validation.Field(&a.Status, validation.By(func(value any) error {
			status, _ := value.(Status)
			if !status.Valid() {
				return ErrStatusInvalid
			}
			return nil
		})),
	)
}

// Repository persists articles and resolves their ordered author bylines.
type Repository struct {
	db *bun.DB
}

// NewRepository constructs a bun-backed article repository.
func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// BulkInsert writes the batch in one statement, ignoring duplicate-key
// conflicts so re-running a migration is idempotent. A replayed row conflicts
// on old_id and slug at once, so the skip must not name a single target.
// Returns the number of rows actually inserted.
func (r *Repository) BulkInsert(ctx context.Context, articles []*Article) (int64, error) {
	if r.db == nil {
		return 0, ErrDatabaseRequired
	}
	if len(articles) == 0 {
		return 0, nil
	}

	res, err := r.db.NewInsert().
		Model(&articles).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		// Drivers without RowsAffected support still performed the insert.
		return 0, nil
	}
	return rows, nil
}

// GetBySlug loads one article by its slug.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*Article, error) {
	if r.db == nil {
		return nil, ErrDatabaseRequired
	}
	record := new(Article)
	err := r.db.NewSelect().
		Model(record).
		Where("a.slug = ?", slug).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Key: slug}
		}
		return nil, err
	}
	return record, nil
}

// ListByStatus returns every article in one of the supplied lifecycle states,
// oldest first. An empty status filter returns everything.
func (r *Repository) ListByStatus(ctx context.Context, statuses []Status) ([]*Article, error) {
	if r.db == nil {
		return nil, ErrDatabaseRequired
	}
	var records []*Article
	query := r.db.NewSelect().Model(&records).Order("a.created_at ASC")
	if len(statuses) > 0 {
		query = query.Where("a.status IN (?)", bun.In(statuses))
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return records, nil
}

// AuthorNames resolves the byline for an article as an ordered name list.
func (r *Repository) AuthorNames(ctx context.Context, articleID int) ([]string, error) {
	if r.db == nil {
		return nil, ErrDatabaseRequired
	}
	var links []*ArticleToAuthor
	err := r.db.NewSelect().
		Model(&links).
		Relation("Author").
		Where("ata.article_id = ?", articleID).
		Order("ata.author_order ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(links))
	for _, link := range links {
		if link.Author != nil {
			names = append(names, link.Author.Name)
		}
	}
	return names, nil
}
