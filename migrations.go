package migrate

import (
	"context"
	"fmt"

	"github.com/jknm/migrate/article"
)

// EnsureSchema creates the article and run tables when they do not exist
// yet. Bulk imports target a fresh database, so model driven creation is
// enough here.
func (m *Module) EnsureSchema(ctx context.Context) error {
	models := []any{
		(*article.Article)(nil),
		(*article.Author)(nil),
		(*article.ArticleToAuthor)(nil),
		(*article.Run)(nil),
	}
	for _, model := range models {
		if _, err := m.db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("migrate: create table for %T: %w", model, err)
		}
	}
	return nil
}
