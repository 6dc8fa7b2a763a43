// Package search builds and uploads the Algolia index records derived from
// migrated articles. Articles are indexed one record per Markdown section so
// hits land on the relevant part of long expedition reports.
package search

import (
	"encoding/json"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/jknm/migrate/internal/validation"
)

// recordSchema is the index contract. Every record is validated against it
// before upload; a violation means a pipeline bug and aborts the run.
const recordSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"objectID": {"type": "string", "pattern": "^[0-9]+-[0-9]+$"},
		"title": {"type": "string", "minLength": 1},
		"permalink": {"type": "string", "format": "uri"},
		"content": {"type": "string"},
		"section": {"type": "string"},
		"section_order": {"type": "integer", "minimum": 0},
		"status": {"enum": ["draft", "published", "archived", "deleted"]},
		"authors": {"type": "array", "items": {"type": "string"}},
		"parent_post_id": {"type": "integer", "minimum": 1},
		"parent_post_slug": {"type": "string", "minLength": 1},
		"db_id": {"type": "integer", "minimum": 1},
		"old_db_id": {"type": ["integer", "null"]},
		"created_at": {"type": "string", "format": "date-time"},
		"last_updated_at": {"type": "string", "format": "date-time"},
		"last_published_at": {"type": ["string", "null"], "format": "date-time"},
		"last_deleted_at": {"type": ["string", "null"], "format": "date-time"}
	},
	"required": [
		"objectID", "title", "permalink", "content", "section",
		"section_order", "status", "authors", "parent_post_id",
		"parent_post_slug", "db_id", "created_at", "last_updated_at"
	],
	"additionalProperties": false
}`

var recordContract = validation.MustCompile([]byte(recordSchema))

const recordInvalidCode = "SEARCH_RECORD_INVALID"

// Record is one uploadable index object. ObjectID is "<db_id>-<section_order>"
// so re-uploads overwrite in place. The searchable fields are title,
// permalink, content and section; the rest exist for filtering and faceting.
type Record struct {
	ObjectID       string     `json:"objectID"`
	Title          string     `json:"title"`
	Permalink      string     `json:"permalink"`
	Content        string     `json:"content"`
	Section        string     `json:"section"`
	SectionOrder   int        `json:"section_order"`
	Status         string     `json:"status"`
	Authors        []string   `json:"authors"`
	ParentPostID   int        `json:"parent_post_id"`
	ParentPostSlug string     `json:"parent_post_slug"`
	DBID           int        `json:"db_id"`
	OldDBID        *int       `json:"old_db_id"`
	CreatedAt      time.Time  `json:"created_at"`
	LastUpdatedAt  time.Time  `json:"last_updated_at"`
	LastPublished  *time.Time `json:"last_published_at"`
	LastDeleted    *time.Time `json:"last_deleted_at"`
}

// Map renders the record as the generic JSON shape the schema validator and
// the upload payload both consume.
func (r Record) Map() (map[string]any, error) {
	encoded, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("search: encode record %s: %w", r.ObjectID, err)
	}
	var payload map[string]any
	if err := json.Unmarshal(encoded, &payload); err != nil {
		return nil, fmt.Errorf("search: decode record %s: %w", r.ObjectID, err)
	}
	return payload, nil
}

// Validate checks the record against the index contract.
func (r Record) Validate() error {
	payload, err := r.Map()
	if err != nil {
		return err
	}
	if err := recordContract.Validate(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation,
			fmt.Sprintf("index record %s violates the contract", r.ObjectID)).
			WithTextCode(recordInvalidCode)
	}
	return nil
}
