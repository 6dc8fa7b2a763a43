package search

import "context"

// IndexClient uploads records to a search index. Implementations must be safe
// for concurrent use.
type IndexClient interface {
	// SaveRecords upserts the records into the named index.
	SaveRecords(ctx context.Context, index string, records []Record) error
	// ClearIndex removes every record from the named index.
	ClearIndex(ctx context.Context, index string) error
}
