package article

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RunStatus tracks the lifecycle of one migration or reindex run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// Run records the outcome of a single batch invocation so past migrations
// stay queryable after the console output is gone.
type Run struct {
	bun.BaseModel `bun:"table:migration_runs,alias:mr"`

	ID         uuid.UUID  `bun:",pk,type:uuid"       json:"id"`
	RunKey     string     `bun:"run_key,notnull,unique" json:"run_key"`
	Kind       string     `bun:"kind,notnull"        json:"kind"`
	Status     RunStatus  `bun:"status,notnull"      json:"status"`
	Matched    int        `bun:"matched,notnull,default:0"   json:"matched"`
	Converted  int        `bun:"converted,notnull,default:0" json:"converted"`
	Failed     int        `bun:"failed,notnull,default:0"    json:"failed"`
	Written    int        `bun:"written,notnull,default:0"   json:"written"`
	StartedAt  time.Time  `bun:"started_at,notnull,nullzero" json:"started_at"`
	FinishedAt *time.Time `bun:"finished_at,nullzero"        json:"finished_at,omitempty"`
}

// NewRunRepository builds the generic repository for run records.
func NewRunRepository(db *bun.DB) repository.Repository[*Run] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Run]{
		NewRecord: func() *Run { return &Run{} },
		GetID: func(r *Run) uuid.UUID {
			return r.ID
		},
		SetID: func(r *Run, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "run_key"
		},
		GetIdentifierValue: func(r *Run) string {
			return r.RunKey
		},
	})
}

// RunStore wraps the run repository with the small lifecycle surface the
// pipeline needs.
type RunStore struct {
	repo repository.Repository[*Run]
}

// NewRunStore constructs a store without caching.
func NewRunStore(db *bun.DB) *RunStore {
	return NewRunStoreWithCache(db, nil, nil)
}

// NewRunStoreWithCache constructs a store, optionally wrapping the repository
// with a read-through cache.
func NewRunStoreWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *RunStore {
	base := NewRunRepository(db)
	if cacheService != nil && keySerializer != nil {
		base = repositorycache.New(base, cacheService, keySerializer)
	}
	return &RunStore{repo: base}
}

// Begin records the start of a run.
func (s *RunStore) Begin(ctx context.Context, kind string) (*Run, error) {
	now := time.Now().UTC()
	run := &Run{
		ID:        uuid.New(),
		RunKey:    fmt.Sprintf("%s-%s", kind, now.Format("20060102-150405.000")),
		Kind:      kind,
		Status:    RunRunning,
		StartedAt: now,
	}
	return s.repo.Create(ctx, run)
}

// Finish stamps the run with its final status and counters.
func (s *RunStore) Finish(ctx context.Context, run *Run, status RunStatus) (*Run, error) {
	now := time.Now().UTC()
	run.Status = status
	run.FinishedAt = &now
	return s.repo.Update(ctx, run)
}

// GetByKey loads a past run by its run key.
func (s *RunStore) GetByKey(ctx context.Context, key string) (*Run, error) {
	return s.repo.GetByIdentifier(ctx, key)
}

// List returns the recorded runs.
func (s *RunStore) List(ctx context.Context) ([]*Run, error) {
	records, _, err := s.repo.List(ctx)
	return records, err
}
