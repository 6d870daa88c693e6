package memory

import (
	"context"
	"fmt"
	"sort"

	"pickup/internal/core/domain/model/job"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/ports"
	"pickup/internal/pkg/errs"
)

var _ ports.JobRepository = (*JobRepository)(nil)

type JobRepository struct {
	store *Store
}

func NewJobRepository(store *Store) *JobRepository {
	return &JobRepository{store: store}
}

func (r *JobRepository) Add(ctx context.Context, aggregate *job.Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := aggregate.Validate(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.jobs[aggregate.ID()]; exists {
		return errs.NewValueIsInvalidErrorWithCause("jobId", fmt.Errorf("job %s already exists", aggregate.ID()))
	}
	r.store.jobs[aggregate.ID()] = jobFromDomain(aggregate)
	return nil
}

func (r *JobRepository) Get(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := id.Validate(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	rec, ok := r.store.jobs[id]
	r.store.mu.RUnlock()

	if !ok {
		return nil, errs.NewObjectNotFoundError("job", id.String())
	}
	return rec.toDomain()
}

// TransitionIfCurrent compares and writes under the store's write lock.
func (r *JobRepository) TransitionIfCurrent(ctx context.Context, aggregate *job.Job, transition job.Transition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := aggregate.ValidateApplied(transition); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.jobs[transition.JobID]
	if !ok {
		return errs.NewObjectNotFoundError("job", transition.JobID.String())
	}
	if current.status != transition.From || current.version != transition.FromVersion {
		return errs.NewConflictError("job", transition.JobID.String())
	}

	r.store.jobs[transition.JobID] = jobFromDomain(aggregate)
	return nil
}

func (r *JobRepository) List(ctx context.Context, filter ports.JobFilter) ([]*job.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	records := make([]jobRecord, 0, len(r.store.jobs))
	for _, rec := range r.store.jobs {
		if matches(rec, filter) {
			records = append(records, rec)
		}
	}
	r.store.mu.RUnlock()

	sort.Slice(records, func(i, k int) bool {
		if !records[i].createdAt.Equal(records[k].createdAt) {
			return records[i].createdAt.After(records[k].createdAt)
		}
		return records[i].id.Compare(records[k].id) < 0
	})

	jobs := make([]*job.Job, 0, len(records))
	for _, rec := range records {
		j, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

func (r *JobRepository) CountActiveByCollector(ctx context.Context, collectorID kernel.UUID) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var n int64
	for _, rec := range r.store.jobs {
		if rec.status.IsActive() && rec.collectorID != nil && rec.collectorID.IsEqual(collectorID) {
			n++
		}
	}
	return n, nil
}

func (r *JobRepository) CountByStatus(ctx context.Context) (map[job.Status]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	counts := make(map[job.Status]int64)
	for _, rec := range r.store.jobs {
		counts[rec.status]++
	}
	return counts, nil
}

func matches(rec jobRecord, filter ports.JobFilter) bool {
	if filter.Status != nil && rec.status != *filter.Status {
		return false
	}
	if filter.CollectorID != nil && (rec.collectorID == nil || !rec.collectorID.IsEqual(*filter.CollectorID)) {
		return false
	}
	if filter.RequesterID != nil && !rec.requesterID.IsEqual(*filter.RequesterID) {
		return false
	}
	return true
}
