package queries

import (
	"context"
	"errors"
	"time"

	"pickup/internal/core/domain/model/job"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/pkg/guard"
)

var ErrGetBacklogQueryIsNotConstructed = errors.New(
	"GetBacklogQuery must be created via NewGetBacklogQuery constructor",
)

type GetBacklogQuery struct {
	guard guard.ConstructorGuard
}

func NewGetBacklogQuery() GetBacklogQuery {
	return GetBacklogQuery{guard: guard.NewConstructorGuard()}
}

func (q GetBacklogQuery) Validate() error {
	return q.guard.Validate(ErrGetBacklogQueryIsNotConstructed)
}

// Backlog summarizes the job pool and how many collectors dispatch can locate.
type Backlog struct {
	JobsByStatus      map[job.Status]int64
	LocatedCollectors int
}

type GetBacklogQueryHandler struct {
	jobs           JobReader
	collectors     CollectorReader
	clock          kernel.Clock
	maxLocationAge time.Duration
}

// NewGetBacklogQueryHandler counts a collector as located when its position is
// no older than maxLocationAge; zero counts every reported position.
func NewGetBacklogQueryHandler(
	jobs JobReader,
	collectors CollectorReader,
	clock kernel.Clock,
	maxLocationAge time.Duration,
) GetBacklogQueryHandler {
	return GetBacklogQueryHandler{
		jobs:           jobs,
		collectors:     collectors,
		clock:          clock,
		maxLocationAge: maxLocationAge,
	}
}

func (h GetBacklogQueryHandler) Handle(ctx context.Context, query GetBacklogQuery) (Backlog, error) {
	if err := query.Validate(); err != nil {
		return Backlog{}, err
	}

	counts, err := h.jobs.CountByStatus(ctx)
	if err != nil {
		return Backlog{}, err
	}

	collectors, err := h.collectors.ListByOrganization(ctx, nil)
	if err != nil {
		return Backlog{}, err
	}

	now := h.clock.Now()
	located := 0
	for _, c := range collectors {
		if c.HasFreshLocation(now, h.maxLocationAge) {
			located++
		}
	}

	return Backlog{JobsByStatus: counts, LocatedCollectors: located}, nil
}
