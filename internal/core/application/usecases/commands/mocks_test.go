package commands_test

import (
	"context"
	"time"

	"pickup/internal/core/application/usecases/commands"
	"pickup/internal/core/domain/model/collector"
	"pickup/internal/core/domain/model/job"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

var fixedNow = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func fixedClock() kernel.Clock {
	return kernel.ClockFunc(func() time.Time { return fixedNow })
}

type MockJobRepository struct{ mock.Mock }

func (m *MockJobRepository) Add(ctx context.Context, j *job.Job) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *MockJobRepository) Get(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Job), args.Error(1)
}

func (m *MockJobRepository) TransitionIfCurrent(ctx context.Context, j *job.Job, t job.Transition) error {
	args := m.Called(ctx, j, t)
	return args.Error(0)
}

func (m *MockJobRepository) List(ctx context.Context, filter ports.JobFilter) ([]*job.Job, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*job.Job), args.Error(1)
}

func (m *MockJobRepository) CountActiveByCollector(ctx context.Context, id kernel.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobRepository) CountByStatus(ctx context.Context) (map[job.Status]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[job.Status]int64), args.Error(1)
}

type MockCollectorRepository struct{ mock.Mock }

func (m *MockCollectorRepository) Add(ctx context.Context, c *collector.Collector) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCollectorRepository) Get(ctx context.Context, id kernel.UUID) (*collector.Collector, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*collector.Collector), args.Error(1)
}

func (m *MockCollectorRepository) UpdateLocation(ctx context.Context, c *collector.Collector) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCollectorRepository) ListByOrganization(
	ctx context.Context,
	organizationID *kernel.UUID,
) ([]*collector.Collector, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*collector.Collector), args.Error(1)
}

// MockUoW satisfies every narrowed unit of work interface.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) JobRepository() ports.JobRepository {
	args := m.Called()
	return args.Get(0).(ports.JobRepository)
}

func (m *MockUoW) CollectorRepository() ports.CollectorRepository {
	args := m.Called()
	return args.Get(0).(ports.CollectorRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockJobUoWFactory struct{ mock.Mock }

func (m *MockJobUoWFactory) Create() commands.JobUoW {
	args := m.Called()
	return args.Get(0).(commands.JobUoW)
}

type MockCollectorUoWFactory struct{ mock.Mock }

func (m *MockCollectorUoWFactory) Create() commands.CollectorUoW {
	args := m.Called()
	return args.Get(0).(commands.CollectorUoW)
}

func newPendingJob(requesterID kernel.UUID, lat, lng float64) *job.Job {
	location, _ := kernel.NewLocation(lat, lng)
	j, _ := job.NewJob(kernel.NewUUID(), requesterID, job.Details{
		Category:      "paper",
		Quantity:      12.5,
		ScheduledTime: fixedNow.Add(24 * time.Hour),
	}, location, fixedNow.Add(-time.Hour))
	return j
}

func newAcceptedJob(collectorID kernel.UUID) *job.Job {
	j := newPendingJob(kernel.NewUUID(), 41.0, 29.0)
	_, _ = j.Accept(collectorID, fixedNow.Add(-30*time.Minute))
	return j
}

func newLocatedCollector(lat, lng float64) *collector.Collector {
	c, _ := collector.NewCollector(kernel.NewUUID(), kernel.NewUUID(), "Ayse Yilmaz", "+90 555 000 0000")
	location, _ := kernel.NewLocation(lat, lng)
	_ = c.ReportLocation(location, fixedNow.Add(-time.Minute))
	return c
}
