package cmd

import (
	"log/slog"

	httpin "pickup/internal/adapters/in/http"
	"pickup/internal/adapters/out/memory"
	"pickup/internal/adapters/out/postgres"
	"pickup/internal/adapters/out/postgres/collectorrepo"
	"pickup/internal/adapters/out/postgres/jobrepo"
	"pickup/internal/core/application/usecases/commands"
	"pickup/internal/core/application/usecases/queries"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/services"
	"pickup/internal/core/ports"
	"pickup/internal/jobs"
	"pickup/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// Storage is one backing store seen through the ports the application uses.
type Storage struct {
	UoWFactory ports.UnitOfWorkFactory
	Jobs       queries.JobReader
	Collectors queries.CollectorReader
}

func NewPostgresStorage(db *gorm.DB) Storage {
	return Storage{
		UoWFactory: postgres.NewGormUnitOfWorkFactory(db),
		Jobs:       jobrepo.NewGormJobRepository(db),
		Collectors: collectorrepo.NewGormCollectorRepository(db),
	}
}

func NewMemoryStorage() Storage {
	store := memory.NewStore()
	return Storage{
		UoWFactory: memory.NewUnitOfWorkFactory(store),
		Jobs:       memory.NewJobRepository(store),
		Collectors: memory.NewCollectorRepository(store),
	}
}

type CompositionRoot struct {
	cfg     Config
	storage Storage
	clock   kernel.Clock
	ids     kernel.IDGenerator
	metrics *metrics.Collector
	logger  *slog.Logger
}

func NewCompositionRoot(cfg Config, storage Storage, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		cfg:     cfg,
		storage: storage,
		clock:   kernel.SystemClock{},
		ids:     kernel.RandomIDGenerator{},
		metrics: metrics.NewCollector(prometheus.NewRegistry()),
		logger:  logger,
	}
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.storage.UoWFactory.Create()
	})
}

func (c *CompositionRoot) jobUoW() commands.JobUoWFactory {
	return FuncJobUoWFactory(func() commands.JobUoW {
		return c.storage.UoWFactory.Create()
	})
}

func (c *CompositionRoot) collectorUoW() commands.CollectorUoWFactory {
	return FuncCollectorUoWFactory(func() commands.CollectorUoW {
		return c.storage.UoWFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateJobCommandHandler() commands.CreateJobCommandHandler {
	return commands.NewCreateJobCommandHandler(c.jobUoW(), c.clock, c.ids)
}

func (c *CompositionRoot) CreateAcceptJobCommandHandler() commands.AcceptJobCommandHandler {
	return commands.NewAcceptJobCommandHandler(c.uow(), c.clock, c.cfg.Policy())
}

func (c *CompositionRoot) CreateDispatchNearestCommandHandler() commands.DispatchNearestCommandHandler {
	return commands.NewDispatchNearestCommandHandler(c.uow(), services.NewJobDispatcher(), c.clock, c.cfg.Policy())
}

func (c *CompositionRoot) CreateAdvanceStatusCommandHandler() commands.AdvanceStatusCommandHandler {
	return commands.NewAdvanceStatusCommandHandler(c.jobUoW(), c.clock)
}

func (c *CompositionRoot) CreateCancelJobCommandHandler() commands.CancelJobCommandHandler {
	return commands.NewCancelJobCommandHandler(c.jobUoW(), c.clock, c.cfg.Policy())
}

func (c *CompositionRoot) CreateRegisterCollectorCommandHandler() commands.RegisterCollectorCommandHandler {
	return commands.NewRegisterCollectorCommandHandler(c.collectorUoW(), c.ids)
}

func (c *CompositionRoot) CreateReportCollectorLocationCommandHandler() commands.ReportCollectorLocationCommandHandler {
	return commands.NewReportCollectorLocationCommandHandler(c.collectorUoW(), c.clock)
}

func (c *CompositionRoot) CreateListJobsQueryHandler() queries.ListJobsQueryHandler {
	return queries.NewListJobsQueryHandler(c.storage.Jobs)
}

func (c *CompositionRoot) CreateGetBacklogQueryHandler() queries.GetBacklogQueryHandler {
	return queries.NewGetBacklogQueryHandler(c.storage.Jobs, c.storage.Collectors, c.clock, c.cfg.Policy().MaxLocationAge)
}

// CreateEcho wires the REST API, /health and /metrics.
func (c *CompositionRoot) CreateEcho() *echo.Echo {
	server := httpin.NewServer(httpin.Handlers{
		CreateJob:               c.CreateCreateJobCommandHandler(),
		AcceptJob:               c.CreateAcceptJobCommandHandler(),
		DispatchNearest:         c.CreateDispatchNearestCommandHandler(),
		AdvanceStatus:           c.CreateAdvanceStatusCommandHandler(),
		CancelJob:               c.CreateCancelJobCommandHandler(),
		RegisterCollector:       c.CreateRegisterCollectorCommandHandler(),
		ReportCollectorLocation: c.CreateReportCollectorLocationCommandHandler(),
		ListJobs:                c.CreateListJobsQueryHandler(),
		GetJob:                  queries.NewGetJobQueryHandler(c.storage.Jobs),
		GetCollector:            queries.NewGetCollectorQueryHandler(c.storage.Collectors),
		ListCollectors:          queries.NewListCollectorsQueryHandler(c.storage.Collectors),
		GetCollectorJobs:        queries.NewGetCollectorJobsQueryHandler(c.storage.Jobs, c.storage.Collectors),
		GetDispatchBoard:        queries.NewGetDispatchBoardQueryHandler(c.storage.Jobs, c.storage.Collectors),
	}, c.cfg.Dispatch.DefaultRadiusKm, c.metrics)

	return httpin.NewEcho(server, c.metrics.Handler(), c.logger)
}

// CreateJobManager wires the backlog job and, when enabled, the auto dispatch sweep.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	scheduled := []jobs.Job{
		jobs.NewBacklogStatsJob(c.CreateGetBacklogQueryHandler(), c.metrics, c.cfg.Jobs.BacklogSchedule, c.logger),
	}

	if c.cfg.Jobs.AutoDispatchEnabled {
		scheduled = append(scheduled, jobs.NewAutoDispatchJob(
			c.CreateListJobsQueryHandler(),
			c.CreateDispatchNearestCommandHandler(),
			c.metrics,
			c.cfg.Dispatch.DefaultRadiusKm,
			c.cfg.Jobs.AutoDispatchSchedule,
			c.logger,
		))
	}

	return jobs.NewJobManager(scheduled...)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncJobUoWFactory func() commands.JobUoW

func (f FuncJobUoWFactory) Create() commands.JobUoW {
	return f()
}

type FuncCollectorUoWFactory func() commands.CollectorUoW

func (f FuncCollectorUoWFactory) Create() commands.CollectorUoW {
	return f()
}
