package jobs

import (
	"context"
	"log/slog"

	"pickup/internal/core/application/usecases/queries"
	"pickup/internal/core/domain/model/job"

	"github.com/robfig/cron/v3"
)

// BacklogRecorder receives the backlog snapshot.
type BacklogRecorder interface {
	SetBacklog(counts map[job.Status]int64, located int)
}

// BacklogStatsJob periodically publishes job counts per status and the number
// of located collectors.
type BacklogStatsJob struct {
	handler  queries.GetBacklogQueryHandler
	recorder BacklogRecorder
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewBacklogStatsJob(
	handler queries.GetBacklogQueryHandler,
	recorder BacklogRecorder,
	schedule string,
	logger *slog.Logger,
) *BacklogStatsJob {
	return &BacklogStatsJob{
		handler:  handler,
		recorder: recorder,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "backlog_stats_job"),
	}
}

// Start runs the job on its schedule. An invalid schedule is returned as an error.
func (j *BacklogStatsJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() {
		_ = j.RunOnce(context.Background())
	}); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Backlog stats job started", "schedule", j.schedule)
	return nil
}

// RunOnce takes one snapshot.
func (j *BacklogStatsJob) RunOnce(ctx context.Context) error {
	backlog, err := j.handler.Handle(ctx, queries.NewGetBacklogQuery())
	if err != nil {
		j.logger.ErrorContext(ctx, "Backlog stats job failed", "error", err)
		return err
	}

	j.recorder.SetBacklog(backlog.JobsByStatus, backlog.LocatedCollectors)
	return nil
}

// Stop stops scheduling and waits for a running snapshot to finish.
func (j *BacklogStatsJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Backlog stats job stopped")
}
