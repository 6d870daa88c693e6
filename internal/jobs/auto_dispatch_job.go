package jobs

import (
	"context"
	"errors"
	"log/slog"

	"pickup/internal/core/application/usecases/commands"
	"pickup/internal/core/application/usecases/queries"
	"pickup/internal/core/domain/model/job"
	"pickup/internal/core/domain/services"
	"pickup/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// DispatchRecorder counts dispatch attempts.
type DispatchRecorder interface {
	RecordDispatch(distanceKm *float64, err error)
}

// SweepResult counts the outcomes of one sweep.
type SweepResult struct {
	Attempted int
	Assigned  int
}

// AutoDispatchJob sweeps Pending jobs and dispatches each to the nearest collector
// around the job's own location.
type AutoDispatchJob struct {
	listJobs queries.ListJobsQueryHandler
	dispatch commands.DispatchNearestCommandHandler
	recorder DispatchRecorder
	radiusKm float64
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewAutoDispatchJob(
	listJobs queries.ListJobsQueryHandler,
	dispatch commands.DispatchNearestCommandHandler,
	recorder DispatchRecorder,
	radiusKm float64,
	schedule string,
	logger *slog.Logger,
) *AutoDispatchJob {
	// a sweep still running when the next tick fires is skipped
	scheduler := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	return &AutoDispatchJob{
		listJobs: listJobs,
		dispatch: dispatch,
		recorder: recorder,
		radiusKm: radiusKm,
		schedule: schedule,
		cron:     scheduler,
		logger:   logger.With("component", "auto_dispatch_job"),
	}
}

func (j *AutoDispatchJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() {
		_, _ = j.RunOnce(context.Background())
	}); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Auto dispatch job started",
		"schedule", j.schedule, "radius_km", j.radiusKm)
	return nil
}

// RunOnce dispatches every job that is Pending when the sweep starts. Jobs taken
// in the meantime fail the guard and are counted as conflicts.
func (j *AutoDispatchJob) RunOnce(ctx context.Context) (SweepResult, error) {
	pending := job.Pending
	query, err := queries.NewListJobsQuery(&pending, nil, nil)
	if err != nil {
		return SweepResult{}, err
	}

	views, err := j.listJobs.Handle(ctx, query)
	if err != nil {
		j.logger.ErrorContext(ctx, "Auto dispatch job failed to list jobs", "error", err)
		return SweepResult{}, err
	}

	var result SweepResult
	for _, view := range views {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		cmd, err := commands.NewDispatchNearestCommand(view.ID, view.Location, j.radiusKm, nil)
		if err != nil {
			return result, err
		}

		result.Attempted++
		res, err := j.dispatch.Handle(ctx, cmd)
		j.recorder.RecordDispatch(res.DistanceKm, err)
		if err != nil {
			if !isExpectedDispatchError(err) {
				j.logger.ErrorContext(ctx, "Auto dispatch failed", "job_id", view.ID.String(), "error", err)
			}
			continue
		}

		result.Assigned++
		j.logger.InfoContext(ctx, "Job dispatched",
			"job_id", view.ID.String(),
			"collector_id", res.CollectorID.String(),
			"blind", res.DistanceKm == nil)
	}

	return result, nil
}

func (j *AutoDispatchJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Auto dispatch job stopped")
}

func isExpectedDispatchError(err error) bool {
	return errors.Is(err, services.ErrNoCandidates) ||
		errors.Is(err, services.ErrCollectorOutOfRange) ||
		errors.Is(err, errs.ErrConflict) ||
		errors.Is(err, errs.ErrInvalidState)
}
