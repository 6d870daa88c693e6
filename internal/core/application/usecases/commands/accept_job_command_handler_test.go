package commands_test

import (
	"errors"
	"testing"

	"pickup/internal/core/application/usecases/commands"
	"pickup/internal/core/domain/model/job"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewAcceptJobCommand_InvalidIDs(t *testing.T) {
	_, err := commands.NewAcceptJobCommand(kernel.UUID{}, kernel.NewUUID())
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	_, err = commands.NewAcceptJobCommand(kernel.NewUUID(), kernel.UUID{})
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestAcceptJobCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	worker := newLocatedCollector(41.01, 29.01)
	pickup := newPendingJob(kernel.NewUUID(), 41.0, 29.0)
	cmd, err := commands.NewAcceptJobCommand(pickup.ID(), worker.ID())
	require.NoError(t, err)

	jobRepo := new(MockJobRepository)
	collectorRepo := new(MockCollectorRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	expected := job.Transition{JobID: pickup.ID(), From: job.Pending, To: job.Accepted, FromVersion: 1}

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		uow.On("CollectorRepository").Return(collectorRepo).Once(),
		collectorRepo.On("Get", ctx, worker.ID()).Return(worker, nil).Once(),
		jobRepo.On("Get", ctx, pickup.ID()).Return(pickup, nil).Once(),
		jobRepo.On("TransitionIfCurrent", ctx, pickup, expected).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewAcceptJobCommandHandler(factory, fixedClock(), commands.LifecyclePolicy{})
	accepted, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, job.Accepted, accepted.Status())
	assert.True(t, accepted.IsAssignedTo(worker.ID()))
	assert.Equal(t, int64(2), accepted.Version())
	assert.Equal(t, fixedNow, accepted.UpdatedAt())
	jobRepo.AssertExpectations(t)
	collectorRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestAcceptJobCommandHandler_Handle_UnknownCollector(t *testing.T) {
	ctx := t.Context()
	collectorID := kernel.NewUUID()
	cmd, _ := commands.NewAcceptJobCommand(kernel.NewUUID(), collectorID)

	jobRepo := new(MockJobRepository)
	collectorRepo := new(MockCollectorRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		uow.On("CollectorRepository").Return(collectorRepo).Once(),
		collectorRepo.On("Get", ctx, collectorID).
			Return(nil, errs.NewObjectNotFoundError("collectorId", collectorID.String())).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewAcceptJobCommandHandler(factory, fixedClock(), commands.LifecyclePolicy{})
	_, err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	jobRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestAcceptJobCommandHandler_Handle_JobNotPending(t *testing.T) {
	ctx := t.Context()
	worker := newLocatedCollector(41.01, 29.01)
	pickup := newAcceptedJob(kernel.NewUUID())
	cmd, _ := commands.NewAcceptJobCommand(pickup.ID(), worker.ID())

	jobRepo := new(MockJobRepository)
	collectorRepo := new(MockCollectorRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		uow.On("CollectorRepository").Return(collectorRepo).Once(),
		collectorRepo.On("Get", ctx, worker.ID()).Return(worker, nil).Once(),
		jobRepo.On("Get", ctx, pickup.ID()).Return(pickup, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewAcceptJobCommandHandler(factory, fixedClock(), commands.LifecyclePolicy{})
	_, err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidState)
	require.NotErrorIs(t, err, errs.ErrConflict)
	jobRepo.AssertNotCalled(t, "TransitionIfCurrent", mock.Anything, mock.Anything, mock.Anything)
}

func TestAcceptJobCommandHandler_Handle_LostRace(t *testing.T) {
	ctx := t.Context()
	worker := newLocatedCollector(41.01, 29.01)
	pickup := newPendingJob(kernel.NewUUID(), 41.0, 29.0)
	cmd, _ := commands.NewAcceptJobCommand(pickup.ID(), worker.ID())

	jobRepo := new(MockJobRepository)
	collectorRepo := new(MockCollectorRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		uow.On("CollectorRepository").Return(collectorRepo).Once(),
		collectorRepo.On("Get", ctx, worker.ID()).Return(worker, nil).Once(),
		jobRepo.On("Get", ctx, pickup.ID()).Return(pickup, nil).Once(),
		jobRepo.On("TransitionIfCurrent", ctx, pickup, mock.AnythingOfType("job.Transition")).
			Return(errs.NewConflictError("job", pickup.ID().String())).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewAcceptJobCommandHandler(factory, fixedClock(), commands.LifecyclePolicy{})
	_, err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestAcceptJobCommandHandler_Handle_SingleActiveJob(t *testing.T) {
	ctx := t.Context()
	worker := newLocatedCollector(41.01, 29.01)
	pickup := newPendingJob(kernel.NewUUID(), 41.0, 29.0)
	cmd, _ := commands.NewAcceptJobCommand(pickup.ID(), worker.ID())

	jobRepo := new(MockJobRepository)
	collectorRepo := new(MockCollectorRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(jobRepo).Once(),
		uow.On("CollectorRepository").Return(collectorRepo).Once(),
		collectorRepo.On("Get", ctx, worker.ID()).Return(worker, nil).Once(),
		jobRepo.On("Get", ctx, pickup.ID()).Return(pickup, nil).Once(),
		jobRepo.On("CountActiveByCollector", ctx, worker.ID()).Return(int64(1), nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewAcceptJobCommandHandler(factory, fixedClock(), commands.LifecyclePolicy{SingleActiveJob: true})
	_, err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidState)
	require.ErrorIs(t, err, commands.ErrCollectorHasActiveJob)
	assert.Equal(t, job.Pending, pickup.Status())
}

func TestAcceptJobCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewAcceptJobCommand(kernel.NewUUID(), kernel.NewUUID())

	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	handler := commands.NewAcceptJobCommandHandler(factory, fixedClock(), commands.LifecyclePolicy{})
	_, err := handler.Handle(ctx, cmd)

	require.EqualError(t, err, "begin error")
}
