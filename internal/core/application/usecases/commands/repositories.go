// Package commands contains the operations that change job and collector state.
// Every command is a guarded value built by its constructor and executed by a handler
// that owns one unit of work: validate, begin, load, apply the domain transition,
// persist through the guarded store, commit.
package commands

import (
	"context"

	"pickup/internal/core/ports"
)

// Unit of Work interfaces narrowed to what each handler touches.
type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// JobRepoFactory provides the job repository within a transaction.
	JobRepoFactory interface {
		JobRepository() ports.JobRepository
	}

	// CollectorRepoFactory provides the collector repository within a transaction.
	CollectorRepoFactory interface {
		CollectorRepository() ports.CollectorRepository
	}

	// JobUoW is used by commands that only touch jobs.
	JobUoW interface {
		TxManager
		JobRepoFactory
	}

	JobUoWFactory interface {
		Create() JobUoW
	}

	// CollectorUoW is used by commands that only touch collectors.
	CollectorUoW interface {
		TxManager
		CollectorRepoFactory
	}

	CollectorUoWFactory interface {
		Create() CollectorUoW
	}

	// UoW spans both aggregates, e.g. accepting a job for a collector that must exist.
	//
	//	uow := factory.Create()
	//	if err := uow.Begin(ctx); err != nil {
	//	    return err
	//	}
	//	defer func() { _ = uow.Rollback(ctx) }()
	//	...
	//	return uow.Commit(ctx)
	UoW interface {
		TxManager
		JobRepoFactory
		CollectorRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
