package memory

import (
	"context"
	"errors"

	"pickup/internal/core/ports"
)

// ErrInvalidTransaction is returned by Commit and Rollback outside Begin.
var ErrInvalidTransaction = errors.New("no active transaction")

type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork gives the memory store the transaction shape of the postgres adapter.
// Writes are applied to the store as they happen; every command performs at most
// one write, and the guarded transition is atomic on its own, so nothing is left
// to undo on Rollback.
type UnitOfWork struct {
	store  *Store
	active bool
}

func (uow *UnitOfWork) Begin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	uow.active = true
	return nil
}

func (uow *UnitOfWork) Commit(_ context.Context) error {
	if !uow.active {
		return ErrInvalidTransaction
	}
	uow.active = false
	return nil
}

func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if !uow.active {
		return ErrInvalidTransaction
	}
	uow.active = false
	return nil
}

func (uow *UnitOfWork) JobRepository() ports.JobRepository {
	return NewJobRepository(uow.store)
}

func (uow *UnitOfWork) CollectorRepository() ports.CollectorRepository {
	return NewCollectorRepository(uow.store)
}
