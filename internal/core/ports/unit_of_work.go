package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary over both repositories.
type UnitOfWork interface {
	// Begin starts a transaction. Calling it twice is a no-op.
	Begin(ctx context.Context) error

	// Commit commits the transaction, or fails if none is active.
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction, or fails if none is active.
	Rollback(ctx context.Context) error

	// JobRepository returns a repository bound to the current transaction.
	JobRepository() JobRepository

	// CollectorRepository returns a repository bound to the current transaction.
	CollectorRepository() CollectorRepository
}
