package unitofwork

import "context"

// RepositoryFactory hands out a fresh UnitOfWork per archived event.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
