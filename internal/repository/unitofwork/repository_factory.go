package unitofwork

import "context"

// RepositoryFactory hands out a fresh unit of work per operation. Services never
// share one across requests.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
