package cvs

import "context"

// Repo defines persistence operations for CV records.
//
// CreateChunk commits all records as one unit; either every record in the
// chunk is persisted or none are. FindNonDuplicatesByCreation and
// FindAllByCreation return records in creation order so earlier submissions
// are preferred as duplicate originals.
type Repo interface {
	Create(ctx context.Context, cv *CV) error
	CreateChunk(ctx context.Context, chunk []*CV) error
	Update(ctx context.Context, cv *CV) error
	GetByID(ctx context.Context, id string) (CV, error)
	Delete(ctx context.Context, id string) error

	FindByStatus(ctx context.Context, status Status, limit, offset int) ([]CV, error)
	Search(ctx context.Context, query string, status Status, limit, offset int) ([]CV, error)
	FindByBatchID(ctx context.Context, batchID string) ([]CV, error)
	FindByEmail(ctx context.Context, email string) ([]CV, error)
	FindNonDuplicatesByCreation(ctx context.Context) ([]CV, error)
	FindAllByCreation(ctx context.Context) ([]CV, error)

	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
}
