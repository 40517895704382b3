package contract

import (
	"context"

	"prompt-library-be/internal/entity"
	"prompt-library-be/internal/repository/specification"
)

type PromptRepository interface {
	// List runs the filtered library query; all matching rows are returned.
	List(ctx context.Context, filter specification.PromptFilter) ([]*entity.PromptSummary, error)
	FindDetail(ctx context.Context, id uint) (*entity.PromptDetail, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Prompt, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Prompt, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	Create(ctx context.Context, prompt *entity.Prompt) error
	Update(ctx context.Context, prompt *entity.Prompt) error
	Delete(ctx context.Context, id uint) (bool, error)
	DeleteMany(ctx context.Context, ids []uint) (int64, error)

	// SetFavorite and ToggleFavorite return the stored flag; found is false for unknown ids.
	SetFavorite(ctx context.Context, id uint, favorite bool) (value bool, found bool, err error)
	ToggleFavorite(ctx context.Context, id uint) (value bool, found bool, err error)
	// IncrementUsage adds one in a single statement and returns the new count.
	IncrementUsage(ctx context.Context, id uint) (count int, found bool, err error)
	// ParentChain walks parent_prompt_id upwards from id, at most maxDepth links.
	ParentChain(ctx context.Context, id uint, maxDepth int) ([]uint, error)

	AverageRating(ctx context.Context) (float64, error)
	TotalUsage(ctx context.Context) (int64, error)
	CountByTool(ctx context.Context) ([]*entity.CountBucket, error)
	CountByCategory(ctx context.Context) ([]*entity.CountBucket, error)
	CountByStatus(ctx context.Context) ([]*entity.CountBucket, error)
}
