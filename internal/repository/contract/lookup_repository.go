package contract

import (
	"context"

	"prompt-library-be/internal/entity"
	"prompt-library-be/internal/repository/specification"
)

// LookupEntity is one of the admin-managed reference tables.
type LookupEntity interface {
	entity.AiTool | entity.Category | entity.PromptType | entity.Source
}

type LookupRepository[E LookupEntity] interface {
	Create(ctx context.Context, e *E) error
	Update(ctx context.Context, e *E) error
	Delete(ctx context.Context, id uint) (bool, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*E, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*E, error)
}

type AiToolRepository = LookupRepository[entity.AiTool]
type CategoryRepository = LookupRepository[entity.Category]
type PromptTypeRepository = LookupRepository[entity.PromptType]
type SourceRepository = LookupRepository[entity.Source]
