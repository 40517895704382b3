package unitofwork

import (
	"context"

	"prompt-library-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	PromptRepository() contract.PromptRepository
	AiToolRepository() contract.AiToolRepository
	CategoryRepository() contract.CategoryRepository
	PromptTypeRepository() contract.PromptTypeRepository
	SourceRepository() contract.SourceRepository
}
