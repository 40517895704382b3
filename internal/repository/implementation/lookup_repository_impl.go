package implementation

import (
	"context"
	"errors"

	"prompt-library-be/internal/entity"
	"prompt-library-be/internal/mapper"
	"prompt-library-be/internal/model"
	"prompt-library-be/internal/repository/contract"
	"prompt-library-be/internal/repository/specification"

	"gorm.io/gorm"
)

// LookupRepositoryImpl serves all four lookup tables. M is the gorm model, E the entity.
type LookupRepositoryImpl[M any, E contract.LookupEntity] struct {
	db       *gorm.DB
	toEntity func(*M) *E
	toModel  func(*E) *M
}

func NewAiToolRepository(db *gorm.DB) contract.AiToolRepository {
	m := mapper.NewLookupMapper()
	return &LookupRepositoryImpl[model.AiTool, entity.AiTool]{
		db: db, toEntity: m.AiToolToEntity, toModel: m.AiToolToModel,
	}
}

func NewCategoryRepository(db *gorm.DB) contract.CategoryRepository {
	m := mapper.NewLookupMapper()
	return &LookupRepositoryImpl[model.Category, entity.Category]{
		db: db, toEntity: m.CategoryToEntity, toModel: m.CategoryToModel,
	}
}

func NewPromptTypeRepository(db *gorm.DB) contract.PromptTypeRepository {
	m := mapper.NewLookupMapper()
	return &LookupRepositoryImpl[model.PromptType, entity.PromptType]{
		db: db, toEntity: m.PromptTypeToEntity, toModel: m.PromptTypeToModel,
	}
}

func NewSourceRepository(db *gorm.DB) contract.SourceRepository {
	m := mapper.NewLookupMapper()
	return &LookupRepositoryImpl[model.Source, entity.Source]{
		db: db, toEntity: m.SourceToEntity, toModel: m.SourceToModel,
	}
}

func (r *LookupRepositoryImpl[M, E]) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	return specification.Specs(specs).Apply(db)
}

func (r *LookupRepositoryImpl[M, E]) Create(ctx context.Context, e *E) error {
	m := r.toModel(e)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*e = *r.toEntity(m)
	return nil
}

// Update writes every column of an existing row. Callers check existence first.
func (r *LookupRepositoryImpl[M, E]) Update(ctx context.Context, e *E) error {
	m := r.toModel(e)
	if err := r.db.WithContext(ctx).Model(m).Select("*").Updates(m).Error; err != nil {
		return translateError(err)
	}
	*e = *r.toEntity(m)
	return nil
}

func (r *LookupRepositoryImpl[M, E]) Delete(ctx context.Context, id uint) (bool, error) {
	var m M
	res := r.db.WithContext(ctx).Delete(&m, id)
	if res.Error != nil {
		return false, translateError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *LookupRepositoryImpl[M, E]) FindOne(ctx context.Context, specs ...specification.Specification) (*E, error) {
	var m M
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&m), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *LookupRepositoryImpl[M, E]) FindAll(ctx context.Context, specs ...specification.Specification) ([]*E, error) {
	var models []*M
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*E, 0, len(models))
	for _, m := range models {
		out = append(out, r.toEntity(m))
	}
	return out, nil
}
