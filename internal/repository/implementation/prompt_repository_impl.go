package implementation

import (
	"context"
	"database/sql"
	"errors"

	"prompt-library-be/internal/entity"
	"prompt-library-be/internal/mapper"
	"prompt-library-be/internal/model"
	"prompt-library-be/internal/repository/contract"
	"prompt-library-be/internal/repository/specification"

	"gorm.io/gorm"
)

const promptDetailSQL = `SELECT p.*,
	t.name AS ai_tool_name, t.color_hex AS ai_tool_color,
	c.name AS category_name, c.image_url AS category_image,
	pt.name AS type_name, s.name AS source_name,
	parent.title AS parent_prompt_title
FROM prompts p
LEFT JOIN ai_tools t ON p.ai_tool_id = t.id
LEFT JOIN categories c ON p.category_id = c.id
LEFT JOIN prompt_types pt ON p.type_id = pt.id
LEFT JOIN sources s ON p.source_id = s.id
LEFT JOIN prompts parent ON p.parent_prompt_id = parent.id
WHERE p.id = ?`

type PromptRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PromptMapper
}

func NewPromptRepository(db *gorm.DB) contract.PromptRepository {
	return &PromptRepositoryImpl{
		db:     db,
		mapper: mapper.NewPromptMapper(),
	}
}

func (r *PromptRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	return specification.Specs(specs).Apply(db)
}

func (r *PromptRepositoryImpl) List(ctx context.Context, filter specification.PromptFilter) ([]*entity.PromptSummary, error) {
	query, args := specification.BuildPromptListQuery(filter).SQL()

	// The statement is already in $n form, so it goes straight to the pool
	// (or the open transaction) rather than through gorm's '?' binding.
	db := r.db.WithContext(ctx)
	rows, err := db.Statement.ConnPool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*model.PromptSummaryRow, 0)
	for rows.Next() {
		var row model.PromptSummaryRow
		if err := db.ScanRows(rows, &row); err != nil {
			return nil, err
		}
		result = append(result, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return r.mapper.SummariesToEntities(result), nil
}

func (r *PromptRepositoryImpl) FindDetail(ctx context.Context, id uint) (*entity.PromptDetail, error) {
	var row model.PromptDetailRow
	res := r.db.WithContext(ctx).Raw(promptDetailSQL, id).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.mapper.DetailToEntity(&row), nil
}

func (r *PromptRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Prompt, error) {
	var m model.Prompt
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PromptRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Prompt, error) {
	var models []*model.Prompt
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *PromptRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Prompt{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PromptRepositoryImpl) Create(ctx context.Context, prompt *entity.Prompt) error {
	m := r.mapper.ToModel(prompt)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*prompt = *r.mapper.ToEntity(m)
	return nil
}

func (r *PromptRepositoryImpl) Update(ctx context.Context, prompt *entity.Prompt) error {
	m := r.mapper.ToModel(prompt)
	// Save writes every column, so cleared pointers become NULL.
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return translateError(err)
	}
	*prompt = *r.mapper.ToEntity(m)
	return nil
}

func (r *PromptRepositoryImpl) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Prompt{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PromptRepositoryImpl) DeleteMany(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Prompt{})
	return res.RowsAffected, res.Error
}

func (r *PromptRepositoryImpl) SetFavorite(ctx context.Context, id uint, favorite bool) (bool, bool, error) {
	return r.returningFavorite(ctx,
		"UPDATE prompts SET is_favorite = ?, updated_at = NOW() WHERE id = ? RETURNING is_favorite", favorite, id)
}

func (r *PromptRepositoryImpl) ToggleFavorite(ctx context.Context, id uint) (bool, bool, error) {
	return r.returningFavorite(ctx,
		"UPDATE prompts SET is_favorite = NOT is_favorite, updated_at = NOW() WHERE id = ? RETURNING is_favorite", id)
}

func (r *PromptRepositoryImpl) returningFavorite(ctx context.Context, statement string, args ...interface{}) (bool, bool, error) {
	var out struct{ IsFavorite bool }
	res := r.db.WithContext(ctx).Raw(statement, args...).Scan(&out)
	if res.Error != nil {
		return false, false, res.Error
	}
	return out.IsFavorite, res.RowsAffected > 0, nil
}

func (r *PromptRepositoryImpl) IncrementUsage(ctx context.Context, id uint) (int, bool, error) {
	var out struct{ UsageCount int }
	res := r.db.WithContext(ctx).
		Raw("UPDATE prompts SET usage_count = usage_count + 1 WHERE id = ? RETURNING usage_count", id).
		Scan(&out)
	if res.Error != nil {
		return 0, false, res.Error
	}
	return out.UsageCount, res.RowsAffected > 0, nil
}

func (r *PromptRepositoryImpl) ParentChain(ctx context.Context, id uint, maxDepth int) ([]uint, error) {
	chain := make([]uint, 0, maxDepth)
	current := id
	for i := 0; i < maxDepth; i++ {
		var m model.Prompt
		err := r.db.WithContext(ctx).Select("id", "parent_prompt_id").First(&m, current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		if m.ParentPromptId == nil {
			break
		}
		chain = append(chain, *m.ParentPromptId)
		current = *m.ParentPromptId
	}
	return chain, nil
}

func (r *PromptRepositoryImpl) AverageRating(ctx context.Context) (float64, error) {
	var avg sql.NullFloat64
	err := r.db.WithContext(ctx).Model(&model.Prompt{}).
		Select("AVG(rating)").Where("rating IS NOT NULL").Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	return avg.Float64, nil
}

func (r *PromptRepositoryImpl) TotalUsage(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Prompt{}).
		Select("COALESCE(SUM(usage_count), 0)").Scan(&total).Error
	return total, err
}

func (r *PromptRepositoryImpl) CountByTool(ctx context.Context) ([]*entity.CountBucket, error) {
	return r.countBy(ctx,
		"t.name AS label, t.color_hex AS color, COUNT(p.id) AS count",
		"LEFT JOIN ai_tools t ON p.ai_tool_id = t.id",
		"t.name, t.color_hex", "Unassigned")
}

func (r *PromptRepositoryImpl) CountByCategory(ctx context.Context) ([]*entity.CountBucket, error) {
	return r.countBy(ctx,
		"c.name AS label, NULL AS color, COUNT(p.id) AS count",
		"LEFT JOIN categories c ON p.category_id = c.id",
		"c.name", "Uncategorized")
}

func (r *PromptRepositoryImpl) CountByStatus(ctx context.Context) ([]*entity.CountBucket, error) {
	return r.countBy(ctx,
		"p.output_status AS label, NULL AS color, COUNT(p.id) AS count",
		"", "p.output_status", "unknown")
}

func (r *PromptRepositoryImpl) countBy(ctx context.Context, selectSQL, joinSQL, groupSQL, unknown string) ([]*entity.CountBucket, error) {
	var rows []*model.CountRow
	query := r.db.WithContext(ctx).Table("prompts AS p").Select(selectSQL)
	if joinSQL != "" {
		query = query.Joins(joinSQL)
	}
	if err := query.Group(groupSQL).Order("COUNT(p.id) DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.CountsToEntities(rows, unknown), nil
}
