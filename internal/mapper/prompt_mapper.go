package mapper

import (
	"prompt-library-be/internal/entity"
	"prompt-library-be/internal/model"

	"github.com/lib/pq"
)

type PromptMapper struct{}

func NewPromptMapper() *PromptMapper {
	return &PromptMapper{}
}

func (m *PromptMapper) ToEntity(p *model.Prompt) *entity.Prompt {
	if p == nil {
		return nil
	}
	return &entity.Prompt{
		Id:                 p.Id,
		Title:              p.Title,
		PromptText:         p.PromptText,
		OutputText:         p.OutputText,
		Rating:             p.Rating,
		OutputStatus:       toOutputStatus(p.OutputStatus),
		Tags:               tagsOrEmpty(p.Tags),
		CreditsUsed:        p.CreditsUsed,
		AttachmentFilename: p.AttachmentFilename,
		IsFavorite:         p.IsFavorite,
		UsageCount:         p.UsageCount,
		AiToolModel:        p.AiToolModel,
		Version:            p.Version,
		AiToolId:           p.AiToolId,
		CategoryId:         p.CategoryId,
		TypeId:             p.TypeId,
		SourceId:           p.SourceId,
		ParentPromptId:     p.ParentPromptId,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func (m *PromptMapper) ToModel(p *entity.Prompt) *model.Prompt {
	if p == nil {
		return nil
	}
	var status *string
	if p.OutputStatus != nil {
		s := string(*p.OutputStatus)
		status = &s
	}
	version := p.Version
	if version < 1 {
		version = 1
	}
	return &model.Prompt{
		Id:                 p.Id,
		Title:              p.Title,
		PromptText:         p.PromptText,
		OutputText:         p.OutputText,
		Rating:             p.Rating,
		OutputStatus:       status,
		Tags:               pq.StringArray(tagsOrEmpty(p.Tags)),
		CreditsUsed:        p.CreditsUsed,
		AttachmentFilename: p.AttachmentFilename,
		IsFavorite:         p.IsFavorite,
		UsageCount:         p.UsageCount,
		AiToolModel:        p.AiToolModel,
		Version:            version,
		AiToolId:           p.AiToolId,
		CategoryId:         p.CategoryId,
		TypeId:             p.TypeId,
		SourceId:           p.SourceId,
		ParentPromptId:     p.ParentPromptId,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func (m *PromptMapper) ToEntities(prompts []*model.Prompt) []*entity.Prompt {
	entities := make([]*entity.Prompt, len(prompts))
	for i, p := range prompts {
		entities[i] = m.ToEntity(p)
	}
	return entities
}

func (m *PromptMapper) SummaryToEntity(r *model.PromptSummaryRow) *entity.PromptSummary {
	if r == nil {
		return nil
	}
	return &entity.PromptSummary{
		Id:                 r.Id,
		Title:              r.Title,
		PromptText:         r.PromptText,
		Rating:             r.Rating,
		OutputStatus:       toOutputStatus(r.OutputStatus),
		Tags:               tagsOrEmpty(r.Tags),
		IsFavorite:         r.IsFavorite,
		UsageCount:         r.UsageCount,
		AttachmentFilename: r.AttachmentFilename,
		AiToolId:           r.AiToolId,
		CategoryId:         r.CategoryId,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		AiToolName:         r.AiToolName,
		AiToolColor:        r.AiToolColor,
		CategoryName:       r.CategoryName,
		CategoryImage:      r.CategoryImage,
	}
}

func (m *PromptMapper) SummariesToEntities(rows []*model.PromptSummaryRow) []*entity.PromptSummary {
	entities := make([]*entity.PromptSummary, len(rows))
	for i, r := range rows {
		entities[i] = m.SummaryToEntity(r)
	}
	return entities
}

func (m *PromptMapper) DetailToEntity(r *model.PromptDetailRow) *entity.PromptDetail {
	if r == nil {
		return nil
	}
	return &entity.PromptDetail{
		Prompt:            *m.ToEntity(&r.Prompt),
		AiToolName:        r.AiToolName,
		AiToolColor:       r.AiToolColor,
		CategoryName:      r.CategoryName,
		CategoryImage:     r.CategoryImage,
		TypeName:          r.TypeName,
		SourceName:        r.SourceName,
		ParentPromptTitle: r.ParentPromptTitle,
	}
}

func (m *PromptMapper) CountsToEntities(rows []*model.CountRow, unknownLabel string) []*entity.CountBucket {
	buckets := make([]*entity.CountBucket, len(rows))
	for i, r := range rows {
		label := unknownLabel
		if r.Label != nil && *r.Label != "" {
			label = *r.Label
		}
		buckets[i] = &entity.CountBucket{Label: label, Color: r.Color, Count: r.Count}
	}
	return buckets
}

func toOutputStatus(s *string) *entity.OutputStatus {
	if s == nil || *s == "" {
		return nil
	}
	status := entity.OutputStatus(*s)
	return &status
}

// tagsOrEmpty keeps tags a non-nil slice so it serializes as [] rather than null.
func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
