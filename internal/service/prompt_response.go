package service

import (
	"prompt-library-be/internal/dto"
	"prompt-library-be/internal/entity"
)

func statusString(s *entity.OutputStatus) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func toPromptResponse(p *entity.Prompt) *dto.PromptResponse {
	return &dto.PromptResponse{
		Id:                 p.Id,
		Title:              p.Title,
		PromptText:         p.PromptText,
		OutputText:         p.OutputText,
		Rating:             p.Rating,
		OutputStatus:       statusString(p.OutputStatus),
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

func toSummaryResponse(p *entity.PromptSummary) *dto.PromptSummaryResponse {
	return &dto.PromptSummaryResponse{
		Id:                 p.Id,
		Title:              p.Title,
		PromptText:         p.PromptText,
		Rating:             p.Rating,
		OutputStatus:       statusString(p.OutputStatus),
		Tags:               tagsOrEmpty(p.Tags),
		IsFavorite:         p.IsFavorite,
		UsageCount:         p.UsageCount,
		AttachmentFilename: p.AttachmentFilename,
		AiToolId:           p.AiToolId,
		CategoryId:         p.CategoryId,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
		AiToolName:         p.AiToolName,
		AiToolColor:        p.AiToolColor,
		CategoryName:       p.CategoryName,
		CategoryImage:      p.CategoryImage,
	}
}

func toDetailResponse(d *entity.PromptDetail, children []*entity.Prompt) *dto.PromptDetailResponse {
	versions := make([]dto.PromptVersionResponse, 0, len(children))
	for _, c := range children {
		versions = append(versions, dto.PromptVersionResponse{
			Id:        c.Id,
			Title:     c.Title,
			Version:   c.Version,
			CreatedAt: c.CreatedAt,
		})
	}
	return &dto.PromptDetailResponse{
		PromptResponse:    *toPromptResponse(&d.Prompt),
		AiToolName:        d.AiToolName,
		AiToolColor:       d.AiToolColor,
		CategoryName:      d.CategoryName,
		CategoryImage:     d.CategoryImage,
		TypeName:          d.TypeName,
		SourceName:        d.SourceName,
		ParentPromptTitle: d.ParentPromptTitle,
		Versions:          versions,
	}
}
