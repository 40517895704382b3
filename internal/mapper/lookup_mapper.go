package mapper

import (
	"prompt-library-be/internal/entity"
	"prompt-library-be/internal/model"
)

// LookupMapper converts the four lookup tables. They share no behaviour beyond shape,
// so each gets a plain pair of functions.
type LookupMapper struct{}

func NewLookupMapper() *LookupMapper {
	return &LookupMapper{}
}

func (m *LookupMapper) AiToolToEntity(t *model.AiTool) *entity.AiTool {
	return &entity.AiTool{Id: t.Id, Name: t.Name, ColorHex: t.ColorHex}
}

func (m *LookupMapper) AiToolToModel(t *entity.AiTool) *model.AiTool {
	return &model.AiTool{Id: t.Id, Name: t.Name, ColorHex: t.ColorHex}
}

func (m *LookupMapper) CategoryToEntity(c *model.Category) *entity.Category {
	return &entity.Category{Id: c.Id, Name: c.Name, ImageURL: c.ImageURL}
}

func (m *LookupMapper) CategoryToModel(c *entity.Category) *model.Category {
	return &model.Category{Id: c.Id, Name: c.Name, ImageURL: c.ImageURL}
}

func (m *LookupMapper) PromptTypeToEntity(t *model.PromptType) *entity.PromptType {
	return &entity.PromptType{Id: t.Id, Name: t.Name}
}

func (m *LookupMapper) PromptTypeToModel(t *entity.PromptType) *model.PromptType {
	return &model.PromptType{Id: t.Id, Name: t.Name}
}

func (m *LookupMapper) SourceToEntity(s *model.Source) *entity.Source {
	return &entity.Source{Id: s.Id, Name: s.Name}
}

func (m *LookupMapper) SourceToModel(s *entity.Source) *model.Source {
	return &model.Source{Id: s.Id, Name: s.Name}
}
