package dto

import "time"

// Optional marks whether a request carried a field at all, so PATCH can tell
// "leave alone" from "clear".
type Optional[T any] struct {
	Set   bool
	Value T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// PromptInput is the decoded create/update payload. Nil pointer values clear a column.
type PromptInput struct {
	Title            Optional[string]
	PromptText       Optional[string]
	OutputText       Optional[*string]
	Rating           Optional[*int]
	OutputStatus     Optional[*string]
	Tags             Optional[[]string]
	CreditsUsed      Optional[*float64]
	AiToolModel      Optional[*string]
	AiToolId         Optional[*uint]
	CategoryId       Optional[*uint]
	TypeId           Optional[*uint]
	SourceId         Optional[*uint]
	ParentPromptId   Optional[*uint]
	RemoveAttachment bool
}

type PromptSummaryResponse struct {
	Id                 uint      `json:"id"`
	Title              string    `json:"title"`
	PromptText         string    `json:"prompt_text"`
	Rating             *int      `json:"rating"`
	OutputStatus       *string   `json:"output_status"`
	Tags               []string  `json:"tags"`
	IsFavorite         bool      `json:"is_favorite"`
	UsageCount         int       `json:"usage_count"`
	AttachmentFilename *string   `json:"attachment_filename"`
	AiToolId           *uint     `json:"ai_tool_id"`
	CategoryId         *uint     `json:"category_id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	AiToolName         *string   `json:"ai_tool_name"`
	AiToolColor        *string   `json:"ai_tool_color"`
	CategoryName       *string   `json:"category_name"`
	CategoryImage      *string   `json:"category_image"`
}

type PromptResponse struct {
	Id                 uint      `json:"id"`
	Title              string    `json:"title"`
	PromptText         string    `json:"prompt_text"`
	OutputText         *string   `json:"output_text"`
	Rating             *int      `json:"rating"`
	OutputStatus       *string   `json:"output_status"`
	Tags               []string  `json:"tags"`
	CreditsUsed        *float64  `json:"credits_used"`
	AttachmentFilename *string   `json:"attachment_filename"`
	IsFavorite         bool      `json:"is_favorite"`
	UsageCount         int       `json:"usage_count"`
	AiToolModel        *string   `json:"ai_tool_model"`
	Version            int       `json:"version"`
	AiToolId           *uint     `json:"ai_tool_id"`
	CategoryId         *uint     `json:"category_id"`
	TypeId             *uint     `json:"type_id"`
	SourceId           *uint     `json:"source_id"`
	ParentPromptId     *uint     `json:"parent_prompt_id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// PromptVersionResponse is a child prompt created from this one.
type PromptVersionResponse struct {
	Id        uint      `json:"id"`
	Title     string    `json:"title"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

type PromptDetailResponse struct {
	PromptResponse
	AiToolName        *string                 `json:"ai_tool_name"`
	AiToolColor       *string                 `json:"ai_tool_color"`
	CategoryName      *string                 `json:"category_name"`
	CategoryImage     *string                 `json:"category_image"`
	TypeName          *string                 `json:"type_name"`
	SourceName        *string                 `json:"source_name"`
	ParentPromptTitle *string                 `json:"parent_prompt_title"`
	Versions          []PromptVersionResponse `json:"versions"`
}

type FavoriteRequest struct {
	IsFavorite *bool `json:"is_favorite"`
}

type FavoriteResponse struct {
	Id         uint `json:"id"`
	IsFavorite bool `json:"is_favorite"`
}

type ViewResponse struct {
	Id         uint `json:"id"`
	UsageCount int  `json:"usage_count"`
}

type BulkDeleteRequest struct {
	Ids []uint `json:"ids" validate:"required,min=1,dive,gt=0"`
}

type BulkDeleteResponse struct {
	Deleted int64 `json:"deleted"`
}
