package entity

import "time"

type OutputStatus string

const (
	OutputStatusSuccessful OutputStatus = "successful"
	OutputStatusSoSo       OutputStatus = "so-so"
	OutputStatusFailed     OutputStatus = "failed"
)

func (s OutputStatus) Valid() bool {
	switch s {
	case OutputStatusSuccessful, OutputStatusSoSo, OutputStatusFailed:
		return true
	}
	return false
}

const (
	MinRating = 0
	MaxRating = 5
)

type Prompt struct {
	Id                 uint
	Title              string
	PromptText         string
	OutputText         *string
	Rating             *int
	OutputStatus       *OutputStatus
	Tags               []string
	CreditsUsed        *float64
	AttachmentFilename *string
	IsFavorite         bool
	UsageCount         int
	AiToolModel        *string
	Version            int
	AiToolId           *uint
	CategoryId         *uint
	TypeId             *uint
	SourceId           *uint
	ParentPromptId     *uint
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// PromptSummary is the curated listing shape with tool and category display fields.
type PromptSummary struct {
	Id                 uint
	Title              string
	PromptText         string
	Rating             *int
	OutputStatus       *OutputStatus
	Tags               []string
	IsFavorite         bool
	UsageCount         int
	AttachmentFilename *string
	AiToolId           *uint
	CategoryId         *uint
	CreatedAt          time.Time
	UpdatedAt          time.Time
	AiToolName         *string
	AiToolColor        *string
	CategoryName       *string
	CategoryImage      *string
}

type PromptDetail struct {
	Prompt
	AiToolName        *string
	AiToolColor       *string
	CategoryName      *string
	CategoryImage     *string
	TypeName          *string
	SourceName        *string
	ParentPromptTitle *string
}

type CountBucket struct {
	Label string
	Color *string
	Count int64
}
