package model

import (
	"time"

	"github.com/lib/pq"
)

type Prompt struct {
	Id                 uint           `gorm:"primaryKey"`
	Title              string         `gorm:"type:varchar(255);not null"`
	PromptText         string         `gorm:"type:text;not null"`
	OutputText         *string        `gorm:"type:text"`
	Rating             *int           `gorm:"type:smallint"`
	OutputStatus       *string        `gorm:"type:varchar(20)"`
	Tags               pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	CreditsUsed        *float64       `gorm:"type:numeric(10,2)"`
	AttachmentFilename *string        `gorm:"type:varchar(255)"`
	IsFavorite         bool           `gorm:"not null;default:false;index"`
	UsageCount         int            `gorm:"not null;default:0"`
	AiToolModel        *string        `gorm:"type:varchar(100)"`
	Version            int            `gorm:"not null;default:1"`
	AiToolId           *uint          `gorm:"index"`
	CategoryId         *uint          `gorm:"index"`
	TypeId             *uint          `gorm:"index"`
	SourceId           *uint          `gorm:"index"`
	ParentPromptId     *uint          `gorm:"index"`
	CreatedAt          time.Time      `gorm:"autoCreateTime;index"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime"`
}

func (Prompt) TableName() string {
	return "prompts"
}

// PromptSummaryRow is one row of the filtered library listing.
type PromptSummaryRow struct {
	Id                 uint
	Title              string
	PromptText         string
	Rating             *int
	OutputStatus       *string
	Tags               pq.StringArray
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

// PromptDetailRow is a prompt denormalized with every lookup plus its parent title.
type PromptDetailRow struct {
	Prompt
	AiToolName        *string
	AiToolColor       *string
	CategoryName      *string
	CategoryImage     *string
	TypeName          *string
	SourceName        *string
	ParentPromptTitle *string
}

// CountRow is a labelled aggregate bucket.
type CountRow struct {
	Label *string
	Color *string
	Count int64
}
