package model

type AiTool struct {
	Id       uint    `gorm:"primaryKey"`
	Name     string  `gorm:"type:varchar(100);not null;uniqueIndex"`
	ColorHex *string `gorm:"type:varchar(7)"`
}

func (AiTool) TableName() string {
	return "ai_tools"
}

type Category struct {
	Id       uint    `gorm:"primaryKey"`
	Name     string  `gorm:"type:varchar(100);not null;uniqueIndex"`
	ImageURL *string `gorm:"column:image_url;type:text"`
}

func (Category) TableName() string {
	return "categories"
}

type PromptType struct {
	Id   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

func (PromptType) TableName() string {
	return "prompt_types"
}

type Source struct {
	Id   uint   `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

func (Source) TableName() string {
	return "sources"
}
