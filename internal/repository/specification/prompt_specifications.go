package specification

import "gorm.io/gorm"

type FavoritesOnly struct{}

func (s FavoritesOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_favorite = ?", true)
}

type ByParentPromptID struct {
	ParentID uint
}

func (s ByParentPromptID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("parent_prompt_id = ?", s.ParentID)
}

type ByAttachment struct {
	Filename string
}

func (s ByAttachment) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("attachment_filename = ?", s.Filename)
}
