package main

import (
	"log"

	"prompt-library-be/internal/config"
	"prompt-library-be/internal/model"
	"prompt-library-be/pkg/database"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func main() {
	cfg := config.Load()

	db, err := database.NewGormDB(database.NewGormConfig(cfg))
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal("Error: ", err)
	}

	log.Println("Seeding lookups...")
	tools := []model.AiTool{
		{Name: "ChatGPT", ColorHex: strPtr("#10A37F")},
		{Name: "Claude", ColorHex: strPtr("#D97757")},
		{Name: "Midjourney", ColorHex: strPtr("#5865F2")},
	}
	categories := []model.Category{
		{Name: "Writing"},
		{Name: "Coding"},
		{Name: "Images"},
	}
	sources := []model.Source{
		{Name: "Community"},
		{Name: "Documentation"},
	}
	// Existing names are left alone so the seed can be rerun.
	onName := clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}
	for _, rows := range []interface{}{&tools, &categories, &sources} {
		if err := db.Clauses(onName).Create(rows).Error; err != nil {
			log.Fatal("Error: Failed to seed lookups:", err)
		}
	}

	var count int64
	db.Model(&model.Prompt{}).Count(&count)
	if count > 0 {
		log.Printf("Prompts already present (%d), skipping sample prompts", count)
		return
	}

	log.Println("Seeding sample prompts...")
	if err := seedPrompts(db); err != nil {
		log.Fatal("Error: Failed to seed prompts:", err)
	}
	log.Println("Seeding completed!")
}

func seedPrompts(db *gorm.DB) error {
	var chatgpt, claude model.AiTool
	if err := db.Where("name = ?", "ChatGPT").First(&chatgpt).Error; err != nil {
		return err
	}
	if err := db.Where("name = ?", "Claude").First(&claude).Error; err != nil {
		return err
	}
	var writing, coding model.Category
	if err := db.Where("name = ?", "Writing").First(&writing).Error; err != nil {
		return err
	}
	if err := db.Where("name = ?", "Coding").First(&coding).Error; err != nil {
		return err
	}

	prompts := []model.Prompt{
		{
			Title: "Cold outreach email", PromptText: "Write a short cold email introducing our product to a CTO.",
			Rating: intPtr(5), OutputStatus: strPtr("successful"), Tags: pq.StringArray{"email", "sales"},
			AiToolId: &claude.Id, CategoryId: &writing.Id,
		},
		{
			Title: "Refactor to table tests", PromptText: "Rewrite these Go tests as table driven tests.",
			Rating: intPtr(4), OutputStatus: strPtr("so-so"), Tags: pq.StringArray{"go", "testing"},
			AiToolId: &claude.Id, CategoryId: &coding.Id,
		},
		{
			Title: "Blog outline", PromptText: "Outline a blog post about database migrations.",
			Rating: intPtr(3), OutputStatus: strPtr("failed"), Tags: pq.StringArray{"blog"},
			AiToolId: &chatgpt.Id, CategoryId: &writing.Id,
		},
	}
	return db.Create(&prompts).Error
}
