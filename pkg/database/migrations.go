package database

import (
	"fmt"

	"prompt-library-be/internal/model"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// DefaultPromptTypes are the types the UI expects to exist. "Sourced" gates the source field.
var DefaultPromptTypes = []string{"My Prompt", "Sourced"}

func execAll(tx *gorm.DB, statements []string) error {
	for _, s := range statements {
		if err := tx.Exec(s).Error; err != nil {
			return err
		}
	}
	return nil
}

func migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		// 001: lookup tables first so the prompt foreign keys have targets
		{
			ID: "001_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&model.AiTool{},
					&model.Category{},
					&model.PromptType{},
					&model.Source{},
					&model.Prompt{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("prompts", "sources", "prompt_types", "categories", "ai_tools")
			},
		},

		// 002: deleting a lookup or a parent leaves prompts in place with the link cleared
		{
			ID: "002_prompt_foreign_keys",
			Migrate: func(tx *gorm.DB) error {
				return execAll(tx, []string{
					`ALTER TABLE prompts ADD CONSTRAINT fk_prompts_ai_tool
						FOREIGN KEY (ai_tool_id) REFERENCES ai_tools(id) ON DELETE SET NULL`,
					`ALTER TABLE prompts ADD CONSTRAINT fk_prompts_category
						FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE SET NULL`,
					`ALTER TABLE prompts ADD CONSTRAINT fk_prompts_type
						FOREIGN KEY (type_id) REFERENCES prompt_types(id) ON DELETE SET NULL`,
					`ALTER TABLE prompts ADD CONSTRAINT fk_prompts_source
						FOREIGN KEY (source_id) REFERENCES sources(id) ON DELETE SET NULL`,
					`ALTER TABLE prompts ADD CONSTRAINT fk_prompts_parent
						FOREIGN KEY (parent_prompt_id) REFERENCES prompts(id) ON DELETE SET NULL`,
				})
			},
			Rollback: func(tx *gorm.DB) error {
				return execAll(tx, []string{
					`ALTER TABLE prompts DROP CONSTRAINT IF EXISTS fk_prompts_parent`,
					`ALTER TABLE prompts DROP CONSTRAINT IF EXISTS fk_prompts_source`,
					`ALTER TABLE prompts DROP CONSTRAINT IF EXISTS fk_prompts_type`,
					`ALTER TABLE prompts DROP CONSTRAINT IF EXISTS fk_prompts_category`,
					`ALTER TABLE prompts DROP CONSTRAINT IF EXISTS fk_prompts_ai_tool`,
				})
			},
		},

		// 003: value checks the service also enforces
		{
			ID: "003_prompt_checks",
			Migrate: func(tx *gorm.DB) error {
				return execAll(tx, []string{
					`ALTER TABLE prompts ADD CONSTRAINT chk_prompts_rating
						CHECK (rating IS NULL OR rating BETWEEN 0 AND 5)`,
					`ALTER TABLE prompts ADD CONSTRAINT chk_prompts_output_status
						CHECK (output_status IS NULL OR output_status IN ('successful', 'so-so', 'failed'))`,
					`ALTER TABLE prompts ADD CONSTRAINT chk_prompts_not_own_parent
						CHECK (parent_prompt_id IS NULL OR parent_prompt_id <> id)`,
				})
			},
			Rollback: func(tx *gorm.DB) error {
				return execAll(tx, []string{
					`ALTER TABLE prompts DROP CONSTRAINT IF EXISTS chk_prompts_not_own_parent`,
					`ALTER TABLE prompts DROP CONSTRAINT IF EXISTS chk_prompts_output_status`,
					`ALTER TABLE prompts DROP CONSTRAINT IF EXISTS chk_prompts_rating`,
				})
			},
		},

		// 004: default prompt types
		{
			ID: "004_default_prompt_types",
			Migrate: func(tx *gorm.DB) error {
				for _, name := range DefaultPromptTypes {
					if err := tx.Exec(`INSERT INTO prompt_types (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, name).Error; err != nil {
						return err
					}
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Exec(`DELETE FROM prompt_types WHERE name IN ?`, DefaultPromptTypes).Error
			},
		},
	}
}

// Migrate applies every pending migration.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations())
	if err := m.Migrate(); err != nil {
		return fmt.Errorf("run gormigrate migrations: %w", err)
	}
	return nil
}

// RollbackLast reverts the most recent migration.
func RollbackLast(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations())
	if err := m.RollbackLast(); err != nil {
		return fmt.Errorf("rollback last migration: %w", err)
	}
	return nil
}
