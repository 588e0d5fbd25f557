package db

import (
	"log"

	"dotmd/internal/config"
	"dotmd/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Init opens the database, migrates the schema and seeds the static
// catalog. The returned handle is passed explicitly to every component
// that needs store access.
func Init(cfg config.Config) *gorm.DB {
	gdb, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	err = gdb.AutoMigrate(
		&models.User{},
		&models.Tool{},
		&models.Tag{},
		&models.FileType{},
		&models.Config{},
		&models.ConfigTool{},
		&models.ConfigTag{},
		&models.Vote{},
		&models.AnonymousVote{},
		&models.EmailSubscriber{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	initSearchIndex(gdb)
	seedCatalog(gdb)

	return gdb
}

// initSearchIndex maintains the full-text column the search endpoint
// queries. AutoMigrate cannot express generated columns, so this runs
// as idempotent raw DDL after migration.
func initSearchIndex(gdb *gorm.DB) {
	stmts := []string{
		`ALTER TABLE configs ADD COLUMN IF NOT EXISTS search_vector tsvector
			GENERATED ALWAYS AS (
				to_tsvector('english',
					coalesce(title, '') || ' ' || coalesce(description, '') || ' ' || coalesce(content, ''))
			) STORED`,
		`CREATE INDEX IF NOT EXISTS idx_configs_search_vector ON configs USING GIN (search_vector)`,
	}
	for _, stmt := range stmts {
		if err := gdb.Exec(stmt).Error; err != nil {
			log.Fatalf("Failed to create search index: %v", err)
		}
	}
}

func seedCatalog(gdb *gorm.DB) {
	var count int64
	gdb.Model(&models.Tool{}).Count(&count)
	if count > 0 {
		log.Println("Catalog already seeded, skipping")
		return
	}

	tools := []models.Tool{
		{Slug: "claude-code", Name: "Claude Code", Description: "Anthropic's agentic coding CLI", WebsiteURL: "https://claude.com/claude-code", SortOrder: 1},
		{Slug: "cursor", Name: "Cursor", Description: "AI code editor", WebsiteURL: "https://cursor.com", SortOrder: 2},
		{Slug: "github-copilot", Name: "GitHub Copilot", Description: "AI pair programmer in your editor", WebsiteURL: "https://github.com/features/copilot", SortOrder: 3},
		{Slug: "windsurf", Name: "Windsurf", Description: "Agentic IDE by Codeium", WebsiteURL: "https://windsurf.com", SortOrder: 4},
		{Slug: "aider", Name: "Aider", Description: "AI pair programming in your terminal", WebsiteURL: "https://aider.chat", SortOrder: 5},
		{Slug: "codex", Name: "Codex CLI", Description: "OpenAI's coding agent", WebsiteURL: "https://github.com/openai/codex", SortOrder: 6},
	}
	for _, tool := range tools {
		if err := gdb.Create(&tool).Error; err != nil {
			log.Printf("Failed to seed tool %s: %v", tool.Slug, err)
		}
	}

	tags := []models.Tag{
		{Slug: "react", Name: "React", Category: models.TagCategoryFramework},
		{Slug: "nextjs", Name: "Next.js", Category: models.TagCategoryFramework},
		{Slug: "django", Name: "Django", Category: models.TagCategoryFramework},
		{Slug: "rails", Name: "Rails", Category: models.TagCategoryFramework},
		{Slug: "typescript", Name: "TypeScript", Category: models.TagCategoryLanguage},
		{Slug: "python", Name: "Python", Category: models.TagCategoryLanguage},
		{Slug: "go", Name: "Go", Category: models.TagCategoryLanguage},
		{Slug: "rust", Name: "Rust", Category: models.TagCategoryLanguage},
		{Slug: "testing", Name: "Testing", Category: models.TagCategoryUseCase},
		{Slug: "code-review", Name: "Code Review", Category: models.TagCategoryUseCase},
		{Slug: "documentation", Name: "Documentation", Category: models.TagCategoryUseCase},
		{Slug: "refactoring", Name: "Refactoring", Category: models.TagCategoryUseCase},
	}
	for _, tag := range tags {
		if err := gdb.Create(&tag).Error; err != nil {
			log.Printf("Failed to seed tag %s: %v", tag.Slug, err)
		}
	}

	fileTypes := []models.FileType{
		{Slug: "agents-md", Name: "AGENTS.md", Description: "Cross-tool agent instructions", DefaultPath: "AGENTS.md", SortOrder: 1},
		{Slug: "claude-md", Name: "CLAUDE.md", Description: "Claude Code project memory", DefaultPath: "CLAUDE.md", SortOrder: 2},
		{Slug: "cursorrules", Name: ".cursorrules", Description: "Cursor project rules", DefaultPath: ".cursorrules", SortOrder: 3},
		{Slug: "copilot-instructions", Name: "copilot-instructions.md", Description: "GitHub Copilot repository instructions", DefaultPath: ".github/copilot-instructions.md", SortOrder: 4},
		{Slug: "conventions-md", Name: "CONVENTIONS.md", Description: "Aider coding conventions", DefaultPath: "CONVENTIONS.md", SortOrder: 5},
	}
	for _, fileType := range fileTypes {
		if err := gdb.Create(&fileType).Error; err != nil {
			log.Printf("Failed to seed file type %s: %v", fileType.Slug, err)
		}
	}

	log.Println("Initial catalog created successfully")
}
