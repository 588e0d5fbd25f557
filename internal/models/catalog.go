package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag categories.
const (
	TagCategoryFramework = "framework"
	TagCategoryLanguage  = "language"
	TagCategoryUseCase   = "use_case"
)

// Tool is a catalog entry for an AI coding tool (Claude Code, Cursor, ...).
type Tool struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Slug        string    `gorm:"uniqueIndex;size:60;not null" json:"slug"`
	Name        string    `gorm:"size:60;not null" json:"name"`
	Description string    `json:"description"`
	WebsiteURL  string    `json:"website_url"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
}

func (t *Tool) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

type Tag struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Slug      string    `gorm:"uniqueIndex;size:60;not null" json:"slug"`
	Name      string    `gorm:"size:60;not null" json:"name"`
	Category  string    `gorm:"size:20;not null;index" json:"category"` // framework, language, use_case
	CreatedAt time.Time `json:"created_at"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// FileType describes a config document flavor (AGENTS.md, .cursorrules, ...).
type FileType struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Slug        string    `gorm:"uniqueIndex;size:60;not null" json:"slug"`
	Name        string    `gorm:"size:60;not null" json:"name"`
	Description string    `json:"description"`
	DefaultPath string    `json:"default_path"` // where the file usually lives in a repo
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
}

func (f *FileType) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
