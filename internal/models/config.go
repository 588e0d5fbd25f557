package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Config statuses. Transitions out of pending happen in the moderation
// backend, never through this service.
const (
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusRejected  = "rejected"
)

// Licenses accepted for submitted documents. Submissions are always
// stored as CC0; the other values exist for imported content.
const (
	LicenseCC0    = "CC0"
	LicenseMIT    = "MIT"
	LicenseApache = "Apache-2.0"
)

type Config struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	Slug        string     `gorm:"uniqueIndex;size:120;not null" json:"slug"`
	Title       string     `gorm:"size:100;not null" json:"title"`
	Description string     `gorm:"size:500;not null" json:"description"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	AuthorID    *string    `gorm:"type:uuid;index" json:"author_id"`
	AuthorName  string     `gorm:"size:120;not null" json:"author_name"`
	License     string     `gorm:"size:20;not null" json:"license"`
	SourceURL   string     `json:"source_url"`
	Status      string     `gorm:"size:20;not null;index" json:"status"`
	FileTypeID  string     `gorm:"type:uuid;not null;index" json:"file_type_id"`
	FileType    FileType   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"file_type"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (c *Config) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// ConfigTool and ConfigTag are plain join rows. They carry no identity
// beyond the pair; duplicates are screened out before insert.
type ConfigTool struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	ConfigID string `gorm:"type:uuid;not null;index" json:"config_id"`
	ToolID   string `gorm:"type:uuid;not null;index" json:"tool_id"`
}

func (ct *ConfigTool) BeforeCreate(tx *gorm.DB) error {
	if ct.ID == "" {
		ct.ID = uuid.NewString()
	}
	return nil
}

type ConfigTag struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	ConfigID string `gorm:"type:uuid;not null;index" json:"config_id"`
	TagID    string `gorm:"type:uuid;not null;index" json:"tag_id"`
}

func (ct *ConfigTag) BeforeCreate(tx *gorm.DB) error {
	if ct.ID == "" {
		ct.ID = uuid.NewString()
	}
	return nil
}
