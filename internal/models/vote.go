package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vote records "this user endorses this tool as compatible with this
// config". Presence of the row is the whole state; toggling creates and
// deletes rows, never updates them. The composite unique index is the
// real guard against double voting - the toggle's existence check only
// decides direction.
type Vote struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_config_tool" json:"user_id"`
	ConfigID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_config_tool;index" json:"config_id"`
	ToolID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_config_tool" json:"tool_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// AnonymousVote is the "found this helpful" vote. The voter identity is
// a sha256 of the requester's network address; the raw address is never
// stored. Everyone behind one address shares one vote - accepted
// imprecision, not a bug.
type AnonymousVote struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	ConfigID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_config_iphash;index" json:"config_id"`
	IPHash    string    `gorm:"size:64;not null;uniqueIndex:idx_config_iphash" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (v *AnonymousVote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
