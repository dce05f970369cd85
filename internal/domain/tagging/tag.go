package tagging

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	TagStatusActive   = "active"
	TagStatusDisabled = "disabled"

	TagTypeManual = "manual"
	TagTypeAI     = "ai"
	TagTypeSystem = "system"
)

// Tag is the shared taxonomy entry. Name is the registry identity
// (unique, case-sensitive); Popularity is a denormalized count of live
// image_tags rows referencing this tag and is only ever adjusted through
// the association index or the reconciliation recount.
type Tag struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name     string    `gorm:"column:name;size:100;not null;uniqueIndex:uniq_tag_name" json:"name"`
	Category string    `gorm:"column:category;size:50;index" json:"category"`
	Type     string    `gorm:"column:type;size:20;not null;default:'manual'" json:"type"`

	Synonyms datatypes.JSON `gorm:"column:synonyms;type:jsonb" json:"synonyms,omitempty"`
	Lang     string         `gorm:"column:lang;size:10" json:"lang,omitempty"`

	Popularity int    `gorm:"column:popularity;not null;default:0;index" json:"popularity"`
	Status     string `gorm:"column:status;size:20;not null;default:'active'" json:"status"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Tag) TableName() string { return "tags" }
