package tagging

import (
	"time"

	"github.com/google/uuid"
)

const (
	SourceManual = "manual"
	SourceAI     = "ai"
	SourceSystem = "system"
)

// ImageTag links an image to a tag. The composite primary key enforces
// the one-link-per-pair invariant at the storage layer; rows are hard
// deleted so that counting live rows always matches Tag.Popularity.
type ImageTag struct {
	ImageID uuid.UUID `gorm:"type:uuid;column:image_id;primaryKey" json:"image_id"`
	TagID   uuid.UUID `gorm:"type:uuid;column:tag_id;primaryKey;index:idx_image_tags_tag_image,priority:1" json:"tag_id"`

	Confidence *float64   `gorm:"column:confidence" json:"confidence,omitempty"`
	Weight     *float64   `gorm:"column:weight" json:"weight,omitempty"`
	Source     string     `gorm:"column:source;size:20;not null;default:'manual';index" json:"source"`
	AddedBy    *uuid.UUID `gorm:"type:uuid;column:added_by" json:"added_by,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()" json:"created_at"`
}

func (ImageTag) TableName() string { return "image_tags" }
