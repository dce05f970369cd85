package gallery

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Image is the tagged/curated subject. Tags is the legacy denormalized
// tag list column carried over from before the image_tags join table
// existed; the admin tagging filter still reads it, through the
// canonical normalization.HasTagValues predicate.
type Image struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title    string    `gorm:"column:title" json:"title"`
	Filename string    `gorm:"column:filename;not null" json:"filename"`

	Tags       datatypes.JSON `gorm:"column:tags;type:jsonb" json:"tags,omitempty"`
	IsFeatured bool           `gorm:"column:is_featured;not null;default:false;index" json:"is_featured"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Image) TableName() string { return "images" }
