package curation

import (
	"time"

	"github.com/google/uuid"
)

const (
	ProvenanceHuman     = "human"
	ProvenanceMigration = "migration"
)

// ImageCuration holds the curated/featured state of one image; ImageID
// is unique so writes are always upserts, never duplicate rows.
// Provenance records who authored the current record: a human curator
// always wins over the migration backfill, which may only raise the
// score on a human-authored record.
type ImageCuration struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ImageID uuid.UUID `gorm:"type:uuid;column:image_id;not null;uniqueIndex:uniq_image_curation_image" json:"image_id"`

	IsCurated     bool    `gorm:"column:is_curated;not null;default:false;index" json:"is_curated"`
	CurationScore float64 `gorm:"column:curation_score;not null;default:0;index" json:"curation_score"`

	Curator    *string `gorm:"column:curator;size:255" json:"curator,omitempty"`
	Reason     *string `gorm:"column:reason;type:text" json:"reason,omitempty"`
	Provenance string  `gorm:"column:provenance;size:20;not null;default:'human'" json:"provenance"`

	// ValidUntil nil means the record never expires. A record whose
	// ValidUntil has passed is logically inactive even when IsCurated
	// is still true.
	ValidUntil *time.Time `gorm:"column:valid_until;index" json:"valid_until,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ImageCuration) TableName() string { return "image_curation" }

// ActiveAt evaluates curated status at a point in time.
func (c *ImageCuration) ActiveAt(now time.Time) bool {
	if c == nil || !c.IsCurated {
		return false
	}
	return c.ValidUntil == nil || c.ValidUntil.After(now)
}
