package search

import (
	"time"

	"github.com/google/uuid"
)

// SearchStat is one row per distinct normalized query. Count only moves
// up, via an atomic in-database increment.
type SearchStat struct {
	ID    uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Query string    `gorm:"column:query;size:255;not null;uniqueIndex:uniq_search_stats_query" json:"query"`

	Count          int       `gorm:"column:count;not null;default:1;index" json:"count"`
	LastSearchedAt time.Time `gorm:"column:last_searched_at;not null;default:now();index" json:"last_searched_at"`

	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()" json:"updated_at"`
}

func (SearchStat) TableName() string { return "search_stats" }
