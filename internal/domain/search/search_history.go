package search

import (
	"time"

	"github.com/google/uuid"
)

// SearchHistory is the append-only detail log behind SearchStat: one row
// per search event with request metadata. Failures writing history never
// fail the stat update.
type SearchHistory struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;column:user_id;index" json:"user_id,omitempty"`
	SessionID *string    `gorm:"column:session_id;size:128" json:"session_id,omitempty"`

	Query           string  `gorm:"column:query;size:255;not null;index" json:"query"`
	TranslatedQuery *string `gorm:"column:translated_query;size:255" json:"translated_query,omitempty"`
	SearchType      string  `gorm:"column:search_type;size:30;not null;default:'smart'" json:"search_type"`
	ResultsCount    int     `gorm:"column:results_count;not null;default:0" json:"results_count"`

	IPAddress        string  `gorm:"column:ip_address;size:64" json:"ip_address,omitempty"`
	UserAgent        string  `gorm:"column:user_agent;type:text" json:"user_agent,omitempty"`
	Referrer         string  `gorm:"column:referrer;type:text" json:"referrer,omitempty"`
	DeviceType       string  `gorm:"column:device_type;size:20;not null;default:'unknown'" json:"device_type"`
	SearchDurationMS int     `gorm:"column:search_duration_ms;not null;default:0" json:"search_duration_ms"`
	IsSuccessful     bool    `gorm:"column:is_successful;not null;default:true" json:"is_successful"`
	ErrorMessage     *string `gorm:"column:error_message;type:text" json:"error_message,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()" json:"created_at"`
}

func (SearchHistory) TableName() string { return "search_history" }
