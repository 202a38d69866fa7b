package concepts

import (
	"time"

	"gorm.io/datatypes"
)

// ConceptURL persists one verified documentation link. Concept is the
// normalized (lowercased, trimmed) key.
type ConceptURL struct {
	Concept    string                      `gorm:"column:concept;primaryKey;size:128" json:"concept"`
	URL        string                      `gorm:"column:url;not null" json:"url"`
	Candidates datatypes.JSONSlice[string] `gorm:"column:candidates" json:"candidates,omitempty"`
	UpdatedBy  string                      `gorm:"column:updated_by;size:128" json:"updated_by,omitempty"`
	CreatedAt  time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time                   `gorm:"not null;index" json:"updated_at"`
}

func (ConceptURL) TableName() string { return "concept_url" }
