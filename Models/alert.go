package Models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Alert is one scraped food safety notice (allergen or recall) from
// the FSAI site. Link is unique so repeated scrapes stay idempotent.
type Alert struct {
	gorm.Model
	Title    string         `json:"title"`
	Link     string         `json:"link" gorm:"uniqueIndex;not null"`
	Category string         `json:"category"`
	Summary  string         `json:"summary"`
	Details  datatypes.JSON `json:"details"`
}
