package Models

import (
	"gorm.io/gorm"
)

// Recurrence frequencies. Only daily definitions are materialized
// automatically, the rest are informational.
const (
	FrequencyDaily    = "daily"
	FrequencyWeekly   = "weekly"
	FrequencyBiweekly = "biweekly"
	FrequencyMonthly  = "monthly"
)

// ChecklistDefinition binds a template to one deli. Inactive
// definitions keep their history but are excluded from generation and
// staff listings.
type ChecklistDefinition struct {
	gorm.Model
	TemplateID uint   `json:"template_id" gorm:"index;not null"`
	DeliID     uint   `json:"deli_id" gorm:"index;not null"`
	CreatedBy  uint   `json:"created_by"`
	Title      string `json:"title"`
	Frequency  string `json:"frequency" gorm:"default:daily"`
	Active     bool   `json:"active" gorm:"default:true"`

	Template ChecklistTemplate  `json:"template" gorm:"foreignKey:TemplateID"`
	RowItems []ChecklistRowItem `json:"row_items" gorm:"foreignKey:DefinitionID;constraint:OnDelete:CASCADE"`

	Instances []ChecklistInstance `json:"-" gorm:"foreignKey:DefinitionID;constraint:OnDelete:CASCADE"`
}

// ChecklistRowItem is one named row of a definition. Substance is an
// optional descriptive attribute (e.g. a cleaning chemical) that is
// always read-only to workers.
type ChecklistRowItem struct {
	gorm.Model
	DefinitionID uint   `json:"definition_id" gorm:"index;not null"`
	Name         string `json:"name" gorm:"not null"`
	Substance    string `json:"substance"`
	DisplayOrder int    `json:"display_order"`
}
