package Models

import (
	"gorm.io/gorm"
)

// Field value kinds. This is a fixed closed set, answers store exactly
// one slot matching the declared kind.
const (
	KindText     = "text"
	KindDate     = "date"
	KindTime     = "time"
	KindDateTime = "datetime"
	KindDecimal  = "decimal"
	KindInteger  = "integer"
	KindBoolean  = "boolean"
)

// Semantic roles attach the extra business rule a field carries beyond
// its kind.
const (
	RoleNone            = ""
	RoleUseByDate       = "use_by_date"
	RoleCoreTemperature = "core_temperature"
)

// SubstanceFieldName is the descriptive-override column: a field with
// this name always displays the row item's Substance attribute and is
// never editable.
const SubstanceFieldName = "substance"

// ChecklistTemplate is a reusable checklist type, e.g. "Hot Holding" or
// "Cleaning Schedule". Its fields are configured at runtime.
type ChecklistTemplate struct {
	gorm.Model
	Code   string `json:"code" gorm:"uniqueIndex;not null"`
	Name   string `json:"name" gorm:"not null"`
	Active bool   `json:"active" gorm:"default:true"`

	Fields []TemplateField `json:"fields" gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"`
}

// TemplateField is one typed column of a template. Name is the stable
// key answers are stored under, it must never be renamed once answers
// reference it.
type TemplateField struct {
	gorm.Model
	TemplateID   uint   `json:"template_id" gorm:"uniqueIndex:idx_template_field_name,priority:1;not null"`
	Name         string `json:"name" gorm:"uniqueIndex:idx_template_field_name,priority:2;not null"`
	Label        string `json:"label"`
	Kind         string `json:"kind" gorm:"not null"`
	Role         string `json:"role"`
	Required     bool   `json:"required"`
	DisplayOrder int    `json:"display_order"`
}

// ValidKind reports whether kind is one of the supported value kinds.
func ValidKind(kind string) bool {
	switch kind {
	case KindText, KindDate, KindTime, KindDateTime, KindDecimal, KindInteger, KindBoolean:
		return true
	}
	return false
}
