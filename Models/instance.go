package Models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ChecklistInstance is the materialization of a definition for one
// deli on one calendar date. The (definition, deli, date) triple is
// unique, EnsureInstance relies on the index to stay race-safe.
type ChecklistInstance struct {
	gorm.Model
	DefinitionID uint   `json:"definition_id" gorm:"uniqueIndex:idx_instance_key,priority:1;not null"`
	DeliID       uint   `json:"deli_id" gorm:"uniqueIndex:idx_instance_key,priority:2;not null"`
	Date         string `json:"date" gorm:"uniqueIndex:idx_instance_key,priority:3;not null"`
	Locked       bool   `json:"locked" gorm:"default:false"`

	Definition ChecklistDefinition `json:"-" gorm:"foreignKey:DefinitionID"`
	RowLinks   []InstanceRowLink   `json:"row_links" gorm:"foreignKey:InstanceID;constraint:OnDelete:CASCADE"`
	Sessions   []ResponseSession   `json:"-" gorm:"foreignKey:InstanceID;constraint:OnDelete:CASCADE"`
}

// RowSnapshot is the row item state captured inside an InstanceRowLink
// at generation time.
type RowSnapshot struct {
	Name         string `json:"name"`
	Substance    string `json:"substance"`
	DisplayOrder int    `json:"display_order"`
}

// InstanceRowLink pins a row item to an instance. Snapshot carries the
// item as it looked when the instance was generated, so later edits to
// the definition never rewrite existing instances.
type InstanceRowLink struct {
	gorm.Model
	InstanceID uint           `json:"instance_id" gorm:"uniqueIndex:idx_instance_row,priority:1;not null"`
	RowItemID  uint           `json:"row_item_id" gorm:"uniqueIndex:idx_instance_row,priority:2;not null"`
	Snapshot   datatypes.JSON `json:"snapshot"`
}

// DecodeSnapshot unmarshals the stored row snapshot.
func (l *InstanceRowLink) DecodeSnapshot() (RowSnapshot, error) {
	var snapshot RowSnapshot
	err := json.Unmarshal(l.Snapshot, &snapshot)
	return snapshot, err
}

// ResponseSession is the shared answer-collection context of one
// instance. There is exactly one per instance (unique index), every
// worker contributes answers to the same session.
type ResponseSession struct {
	gorm.Model
	InstanceID   uint      `json:"instance_id" gorm:"uniqueIndex;not null"`
	Date         string    `json:"date"`
	OpenedByID   uint      `json:"opened_by_id"`
	OpenedBy     string    `json:"opened_by"`
	LastModified time.Time `json:"last_modified"`

	Answers []Answer `json:"-" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

// Answer holds one typed value for a (session, row item, field)
// triple. Exactly one of the value columns is populated, selected by
// the field's kind; writes go through Checklists.TypedValue so that
// stays structural rather than conventional.
type Answer struct {
	gorm.Model
	SessionID uint `json:"session_id" gorm:"uniqueIndex:idx_answer_key,priority:1;not null"`
	RowItemID uint `json:"row_item_id" gorm:"uniqueIndex:idx_answer_key,priority:2;not null"`
	FieldID   uint `json:"field_id" gorm:"uniqueIndex:idx_answer_key,priority:3;not null"`

	ValueText     *string    `json:"value_text"`
	ValueDate     *time.Time `json:"value_date"`
	ValueTime     *string    `json:"value_time"`
	ValueDateTime *time.Time `json:"value_datetime"`
	ValueDecimal  *float64   `json:"value_decimal"`
	ValueInteger  *int64     `json:"value_integer"`
	ValueBoolean  *bool      `json:"value_boolean"`

	EditedByID uint      `json:"edited_by_id"`
	EditedBy   string    `json:"edited_by"`
	EditedAt   time.Time `json:"edited_at"`
}

// ClearValues empties every typed slot before a new value is stored.
func (a *Answer) ClearValues() {
	a.ValueText = nil
	a.ValueDate = nil
	a.ValueTime = nil
	a.ValueDateTime = nil
	a.ValueDecimal = nil
	a.ValueInteger = nil
	a.ValueBoolean = nil
}

// EvidencePhoto is an uploaded proof photo attached to an instance,
// stored on disk with a resized thumbnail.
type EvidencePhoto struct {
	gorm.Model
	InstanceID uint   `json:"instance_id" gorm:"index;not null"`
	FileName   string `json:"file_name"`
	ThumbName  string `json:"thumb_name"`
	UploadedBy string `json:"uploaded_by"`
}
