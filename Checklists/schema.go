package Checklists

import (
	"errors"

	"gorm.io/gorm"

	"DigiHaccp/Models"
)

// FieldsForTemplate returns the template's fields ordered by display
// order, ties broken by insertion order. Pure read path.
func FieldsForTemplate(db *gorm.DB, templateID uint) ([]Models.TemplateField, error) {
	var template Models.ChecklistTemplate
	if err := db.First(&template, templateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var fields []Models.TemplateField
	err := db.Where("template_id = ?", templateID).
		Order("display_order asc, id asc").
		Find(&fields).Error
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// fieldByName resolves one field of a template by its stable name.
func fieldByName(db *gorm.DB, templateID uint, name string) (Models.TemplateField, error) {
	var field Models.TemplateField
	err := db.Where("template_id = ? AND name = ?", templateID, name).First(&field).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return field, ErrNotFound
	}
	return field, err
}
