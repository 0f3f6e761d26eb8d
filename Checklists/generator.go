package Checklists

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"DigiHaccp/Models"
)

// EnsureInstance materializes the instance of a definition for one
// deli and calendar day, creating it if absent. Safe under concurrent
// invocation for the same key: the unique (definition, deli, date)
// index plus ON CONFLICT DO NOTHING make one caller the winner, every
// other caller re-reads and returns the winner's row with
// created=false. The day is an explicit parameter so generation stays
// deterministic under test.
//
// On creation the definition's current row items are snapshotted into
// InstanceRowLinks. Items added to the definition later never appear
// on instances generated before them. No answers are created here.
func EnsureInstance(db *gorm.DB, definitionID, deliID uint, day time.Time) (Models.ChecklistInstance, bool, error) {
	date := day.Format(DateLayout)

	var instance Models.ChecklistInstance
	err := db.Where("definition_id = ? AND deli_id = ? AND date = ?", definitionID, deliID, date).
		First(&instance).Error
	if err == nil {
		return instance, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return instance, false, err
	}

	var definition Models.ChecklistDefinition
	err = db.Preload("RowItems", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("display_order asc, id asc")
	}).First(&definition, definitionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return instance, false, ErrNotFound
		}
		return instance, false, err
	}

	instance = Models.ChecklistInstance{
		DefinitionID: definitionID,
		DeliID:       deliID,
		Date:         date,
	}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&instance)
	if result.Error != nil {
		return instance, false, result.Error
	}
	if result.RowsAffected == 0 {
		// Lost the creation race, hand back the winner's instance.
		err := db.Where("definition_id = ? AND deli_id = ? AND date = ?", definitionID, deliID, date).
			First(&instance).Error
		return instance, false, err
	}

	links := make([]Models.InstanceRowLink, 0, len(definition.RowItems))
	for _, item := range definition.RowItems {
		snapshot, err := json.Marshal(Models.RowSnapshot{
			Name:         item.Name,
			Substance:    item.Substance,
			DisplayOrder: item.DisplayOrder,
		})
		if err != nil {
			return instance, false, err
		}
		links = append(links, Models.InstanceRowLink{
			InstanceID: instance.ID,
			RowItemID:  item.ID,
			Snapshot:   snapshot,
		})
	}
	if len(links) > 0 {
		if err := db.Create(&links).Error; err != nil {
			return instance, false, err
		}
		instance.RowLinks = links
	}
	return instance, true, nil
}

// GenerateForDeli runs EnsureInstance for every active daily
// definition of a deli. This is the implicit trigger behind the
// staff "today" listing. Returned instances carry their definition so
// callers can list titles without reloading.
func GenerateForDeli(db *gorm.DB, deliID uint, day time.Time) ([]Models.ChecklistInstance, error) {
	var definitions []Models.ChecklistDefinition
	err := db.Where("deli_id = ? AND active = ? AND frequency = ?", deliID, true, Models.FrequencyDaily).
		Order("id asc").
		Find(&definitions).Error
	if err != nil {
		return nil, err
	}

	instances := make([]Models.ChecklistInstance, 0, len(definitions))
	for _, definition := range definitions {
		instance, _, err := EnsureInstance(db, definition.ID, deliID, day)
		if err != nil {
			return nil, err
		}
		instance.Definition = definition
		instances = append(instances, instance)
	}
	return instances, nil
}

// LockInstance flips the one-way locked flag. Locking an already
// locked instance is a no-op.
func LockInstance(db *gorm.DB, instanceID uint) (Models.ChecklistInstance, error) {
	var instance Models.ChecklistInstance
	if err := db.First(&instance, instanceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return instance, ErrNotFound
		}
		return instance, err
	}
	if instance.Locked {
		return instance, nil
	}
	if err := db.Model(&instance).Update("locked", true).Error; err != nil {
		return instance, err
	}
	instance.Locked = true
	return instance, nil
}
