package Checklists

import (
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"DigiHaccp/Models"
)

// Column describes one grid column as consumed by the presentation
// layer.
type Column struct {
	Header   string `json:"header"`
	Key      string `json:"key"`
	Editable bool   `json:"editable"`
	Kind     string `json:"kind"`
}

// Grid is the editable projection of one instance: ordered column
// descriptors plus one record per row item mapping field key to a
// scalar value ("" when empty).
type Grid struct {
	InstanceID uint                     `json:"instance_id"`
	Date       string                   `json:"date"`
	Locked     bool                     `json:"locked"`
	Title      string                   `json:"title"`
	Columns    []Column                 `json:"columns"`
	Rows       []map[string]interface{} `json:"rows"`
}

type answerKey struct {
	rowItemID uint
	fieldID   uint
}

// EnsureSession returns the instance's shared response session,
// creating it on first access. The unique index on instance_id keeps
// concurrent first access down to a single session.
func EnsureSession(db *gorm.DB, instance Models.ChecklistInstance, opener Models.User) (Models.ResponseSession, error) {
	session := Models.ResponseSession{
		InstanceID:   instance.ID,
		Date:         instance.Date,
		OpenedByID:   opener.ID,
		OpenedBy:     opener.Name,
		LastModified: time.Now(),
	}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&session)
	if result.Error != nil {
		return session, result.Error
	}
	if result.RowsAffected == 0 {
		err := db.Where("instance_id = ?", instance.ID).First(&session).Error
		return session, err
	}
	return session, nil
}

// sortedLinks decodes every row link snapshot and orders them by the
// snapshotted display order, ties by row item id.
func sortedLinks(links []Models.InstanceRowLink) ([]Models.InstanceRowLink, map[uint]Models.RowSnapshot, error) {
	snapshots := make(map[uint]Models.RowSnapshot, len(links))
	for _, link := range links {
		snapshot, err := link.DecodeSnapshot()
		if err != nil {
			return nil, nil, err
		}
		snapshots[link.RowItemID] = snapshot
	}
	ordered := make([]Models.InstanceRowLink, len(links))
	copy(ordered, links)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := snapshots[ordered[i].RowItemID], snapshots[ordered[j].RowItemID]
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder < b.DisplayOrder
		}
		return ordered[i].RowItemID < ordered[j].RowItemID
	})
	return ordered, snapshots, nil
}

// BuildGrid produces the editable column/row projection for an
// instance. Missing answer slots are lazily created empty, scoped to
// the instance's session. The substance column always projects the row
// item's snapshotted attribute and is never editable.
func BuildGrid(db *gorm.DB, instanceID uint, editor Models.User) (Grid, error) {
	var instance Models.ChecklistInstance
	err := db.Preload("RowLinks").Preload("Definition").First(&instance, instanceID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Grid{}, ErrNotFound
		}
		return Grid{}, err
	}

	fields, err := FieldsForTemplate(db, instance.Definition.TemplateID)
	if err != nil {
		return Grid{}, err
	}

	session, err := EnsureSession(db, instance, editor)
	if err != nil {
		return Grid{}, err
	}

	links, snapshots, err := sortedLinks(instance.RowLinks)
	if err != nil {
		return Grid{}, err
	}

	answers, err := loadAnswers(db, session.ID)
	if err != nil {
		return Grid{}, err
	}

	// Lazily create the slots that do not exist yet. The unique
	// (session, row item, field) index absorbs concurrent first touch.
	var missing []Models.Answer
	for _, link := range links {
		for _, field := range fields {
			if field.Name == Models.SubstanceFieldName {
				continue
			}
			if _, ok := answers[answerKey{link.RowItemID, field.ID}]; !ok {
				missing = append(missing, Models.Answer{
					SessionID: session.ID,
					RowItemID: link.RowItemID,
					FieldID:   field.ID,
				})
			}
		}
	}
	if len(missing) > 0 {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&missing).Error; err != nil {
			return Grid{}, err
		}
		if answers, err = loadAnswers(db, session.ID); err != nil {
			return Grid{}, err
		}
	}

	grid := projectGrid(instance, fields, links, snapshots, answers)
	grid.Title = instance.Definition.Title
	return grid, nil
}

func loadAnswers(db *gorm.DB, sessionID uint) (map[answerKey]Models.Answer, error) {
	var rows []Models.Answer
	if err := db.Where("session_id = ?", sessionID).Find(&rows).Error; err != nil {
		return nil, err
	}
	answers := make(map[answerKey]Models.Answer, len(rows))
	for _, row := range rows {
		answers[answerKey{row.RowItemID, row.FieldID}] = row
	}
	return answers, nil
}

// projectGrid renders columns and rows from already-loaded state. Used
// by both the editable grid and the read-only history detail.
func projectGrid(instance Models.ChecklistInstance, fields []Models.TemplateField,
	links []Models.InstanceRowLink, snapshots map[uint]Models.RowSnapshot,
	answers map[answerKey]Models.Answer) Grid {

	columns := make([]Column, 0, len(fields)+1)
	columns = append(columns, Column{Header: "Item", Key: "item", Editable: false, Kind: Models.KindText})
	for _, field := range fields {
		editable := !instance.Locked && field.Name != Models.SubstanceFieldName
		columns = append(columns, Column{
			Header:   field.Label,
			Key:      field.Name,
			Editable: editable,
			Kind:     field.Kind,
		})
	}

	rows := make([]map[string]interface{}, 0, len(links))
	for _, link := range links {
		snapshot := snapshots[link.RowItemID]
		row := map[string]interface{}{
			"row_item_id": link.RowItemID,
			"item":        snapshot.Name,
		}
		for _, field := range fields {
			if field.Name == Models.SubstanceFieldName {
				row[field.Name] = snapshot.Substance
				continue
			}
			answer, ok := answers[answerKey{link.RowItemID, field.ID}]
			if !ok {
				row[field.Name] = ""
				continue
			}
			row[field.Name] = ValueOf(field, &answer).Scalar()
		}
		rows = append(rows, row)
	}

	return Grid{
		InstanceID: instance.ID,
		Date:       instance.Date,
		Locked:     instance.Locked,
		Columns:    columns,
		Rows:       rows,
	}
}

// SaveAnswer validates and stores one cell edit. The descriptive
// override is rejected regardless of lock state, the lock check runs
// before any parsing, and an empty raw value clears the stored slot.
// Individual cells are last-writer-wins on purpose.
func SaveAnswer(db *gorm.DB, instanceID, rowItemID uint, fieldName, rawValue string, editor Models.User, now time.Time) error {
	var instance Models.ChecklistInstance
	err := db.Preload("Definition").First(&instance, instanceID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	field, err := fieldByName(db, instance.Definition.TemplateID, fieldName)
	if err != nil {
		return err
	}
	if field.Name == Models.SubstanceFieldName {
		return ErrReadOnlyField
	}
	if instance.Locked {
		return ErrInstanceLocked
	}

	var link Models.InstanceRowLink
	err = db.Where("instance_id = ? AND row_item_id = ?", instanceID, rowItemID).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	value, err := ParseValue(field, rawValue, now)
	if err != nil {
		return err
	}

	session, err := EnsureSession(db, instance, editor)
	if err != nil {
		return err
	}

	answer := Models.Answer{
		SessionID: session.ID,
		RowItemID: rowItemID,
		FieldID:   field.ID,
	}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&answer)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		err := db.Where("session_id = ? AND row_item_id = ? AND field_id = ?", session.ID, rowItemID, field.ID).
			First(&answer).Error
		if err != nil {
			return err
		}
	}

	value.ApplyTo(&answer)
	answer.EditedByID = editor.ID
	answer.EditedBy = editor.Name
	answer.EditedAt = now
	if err := db.Save(&answer).Error; err != nil {
		return err
	}

	return db.Model(&Models.ResponseSession{}).Where("id = ?", session.ID).
		Update("last_modified", now).Error
}
