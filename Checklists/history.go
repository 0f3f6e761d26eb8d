package Checklists

import (
	"errors"

	"gorm.io/gorm"

	"DigiHaccp/Models"
)

// InstanceSummary is the metadata row of the history listing.
type InstanceSummary struct {
	InstanceID uint   `json:"instance_id"`
	Date       string `json:"date"`
	Title      string `json:"title"`
	Template   string `json:"template"`
	Locked     bool   `json:"locked"`
}

// Detail is the read-only history projection of one instance: the same
// grid shape plus attribution.
type Detail struct {
	Grid
	OpenedBy    string `json:"opened_by"`
	CompletedAt string `json:"completed_at"`
}

// InstancesForDeli lists a deli's instances inside a date range,
// newest date first, ties broken by creation order. An empty range
// yields an empty slice, not an error.
func InstancesForDeli(db *gorm.DB, deliID uint, from, to string) ([]InstanceSummary, error) {
	var instances []Models.ChecklistInstance
	query := db.Preload("Definition").Preload("Definition.Template").Where("deli_id = ?", deliID)
	if from != "" {
		query = query.Where("date >= ?", from)
	}
	if to != "" {
		query = query.Where("date <= ?", to)
	}
	if err := query.Order("date desc, id asc").Find(&instances).Error; err != nil {
		return nil, err
	}

	summaries := make([]InstanceSummary, 0, len(instances))
	for _, instance := range instances {
		summaries = append(summaries, InstanceSummary{
			InstanceID: instance.ID,
			Date:       instance.Date,
			Title:      instance.Definition.Title,
			Template:   instance.Definition.Template.Name,
			Locked:     instance.Locked,
		})
	}
	return summaries, nil
}

// InstanceDetail replays the grid projection strictly read-only: no
// session or answer is created, an instance whose session has zero
// answers projects empty cells.
func InstanceDetail(db *gorm.DB, instanceID uint) (Detail, error) {
	var instance Models.ChecklistInstance
	err := db.Preload("RowLinks").Preload("Definition").First(&instance, instanceID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Detail{}, ErrNotFound
		}
		return Detail{}, err
	}

	fields, err := FieldsForTemplate(db, instance.Definition.TemplateID)
	if err != nil {
		return Detail{}, err
	}

	links, snapshots, err := sortedLinks(instance.RowLinks)
	if err != nil {
		return Detail{}, err
	}

	detail := Detail{}
	answers := map[answerKey]Models.Answer{}

	var session Models.ResponseSession
	err = db.Where("instance_id = ?", instance.ID).First(&session).Error
	switch {
	case err == nil:
		detail.OpenedBy = session.OpenedBy
		detail.CompletedAt = session.LastModified.Format(DateTimeLayout)
		if answers, err = loadAnswers(db, session.ID); err != nil {
			return Detail{}, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Never opened, project an all-empty grid.
	default:
		return Detail{}, err
	}

	detail.Grid = projectGrid(instance, fields, links, snapshots, answers)
	detail.Title = instance.Definition.Title
	// History is review-only regardless of the lock flag.
	for i := range detail.Columns {
		detail.Columns[i].Editable = false
	}
	return detail, nil
}
