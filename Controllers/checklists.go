package Controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"DigiHaccp/Models"
)

// DefinitionController handles checklist definitions and their row
// items
type DefinitionController struct {
	DB *gorm.DB
}

// NewDefinitionController creates a new DefinitionController
func NewDefinitionController(db *gorm.DB) *DefinitionController {
	return &DefinitionController{DB: db}
}

type DefinitionInput struct {
	TemplateID uint   `json:"template_id" validate:"required"`
	DeliID     uint   `json:"deli_id" validate:"required"`
	Title      string `json:"title"`
	Frequency  string `json:"frequency" validate:"omitempty,oneof=daily weekly biweekly monthly"`
}

type RowItemInput struct {
	Name         string `json:"name" validate:"required"`
	Substance    string `json:"substance"`
	DisplayOrder int    `json:"display_order"`
}

// GetDefinitions lists definitions, optionally filtered by deli
func (dc *DefinitionController) GetDefinitions(ctx *fiber.Ctx) error {
	query := dc.DB.Preload("Template").Preload("RowItems", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("display_order asc, id asc")
	})
	if deliID := ctx.Query("deli_id"); deliID != "" {
		query = query.Where("deli_id = ?", deliID)
	}

	var definitions []Models.ChecklistDefinition
	if err := query.Find(&definitions).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve definitions"})
	}
	return ctx.JSON(definitions)
}

// GetDefinition retrieves one definition with template and row items
func (dc *DefinitionController) GetDefinition(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid definition ID"})
	}

	var definition Models.ChecklistDefinition
	err = dc.DB.Preload("Template.Fields", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("display_order asc, id asc")
	}).Preload("RowItems", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("display_order asc, id asc")
	}).First(&definition, id).Error
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Definition not found"})
	}
	return ctx.JSON(definition)
}

// CreateDefinition binds a template to a deli
func (dc *DefinitionController) CreateDefinition(ctx *fiber.Ctx) error {
	user := ctx.Locals("user").(Models.User)

	var input DefinitionInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationMessages(err)})
	}

	var template Models.ChecklistTemplate
	if err := dc.DB.First(&template, input.TemplateID).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Template not found"})
	}
	var deli Models.Deli
	if err := dc.DB.First(&deli, input.DeliID).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Deli not found"})
	}

	frequency := input.Frequency
	if frequency == "" {
		frequency = Models.FrequencyDaily
	}
	title := input.Title
	if title == "" {
		title = template.Name
	}

	definition := Models.ChecklistDefinition{
		TemplateID: template.ID,
		DeliID:     deli.ID,
		CreatedBy:  user.ID,
		Title:      title,
		Frequency:  frequency,
		Active:     true,
	}
	if err := dc.DB.Create(&definition).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create definition"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(definition)
}

// UpdateDefinition changes title, frequency or active flag.
// Deactivating keeps all generated history.
func (dc *DefinitionController) UpdateDefinition(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid definition ID"})
	}

	var definition Models.ChecklistDefinition
	if err := dc.DB.First(&definition, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Definition not found"})
	}

	var input struct {
		Title     *string `json:"title"`
		Frequency *string `json:"frequency"`
		Active    *bool   `json:"active"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if input.Title != nil {
		definition.Title = *input.Title
	}
	if input.Frequency != nil {
		definition.Frequency = *input.Frequency
	}
	if input.Active != nil {
		definition.Active = *input.Active
	}
	if err := dc.DB.Save(&definition).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update definition"})
	}

	return ctx.JSON(definition)
}

// DeleteDefinition hard deletes a definition and cascades its
// instances, sessions and answers. Deactivation is the usual path,
// this is for definitions created by mistake.
func (dc *DefinitionController) DeleteDefinition(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid definition ID"})
	}

	var definition Models.ChecklistDefinition
	if err := dc.DB.First(&definition, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Definition not found"})
	}

	err = dc.DB.Transaction(func(tx *gorm.DB) error {
		var instanceIDs []uint
		if err := tx.Model(&Models.ChecklistInstance{}).Where("definition_id = ?", definition.ID).
			Pluck("id", &instanceIDs).Error; err != nil {
			return err
		}
		if len(instanceIDs) > 0 {
			var sessionIDs []uint
			if err := tx.Model(&Models.ResponseSession{}).Where("instance_id IN ?", instanceIDs).
				Pluck("id", &sessionIDs).Error; err != nil {
				return err
			}
			if len(sessionIDs) > 0 {
				if err := tx.Unscoped().Where("session_id IN ?", sessionIDs).Delete(&Models.Answer{}).Error; err != nil {
					return err
				}
				if err := tx.Unscoped().Where("id IN ?", sessionIDs).Delete(&Models.ResponseSession{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Unscoped().Where("instance_id IN ?", instanceIDs).Delete(&Models.InstanceRowLink{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("id IN ?", instanceIDs).Delete(&Models.ChecklistInstance{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Unscoped().Where("definition_id = ?", definition.ID).Delete(&Models.ChecklistRowItem{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&definition).Error
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete definition"})
	}

	return ctx.JSON(fiber.Map{"message": "Definition deleted successfully"})
}

// AddRowItem appends a named row to a definition. Already-generated
// instances are unaffected, they keep their snapshot.
func (dc *DefinitionController) AddRowItem(ctx *fiber.Ctx) error {
	definitionID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid definition ID"})
	}

	var definition Models.ChecklistDefinition
	if err := dc.DB.First(&definition, definitionID).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Definition not found"})
	}

	var input RowItemInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationMessages(err)})
	}

	item := Models.ChecklistRowItem{
		DefinitionID: definition.ID,
		Name:         input.Name,
		Substance:    input.Substance,
		DisplayOrder: input.DisplayOrder,
	}
	if err := dc.DB.Create(&item).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create row item"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(item)
}

// DeleteRowItem removes a row from the definition. Existing instances
// keep their snapshotted rows.
func (dc *DefinitionController) DeleteRowItem(ctx *fiber.Ctx) error {
	itemID, err := strconv.Atoi(ctx.Params("itemId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid row item ID"})
	}

	var item Models.ChecklistRowItem
	if err := dc.DB.First(&item, itemID).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Row item not found"})
	}

	if err := dc.DB.Delete(&item).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete row item"})
	}

	return ctx.JSON(fiber.Map{"message": "Row item deleted successfully"})
}
