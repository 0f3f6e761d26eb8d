package Controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"DigiHaccp/Checklists"
	"DigiHaccp/Models"
)

// TemplateController handles checklist template and field authoring
type TemplateController struct {
	DB *gorm.DB
}

// NewTemplateController creates a new TemplateController
func NewTemplateController(db *gorm.DB) *TemplateController {
	return &TemplateController{DB: db}
}

type TemplateInput struct {
	Code   string `json:"code" validate:"required"`
	Name   string `json:"name" validate:"required"`
	Active *bool  `json:"active"`
}

type FieldInput struct {
	Name         string `json:"name" validate:"required"`
	Label        string `json:"label" validate:"required"`
	Kind         string `json:"kind" validate:"required"`
	Role         string `json:"role"`
	Required     bool   `json:"required"`
	DisplayOrder int    `json:"display_order"`
}

// GetTemplates retrieves all templates with their fields
func (tc *TemplateController) GetTemplates(ctx *fiber.Ctx) error {
	var templates []Models.ChecklistTemplate
	err := tc.DB.Preload("Fields", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("display_order asc, id asc")
	}).Find(&templates).Error
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve templates"})
	}
	return ctx.JSON(templates)
}

// GetTemplate retrieves one template with its ordered fields
func (tc *TemplateController) GetTemplate(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template ID"})
	}

	var template Models.ChecklistTemplate
	if err := tc.DB.First(&template, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Template not found"})
	}

	fields, err := Checklists.FieldsForTemplate(tc.DB, template.ID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve fields"})
	}
	template.Fields = fields

	return ctx.JSON(template)
}

// CreateTemplate creates a new checklist template
func (tc *TemplateController) CreateTemplate(ctx *fiber.Ctx) error {
	var input TemplateInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationMessages(err)})
	}

	template := Models.ChecklistTemplate{
		Code:   input.Code,
		Name:   input.Name,
		Active: true,
	}
	if input.Active != nil {
		template.Active = *input.Active
	}
	if err := tc.DB.Create(&template).Error; err != nil {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A template with this code already exists"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(template)
}

// UpdateTemplate changes display name and active flag. The code is
// stable once created.
func (tc *TemplateController) UpdateTemplate(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template ID"})
	}

	var template Models.ChecklistTemplate
	if err := tc.DB.First(&template, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Template not found"})
	}

	var input TemplateInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if input.Name != "" {
		template.Name = input.Name
	}
	if input.Active != nil {
		template.Active = *input.Active
	}
	if err := tc.DB.Save(&template).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update template"})
	}

	return ctx.JSON(template)
}

// AddField appends a typed field to a template. Renaming an existing
// field is deliberately unsupported, answers reference fields by name
// and a rename would orphan history.
func (tc *TemplateController) AddField(ctx *fiber.Ctx) error {
	templateID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template ID"})
	}

	var template Models.ChecklistTemplate
	if err := tc.DB.First(&template, templateID).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Template not found"})
	}

	var input FieldInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationMessages(err)})
	}
	if !Models.ValidKind(input.Kind) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown field kind " + input.Kind})
	}

	field := Models.TemplateField{
		TemplateID:   template.ID,
		Name:         input.Name,
		Label:        input.Label,
		Kind:         input.Kind,
		Role:         input.Role,
		Required:     input.Required,
		DisplayOrder: input.DisplayOrder,
	}
	if err := tc.DB.Create(&field).Error; err != nil {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A field with this name already exists on the template"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(field)
}

// GetFields returns a template's fields in display order
func (tc *TemplateController) GetFields(ctx *fiber.Ctx) error {
	templateID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template ID"})
	}

	fields, err := Checklists.FieldsForTemplate(tc.DB, uint(templateID))
	if err != nil {
		if errors.Is(err, Checklists.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Template not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve fields"})
	}
	return ctx.JSON(fields)
}
