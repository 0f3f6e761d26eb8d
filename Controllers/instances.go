package Controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"DigiHaccp/Checklists"
	"DigiHaccp/Models"
)

// InstanceController is the staff-facing surface: today's checklists,
// the editable grid and answer submission.
type InstanceController struct {
	DB *gorm.DB
}

// NewInstanceController creates a new InstanceController
func NewInstanceController(db *gorm.DB) *InstanceController {
	return &InstanceController{DB: db}
}

type SaveAnswerInput struct {
	RowItemID uint   `json:"row_item_id" validate:"required"`
	Field     string `json:"field" validate:"required"`
	Value     string `json:"value"`
}

// memberOfDeli reports whether the user may touch a deli's checklists.
func memberOfDeli(user Models.User, deliID uint) bool {
	if user.IsManager() {
		return true
	}
	for _, deli := range user.Delis {
		if deli.ID == deliID {
			return true
		}
	}
	return false
}

// engineError maps a Checklists error onto the API response.
func engineError(ctx *fiber.Ctx, err error) error {
	var parseErr *Checklists.ParseError
	var ruleErr *Checklists.DomainRuleError
	switch {
	case errors.Is(err, Checklists.ErrNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Record not found"})
	case errors.Is(err, Checklists.ErrReadOnlyField):
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This field is read-only"})
	case errors.Is(err, Checklists.ErrInstanceLocked):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "This checklist has been locked"})
	case errors.As(err, &parseErr):
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": parseErr.Error(),
			"kind":  "parse",
		})
	case errors.As(err, &ruleErr):
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": ruleErr.Error(),
			"kind":  "domain_rule",
		})
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

// GetTodayChecklists materializes and lists today's instances for a
// deli. The first worker opening the list for the day triggers
// generation, later callers get the same instances back.
func (ic *InstanceController) GetTodayChecklists(ctx *fiber.Ctx) error {
	user := ctx.Locals("user").(Models.User)

	deliID, err := strconv.Atoi(ctx.Query("deli_id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid deli ID"})
	}
	if !memberOfDeli(user, uint(deliID)) {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You do not work at this deli"})
	}

	instances, err := Checklists.GenerateForDeli(ic.DB, uint(deliID), time.Now())
	if err != nil {
		return engineError(ctx, err)
	}

	type listEntry struct {
		InstanceID uint   `json:"instance_id"`
		Title      string `json:"title"`
		Date       string `json:"date"`
		Locked     bool   `json:"locked"`
	}
	entries := make([]listEntry, 0, len(instances))
	for _, instance := range instances {
		entries = append(entries, listEntry{
			InstanceID: instance.ID,
			Title:      instance.Definition.Title,
			Date:       instance.Date,
			Locked:     instance.Locked,
		})
	}
	return ctx.JSON(entries)
}

// GetGrid returns the editable projection of one instance, creating
// the session and empty answer slots on first access.
func (ic *InstanceController) GetGrid(ctx *fiber.Ctx) error {
	user := ctx.Locals("user").(Models.User)

	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid instance ID"})
	}

	var instance Models.ChecklistInstance
	if err := ic.DB.First(&instance, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Instance not found"})
	}
	if !memberOfDeli(user, instance.DeliID) {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You do not work at this deli"})
	}

	grid, err := Checklists.BuildGrid(ic.DB, instance.ID, user)
	if err != nil {
		return engineError(ctx, err)
	}
	return ctx.JSON(grid)
}

// SaveAnswer validates and stores one cell edit
func (ic *InstanceController) SaveAnswer(ctx *fiber.Ctx) error {
	user := ctx.Locals("user").(Models.User)

	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid instance ID"})
	}

	var instance Models.ChecklistInstance
	if err := ic.DB.First(&instance, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Instance not found"})
	}
	if !memberOfDeli(user, instance.DeliID) {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You do not work at this deli"})
	}

	var input SaveAnswerInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationMessages(err)})
	}

	err = Checklists.SaveAnswer(ic.DB, instance.ID, input.RowItemID, input.Field, input.Value, user, time.Now())
	if err != nil {
		return engineError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"message": "Answer saved"})
}

// LockInstance flips the one-way lock, manager only
func (ic *InstanceController) LockInstance(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid instance ID"})
	}

	instance, err := Checklists.LockInstance(ic.DB, uint(id))
	if err != nil {
		return engineError(ctx, err)
	}
	return ctx.JSON(instance)
}

// GetAudit reports who opened and who edited an instance's session
func (ic *InstanceController) GetAudit(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid instance ID"})
	}

	var session Models.ResponseSession
	if err := ic.DB.Where("instance_id = ?", id).First(&session).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No session recorded for this instance"})
	}

	audit, err := Checklists.AuditSession(ic.DB, session.ID)
	if err != nil {
		return engineError(ctx, err)
	}
	return ctx.JSON(audit)
}
