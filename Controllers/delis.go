package Controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"DigiHaccp/Models"
)

// DeliController handles deli management and membership endpoints
type DeliController struct {
	DB *gorm.DB
}

// NewDeliController creates a new DeliController
func NewDeliController(db *gorm.DB) *DeliController {
	return &DeliController{DB: db}
}

type DeliInput struct {
	Name        string `json:"name" validate:"required"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}

// GetDelis retrieves all delis
func (dc *DeliController) GetDelis(ctx *fiber.Ctx) error {
	var delis []Models.Deli
	if err := dc.DB.Find(&delis).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve delis"})
	}
	return ctx.JSON(delis)
}

// GetDeli retrieves a single deli by ID
func (dc *DeliController) GetDeli(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid deli ID"})
	}

	var deli Models.Deli
	if err := dc.DB.Preload("Users").First(&deli, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Deli not found"})
	}
	return ctx.JSON(deli)
}

// CreateDeli creates a new deli
func (dc *DeliController) CreateDeli(ctx *fiber.Ctx) error {
	var input DeliInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validationMessages(err)})
	}

	deli := Models.Deli{
		Name:        input.Name,
		Address:     input.Address,
		PhoneNumber: input.PhoneNumber,
	}
	if err := dc.DB.Create(&deli).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create deli"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(deli)
}

// UpdateDeli updates an existing deli
func (dc *DeliController) UpdateDeli(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid deli ID"})
	}

	var deli Models.Deli
	if err := dc.DB.First(&deli, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Deli not found"})
	}

	var input DeliInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	dc.DB.Model(&deli).Updates(Models.Deli{
		Name:        input.Name,
		Address:     input.Address,
		PhoneNumber: input.PhoneNumber,
	})

	return ctx.JSON(deli)
}

// DeleteDeli soft deletes a deli
func (dc *DeliController) DeleteDeli(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid deli ID"})
	}

	var deli Models.Deli
	if err := dc.DB.First(&deli, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Deli not found"})
	}

	dc.DB.Delete(&deli)

	return ctx.JSON(fiber.Map{"message": "Deli deleted successfully"})
}

// RequestJoin files a join request for the authenticated staff member.
func (dc *DeliController) RequestJoin(ctx *fiber.Ctx) error {
	user := ctx.Locals("user").(Models.User)

	deliID, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid deli ID"})
	}

	var deli Models.Deli
	if err := dc.DB.First(&deli, deliID).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Deli not found"})
	}

	var existing Models.DeliJoinRequest
	err = dc.DB.Where("user_id = ? AND deli_id = ? AND status = ?", user.ID, deliID, Models.JoinRequestPending).
		First(&existing).Error
	if err == nil {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A pending request already exists"})
	}

	request := Models.DeliJoinRequest{
		UserID: user.ID,
		DeliID: uint(deliID),
		Status: Models.JoinRequestPending,
	}
	if err := dc.DB.Create(&request).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create join request"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(request)
}

// GetPendingRequests lists join requests awaiting review
func (dc *DeliController) GetPendingRequests(ctx *fiber.Ctx) error {
	var requests []Models.DeliJoinRequest
	err := dc.DB.Preload("User").Preload("Deli").
		Where("status = ?", Models.JoinRequestPending).
		Order("id asc").
		Find(&requests).Error
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve requests"})
	}
	return ctx.JSON(requests)
}

// ApproveRequest accepts a join request and adds the membership
func (dc *DeliController) ApproveRequest(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	var request Models.DeliJoinRequest
	if err := dc.DB.Preload("User").Preload("Deli").First(&request, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
	}
	if request.Status != Models.JoinRequestPending {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Request was already reviewed"})
	}

	if err := dc.DB.Model(&request.User).Association("Delis").Append(&request.Deli); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add membership"})
	}
	dc.DB.Model(&request).Update("status", Models.JoinRequestApproved)

	return ctx.JSON(fiber.Map{"message": "Request approved"})
}

// RejectRequest declines a join request
func (dc *DeliController) RejectRequest(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request ID"})
	}

	var request Models.DeliJoinRequest
	if err := dc.DB.First(&request, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
	}
	if request.Status != Models.JoinRequestPending {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Request was already reviewed"})
	}

	dc.DB.Model(&request).Update("status", Models.JoinRequestRejected)

	return ctx.JSON(fiber.Map{"message": "Request rejected"})
}
