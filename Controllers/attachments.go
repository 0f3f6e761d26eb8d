package Controllers

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"DigiHaccp/Models"
)

const (
	evidenceDir  = "Evidence"
	thumbnailDir = "EvidenceThumbs"
	thumbWidth   = 320
)

// AttachmentController stores proof photos against instances
type AttachmentController struct {
	DB *gorm.DB
}

// NewAttachmentController creates a new AttachmentController
func NewAttachmentController(db *gorm.DB) *AttachmentController {
	return &AttachmentController{DB: db}
}

// UploadEvidence saves an uploaded photo plus a resized thumbnail and
// records it against the instance.
func (ac *AttachmentController) UploadEvidence(ctx *fiber.Ctx) error {
	user := ctx.Locals("user").(Models.User)

	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid instance ID"})
	}

	var instance Models.ChecklistInstance
	if err := ac.DB.First(&instance, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Instance not found"})
	}
	if !memberOfDeli(user, instance.DeliID) {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You do not work at this deli"})
	}
	if instance.Locked {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "This checklist has been locked"})
	}

	fileHeader, err := ctx.FormFile("photo")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing photo upload"})
	}

	for _, dir := range []string{evidenceDir, thumbnailDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store photo"})
		}
	}

	name := uuid.NewString() + filepath.Ext(fileHeader.Filename)
	fullPath := filepath.Join(evidenceDir, name)
	if err := ctx.SaveFile(fileHeader, fullPath); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store photo"})
	}

	image, err := imaging.Open(fullPath)
	if err != nil {
		os.Remove(fullPath)
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Uploaded file is not a readable image"})
	}
	thumbnail := imaging.Resize(image, thumbWidth, 0, imaging.Lanczos)
	thumbPath := filepath.Join(thumbnailDir, name)
	if err := imaging.Save(thumbnail, thumbPath); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store thumbnail"})
	}

	photo := Models.EvidencePhoto{
		InstanceID: instance.ID,
		FileName:   name,
		ThumbName:  name,
		UploadedBy: user.Name,
	}
	if err := ac.DB.Create(&photo).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record photo"})
	}

	return ctx.Status(fiber.StatusCreated).JSON(photo)
}

// GetEvidence lists the photos recorded against an instance
func (ac *AttachmentController) GetEvidence(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid instance ID"})
	}

	var photos []Models.EvidencePhoto
	if err := ac.DB.Where("instance_id = ?", id).Order("id asc").Find(&photos).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve photos"})
	}
	return ctx.JSON(photos)
}
