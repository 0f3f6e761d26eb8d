package Controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"DigiHaccp/Models"
)

// FetchUsers lists every account, manager only.
func FetchUsers(c *fiber.Ctx) error {
	var users []Models.User
	if err := Models.DB.Preload("Delis").Order("email asc").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch users"})
	}
	return c.JSON(users)
}

type UpdateUserInput struct {
	Name       *string `json:"name"`
	Permission *int    `json:"permission"`
	IsActive   *bool   `json:"is_active"`
}

// UpdateUser changes name, permission level or active flag of an
// account.
func UpdateUser(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	var user Models.User
	if err := Models.DB.First(&user, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}

	var input UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Permission != nil {
		user.Permission = *input.Permission
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if err := Models.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to update user"})
	}
	return c.JSON(user)
}

// DeleteUser removes a staff account. Managers cannot delete each
// other.
func DeleteUser(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	var user Models.User
	if err := Models.DB.First(&user, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}

	if user.IsManager() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "You cannot delete another manager"})
	}

	Models.DB.Delete(&user)

	return c.JSON(fiber.Map{"message": user.Email + " has been deleted successfully"})
}
