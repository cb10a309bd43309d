package handlers

import (
	"github.com/earlysteps/casetrack/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/earlysteps/casetrack/internal/utils"
)

// UserHandler handles user account routes
type UserHandler struct {
	DB *gorm.DB
}

// ListUsers handles GET /api/users
// @Summary List users
// @Description List all users, optionally filtered by role
// @Tags Users
// @Produce json
// @Param role query string false "Filter by role"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := services.ListUsers(h.DB, c.Query("role", ""))
	if err != nil {
		return serviceError(c, err)
	}
	return utils.ListResponse(c, users, len(users))
}

// GetUser handles GET /api/users/:id
// @Summary Get user
// @Description Get a single user by id
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, err := services.GetUser(h.DB, c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, user)
}

// UpdateUser handles PUT /api/users/:id
// @Summary Update user
// @Description Update a user's details and profiles; role changes are admin only
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param body body services.UpdateUserInput true "Fields to update"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	var input services.UpdateUserInput
	if ok, err := parseBody(c, &input); !ok {
		return err
	}

	user, err := services.UpdateUser(h.DB, caller(c), c.Params("id"), input)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, user)
}

// DeleteUser handles DELETE /api/users/:id
// @Summary Delete user
// @Description Permanently delete a user account
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	if err := services.DeleteUser(h.DB, c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return utils.MessageResponse(c, "User removed")
}
