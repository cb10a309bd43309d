package handlers

import (
	"encoding/json"

	"github.com/earlysteps/casetrack/internal/models"
	"github.com/earlysteps/casetrack/internal/services"
	"github.com/earlysteps/casetrack/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ChildHandler handles child record routes
type ChildHandler struct {
	DB *gorm.DB
}

// CreateChild handles POST /api/children
// @Summary Register child
// @Description Register a new child; parents register under their own account
// @Tags Children
// @Accept json
// @Produce json
// @Param body body services.CreateChildInput true "Child details"
// @Success 201 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /children [post]
func (h *ChildHandler) CreateChild(c *fiber.Ctx) error {
	var input services.CreateChildInput
	if ok, err := parseBody(c, &input); !ok {
		return err
	}

	child, err := services.CreateChild(h.DB, caller(c), input)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, child)
}

// ListChildren handles GET /api/children
// @Summary List children
// @Description List children visible to the caller with optional filters
// @Tags Children
// @Produce json
// @Param isActive query bool false "Filter by active flag"
// @Param age query string false "Age window in years as JSON, e.g. {\"min\":1,\"max\":3}"
// @Param includeDeleted query bool false "Include soft-deleted records (admin only)"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /children [get]
func (h *ChildHandler) ListChildren(c *fiber.Ctx) error {
	filters := services.ChildFilters{
		IsActive:       boolQuery(c, "isActive"),
		IncludeDeleted: c.Query("includeDeleted", "") == "true",
	}
	if raw := c.Query("age", ""); raw != "" {
		var age models.AgeRange
		if err := json.Unmarshal([]byte(raw), &age); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid age filter")
		}
		filters.Age = &age
	}

	children, err := services.ListChildren(h.DB, caller(c), filters)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.ListResponse(c, children, len(children))
}

// GetChild handles GET /api/children/:id
// @Summary Get child
// @Description Get a single child record the caller may see
// @Tags Children
// @Produce json
// @Param id path string true "Child ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /children/{id} [get]
func (h *ChildHandler) GetChild(c *fiber.Ctx) error {
	child, err := services.GetChild(h.DB, caller(c), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, child)
}

// UpdateChild handles PUT /api/children/:id
// @Summary Update child
// @Description Update a child record; volunteer assignment is admin/volunteer only
// @Tags Children
// @Accept json
// @Produce json
// @Param id path string true "Child ID"
// @Param body body services.UpdateChildInput true "Fields to update"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /children/{id} [put]
func (h *ChildHandler) UpdateChild(c *fiber.Ctx) error {
	var input services.UpdateChildInput
	if ok, err := parseBody(c, &input); !ok {
		return err
	}

	child, err := services.UpdateChild(h.DB, caller(c), c.Params("id"), input)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, child)
}

// DeleteChild handles DELETE /api/children/:id
// @Summary Delete child
// @Description Soft-delete a child record; history stays queryable for admins
// @Tags Children
// @Produce json
// @Param id path string true "Child ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /children/{id} [delete]
func (h *ChildHandler) DeleteChild(c *fiber.Ctx) error {
	if err := services.SoftDeleteChild(h.DB, c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return utils.MessageResponse(c, "Child removed")
}
