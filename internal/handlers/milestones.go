package handlers

import (
	"github.com/earlysteps/casetrack/internal/services"
	"github.com/earlysteps/casetrack/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// MilestoneHandler handles milestone routes
type MilestoneHandler struct {
	DB *gorm.DB
}

// CreateMilestone handles POST /api/milestones
// @Summary Record milestone
// @Description Record a developmental milestone for a child
// @Tags Milestones
// @Accept json
// @Produce json
// @Param body body services.CreateMilestoneInput true "Milestone details"
// @Success 201 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /milestones [post]
func (h *MilestoneHandler) CreateMilestone(c *fiber.Ctx) error {
	var input services.CreateMilestoneInput
	if ok, err := parseBody(c, &input); !ok {
		return err
	}

	milestone, err := services.CreateMilestone(h.DB, caller(c), input)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, milestone)
}

// GetMilestone handles GET /api/milestones/:id
// @Summary Get milestone
// @Description Get a single milestone the caller may see
// @Tags Milestones
// @Produce json
// @Param id path string true "Milestone ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /milestones/{id} [get]
func (h *MilestoneHandler) GetMilestone(c *fiber.Ctx) error {
	milestone, err := services.GetMilestone(h.DB, caller(c), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, milestone)
}

// ListMilestonesByChild handles GET /api/milestones/child/:childId
// @Summary List milestones for child
// @Description List a child's milestones, newest first, with optional filters
// @Tags Milestones
// @Produce json
// @Param childId path string true "Child ID"
// @Param domain query string false "Filter by developmental domain"
// @Param status query string false "Filter by status"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /milestones/child/{childId} [get]
func (h *MilestoneHandler) ListMilestonesByChild(c *fiber.Ctx) error {
	filters := services.MilestoneFilters{
		Domain: c.Query("domain", ""),
		Status: c.Query("status", ""),
	}

	milestones, err := services.ListMilestonesByChild(h.DB, caller(c), c.Params("childId"), filters)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.ListResponse(c, milestones, len(milestones))
}

// UpdateMilestone handles PUT /api/milestones/:id
// @Summary Update milestone
// @Description Update a milestone; parents may only change notes, media, and activities
// @Tags Milestones
// @Accept json
// @Produce json
// @Param id path string true "Milestone ID"
// @Param body body services.UpdateMilestoneInput true "Fields to update"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /milestones/{id} [put]
func (h *MilestoneHandler) UpdateMilestone(c *fiber.Ctx) error {
	var input services.UpdateMilestoneInput
	if ok, err := parseBody(c, &input); !ok {
		return err
	}

	milestone, err := services.UpdateMilestone(h.DB, caller(c), c.Params("id"), input)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, milestone)
}
