package handlers

import (
	"github.com/earlysteps/casetrack/internal/services"
	"github.com/earlysteps/casetrack/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ReportHandler handles aggregate report routes
type ReportHandler struct {
	DB *gorm.DB
}

// GetChildReport handles GET /api/reports/child/:id
// @Summary Child development report
// @Description Milestone stats, recent visits, and age-appropriate progress for one child
// @Tags Reports
// @Produce json
// @Param id path string true "Child ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /reports/child/{id} [get]
func (h *ReportHandler) GetChildReport(c *fiber.Ctx) error {
	report, err := services.GetChildReport(h.DB, caller(c), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, report)
}

// GetSummaryReport handles GET /api/reports/summary
// @Summary Organization summary report
// @Description Org-wide counts, milestone stats, and derived ratios
// @Tags Reports
// @Produce json
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /reports/summary [get]
func (h *ReportHandler) GetSummaryReport(c *fiber.Ctx) error {
	report, err := services.GetSummaryReport(h.DB)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, report)
}

// GetVolunteerReport handles GET /api/reports/volunteer/:volunteerId
// @Summary Volunteer activity report
// @Description Visit history, hours, and milestone assessment counts for one volunteer
// @Tags Reports
// @Produce json
// @Param volunteerId path string true "Volunteer ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /reports/volunteer/{volunteerId} [get]
func (h *ReportHandler) GetVolunteerReport(c *fiber.Ctx) error {
	report, err := services.GetVolunteerReport(h.DB, caller(c), c.Params("volunteerId"))
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, report)
}
