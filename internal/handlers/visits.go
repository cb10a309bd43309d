package handlers

import (
	"github.com/earlysteps/casetrack/internal/services"
	"github.com/earlysteps/casetrack/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// VisitHandler handles visit record routes
type VisitHandler struct {
	DB *gorm.DB
}

// CreateVisit handles POST /api/visits
// @Summary Log visit
// @Description Log a home/center visit; also stamps the child's lastVisitDate
// @Tags Visits
// @Accept json
// @Produce json
// @Param body body services.CreateVisitInput true "Visit details"
// @Success 201 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /visits [post]
func (h *VisitHandler) CreateVisit(c *fiber.Ctx) error {
	var input services.CreateVisitInput
	if ok, err := parseBody(c, &input); !ok {
		return err
	}

	visit, err := services.CreateVisit(h.DB, caller(c), input)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, visit)
}

// GetVisit handles GET /api/visits/:id
// @Summary Get visit
// @Description Get a single visit visible to the caller
// @Tags Visits
// @Produce json
// @Param id path string true "Visit ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /visits/{id} [get]
func (h *VisitHandler) GetVisit(c *fiber.Ctx) error {
	visit, err := services.GetVisit(h.DB, caller(c), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, visit)
}

// UpdateVisit handles PUT /api/visits/:id
// @Summary Update visit
// @Description Update a visit; only the recording volunteer or an admin
// @Tags Visits
// @Accept json
// @Produce json
// @Param id path string true "Visit ID"
// @Param body body services.UpdateVisitInput true "Fields to update"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /visits/{id} [put]
func (h *VisitHandler) UpdateVisit(c *fiber.Ctx) error {
	var input services.UpdateVisitInput
	if ok, err := parseBody(c, &input); !ok {
		return err
	}

	visit, err := services.UpdateVisit(h.DB, caller(c), c.Params("id"), input)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, visit)
}

// ListVisitsByChild handles GET /api/visits/child/:childId
// @Summary List visits for child
// @Description List a child's visits, newest first, optionally within a date window
// @Tags Visits
// @Produce json
// @Param childId path string true "Child ID"
// @Param startDate query string false "Window start (RFC 3339 or YYYY-MM-DD)"
// @Param endDate query string false "Window end (RFC 3339 or YYYY-MM-DD)"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /visits/child/{childId} [get]
func (h *VisitHandler) ListVisitsByChild(c *fiber.Ctx) error {
	filters, err := visitFilters(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	visits, err := services.ListVisitsByChild(h.DB, caller(c), c.Params("childId"), filters)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.ListResponse(c, visits, len(visits))
}

// ListVisitsByVolunteer handles GET /api/visits/volunteer/:volunteerId
// @Summary List visits for volunteer
// @Description List a volunteer's visits, newest first; volunteers see only their own
// @Tags Visits
// @Produce json
// @Param volunteerId path string true "Volunteer ID"
// @Param startDate query string false "Window start (RFC 3339 or YYYY-MM-DD)"
// @Param endDate query string false "Window end (RFC 3339 or YYYY-MM-DD)"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /visits/volunteer/{volunteerId} [get]
func (h *VisitHandler) ListVisitsByVolunteer(c *fiber.Ctx) error {
	filters, err := visitFilters(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	visits, err := services.ListVisitsByVolunteer(h.DB, caller(c), c.Params("volunteerId"), filters)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.ListResponse(c, visits, len(visits))
}

func visitFilters(c *fiber.Ctx) (services.VisitFilters, error) {
	start, err := dateQuery(c, "startDate")
	if err != nil {
		return services.VisitFilters{}, err
	}
	end, err := dateQuery(c, "endDate")
	if err != nil {
		return services.VisitFilters{}, err
	}
	return services.VisitFilters{StartDate: start, EndDate: end}, nil
}
