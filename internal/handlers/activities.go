package handlers

import (
	"strconv"

	"github.com/earlysteps/casetrack/internal/services"
	"github.com/earlysteps/casetrack/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ActivityHandler handles activity library routes
type ActivityHandler struct {
	DB *gorm.DB
}

// CreateActivity handles POST /api/activities
// @Summary Add activity
// @Description Add an activity to the curated library
// @Tags Activities
// @Accept json
// @Produce json
// @Param body body services.CreateActivityInput true "Activity details"
// @Success 201 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /activities [post]
func (h *ActivityHandler) CreateActivity(c *fiber.Ctx) error {
	var input services.CreateActivityInput
	if ok, err := parseBody(c, &input); !ok {
		return err
	}

	activity, err := services.CreateActivity(h.DB, caller(c), input)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, activity)
}

// ListActivities handles GET /api/activities
// @Summary List activities
// @Description List library activities with optional filters; non-admins see approved entries only
// @Tags Activities
// @Produce json
// @Param domain query string false "Filter by developmental domain"
// @Param language query string false "Filter by language"
// @Param tags query string false "Filter by tags (repeatable or comma-separated, any match)"
// @Param difficultyLevel query string false "Filter by difficulty level"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /activities [get]
func (h *ActivityHandler) ListActivities(c *fiber.Ctx) error {
	activities, err := services.ListActivities(h.DB, caller(c), activityFilters(c))
	if err != nil {
		return serviceError(c, err)
	}
	return utils.ListResponse(c, activities, len(activities))
}

// ListActivitiesByAge handles GET /api/activities/age/:ageGroup
// @Summary List activities for age
// @Description List activities whose age range covers the given age in months
// @Tags Activities
// @Produce json
// @Param ageGroup path int true "Age in months"
// @Param domain query string false "Filter by developmental domain"
// @Param language query string false "Filter by language"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /activities/age/{ageGroup} [get]
func (h *ActivityHandler) ListActivitiesByAge(c *fiber.Ctx) error {
	age, err := strconv.Atoi(c.Params("ageGroup"))
	if err != nil || age < 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid age group")
	}

	activities, err := services.ListActivitiesByAge(h.DB, caller(c), age, activityFilters(c))
	if err != nil {
		return serviceError(c, err)
	}
	return utils.ListResponse(c, activities, len(activities))
}

// GetActivity handles GET /api/activities/:id
// @Summary Get activity
// @Description Get a single activity; unapproved entries are admin-only
// @Tags Activities
// @Produce json
// @Param id path string true "Activity ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /activities/{id} [get]
func (h *ActivityHandler) GetActivity(c *fiber.Ctx) error {
	activity, err := services.GetActivity(h.DB, caller(c), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, activity)
}

// UpdateActivity handles PUT /api/activities/:id
// @Summary Update activity
// @Description Update a library activity
// @Tags Activities
// @Accept json
// @Produce json
// @Param id path string true "Activity ID"
// @Param body body services.UpdateActivityInput true "Fields to update"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /activities/{id} [put]
func (h *ActivityHandler) UpdateActivity(c *fiber.Ctx) error {
	var input services.UpdateActivityInput
	if ok, err := parseBody(c, &input); !ok {
		return err
	}

	activity, err := services.UpdateActivity(h.DB, c.Params("id"), input)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, activity)
}

func activityFilters(c *fiber.Ctx) services.ActivityFilters {
	return services.ActivityFilters{
		Domain:          c.Query("domain", ""),
		Language:        c.Query("language", ""),
		Tags:            multiValueQuery(c, "tags"),
		DifficultyLevel: c.Query("difficultyLevel", ""),
	}
}
