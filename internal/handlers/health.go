package handlers

import (
	"github.com/earlysteps/casetrack/internal/config"
	"github.com/earlysteps/casetrack/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthHandler handles the unauthenticated health probe
type HealthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// GetHealth handles GET /health
// @Summary Health probe
// @Description Liveness of the service, its database, and the optional mail relay
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthStatus
// @Failure 503 {object} services.HealthStatus
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	status := services.CheckHealth(h.DB, h.Cfg)
	code := fiber.StatusOK
	if !status.Healthy() {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(status)
}
