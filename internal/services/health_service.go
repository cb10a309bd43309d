package services

import (
	"github.com/earlysteps/casetrack/internal/config"
	"github.com/earlysteps/casetrack/internal/utils"
	"gorm.io/gorm"
)

// HealthStatus reports the liveness of the service and its dependencies.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Mail     string `json:"mail,omitempty"`
}

// CheckHealth pings the database and, when configured, the outbound mail
// relay. A failed dependency degrades the status without failing the call;
// the handler decides the HTTP status from Healthy().
func CheckHealth(db *gorm.DB, cfg *config.Config) HealthStatus {
	status := HealthStatus{Status: "ok", Database: "up"}

	sqlDB, err := db.DB()
	if err != nil || sqlDB.Ping() != nil {
		status.Status = "degraded"
		status.Database = "down"
	}

	if cfg.SMTPHost != "" {
		status.Mail = "up"
		if err := utils.PingSMTP(cfg.SMTPHost, cfg.SMTPPort); err != nil {
			status.Status = "degraded"
			status.Mail = "down"
		}
	}
	return status
}

// Healthy reports whether every probed dependency is up.
func (h HealthStatus) Healthy() bool {
	return h.Status == "ok"
}
