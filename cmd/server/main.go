// main.go
//
// A scalable, high performance drop-in replacement for the casetrack nodejs backend
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of casetrack.
// casetrack is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// casetrack is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with casetrack.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/earlysteps/casetrack/internal/config"
	"github.com/earlysteps/casetrack/internal/database"
	"github.com/earlysteps/casetrack/internal/handlers"
	"github.com/earlysteps/casetrack/internal/middleware"
	"github.com/earlysteps/casetrack/internal/types"

	_ "github.com/earlysteps/casetrack/docs/api" // Swagger docs
)

const apiVersion = "1.0.0"

// @title CaseTrack API
// @version 1.0.0
// @description Case-management backend for early-childhood development programs
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/earlysteps/casetrack
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:5000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	app := buildApp(db, cfg)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	log.Printf("Starting server on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// buildApp assembles the Fiber application and its routes. Split out from
// main so tests can run requests against the same wiring.
func buildApp(db *gorm.DB, cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("casetrack")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Unauthenticated health probe
	healthHandler := &handlers.HealthHandler{DB: db, Cfg: cfg}
	app.Get("/health", healthHandler.GetHealth)

	// API routes under /api, all behind bearer auth
	api := app.Group("/api")
	api.Use(middleware.Version(apiVersion))
	api.Use(middleware.Protect(db, cfg.JWTSecret))

	userHandler := &handlers.UserHandler{DB: db}
	childHandler := &handlers.ChildHandler{DB: db}
	milestoneHandler := &handlers.MilestoneHandler{DB: db}
	visitHandler := &handlers.VisitHandler{DB: db}
	activityHandler := &handlers.ActivityHandler{DB: db}
	reportHandler := &handlers.ReportHandler{DB: db}

	users := api.Group("/users")
	users.Get("/", middleware.Authorize("users", "list"), userHandler.ListUsers)
	users.Get("/:id", middleware.Authorize("users", "read"), userHandler.GetUser)
	users.Put("/:id", middleware.Authorize("users", "update"), userHandler.UpdateUser)
	users.Delete("/:id", middleware.Authorize("users", "delete"), userHandler.DeleteUser)

	children := api.Group("/children")
	children.Post("/", middleware.Authorize("children", "create"), childHandler.CreateChild)
	children.Get("/", middleware.Authorize("children", "list"), childHandler.ListChildren)
	children.Get("/:id", middleware.Authorize("children", "read"), childHandler.GetChild)
	children.Put("/:id", middleware.Authorize("children", "update"), childHandler.UpdateChild)
	children.Delete("/:id", middleware.Authorize("children", "delete"), childHandler.DeleteChild)

	milestones := api.Group("/milestones")
	milestones.Post("/", middleware.Authorize("milestones", "create"), milestoneHandler.CreateMilestone)
	milestones.Get("/child/:childId", middleware.Authorize("milestones", "list"), milestoneHandler.ListMilestonesByChild)
	milestones.Get("/:id", middleware.Authorize("milestones", "read"), milestoneHandler.GetMilestone)
	milestones.Put("/:id", middleware.Authorize("milestones", "update"), milestoneHandler.UpdateMilestone)

	visits := api.Group("/visits")
	visits.Post("/", middleware.Authorize("visits", "create"), visitHandler.CreateVisit)
	visits.Get("/child/:childId", middleware.Authorize("visits", "list"), visitHandler.ListVisitsByChild)
	visits.Get("/volunteer/:volunteerId", middleware.Authorize("visits", "byVolunteer"), visitHandler.ListVisitsByVolunteer)
	visits.Get("/:id", middleware.Authorize("visits", "read"), visitHandler.GetVisit)
	visits.Put("/:id", middleware.Authorize("visits", "update"), visitHandler.UpdateVisit)

	activities := api.Group("/activities")
	activities.Post("/", middleware.Authorize("activities", "create"), activityHandler.CreateActivity)
	activities.Get("/", middleware.Authorize("activities", "list"), activityHandler.ListActivities)
	activities.Get("/age/:ageGroup", middleware.Authorize("activities", "list"), activityHandler.ListActivitiesByAge)
	activities.Get("/:id", middleware.Authorize("activities", "read"), activityHandler.GetActivity)
	activities.Put("/:id", middleware.Authorize("activities", "update"), activityHandler.UpdateActivity)

	reports := api.Group("/reports")
	reports.Get("/child/:id", middleware.Authorize("reports", "child"), reportHandler.GetChildReport)
	reports.Get("/summary", middleware.Authorize("reports", "summary"), reportHandler.GetSummaryReport)
	reports.Get("/volunteer/:volunteerId", middleware.Authorize("reports", "volunteer"), reportHandler.GetVolunteerReport)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success":   false,
			"message":   "Resource Not Found",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	return app
}

// customErrorHandler renders uncaught errors with the response envelope.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	var customErr *types.CustomError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &customErr):
		code = customErr.Code
		message = customErr.Message
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
