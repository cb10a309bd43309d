package helpers

import (
	"errors"

	"github.com/earlysteps/casetrack/internal/handlers"
	"github.com/earlysteps/casetrack/internal/middleware"
	"github.com/earlysteps/casetrack/internal/types"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// NewTestApp wires the API routes the way cmd/server does, against the given
// database and the test JWT secret, so handler tests exercise the real auth
// and permission chain.
func NewTestApp(db *gorm.DB) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
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
			return c.Status(code).JSON(fiber.Map{"success": false, "message": message})
		},
	})

	api := app.Group("/api")
	api.Use(middleware.Protect(db, TestJWTSecret))

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

	return app
}
