package routes

import (
	"event-analytics-service/internal/controller"
	"event-analytics-service/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Controllers groups the handlers mounted under /api.
type Controllers struct {
	Activity  controller.ActivityController
	Events    controller.EventController
	Dashboard controller.DashboardController
	Reports   controller.ReportController
}

// Register attaches all HTTP routes to the Fiber app.
func Register(app *fiber.App, h Controllers, ingestLimiter *middleware.KeyedRateLimiter) {
	api := app.Group("/api")

	events := api.Group("/events")
	events.Post("/", h.Events.CreateEvent)
	events.Get("/:id", h.Events.GetEvent)
	events.Patch("/:id", h.Events.UpdateEvent)
	events.Post("/:id/cancel", h.Events.CancelEvent)
	events.Post("/:id/views", h.Events.RecordView)
	events.Post("/:id/ratings", h.Events.RateEvent)
	events.Post("/:id/registrations", h.Events.Register)
	events.Post("/:id/checkin", h.Events.CheckIn)
	events.Post("/:id/updates", h.Events.SendUpdate)

	events.Post("/:id/activity", middleware.RateLimitByParam(ingestLimiter, "id"), h.Activity.CreateActivity)
	events.Get("/:id/metrics", h.Activity.GetMetrics)

	events.Get("/:id/stats", h.Dashboard.EventStats)
	events.Get("/:id/analytics", h.Reports.Analytics)
	events.Get("/:id/registrations", h.Reports.Registrations)
	events.Get("/:id/financials", h.Reports.Financials)
	events.Get("/:id/export", h.Reports.Export)

	owners := api.Group("/owners/:ownerId")
	owners.Get("/stats", h.Dashboard.OwnerStats)
	owners.Post("/stats/refresh", h.Dashboard.RefreshOwnerStats)
	owners.Get("/summary", h.Dashboard.OwnerSummary)
	owners.Post("/summary/refresh", h.Dashboard.RefreshOwnerSummary)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
