package controller

import (
	"fmt"

	"event-analytics-service/internal/model"
	"event-analytics-service/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

type ReportController interface {
	Analytics(c *fiber.Ctx) error
	Financials(c *fiber.Ctx) error
	Registrations(c *fiber.Ctx) error
	Export(c *fiber.Ctx) error
}

type reportController struct {
	reports service.ReportService
}

// NewReportController builds a ReportController.
func NewReportController(svc service.ReportService) ReportController {
	return &reportController{reports: svc}
}

func (h *reportController) Analytics(c *fiber.Ctx) error {
	analytics, err := h.reports.EventAnalytics(c.Context(), c.Params("id"))
	if err != nil {
		return toHTTPError(err, "failed to load analytics")
	}
	return c.JSON(analytics)
}

func (h *reportController) Financials(c *fiber.Ctx) error {
	financials, err := h.reports.EventFinancials(c.Context(), c.Params("id"))
	if err != nil {
		return toHTTPError(err, "failed to load financials")
	}
	return c.JSON(financials)
}

func (h *reportController) Registrations(c *fiber.Ctx) error {
	users, err := h.reports.RegisteredUsers(c.Context(), c.Params("id"))
	if err != nil {
		return toHTTPError(err, "failed to load registrations")
	}
	return c.JSON(users)
}

func (h *reportController) Export(c *fiber.Ctx) error {
	eventID := c.Params("id")
	kind := model.ExportKind(utils.Trim(c.Query("type", string(model.ExportAttendees)), ' '))

	data, err := h.reports.Export(c.Context(), eventID, kind)
	if err != nil {
		return toHTTPError(err, "failed to export event data")
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s-%s.csv"`, eventID, kind))
	return c.Send(data)
}
