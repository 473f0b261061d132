package controller

import (
	"event-analytics-service/internal/model"
	"event-analytics-service/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

type ActivityController interface {
	CreateActivity(c *fiber.Ctx) error
	GetMetrics(c *fiber.Ctx) error
}

type activityController struct {
	activityService service.ActivityService
}

// NewActivityController builds an ActivityController.
func NewActivityController(svc service.ActivityService) ActivityController {
	return &activityController{activityService: svc}
}

// CreateActivity accepts a single activity record for an event.
func (h *activityController) CreateActivity(c *fiber.Ctx) error {
	var req model.ActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	activity, err := h.activityService.BuildActivity(c.Params("id"), req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	h.activityService.ProcessActivity(c.Context(), activity)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"id": activity.ID})
}

// GetMetrics returns per-day activity counts for the requested period.
func (h *activityController) GetMetrics(c *fiber.Ctx) error {
	period := model.Period(utils.Trim(c.Query("period"), ' '))

	resp, err := h.activityService.GetMetrics(c.Context(), c.Params("id"), period)
	if err != nil {
		return toHTTPError(err, "failed to fetch metrics")
	}
	return c.JSON(resp)
}
