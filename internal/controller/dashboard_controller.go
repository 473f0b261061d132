package controller

import (
	"event-analytics-service/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardController interface {
	EventStats(c *fiber.Ctx) error
	OwnerStats(c *fiber.Ctx) error
	RefreshOwnerStats(c *fiber.Ctx) error
	OwnerSummary(c *fiber.Ctx) error
	RefreshOwnerSummary(c *fiber.Ctx) error
}

type dashboardController struct {
	dashboard service.DashboardService
}

// NewDashboardController builds a DashboardController.
func NewDashboardController(svc service.DashboardService) DashboardController {
	return &dashboardController{dashboard: svc}
}

func (h *dashboardController) EventStats(c *fiber.Ctx) error {
	stats, err := h.dashboard.EventStats(c.Context(), c.Params("id"))
	if err != nil {
		return toHTTPError(err, "failed to compute event stats")
	}
	return c.JSON(stats)
}

func (h *dashboardController) OwnerStats(c *fiber.Ctx) error {
	actor, err := ownerFromRequest(c)
	if err != nil {
		return err
	}

	stats, err := h.dashboard.OwnerStats(c.Context(), actor)
	if err != nil {
		return toHTTPError(err, "failed to compute owner stats")
	}
	return c.JSON(stats)
}

// RefreshOwnerStats answers 409 when a recomputation is already running.
func (h *dashboardController) RefreshOwnerStats(c *fiber.Ctx) error {
	actor, err := ownerFromRequest(c)
	if err != nil {
		return err
	}

	stats, ran, err := h.dashboard.RefreshOwnerStats(c.Context(), actor)
	if err != nil {
		return toHTTPError(err, "failed to refresh owner stats")
	}
	if !ran {
		return fiber.NewError(fiber.StatusConflict, "stats update already in progress")
	}
	return c.JSON(stats)
}

func (h *dashboardController) OwnerSummary(c *fiber.Ctx) error {
	actor, err := ownerFromRequest(c)
	if err != nil {
		return err
	}

	summary, err := h.dashboard.OwnerSummary(c.Context(), actor)
	if err != nil {
		return toHTTPError(err, "failed to compute owner summary")
	}
	return c.JSON(summary)
}

func (h *dashboardController) RefreshOwnerSummary(c *fiber.Ctx) error {
	actor, err := ownerFromRequest(c)
	if err != nil {
		return err
	}

	summary, err := h.dashboard.RefreshOwnerSummary(c.Context(), actor)
	if err != nil {
		return toHTTPError(err, "failed to refresh owner summary")
	}
	return c.JSON(summary)
}
