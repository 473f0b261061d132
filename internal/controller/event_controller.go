package controller

import (
	"event-analytics-service/internal/model"
	"event-analytics-service/internal/service"

	"github.com/gofiber/fiber/v2"
)

type EventController interface {
	CreateEvent(c *fiber.Ctx) error
	GetEvent(c *fiber.Ctx) error
	UpdateEvent(c *fiber.Ctx) error
	CancelEvent(c *fiber.Ctx) error
	RecordView(c *fiber.Ctx) error
	RateEvent(c *fiber.Ctx) error
	Register(c *fiber.Ctx) error
	CheckIn(c *fiber.Ctx) error
	SendUpdate(c *fiber.Ctx) error
}

type eventController struct {
	eventService service.EventService
}

// NewEventController builds an EventController.
func NewEventController(svc service.EventService) EventController {
	return &eventController{eventService: svc}
}

func (h *eventController) CreateEvent(c *fiber.Ctx) error {
	var req model.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	event, err := h.eventService.Create(c.Context(), req)
	if err != nil {
		return toHTTPError(err, "failed to create event")
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

func (h *eventController) GetEvent(c *fiber.Ctx) error {
	event, err := h.eventService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return toHTTPError(err, "failed to load event")
	}
	return c.JSON(event)
}

func (h *eventController) UpdateEvent(c *fiber.Ctx) error {
	var req model.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	event, err := h.eventService.Update(c.Context(), c.Params("id"), req)
	if err != nil {
		return toHTTPError(err, "failed to update event")
	}
	return c.JSON(event)
}

func (h *eventController) CancelEvent(c *fiber.Ctx) error {
	if err := h.eventService.Cancel(c.Context(), c.Params("id")); err != nil {
		return toHTTPError(err, "failed to cancel event")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *eventController) RecordView(c *fiber.Ctx) error {
	if err := h.eventService.RecordView(c.Context(), c.Params("id")); err != nil {
		return toHTTPError(err, "failed to record view")
	}
	return c.SendStatus(fiber.StatusAccepted)
}

func (h *eventController) RateEvent(c *fiber.Ctx) error {
	var req model.RatingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	if err := h.eventService.Rate(c.Context(), c.Params("id"), req); err != nil {
		return toHTTPError(err, "failed to rate event")
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (h *eventController) Register(c *fiber.Ctx) error {
	var req model.RegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	registration, err := h.eventService.Register(c.Context(), c.Params("id"), req)
	if err != nil {
		return toHTTPError(err, "failed to register")
	}
	return c.Status(fiber.StatusCreated).JSON(registration)
}

func (h *eventController) CheckIn(c *fiber.Ctx) error {
	var req model.CheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	if err := h.eventService.CheckIn(c.Context(), c.Params("id"), req.RegistrationID); err != nil {
		return toHTTPError(err, "failed to check in attendee")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *eventController) SendUpdate(c *fiber.Ctx) error {
	var req model.EventUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	update, err := h.eventService.SendUpdate(c.Context(), c.Params("id"), req)
	if err != nil {
		return toHTTPError(err, "failed to send update")
	}
	return c.Status(fiber.StatusCreated).JSON(update)
}
