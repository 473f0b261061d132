package controller

import (
	"errors"
	"log/slog"

	"event-analytics-service/internal/model"
	"event-analytics-service/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// toHTTPError maps service errors onto fiber errors. Unexpected errors are
// logged and reported with the generic message.
func toHTTPError(err error, message string) error {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return fiber.NewError(fiber.StatusBadRequest, validationErr.Error())
	case errors.Is(err, service.ErrEventNotFound), errors.Is(err, service.ErrRegistrationNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		slog.Error(message, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, message)
	}
}

// ownerFromRequest reads the owner id from the route and the optional
// display name from the query string.
func ownerFromRequest(c *fiber.Ctx) (model.Actor, error) {
	id := utils.Trim(c.Params("ownerId"), ' ')
	if id == "" {
		return model.Actor{}, fiber.NewError(fiber.StatusBadRequest, "owner id is required")
	}
	return model.Actor{ID: id, Name: utils.Trim(c.Query("name"), ' ')}, nil
}
