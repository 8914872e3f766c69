package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"storefront/internal/apperrors"
)

// respondError maps a service error to an HTTP response. Domain errors
// carry their message to the client; anything unclassified becomes a
// generic 500 so internals never leak.
func respondError(c *fiber.Ctx, message string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, apperrors.ErrPaymentNotVerified),
		errors.Is(err, apperrors.ErrTransactionReused),
		errors.Is(err, apperrors.ErrAmountMismatch):
		status = fiber.StatusPaymentRequired
	case errors.Is(err, apperrors.ErrConflict):
		status = fiber.StatusConflict
	}

	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{
			"message": message,
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// respondValidationErrors turns validator failures into a field-keyed
// 400 response.
func respondValidationErrors(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
