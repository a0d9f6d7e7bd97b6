package errors

import (
	"errors"

	"github.com/SANJIKS/sos-backend-sub001/internal/constants"
	"github.com/SANJIKS/sos-backend-sub001/internal/service"
	"github.com/gofiber/fiber/v2"
)

func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var serviceErr service.Error
		if errors.As(err, &serviceErr) {
			return handleServiceError(c, serviceErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"code":    constants.ErrCodeInvalidRequestBody,
				"message": fiberErr.Message,
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    constants.ErrCodeInternalError,
			"message": constants.GetErrorMessage(constants.ErrCodeInternalError),
		})
	}
}

func handleServiceError(c *fiber.Ctx, err service.Error) error {
	errorCode := err.Code

	status := constants.GetHTTPStatus(errorCode)
	if status == 500 && err.Code != constants.ErrCodeInternalError {
		errorCode = constants.ErrCodeInternalError
	}

	// Validation failures carry their per-field breakdown to the client.
	var verrs service.ValidationErrors
	if errors.As(err.Cause, &verrs) {
		return c.Status(status).JSON(fiber.Map{
			"code":    errorCode,
			"message": constants.GetErrorMessage(errorCode),
			"fields":  verrs.Fields,
		})
	}

	// Auth and state rejections name the frequency or current state in their
	// message, so the cause text replaces the generic one.
	var authErr service.AuthRequiredError
	if errors.As(err.Cause, &authErr) {
		return c.Status(status).JSON(fiber.Map{
			"code":    errorCode,
			"message": authErr.Error(),
		})
	}

	var stateErr service.StateError
	if errors.As(err.Cause, &stateErr) {
		return c.Status(status).JSON(fiber.Map{
			"code":    errorCode,
			"message": stateErr.Error(),
		})
	}

	return c.Status(status).JSON(fiber.Map{
		"code":    errorCode,
		"message": constants.GetErrorMessage(errorCode),
	})
}
