package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/mydeeptech/admin-dashboard/internal/application/dto"
	"github.com/mydeeptech/admin-dashboard/internal/domain"
)

// respondError traduce errores de dominio y del backend a status HTTP + ErrorResponse.
func respondError(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: domain.ErrorMessage(err)})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrRejected):
		return fiber.StatusUnprocessableEntity, "REJECTED"
	case errors.Is(err, domain.ErrHTTPStatus):
		// 401/403 del backend se reenvían tal cual: el token del llamador no sirve.
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.Status {
			case fiber.StatusUnauthorized:
				return fiber.StatusUnauthorized, "UNAUTHORIZED"
			case fiber.StatusForbidden:
				return fiber.StatusForbidden, "FORBIDDEN"
			}
		}
		return fiber.StatusBadGateway, "BACKEND_ERROR"
	case errors.Is(err, domain.ErrTransport):
		return fiber.StatusServiceUnavailable, "BACKEND_UNAVAILABLE"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}
