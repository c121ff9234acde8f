package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/contable-api/internal/application/dto"
	"github.com/jhoicas/contable-api/internal/domain"
	"github.com/jhoicas/contable-api/internal/domain/fiscal"
	"github.com/jhoicas/contable-api/pkg/logger"
)

// respondError traduce errores de dominio a respuestas HTTP. Los errores no previstos se registran
// y se responden sin detalle.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var rejection *fiscal.RejectionError
	switch {
	case errors.As(err, &rejection):
		advisories := rejection.Advisories
		if advisories == nil {
			advisories = []fiscal.Advisory{}
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.RejectionResponse{
			Code:       "INVALID_INVOICE",
			Message:    "la factura no pasó la validación fiscal",
			Errors:     rejection.Reasons(),
			Fields:     rejection.Fields(),
			Advisories: advisories,
		})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya está registrado"})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrTooManyRows):
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{Code: "TOO_MANY_ROWS", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}
