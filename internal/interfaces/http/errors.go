package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/tenancy"
)

// writeError traduce un error de dominio a status + cuerpo uniforme. Los fallos de
// autenticación se reportan siempre igual; los internos se registran y no se exponen.
func writeError(c *fiber.Ctx, err error) error {
	status, code, msg := classify(err)
	if status >= fiber.StatusInternalServerError || errors.Is(err, domain.ErrInvalidTenant) {
		log.Error().Err(err).
			Str("request_id", requestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Msg("error en petición")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Success: false, Code: code, Message: msg})
}

func classify(err error) (int, string, string) {
	var fe *fiber.Error
	switch {
	case errors.Is(err, domain.ErrAuthFailure):
		return fiber.StatusUnauthorized, "UNAUTHORIZED", "no autorizado"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN", "acceso denegado"
	case errors.Is(err, domain.ErrInvalidTenant):
		return fiber.StatusBadRequest, "INVALID_TENANT", "solicitud inválida"
	case errors.Is(err, domain.ErrTableNotAllowed),
		errors.Is(err, tenancy.ErrInvalidIdentifier),
		errors.Is(err, tenancy.ErrTenantColumn),
		errors.Is(err, tenancy.ErrEmptyUpdate):
		return fiber.StatusInternalServerError, "INVALID_QUERY", "solicitud inválida"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION", err.Error()
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK", "stock insuficiente"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE", "recurso duplicado"
	case errors.Is(err, domain.ErrTransaction):
		return fiber.StatusServiceUnavailable, "TRANSIENT", "error transitorio, reintente"
	case errors.As(err, &fe):
		return fe.Code, "HTTP_ERROR", fe.Message
	default:
		return fiber.StatusInternalServerError, "INTERNAL", "error interno"
	}
}

// ErrorHandler manejador de errores de Fiber (rutas inexistentes, panics recuperados, errores
// devueltos por middlewares) con el mismo formato que los handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return writeError(c, err)
}

func requestID(c *fiber.Ctx) string {
	if v, ok := c.Locals("requestid").(string); ok {
		return v
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
