package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/access"
)

// RequireAction devuelve un middleware Fiber que consulta la política de acceso para la
// acción indicada. Debe usarse DESPUÉS de AuthMiddleware (necesita el CallerContext).
//
// Comportamiento:
//   - 401 → sin identidad en el contexto.
//   - 403 → la política niega la acción.
func RequireAction(policy access.Policy, action access.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := policy.Authorize(c.UserContext(), GetCaller(c), action); err != nil {
			return writeError(c, err)
		}
		return c.Next()
	}
}
