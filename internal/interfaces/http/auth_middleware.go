package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// SessionCookie nombre de la cookie con el token de sesión.
const SessionCookie = "session_token"

// Locals keys en Fiber.
const (
	LocalCaller = "caller"
	LocalToken  = "session_token"
)

// Authenticator resuelve un token de sesión a la identidad del llamador.
// Lo implementa *auth.SessionUseCase.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.CallerContext, error)
}

// AuthMiddleware toma el token del header Authorization: Bearer o de la cookie
// session_token, lo valida y deja el CallerContext en c.Locals.
func AuthMiddleware(sessions Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return writeError(c, domain.ErrUnauthenticated)
		}
		caller, err := sessions.Authenticate(c.UserContext(), token)
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalCaller, caller)
		c.Locals(LocalToken, token)
		return c.Next()
	}
}

// extractToken prefiere el header Authorization explícito; la cookie solo se usa si no hay
// Bearer, así una cookie vieja no invalida un token válido enviado en el header.
func extractToken(c *fiber.Ctx) string {
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		if tok := strings.TrimSpace(parts[1]); tok != "" {
			return tok
		}
	}
	return strings.TrimSpace(c.Cookies(SessionCookie))
}

// GetCaller devuelve la identidad del llamador (después de AuthMiddleware) o nil.
func GetCaller(c *fiber.Ctx) *entity.CallerContext {
	caller, _ := c.Locals(LocalCaller).(*entity.CallerContext)
	return caller
}

// getToken devuelve el token con el que se autenticó la petición.
func getToken(c *fiber.Ctx) string {
	tok, _ := c.Locals(LocalToken).(string)
	return tok
}
