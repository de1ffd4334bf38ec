package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/auth"
	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// SessionService operaciones de sesión que usa el handler. Lo implementa *auth.SessionUseCase.
type SessionService interface {
	Authenticator
	Login(ctx context.Context, in auth.LoginInput) (*dto.LoginResponse, error)
	Logout(ctx context.Context, userID int64, token string) error
	Register(ctx context.Context, in auth.RegisterInput) (*dto.UserResponse, error)
	Me(ctx context.Context, caller *entity.CallerContext) (*dto.UserResponse, error)
}

// CookieConfig atributos de la cookie de sesión.
type CookieConfig struct {
	Secure bool
	TTL    time.Duration
}

// AuthHandler maneja registro, login, logout y la identidad actual.
type AuthHandler struct {
	uc     SessionService
	cookie CookieConfig
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc SessionService, cookie CookieConfig) *AuthHandler {
	if cookie.TTL <= 0 {
		cookie.TTL = auth.DefaultSessionTTL
	}
	return &AuthHandler{uc: uc, cookie: cookie}
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "tenant_id, username, email, password"
// @Success      201   {object}  dto.Response{data=dto.UserResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Register(c.UserContext(), auth.RegisterInput{
		TenantID: in.TenantID,
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Response{Success: true, Data: out, ID: out.ID})
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Devuelve el token de sesión y lo deja también en la cookie session_token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := parseBody(c, &in); err != nil {
		// credenciales mal formadas se reportan como cualquier fallo de login
		return writeError(c, domain.ErrAuthFailure)
	}
	out, err := h.uc.Login(c.UserContext(), auth.LoginInput{
		Username:      in.Username,
		Password:      in.Password,
		DeviceInfo:    c.Get(fiber.HeaderUserAgent),
		SourceAddress: c.IP(),
	})
	if err != nil {
		return writeError(c, err)
	}
	h.setSessionCookie(c, out.Token, time.Now().Add(h.cookie.TTL))
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Response
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	caller := GetCaller(c)
	if err := h.uc.Logout(c.UserContext(), caller.UserID, getToken(c)); err != nil {
		return writeError(c, err)
	}
	// mismos atributos que en login; si no, el navegador conserva la cookie de Path=/
	h.setSessionCookie(c, "", time.Unix(0, 0))
	return c.JSON(dto.Response{Success: true, Message: "sesión cerrada"})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Me godoc
// @Summary      Usuario actual
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.Response{data=dto.UserResponse}
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), GetCaller(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.Response{Success: true, Data: out})
}
