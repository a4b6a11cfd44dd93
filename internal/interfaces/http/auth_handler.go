package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-dashboard/internal/application/dto"
	"github.com/jhoicas/pos-dashboard/internal/application/session"
	"github.com/jhoicas/pos-dashboard/internal/domain"
)

// AuthHandler login, estado de sesión, verificación y logout.
type AuthHandler struct {
	sessions  *session.Service
	cookies   *CookieJar
	resp      *Responder
	loginPath string
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(sessions *session.Service, cookies *CookieJar, resp *Responder, loginPath string) *AuthHandler {
	return &AuthHandler{sessions: sessions, cookies: cookies, resp: resp, loginPath: loginPath}
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Autentica contra el backend y guarda token, usuario y menús en cookies HTTP-only. El token nunca viaja en el cuerpo.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return h.resp.BadRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	sess, err := h.sessions.Login(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_CREDENTIALS", Message: "email o password incorrectos"})
		}
		return h.resp.Error(c, err)
	}
	seal, err := h.sessions.Seal(sess)
	if err != nil {
		return h.resp.Error(c, err)
	}
	if err := h.cookies.Set(c, sess, seal); err != nil {
		return h.resp.Error(c, err)
	}
	return c.JSON(h.sessions.Describe(sess))
}

// Session godoc
// @Summary      Estado de la sesión
// @Description  Perfil redactado, menús concedidos y navegación visible. Lectura pura de cookies.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	cs := h.cookies.Read(c)
	if cs.Session.Token == "" || h.sessions.IsRevoked(cs.Session.Token) || !cs.MenusOK ||
		h.sessions.VerifySeal(cs.Seal, &cs.Session) != nil {
		return c.JSON(h.sessions.Describe(nil))
	}
	return c.JSON(h.sessions.Describe(&cs.Session))
}

// Check godoc
// @Summary      Verificar token
// @Description  Valida el token de la sesión contra GET /user del backend. Si no es válido borra las cookies.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.AuthCheckResponse
// @Router       /api/auth/check [get]
func (h *AuthHandler) Check(c *fiber.Ctx) error {
	token := h.cookies.Read(c).Session.Token
	if err := h.sessions.ValidateToken(c.UserContext(), token); err != nil {
		if token != "" && !errors.Is(err, domain.ErrUnauthorized) {
			return h.resp.Error(c, err)
		}
		h.cookies.Clear(c)
		return c.JSON(dto.AuthCheckResponse{Valid: false})
	}
	return c.JSON(dto.AuthCheckResponse{Valid: true})
}

// Logout godoc
// @Summary      Cerrar sesión
// @Description  Invalida la sesión en el backend (best-effort) y siempre borra las cookies.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.LogoutResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.logout(c)
	return c.JSON(dto.LogoutResponse{Redirect: h.loginPath})
}

// LogoutPage GET /logout: mismo efecto que Logout y redirige a login.
func (h *AuthHandler) LogoutPage(c *fiber.Ctx) error {
	h.logout(c)
	return c.Redirect(h.loginPath, fiber.StatusFound)
}

func (h *AuthHandler) logout(c *fiber.Ctx) {
	h.sessions.Logout(c.UserContext(), h.cookies.Read(c).Session.Token)
	h.cookies.Clear(c)
}
