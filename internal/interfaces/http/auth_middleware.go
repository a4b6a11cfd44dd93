package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-dashboard/internal/application/dto"
	"github.com/jhoicas/pos-dashboard/internal/application/session"
	"github.com/jhoicas/pos-dashboard/internal/domain/entity"
	"github.com/jhoicas/pos-dashboard/internal/infrastructure/backend"
	"github.com/jhoicas/pos-dashboard/pkg/logger"
)

// SessionMiddleware autentica las rutas /api protegidas.
// El token sale de la cookie authToken o del header Authorization: Bearer.
// Usuario y menús salen de las cookies. Con sello configurado, una sesión de cookies
// cuyo sello no coincide se rechaza entera; con Bearer solo se descartan usuario y menús.
func SessionMiddleware(sessions *session.Service, cookies *CookieJar, resp *Responder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cs := cookies.Read(c)
		fromCookie := cs.Session.Token != ""
		if !fromCookie {
			authHeader := c.Get("Authorization")
			if authHeader == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "sesión requerida"})
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
			}
			cs.Session.Token = strings.TrimSpace(parts[1])
		}

		sess := cs.Session
		if sessions.IsRevoked(sess.Token) {
			c.Locals(LocalSession, &sess)
			return resp.SessionExpired(c)
		}

		menusOK := cs.MenusOK
		if sessions.SealEnabled() && (!menusOK || sessions.VerifySeal(cs.Seal, &sess) != nil) {
			if fromCookie {
				return resp.SessionInvalid(c)
			}
			sess.User = entity.SessionUser{}
			menusOK = false
		}
		if !menusOK {
			sess.GrantedMenus = nil
		}
		c.Locals(LocalSession, &sess)
		c.Locals(LocalMenusOK, menusOK)
		c.Locals(LocalSessionKey, logger.Fingerprint(sess.Token))
		c.SetUserContext(backend.WithToken(c.UserContext(), sess.Token))
		return c.Next()
	}
}
