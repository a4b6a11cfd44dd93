package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-dashboard/internal/domain/entity"
)

// Locals keys de la sesión en Fiber.
const (
	LocalSession    = "session"
	LocalSessionKey = "session_key"
	LocalMenusOK    = "menus_ok"
	LocalRequestID  = "request_id"
)

// GetSession devuelve la sesión del contexto (después de SessionMiddleware) o nil.
func GetSession(c *fiber.Ctx) *entity.Session {
	s, _ := c.Locals(LocalSession).(*entity.Session)
	return s
}

// GetToken token bearer de la sesión actual.
func GetToken(c *fiber.Ctx) string {
	if s := GetSession(c); s != nil {
		return s.Token
	}
	return ""
}

// GetUserID id del usuario de la sesión como string ("" si se desconoce).
func GetUserID(c *fiber.Ctx) string {
	s := GetSession(c)
	if s == nil || s.User.ID == 0 {
		return ""
	}
	return formatID(s.User.ID)
}

// GetSessionKey huella del token; clave de caché y de cancelación por sesión.
func GetSessionKey(c *fiber.Ctx) string {
	v, _ := c.Locals(LocalSessionKey).(string)
	return v
}

// GetRequestID id de la petición.
func GetRequestID(c *fiber.Ctx) string {
	v, _ := c.Locals(LocalRequestID).(string)
	return v
}
