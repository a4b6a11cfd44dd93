package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-dashboard/internal/application/dto"
	"github.com/jhoicas/pos-dashboard/internal/domain/access"
)

// RequireMenu verifica que la sesión tenga concedido el menú indicado.
// Debe usarse DESPUÉS de SessionMiddleware.
//
// Comportamiento:
//   - 401 → no hay sesión en el contexto.
//   - 403 → menús desconocidos (cookie ausente o sello inválido) o menú no concedido.
func RequireMenu(menu string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := GetSession(c)
		if sess == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "sesión no encontrada",
			})
		}
		if access.Granted(sess.GrantedMenus, menu) {
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:    "MENU_NOT_GRANTED",
			Message: "el menú '" + menu + "' no está concedido para este usuario",
		})
	}
}
