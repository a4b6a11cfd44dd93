package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-dashboard/internal/application/session"
	"github.com/jhoicas/pos-dashboard/internal/domain/access"
)

// PageGate aplica la compuerta de menús concedidos a la navegación de páginas.
// observe recibe cada decisión (métricas); puede ser nil.
func PageGate(policy access.Policy, sessions *session.Service, cookies *CookieJar, observe func(access.Outcome)) fiber.Handler {
	if observe == nil {
		observe = func(access.Outcome) {}
	}
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if !policy.IsProtected(path) {
			observe(access.Bypass)
			return c.Next()
		}

		cs := cookies.Read(c)
		menusOK := cs.MenusOK
		if menusOK && sessions.VerifySeal(cs.Seal, &cs.Session) != nil {
			menusOK = false
		}
		d := policy.Evaluate(c.UserContext(), path, cs.Session.Token, cs.Session.GrantedMenus, menusOK, sessions)
		observe(d.Outcome)

		if d.ClearSession {
			cookies.Clear(c)
		}
		if d.Allowed() {
			sess := cs.Session
			c.Locals(LocalSession, &sess)
			return c.Next()
		}
		return c.Redirect(d.Redirect, fiber.StatusFound)
	}
}
