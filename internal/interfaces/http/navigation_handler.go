package http

import (
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-dashboard/internal/application/dto"
	"github.com/jhoicas/pos-dashboard/internal/application/session"
)

// NavigationHandler navegación del dashboard y páginas del SPA.
type NavigationHandler struct {
	sessions *session.Service
	uiDir    string
}

// NewNavigationHandler construye el handler. uiDir vacío responde un stub JSON en lugar de index.html.
func NewNavigationHandler(sessions *session.Service, uiDir string) *NavigationHandler {
	return &NavigationHandler{sessions: sessions, uiDir: uiDir}
}

// Menus godoc
// @Summary      Navegación visible
// @Description  Entradas del menú concedidas a la sesión, en el orden del catálogo.
// @Tags         navigation
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/navigation [get]
func (h *NavigationHandler) Menus(c *fiber.Ctx) error {
	return c.JSON(h.sessions.Describe(GetSession(c)))
}

// Page renderiza el SPA para una ruta ya autorizada por PageGate.
func (h *NavigationHandler) Page(c *fiber.Ctx) error {
	if h.uiDir != "" {
		index := filepath.Join(h.uiDir, "index.html")
		if _, err := os.Stat(index); err == nil {
			return c.SendFile(index)
		}
	}
	view := h.sessions.Describe(GetSession(c))
	return c.JSON(pageStub{Page: c.Path(), Session: view})
}

type pageStub struct {
	Page    string              `json:"page"`
	Session dto.SessionResponse `json:"session"`
}
