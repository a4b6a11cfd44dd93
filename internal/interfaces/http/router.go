package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/pos-dashboard/internal/application/analytics"
	"github.com/jhoicas/pos-dashboard/internal/application/dto"
	"github.com/jhoicas/pos-dashboard/internal/application/session"
	appshift "github.com/jhoicas/pos-dashboard/internal/application/shift"
	"github.com/jhoicas/pos-dashboard/internal/domain/access"
	"github.com/jhoicas/pos-dashboard/pkg/config"
)

// ResourceRoutes rutas CRUD de un recurso proxy; ver ResourceHandler.
type ResourceRoutes interface {
	Register(router fiber.Router)
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sessions    *session.Service
	Cookies     *CookieJar
	Responder   *Responder
	Gate        config.GateConfig
	ShiftUC     *appshift.UseCase
	ShiftLoc    *time.Location
	DashboardUC *appanalytics.DashboardUseCase
	Resources   []ResourceRoutes
	UIDir       string
	ObserveGate func(access.Outcome) // puede ser nil
}

// Router registra las rutas de la API y de las páginas del dashboard.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.Sessions, deps.Cookies, deps.Responder, deps.Gate.LoginPath)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/session", authHandler.Session)
	authGroup.Get("/check", authHandler.Check)
	authGroup.Post("/logout", authHandler.Logout)
	app.Get("/logout", authHandler.LogoutPage)

	// Rutas protegidas (cookie authToken o Bearer)
	protected := api.Group("/", SessionMiddleware(deps.Sessions, deps.Cookies, deps.Responder))

	nav := NewNavigationHandler(deps.Sessions, deps.UIDir)
	protected.Get("/navigation", nav.Menus)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.Responder)
	protected.Get("/dashboard/summary", RequireMenu("/dashboard"), dashboardHandler.GetSummary)

	// Turnos: el cajero opera su propio turno; la administración requiere el menú /shifts
	shifts := protected.Group("/shifts")
	shiftHandler := NewShiftHandler(deps.ShiftUC, deps.Responder, deps.ShiftLoc)
	shifts.Get("/current", shiftHandler.Current)
	shifts.Post("/open", shiftHandler.Open)
	shifts.Post("/close", shiftHandler.Close)
	shifts.Post("/:id/movements", shiftHandler.RecordMovement)

	admin := shifts.Group("/", RequireMenu("/shifts"))
	admin.Get("/", shiftHandler.List)
	admin.Post("/", shiftHandler.Create)
	admin.Get("/:id", shiftHandler.GetByID)
	admin.Put("/:id/balance", shiftHandler.UpdateBalance)
	admin.Get("/:id/movements", shiftHandler.Movements)
	admin.Get("/:id/report", shiftHandler.Report)

	for _, r := range deps.Resources {
		r.Register(protected)
	}
	api.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ruta no encontrada"})
	})

	// Páginas: la compuerta corre antes que cualquier archivo del build del SPA
	policy := access.Policy{
		Protected:    deps.Gate.ProtectedPaths,
		LoginPath:    deps.Gate.LoginPath,
		NoAccessPath: deps.Gate.NoAccessPath,
	}
	app.Use(PageGate(policy, deps.Sessions, deps.Cookies, deps.ObserveGate))
	if deps.UIDir != "" {
		app.Static("/", deps.UIDir)
	}
	app.Get("/*", nav.Page)
}
