package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/pos-dashboard/docs"
	appanalytics "github.com/jhoicas/pos-dashboard/internal/application/analytics"
	"github.com/jhoicas/pos-dashboard/internal/application/resource"
	"github.com/jhoicas/pos-dashboard/internal/application/session"
	appshift "github.com/jhoicas/pos-dashboard/internal/application/shift"
	"github.com/jhoicas/pos-dashboard/internal/domain/entity"
	"github.com/jhoicas/pos-dashboard/internal/domain/repository"
	"github.com/jhoicas/pos-dashboard/internal/infrastructure/backend"
	"github.com/jhoicas/pos-dashboard/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/pos-dashboard/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-dashboard/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-dashboard/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/pos-dashboard/internal/interfaces/http"
	"github.com/jhoicas/pos-dashboard/pkg/config"
	"github.com/jhoicas/pos-dashboard/pkg/logger"
)

const resourceCacheTTL = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Backend.BaseURL).
		Str("shift_store", cfg.Shift.Store).
		Msg("iniciando aplicación")

	loc, err := time.LoadLocation(cfg.Shift.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", cfg.Shift.Timezone).Msg("zona horaria inválida, se usa UTC")
		loc = time.UTC
	}

	m := metrics.New("pos_dashboard")

	client := backend.NewClient(backend.Options{
		BaseURL:      cfg.Backend.BaseURL,
		Timeout:      cfg.Backend.Timeout,
		ReadRetries:  cfg.Backend.ReadRetries,
		RetryBackoff: 200 * time.Millisecond,
	}, log)

	sessions := session.NewService(backend.NewAuthClient(client), session.SealConfig{
		Secret:     cfg.Session.SealSecret,
		Issuer:     cfg.Session.Issuer,
		ExpMinutes: cfg.Session.ExpMinutes,
	}, cfg.Session.RevokeTTL, log)
	sessions.OnExpired(m.ObserveExpired)
	client.OnUnauthorized(func(token string) { sessions.OnUnauthorized(token) })
	if !sessions.SealEnabled() {
		log.Warn().Msg("SESSION_SEAL_SECRET vacío: la cookie grantedMenus no se firma")
	}

	// Turnos: backend remoto por defecto; PostgreSQL local con libro de caja y monitor
	ctx := context.Background()
	var (
		shiftRepo repository.ShiftRepository
		ledger    repository.CashLedger
	)
	switch cfg.Shift.Store {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración del esquema de turnos")
		}
		repo := postgres.NewShiftRepository(pool)
		shiftRepo, ledger = repo, repo

		monitor := scheduler.NewStaleShiftMonitor(repo, cfg.Shift.StaleAfter, m.SetStale, log)
		sched, err := monitor.Start(loc, cfg.Shift.MonitorEvery)
		if err != nil {
			log.Fatal().Err(err).Msg("programar monitor de turnos")
		}
		defer sched.Stop()
	default:
		shiftRepo = backend.NewShiftStore(client, log)
	}

	slips := infrapdf.NewShiftSlipGenerator(cfg.Shift.StoreName, loc)
	shiftUC := appshift.NewUseCase(shiftRepo, ledger, slips, loc, log)
	shiftUC.OnClosed(m.ObserveClose)

	dashboardUC := appanalytics.NewDashboardUseCase(backend.NewDashboardClient(client), ledger, loc)

	cookies := httpRouter.NewCookieJar(cfg.Cookie)
	responder := httpRouter.NewResponder(cookies, sessions, cfg.Gate.LoginPath, log)

	inflight := resource.NewInflight()
	resources := []httpRouter.ResourceRoutes{
		newResource[entity.Category](client, responder, inflight, log, "/product-categories", "/categories"),
		newResource[entity.Supplier](client, responder, inflight, log, "/suppliers", "/suppliers"),
		newResource[entity.Product](client, responder, inflight, log, "/products", "/products"),
		newResource[entity.PurchaseMaster](client, responder, inflight, log, "/purchases", "/purchases"),
		newResource[entity.SaleMaster](client, responder, inflight, log, "/sales", "/sales"),
		newResource[entity.Stock](client, responder, inflight, log, "/stocks", "/stocks"),
		newResource[entity.User](client, responder, inflight, log, "/users", "/users"),
		newResource[entity.Role](client, responder, inflight, log, "/roles", "/roles"),
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Backend.Timeout + 5*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))
	app.Use(m.Middleware())
	if len(cfg.HTTP.AllowedOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(cfg.HTTP.AllowedOrigins, ","),
			AllowCredentials: true,
		}))
	}

	// Swagger UI: http://localhost:<port>/docs
	if cfg.HTTP.SwaggerEnabled {
		app.Use(swagger.New(swagger.Config{
			BasePath:    "/",
			Path:        "docs",
			Title:       "POS Dashboard API",
			FileContent: []byte(docs.SwaggerInfo.ReadDoc()),
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "ok",
			"service":     cfg.App.Name,
			"shift_store": cfg.Shift.Store,
			"cash_ledger": shiftUC.SupportsMovements(),
		})
	})
	app.Get("/metrics", m.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sessions:    sessions,
		Cookies:     cookies,
		Responder:   responder,
		Gate:        cfg.Gate,
		ShiftUC:     shiftUC,
		ShiftLoc:    loc,
		DashboardUC: dashboardUC,
		Resources:   resources,
		UIDir:       cfg.HTTP.UIDir,
		ObserveGate: m.ObserveGate,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// newResource arma el proxy CRUD de un recurso: cliente del backend, servicio con caché y handler.
func newResource[T entity.Record](client *backend.Client, resp *httpRouter.Responder, inflight *resource.Inflight, log *logger.Logger, backendPath, menu string) httpRouter.ResourceRoutes {
	svc := resource.NewService[T](backend.NewResourceClient[T](client, backendPath), resourceCacheTTL, inflight, log)
	return httpRouter.NewResourceHandler(svc, resp, menu)
}
