package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-dashboard/internal/application/dto"
	"github.com/jhoicas/pos-dashboard/internal/application/session"
	"github.com/jhoicas/pos-dashboard/internal/domain"
	"github.com/jhoicas/pos-dashboard/internal/infrastructure/backend"
	"github.com/jhoicas/pos-dashboard/pkg/logger"
)

// Responder traduce errores de dominio a respuestas HTTP.
// Un 401 del backend termina la sesión: cookies borradas y redirect a login.
type Responder struct {
	cookies   *CookieJar
	sessions  *session.Service
	loginPath string
	log       *logger.Logger
}

// NewResponder construye el traductor de errores.
func NewResponder(cookies *CookieJar, sessions *session.Service, loginPath string, log *logger.Logger) *Responder {
	if log == nil {
		log = logger.Nop()
	}
	return &Responder{cookies: cookies, sessions: sessions, loginPath: loginPath, log: log.Component("http")}
}

type errorMapping struct {
	status int
	code   string
}

var errorTable = []struct {
	err error
	errorMapping
}{
	{domain.ErrShiftAlreadyOpen, errorMapping{fiber.StatusConflict, "SHIFT_ALREADY_OPEN"}},
	{domain.ErrShiftNotOpen, errorMapping{fiber.StatusConflict, "SHIFT_NOT_OPEN"}},
	{domain.ErrShiftNotPending, errorMapping{fiber.StatusConflict, "SHIFT_NOT_PENDING"}},
	{domain.ErrSuperseded, errorMapping{fiber.StatusConflict, "SUPERSEDED"}},
	{domain.ErrInvalidInput, errorMapping{fiber.StatusBadRequest, "VALIDATION"}},
	{domain.ErrForbidden, errorMapping{fiber.StatusForbidden, "FORBIDDEN"}},
	{domain.ErrNotFound, errorMapping{fiber.StatusNotFound, "NOT_FOUND"}},
	{domain.ErrConflict, errorMapping{fiber.StatusConflict, "CONFLICT"}},
	{domain.ErrNotSupported, errorMapping{fiber.StatusNotImplemented, "NOT_SUPPORTED"}},
	{domain.ErrBackendUnavailable, errorMapping{fiber.StatusBadGateway, "BACKEND_UNAVAILABLE"}},
}

// Error escribe la respuesta de error correspondiente a err.
func (r *Responder) Error(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrUnauthorized) {
		return r.SessionExpired(c)
	}

	var apiErr *backend.APIError
	hasAPI := errors.As(err, &apiErr)

	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			body := dto.ErrorResponse{Code: m.code, Message: err.Error()}
			if hasAPI {
				body.Message = apiErr.Message
				body.Errors = apiErr.Errors
			}
			return c.Status(m.status).JSON(body)
		}
	}
	if hasAPI {
		status := apiErr.Status
		if status < fiber.StatusBadRequest {
			status = fiber.StatusBadGateway
		}
		r.log.Warn().Int("backend_status", apiErr.Status).Str("path", c.Path()).Msg("estado del backend sin mapeo")
		return c.Status(status).JSON(dto.ErrorResponse{Code: "BACKEND_ERROR", Message: apiErr.Message, Errors: apiErr.Errors})
	}

	r.log.Error().Err(err).Str("path", c.Path()).Str("request_id", GetRequestID(c)).Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

// SessionExpired cierra la sesión local y responde 401 con redirect a login.
func (r *Responder) SessionExpired(c *fiber.Ctx) error {
	if token := GetToken(c); token != "" {
		r.sessions.OnUnauthorized(token)
	}
	r.cookies.Clear(c)
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Code:     "SESSION_EXPIRED",
		Message:  "la sesión expiró, inicie sesión de nuevo",
		Redirect: r.loginPath,
	})
}

// SessionInvalid responde 401 y borra las cookies cuando el sello no respalda la sesión.
// El token no se invalida: puede seguir siendo válido en el backend.
func (r *Responder) SessionInvalid(c *fiber.Ctx) error {
	r.log.Warn().Str("path", c.Path()).Str("request_id", GetRequestID(c)).Msg("sello de sesión inválido")
	r.cookies.Clear(c)
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Code:     "SESSION_INVALID",
		Message:  "la sesión no es válida, inicie sesión de nuevo",
		Redirect: r.loginPath,
	})
}

// BadRequest 400 con código propio.
func (r *Responder) BadRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
