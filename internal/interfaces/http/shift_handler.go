package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-dashboard/internal/application/dto"
	appshift "github.com/jhoicas/pos-dashboard/internal/application/shift"
	"github.com/jhoicas/pos-dashboard/internal/domain"
	"github.com/jhoicas/pos-dashboard/internal/domain/access"
	"github.com/jhoicas/pos-dashboard/internal/domain/entity"
)

// ShiftHandler endpoints del turno de caja.
type ShiftHandler struct {
	uc   *appshift.UseCase
	resp *Responder
	loc  *time.Location
}

// NewShiftHandler construye el handler. loc interpreta date_from/date_to.
func NewShiftHandler(uc *appshift.UseCase, resp *Responder, loc *time.Location) *ShiftHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ShiftHandler{uc: uc, resp: resp, loc: loc}
}

// actor identidad del llamador; administra turnos ajenos quien tiene concedido /shifts.
func (h *ShiftHandler) actor(c *fiber.Ctx) appshift.Actor {
	a := appshift.Actor{UserID: GetUserID(c)}
	if sess := GetSession(c); sess != nil {
		a.Admin = access.Granted(sess.GrantedMenus, "/shifts")
	}
	return a
}

func (h *ShiftHandler) requireUser(c *fiber.Ctx) (string, error) {
	userID := GetUserID(c)
	if userID == "" {
		return "", fmt.Errorf("%w: usuario de la sesión desconocido", domain.ErrInvalidInput)
	}
	return userID, nil
}

// Current godoc
// @Summary      Estado del turno actual
// @Description  Turno del cajero autenticado para la fecha de hoy; status no_shift si no hay.
// @Tags         shifts
// @Produce      json
// @Success      200  {object}  dto.ShiftStatusResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/shifts/current [get]
func (h *ShiftHandler) Current(c *fiber.Ctx) error {
	userID, err := h.requireUser(c)
	if err != nil {
		return h.resp.Error(c, err)
	}
	out, err := h.uc.CurrentStatus(c.UserContext(), userID)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return c.JSON(out)
}

// Open godoc
// @Summary      Abrir turno
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenShiftRequest  true  "Saldo inicial"
// @Success      201   {object}  dto.ShiftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shifts/open [post]
func (h *ShiftHandler) Open(c *fiber.Ctx) error {
	userID, err := h.requireUser(c)
	if err != nil {
		return h.resp.Error(c, err)
	}
	var in dto.OpenShiftRequest
	if err := c.BodyParser(&in); err != nil {
		return h.resp.BadRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Open(c.UserContext(), userID, GetSession(c).User.Name, in)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Close godoc
// @Summary      Cerrar turno
// @Description  Concilia el saldo contado con el del sistema: closed si la diferencia es cero, pending_close si no. Sin shift_id cierra el turno abierto del cajero.
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CloseShiftRequest  true  "shift_id (opcional) y saldo contado"
// @Success      200   {object}  dto.ShiftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/shifts/close [post]
func (h *ShiftHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseShiftRequest
	if err := c.BodyParser(&in); err != nil {
		return h.resp.BadRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	actor := h.actor(c)
	if in.ShiftID == "" && actor.UserID == "" {
		return h.resp.BadRequest(c, "VALIDATION", "shift_id es requerido")
	}
	out, err := h.uc.Close(c.UserContext(), actor, in)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar turnos
// @Tags         shifts
// @Produce      json
// @Param        date_from  query  string  false  "YYYY-MM-DD"
// @Param        date_to    query  string  false  "YYYY-MM-DD (inclusivo)"
// @Param        kasir      query  string  false  "id o nombre del cajero"
// @Param        status     query  string  false  "open | pending_close | closed"
// @Param        selisih    query  string  false  "zero | negative | positive"
// @Param        page       query  int     false  "Página"  default(1)
// @Param        limit      query  int     false  "Límite"  default(10)
// @Success      200  {object}  dto.ListResponse[dto.ShiftResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/shifts [get]
func (h *ShiftHandler) List(c *fiber.Ctx) error {
	f := entity.ShiftFilter{
		Cashier:    c.Query("kasir"),
		Status:     entity.ShiftStatus(c.Query("status")),
		Difference: c.Query("selisih"),
		Page:       c.QueryInt("page", 1),
		Limit:      c.QueryInt("limit", 10),
	}
	var err error
	if f.DateFrom, err = h.parseDate(c.Query("date_from")); err != nil {
		return h.resp.BadRequest(c, "VALIDATION", "date_from debe tener formato YYYY-MM-DD")
	}
	if f.DateTo, err = h.parseDate(c.Query("date_to")); err != nil {
		return h.resp.BadRequest(c, "VALIDATION", "date_to debe tener formato YYYY-MM-DD")
	}
	out, err := h.uc.List(c.UserContext(), f)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return c.JSON(out)
}

func (h *ShiftHandler) parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, h.loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create godoc
// @Summary      Abrir turno para un cajero
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateShiftRequest  true  "Cajero y saldo inicial"
// @Success      201   {object}  dto.ShiftResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shifts [post]
func (h *ShiftHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateShiftRequest
	if err := c.BodyParser(&in); err != nil {
		return h.resp.BadRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if in.UserID == "" {
		return h.resp.BadRequest(c, "VALIDATION", "user_id es requerido")
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Detalle de turno
// @Tags         shifts
// @Produce      json
// @Param        id   path  string  true  "ID del turno"
// @Success      200  {object}  dto.ShiftResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shifts/{id} [get]
func (h *ShiftHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.resp.Error(c, err)
	}
	return c.JSON(out)
}

// UpdateBalance godoc
// @Summary      Corregir saldo contado
// @Description  Reconcilia de nuevo un turno pending_close; pasa a closed si la diferencia llega a cero.
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del turno"
// @Param        body  body  dto.UpdateShiftBalanceRequest  true  "Saldo contado corregido"
// @Success      200   {object}  dto.ShiftResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shifts/{id}/balance [put]
func (h *ShiftHandler) UpdateBalance(c *fiber.Ctx) error {
	var in dto.UpdateShiftBalanceRequest
	if err := c.BodyParser(&in); err != nil {
		return h.resp.BadRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.UpdateBalance(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return c.JSON(out)
}

// RecordMovement godoc
// @Summary      Registrar movimiento de caja
// @Description  Solo con el almacén local de turnos (SHIFT_STORE=postgres).
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del turno"
// @Param        body  body  dto.RecordMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.CashMovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      501   {object}  dto.ErrorResponse
// @Router       /api/shifts/{id}/movements [post]
func (h *ShiftHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return h.resp.BadRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.RecordMovement(c.UserContext(), h.actor(c), c.Params("id"), in)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Movements godoc
// @Summary      Libro de caja del turno
// @Tags         shifts
// @Produce      json
// @Param        id   path  string  true  "ID del turno"
// @Success      200  {array}   dto.CashMovementResponse
// @Failure      501  {object}  dto.ErrorResponse
// @Router       /api/shifts/{id}/movements [get]
func (h *ShiftHandler) Movements(c *fiber.Ctx) error {
	out, err := h.uc.Movements(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.resp.Error(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Comprobante PDF del turno
// @Tags         shifts
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del turno"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shifts/{id}/report [get]
func (h *ShiftHandler) Report(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.uc.Report(c.UserContext(), id)
	if err != nil {
		return h.resp.Error(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="shift-%s.pdf"`, id))
	return c.Send(pdf)
}
