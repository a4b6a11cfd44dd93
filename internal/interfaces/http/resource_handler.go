package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-dashboard/internal/application/dto"
	"github.com/jhoicas/pos-dashboard/internal/application/resource"
	"github.com/jhoicas/pos-dashboard/internal/domain/entity"
)

// ResourceHandler CRUD genérico de un registro del backend (categorías, productos, ventas...).
// Todas las rutas requieren el menú del recurso.
type ResourceHandler[T entity.Record] struct {
	svc  *resource.Service[T]
	resp *Responder
	menu string
}

// NewResourceHandler construye el handler; menu es la ruta del dashboard que concede el acceso (ej. "/categories").
func NewResourceHandler[T entity.Record](svc *resource.Service[T], resp *Responder, menu string) *ResourceHandler[T] {
	return &ResourceHandler[T]{svc: svc, resp: resp, menu: menu}
}

// Register monta List, Get, Create, Update y Delete bajo router+menu.
func (h *ResourceHandler[T]) Register(router fiber.Router) {
	g := router.Group(h.menu, RequireMenu(h.menu))
	g.Get("/", h.List)
	g.Post("/", h.Create)
	g.Get("/:id", h.GetByID)
	g.Put("/:id", h.Update)
	g.Delete("/:id", h.Delete)
}

func (h *ResourceHandler[T]) id(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// List godoc
// @Summary      Listar registros
// @Description  Listado paginado proxy del backend. Un listado nuevo de la misma sesión cancela el anterior en curso (409 SUPERSEDED).
// @Tags         resources
// @Produce      json
// @Param        resource  path   string  true   "categories | suppliers | products | purchases | sales | stocks | users | roles"
// @Param        page      query  int     false  "Página"  default(1)
// @Param        limit     query  int     false  "Límite"  default(10)
// @Param        search    query  string  false  "Texto de búsqueda"
// @Success      200  {object}  dto.ListResponse[any]
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/{resource} [get]
func (h *ResourceHandler[T]) List(c *fiber.Ctx) error {
	q := dto.ListQuery{
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 10),
		Search: c.Query("search"),
	}
	out, err := h.svc.List(c.UserContext(), GetSessionKey(c), q)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener registro por ID
// @Tags         resources
// @Produce      json
// @Param        resource  path  string  true  "Recurso"
// @Param        id        path  int     true  "ID"
// @Success      200  {object}  any
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{resource}/{id} [get]
func (h *ResourceHandler[T]) GetByID(c *fiber.Ctx) error {
	id, ok := h.id(c)
	if !ok {
		return h.resp.BadRequest(c, "INVALID_ID", "id inválido")
	}
	out, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear registro
// @Tags         resources
// @Accept       json
// @Produce      json
// @Param        resource  path  string  true  "Recurso"
// @Success      201  {object}  any
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/{resource} [post]
func (h *ResourceHandler[T]) Create(c *fiber.Ctx) error {
	var in T
	if err := c.BodyParser(&in); err != nil {
		return h.resp.BadRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.svc.Create(c.UserContext(), GetSessionKey(c), in)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar registro
// @Description  Se envía al backend como POST con X-HTTP-Method-Override: PUT.
// @Tags         resources
// @Accept       json
// @Produce      json
// @Param        resource  path  string  true  "Recurso"
// @Param        id        path  int     true  "ID"
// @Success      200  {object}  any
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/{resource}/{id} [put]
func (h *ResourceHandler[T]) Update(c *fiber.Ctx) error {
	id, ok := h.id(c)
	if !ok {
		return h.resp.BadRequest(c, "INVALID_ID", "id inválido")
	}
	var in T
	if err := c.BodyParser(&in); err != nil {
		return h.resp.BadRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.svc.Update(c.UserContext(), GetSessionKey(c), id, in)
	if err != nil {
		return h.resp.Error(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar registro
// @Description  Optimista: el registro sale del listado en caché y vuelve a su posición si el backend falla.
// @Tags         resources
// @Produce      json
// @Param        resource  path  string  true  "Recurso"
// @Param        id        path  int     true  "ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{resource}/{id} [delete]
func (h *ResourceHandler[T]) Delete(c *fiber.Ctx) error {
	id, ok := h.id(c)
	if !ok {
		return h.resp.BadRequest(c, "INVALID_ID", "id inválido")
	}
	if err := h.svc.Delete(c.UserContext(), GetSessionKey(c), id); err != nil {
		return h.resp.Error(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
