// Package resource expone el CRUD genérico de los registros del backend
// (categorías, proveedores, productos, compras, ventas, stock, usuarios y roles).
package resource

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/pos-dashboard/internal/application/dto"
	"github.com/jhoicas/pos-dashboard/internal/domain"
	"github.com/jhoicas/pos-dashboard/internal/domain/entity"
	"github.com/jhoicas/pos-dashboard/pkg/logger"
)

// Gateway puerto hacia la colección remota de un recurso.
type Gateway[T entity.Record] interface {
	Path() string
	List(ctx context.Context, q dto.ListQuery) ([]T, int, error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, in T) (T, error)
	Update(ctx context.Context, id int64, in T) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Service CRUD de un recurso con caché de listados por sesión y cancelación
// del listado anterior cuando llega uno nuevo.
// sessionKey identifica la sesión (huella del token), nunca el token en claro.
type Service[T entity.Record] struct {
	gw       Gateway[T]
	cache    *ListCache[T]
	inflight *Inflight
	log      *logger.Logger
}

// NewService construye el servicio. ttl es la vigencia de los listados en caché.
func NewService[T entity.Record](gw Gateway[T], ttl time.Duration, inflight *Inflight, log *logger.Logger) *Service[T] {
	if inflight == nil {
		inflight = NewInflight()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service[T]{
		gw:       gw,
		cache:    NewListCache[T](ttl),
		inflight: inflight,
		log:      log.Component("resource" + gw.Path()),
	}
}

// Path ruta del recurso en el backend.
func (s *Service[T]) Path() string { return s.gw.Path() }

// List devuelve una página. Un listado más reciente de la misma sesión cancela
// este con domain.ErrSuperseded.
func (s *Service[T]) List(ctx context.Context, sessionKey string, q dto.ListQuery) (*dto.ListResponse[T], error) {
	q.Normalize()
	if out, ok := s.cache.Get(sessionKey, q); ok {
		return out, nil
	}

	ctx, done := s.inflight.Begin(ctx, sessionKey+s.gw.Path())
	defer done()

	items, total, err := s.gw.List(ctx, q)
	if err != nil {
		if errors.Is(context.Cause(ctx), domain.ErrSuperseded) {
			return nil, domain.ErrSuperseded
		}
		return nil, err
	}
	s.cache.Put(sessionKey, q, items, total)
	return page(items, q, total), nil
}

// Cached listado en caché sin consultar al backend.
func (s *Service[T]) Cached(sessionKey string, q dto.ListQuery) (*dto.ListResponse[T], bool) {
	q.Normalize()
	return s.cache.Get(sessionKey, q)
}

// Get detalle de un registro.
func (s *Service[T]) Get(ctx context.Context, id int64) (T, error) {
	return s.gw.Get(ctx, id)
}

// Create crea el registro e invalida los listados de la sesión.
func (s *Service[T]) Create(ctx context.Context, sessionKey string, in T) (T, error) {
	out, err := s.gw.Create(ctx, in)
	if err != nil {
		return out, err
	}
	s.cache.Invalidate(sessionKey)
	return out, nil
}

// Update actualiza el registro (PUT vía override) e invalida los listados de la sesión.
func (s *Service[T]) Update(ctx context.Context, sessionKey string, id int64, in T) (T, error) {
	out, err := s.gw.Update(ctx, id, in)
	if err != nil {
		return out, err
	}
	s.cache.Invalidate(sessionKey)
	return out, nil
}

// Delete borrado optimista: el registro sale de los listados en caché antes de
// llamar al backend y vuelve a su lugar si el backend falla.
func (s *Service[T]) Delete(ctx context.Context, sessionKey string, id int64) error {
	snap := s.cache.Remove(sessionKey, id)
	if err := s.gw.Delete(ctx, id); err != nil {
		s.cache.Restore(sessionKey, snap)
		s.log.Warn().Err(err).Int64("id", id).Msg("borrado rechazado; se restaura el listado")
		return err
	}
	s.cache.Invalidate(sessionKey)
	return nil
}

func page[T any](items []T, q dto.ListQuery, total int) *dto.ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return &dto.ListResponse[T]{Items: items, Page: dto.PageResponse{Page: q.Page, Limit: q.Limit, Total: total}}
}
