package resource

import (
	"sync"
	"time"

	"github.com/jhoicas/pos-dashboard/internal/application/dto"
	"github.com/jhoicas/pos-dashboard/internal/domain/entity"
)

type listEntry[T entity.Record] struct {
	items   []T
	total   int
	expires time.Time
}

// Snapshot copia de los listados de una sesión tomada antes de un borrado optimista.
type Snapshot[T entity.Record] map[dto.ListQuery]listEntry[T]

// ListCache listados por sesión y consulta, con expiración.
type ListCache[T entity.Record] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]map[dto.ListQuery]listEntry[T]
}

// NewListCache ttl <= 0 desactiva la caché de lectura (Remove/Restore siguen operando).
func NewListCache[T entity.Record](ttl time.Duration) *ListCache[T] {
	return &ListCache[T]{ttl: ttl, now: time.Now, entries: make(map[string]map[dto.ListQuery]listEntry[T])}
}

// Get devuelve el listado si existe y no expiró.
func (c *ListCache[T]) Get(session string, q dto.ListQuery) (*dto.ListResponse[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[session][q]
	if !ok || !c.now().Before(e.expires) {
		return nil, false
	}
	return page(append([]T(nil), e.items...), q, e.total), true
}

// Put guarda una página.
func (c *ListCache[T]) Put(session string, q dto.ListQuery, items []T, total int) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.entries[session]
	if !ok {
		m = make(map[dto.ListQuery]listEntry[T])
		c.entries[session] = m
	}
	m[q] = listEntry[T]{items: append([]T(nil), items...), total: total, expires: c.now().Add(c.ttl)}
}

// Remove quita el registro de todas las páginas de la sesión y devuelve el estado previo.
func (c *ListCache[T]) Remove(session string, id int64) Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := make(Snapshot[T], len(c.entries[session]))
	for q, e := range c.entries[session] {
		snap[q] = e
		kept := make([]T, 0, len(e.items))
		for _, it := range e.items {
			if it.RecordID() != id {
				kept = append(kept, it)
			}
		}
		if removed := len(e.items) - len(kept); removed > 0 {
			c.entries[session][q] = listEntry[T]{items: kept, total: e.total - removed, expires: e.expires}
		}
	}
	return snap
}

// Restore vuelve a poner las páginas del snapshot tal como estaban antes de Remove.
// Las páginas guardadas después de Remove y ausentes del snapshot se conservan.
func (c *ListCache[T]) Restore(session string, snap Snapshot[T]) {
	if len(snap) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.entries[session]
	if !ok {
		m = make(map[dto.ListQuery]listEntry[T], len(snap))
		c.entries[session] = m
	}
	for q, e := range snap {
		m[q] = e
	}
}

// Invalidate descarta los listados de la sesión.
func (c *ListCache[T]) Invalidate(session string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, session)
}
