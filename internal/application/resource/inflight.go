package resource

import (
	"context"
	"sync"

	"github.com/jhoicas/pos-dashboard/internal/domain"
)

// Inflight lleva la petición en curso por clave; empezar una nueva cancela la anterior
// con causa domain.ErrSuperseded.
type Inflight struct {
	mu    sync.Mutex
	seq   uint64
	calls map[string]inflightCall
}

type inflightCall struct {
	id     uint64
	cancel context.CancelCauseFunc
}

// NewInflight construye el registro vacío.
func NewInflight() *Inflight {
	return &Inflight{calls: make(map[string]inflightCall)}
}

// Begin registra una petición para key. done debe llamarse al terminar.
func (f *Inflight) Begin(ctx context.Context, key string) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(ctx)

	f.mu.Lock()
	if prev, ok := f.calls[key]; ok {
		prev.cancel(domain.ErrSuperseded)
	}
	f.seq++
	id := f.seq
	f.calls[key] = inflightCall{id: id, cancel: cancel}
	f.mu.Unlock()

	return ctx, func() {
		f.mu.Lock()
		if cur, ok := f.calls[key]; ok && cur.id == id {
			delete(f.calls, key)
		}
		f.mu.Unlock()
		cancel(nil)
	}
}

// Len número de peticiones en curso.
func (f *Inflight) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
