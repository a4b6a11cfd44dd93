package resource_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-dashboard/internal/application/dto"
	"github.com/jhoicas/pos-dashboard/internal/application/resource"
	"github.com/jhoicas/pos-dashboard/internal/domain"
	"github.com/jhoicas/pos-dashboard/internal/domain/entity"
)

type fakeSuppliers struct {
	mu        sync.Mutex
	items     []entity.Supplier
	lists     int32
	deleteErr error
	onDelete  func()
	block     chan struct{}
}

func (f *fakeSuppliers) Path() string { return "/suppliers" }

func (f *fakeSuppliers) List(ctx context.Context, _ dto.ListQuery) ([]entity.Supplier, int, error) {
	atomic.AddInt32(&f.lists, 1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.Supplier(nil), f.items...), len(f.items), nil
}

func (f *fakeSuppliers) Get(_ context.Context, id int64) (entity.Supplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.items {
		if s.ID == id {
			return s, nil
		}
	}
	return entity.Supplier{}, domain.ErrNotFound
}

func (f *fakeSuppliers) Create(_ context.Context, in entity.Supplier) (entity.Supplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	in.ID = int64(len(f.items) + 1)
	f.items = append(f.items, in)
	return in, nil
}

func (f *fakeSuppliers) Update(_ context.Context, id int64, in entity.Supplier) (entity.Supplier, error) {
	in.ID = id
	return in, nil
}

func (f *fakeSuppliers) Delete(_ context.Context, id int64) error {
	if f.onDelete != nil {
		f.onDelete()
	}
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.items[:0]
	for _, s := range f.items {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	f.items = kept
	return nil
}

func seeded() *fakeSuppliers {
	return &fakeSuppliers{items: []entity.Supplier{{ID: 1, Name: "PT Sumber"}, {ID: 2, Name: "CV Makmur"}, {ID: 3, Name: "UD Jaya"}}}
}

func TestList_UsaCache(t *testing.T) {
	gw := seeded()
	svc := resource.NewService[entity.Supplier](gw, time.Minute, nil, nil)

	a, err := svc.List(context.Background(), "s1", dto.ListQuery{})
	require.NoError(t, err)
	b, err := svc.List(context.Background(), "s1", dto.ListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, int32(1), atomic.LoadInt32(&gw.lists), "la consulta normalizada es la misma clave")
	assert.Equal(t, dto.PageResponse{Page: 1, Limit: 10, Total: 3}, a.Page)

	_, err = svc.List(context.Background(), "s2", dto.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&gw.lists), "otra sesión no comparte caché")
}

func TestDelete_OptimistaSeRevierteSiFalla(t *testing.T) {
	gw := seeded()
	gw.deleteErr = domain.ErrConflict
	svc := resource.NewService[entity.Supplier](gw, time.Minute, nil, nil)
	_, err := svc.List(context.Background(), "s1", dto.ListQuery{})
	require.NoError(t, err)

	var during *dto.ListResponse[entity.Supplier]
	gw.onDelete = func() { during, _ = svc.Cached("s1", dto.ListQuery{}) }

	err = svc.Delete(context.Background(), "s1", 2)
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NotNil(t, during)
	assert.Len(t, during.Items, 2, "mientras se espera al backend el registro ya no aparece")
	assert.Equal(t, 2, during.Page.Total)

	after, ok := svc.Cached("s1", dto.ListQuery{})
	require.True(t, ok)
	require.Len(t, after.Items, 3)
	assert.Equal(t, "CV Makmur", after.Items[1].Name, "se restaura en su posición original")
}

func TestDelete_RestauraSinPerderPaginasNuevas(t *testing.T) {
	gw := seeded()
	gw.deleteErr = domain.ErrConflict
	svc := resource.NewService[entity.Supplier](gw, time.Minute, nil, nil)
	_, err := svc.List(context.Background(), "s1", dto.ListQuery{})
	require.NoError(t, err)

	search := dto.ListQuery{Search: "jaya"}
	gw.onDelete = func() { _, _ = svc.List(context.Background(), "s1", search) }

	err = svc.Delete(context.Background(), "s1", 2)
	assert.ErrorIs(t, err, domain.ErrConflict)

	first, ok := svc.Cached("s1", dto.ListQuery{})
	require.True(t, ok)
	assert.Len(t, first.Items, 3)
	_, ok = svc.Cached("s1", search)
	assert.True(t, ok, "la página guardada durante el borrado sigue en caché")
	assert.Equal(t, int32(2), atomic.LoadInt32(&gw.lists))
}

func TestDelete_ExitosoInvalida(t *testing.T) {
	gw := seeded()
	svc := resource.NewService[entity.Supplier](gw, time.Minute, nil, nil)
	_, _ = svc.List(context.Background(), "s1", dto.ListQuery{})

	require.NoError(t, svc.Delete(context.Background(), "s1", 2))

	_, ok := svc.Cached("s1", dto.ListQuery{})
	assert.False(t, ok)
	out, err := svc.List(context.Background(), "s1", dto.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
}

func TestCreateUpdate_Invalidan(t *testing.T) {
	gw := seeded()
	svc := resource.NewService[entity.Supplier](gw, time.Minute, nil, nil)
	_, _ = svc.List(context.Background(), "s1", dto.ListQuery{})

	created, err := svc.Create(context.Background(), "s1", entity.Supplier{Name: "Baru"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ID)
	_, ok := svc.Cached("s1", dto.ListQuery{})
	assert.False(t, ok)

	_, _ = svc.List(context.Background(), "s1", dto.ListQuery{})
	_, err = svc.Update(context.Background(), "s1", 1, entity.Supplier{Name: "PT Sumber Baru"})
	require.NoError(t, err)
	_, ok = svc.Cached("s1", dto.ListQuery{})
	assert.False(t, ok)
}

func TestList_NuevoListadoCancelaElAnterior(t *testing.T) {
	gw := seeded()
	gw.block = make(chan struct{})
	svc := resource.NewService[entity.Supplier](gw, 0, nil, nil)

	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.List(context.Background(), "s1", dto.ListQuery{Page: 1})
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&gw.lists) == 1 }, time.Second, 5*time.Millisecond)

	secondDone := make(chan error, 1)
	go func() {
		_, err := svc.List(context.Background(), "s1", dto.ListQuery{Page: 2})
		secondDone <- err
	}()

	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, domain.ErrSuperseded)
	case <-time.After(time.Second):
		t.Fatal("el primer listado no fue cancelado")
	}
	close(gw.block)
	assert.NoError(t, <-secondDone)
}

func TestInflight_DoneNoCancelaAlSucesor(t *testing.T) {
	f := resource.NewInflight()

	ctx1, done1 := f.Begin(context.Background(), "k")
	ctx2, done2 := f.Begin(context.Background(), "k")
	assert.ErrorIs(t, context.Cause(ctx1), domain.ErrSuperseded)

	done1()
	assert.NoError(t, ctx2.Err())
	assert.Equal(t, 1, f.Len())

	done2()
	assert.Equal(t, 0, f.Len())
}
