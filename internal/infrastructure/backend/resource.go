package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jhoicas/pos-dashboard/internal/application/dto"
	"github.com/jhoicas/pos-dashboard/internal/domain/entity"
)

func listValues(q dto.ListQuery) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

// ResourceClient CRUD genérico sobre un endpoint REST del backend (ej. /suppliers).
type ResourceClient[T entity.Record] struct {
	c    *Client
	path string
}

// NewResourceClient construye el cliente del recurso.
func NewResourceClient[T entity.Record](c *Client, path string) *ResourceClient[T] {
	return &ResourceClient[T]{c: c, path: path}
}

// Path endpoint base del recurso.
func (r *ResourceClient[T]) Path() string { return r.path }

// List GET {path}?page&limit&search.
func (r *ResourceClient[T]) List(ctx context.Context, q dto.ListQuery) ([]T, int, error) {
	resp, err := r.c.Get(ctx, r.path, listValues(q))
	if err != nil {
		return nil, 0, err
	}
	var items []T
	total, err := decodePage(resp, &items)
	if err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []T{}
	}
	return items, total, nil
}

// Get GET {path}/{id}.
func (r *ResourceClient[T]) Get(ctx context.Context, id int64) (T, error) {
	var out T
	resp, err := r.c.Get(ctx, r.itemPath(id), nil)
	if err != nil {
		return out, err
	}
	err = resp.Decode(&out)
	return out, err
}

// Create POST {path}.
func (r *ResourceClient[T]) Create(ctx context.Context, in T) (T, error) {
	return r.write(ctx, http.MethodPost, r.path, in)
}

// Update PUT {path}/{id} (enviado como POST + X-HTTP-Method-Override).
func (r *ResourceClient[T]) Update(ctx context.Context, id int64, in T) (T, error) {
	return r.write(ctx, http.MethodPut, r.itemPath(id), in)
}

// Delete DELETE {path}/{id}.
func (r *ResourceClient[T]) Delete(ctx context.Context, id int64) error {
	_, err := r.c.Send(ctx, http.MethodDelete, r.itemPath(id), nil)
	return err
}

func (r *ResourceClient[T]) write(ctx context.Context, method, path string, in T) (T, error) {
	out := in
	resp, err := r.c.Send(ctx, method, path, in)
	if err != nil {
		return out, err
	}
	if len(resp.Data) > 0 && resp.Data[0] == '{' {
		if err := resp.Decode(&out); err != nil {
			return in, err
		}
	}
	return out, nil
}

func (r *ResourceClient[T]) itemPath(id int64) string {
	return fmt.Sprintf("%s/%d", r.path, id)
}

// decodePage deserializa listados en cualquiera de las formas del backend:
//   - data: [...] con meta.total
//   - data: {data: [...], total: N} (paginador)
//   - data: {items: [...], total: N}
func decodePage(resp *Response, out interface{}) (int, error) {
	raw := resp.Data
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, out); err != nil {
			return 0, fmt.Errorf("backend: deserializar listado: %w", err)
		}
		var meta struct {
			Total int `json:"total"`
		}
		if len(resp.Meta) > 0 {
			_ = json.Unmarshal(resp.Meta, &meta)
		}
		return meta.Total, nil
	}
	var page struct {
		Data  json.RawMessage `json:"data"`
		Items json.RawMessage `json:"items"`
		Total int             `json:"total"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return 0, fmt.Errorf("backend: deserializar página: %w", err)
	}
	list := page.Data
	if len(list) == 0 {
		list = page.Items
	}
	if len(list) == 0 || string(list) == "null" {
		return page.Total, nil
	}
	if err := json.Unmarshal(list, out); err != nil {
		return 0, fmt.Errorf("backend: deserializar listado: %w", err)
	}
	return page.Total, nil
}
