package entity

// Category categoría de productos.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Audit
}

func (c Category) RecordID() int64 { return c.ID }
