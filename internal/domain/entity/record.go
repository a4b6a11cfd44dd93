package entity

import "time"

// Record registro CRUD propiedad del backend; aquí solo se tipa para el proxy.
type Record interface {
	RecordID() int64
}

// Audit campos comunes asignados por el backend (tenant y timestamps).
type Audit struct {
	TenantID  int64      `json:"tenant_id,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
