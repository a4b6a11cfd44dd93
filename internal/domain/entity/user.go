package entity

// User usuario del POS administrado desde el dashboard.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	RoleID   int64  `json:"role_id"`
	Password string `json:"password,omitempty"` // solo en altas/cambios; el backend nunca lo devuelve
	Avatar   string `json:"avatar,omitempty"`
	Audit
}

func (u User) RecordID() int64 { return u.ID }
