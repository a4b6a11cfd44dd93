package entity

// Role rol con su lista de menús concedidos.
type Role struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	GrantedMenus []string `json:"granted_menus"`
	Audit
}

func (r Role) RecordID() int64 { return r.ID }
