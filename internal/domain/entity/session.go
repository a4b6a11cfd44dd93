package entity

// SessionUser usuario autenticado tal como lo entrega el backend en el login.
type SessionUser struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	RoleID int64  `json:"role_id"`
	Avatar string `json:"avatar,omitempty"`
}

// Session sesión del navegador: token bearer, usuario y menús concedidos.
// Se crea en el login y se destruye en el logout o ante un 401 del backend.
type Session struct {
	Token        string
	User         SessionUser
	GrantedMenus []string
}

// Profile copia redactada del usuario para la UI (nunca incluye el token).
type Profile struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// Profile devuelve la vista redactada de la sesión.
func (s Session) Profile() Profile {
	return Profile{Name: s.User.Name, Email: s.User.Email, Avatar: s.User.Avatar}
}
