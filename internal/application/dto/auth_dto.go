package dto

import "github.com/jhoicas/pos-dashboard/internal/domain/entity"

// LoginRequest credenciales del formulario de login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult respuesta del backend a POST /login.
type LoginResult struct {
	Token        string             `json:"token"`
	User         entity.SessionUser `json:"user"`
	GrantedMenus []string           `json:"granted_menus"`
}

// SessionResponse estado de sesión visible para la UI (sin token).
type SessionResponse struct {
	Authenticated bool              `json:"authenticated"`
	User          *entity.Profile   `json:"user,omitempty"`
	GrantedMenus  []string          `json:"granted_menus"`
	Menus         []entity.MenuItem `json:"menus"`
	Home          string            `json:"home,omitempty"` // primer menú concedido
}

// AuthCheckResponse resultado de GET /api/auth/check.
type AuthCheckResponse struct {
	Valid bool `json:"valid"`
}

// LogoutResponse indica a dónde debe navegar la UI tras cerrar sesión.
type LogoutResponse struct {
	Redirect string `json:"redirect"`
}
