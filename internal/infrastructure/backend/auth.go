package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jhoicas/pos-dashboard/internal/application/dto"
	"github.com/jhoicas/pos-dashboard/internal/domain/access"
	"github.com/jhoicas/pos-dashboard/internal/domain/entity"
)

var _ access.TokenValidator = (*AuthClient)(nil)

// AuthClient endpoints de autenticación del backend: /login, /user, /logout.
type AuthClient struct {
	c *Client
}

// NewAuthClient construye el adaptador.
func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{c: c}
}

// loginPayload acepta granted_menus en la raíz o dentro del rol del usuario.
type loginPayload struct {
	Token        string   `json:"token"`
	AccessToken  string   `json:"access_token"`
	GrantedMenus []string `json:"granted_menus"`
	User         struct {
		entity.SessionUser
		Role *struct {
			GrantedMenus []string `json:"granted_menus"`
		} `json:"role"`
	} `json:"user"`
}

// Login verifica credenciales contra el backend y devuelve token, usuario y menús concedidos.
func (a *AuthClient) Login(ctx context.Context, email, password string) (*dto.LoginResult, error) {
	resp, err := a.c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/login",
		Body:   map[string]string{"email": email, "password": password},
	})
	if err != nil {
		return nil, err
	}
	var p loginPayload
	if err := resp.Decode(&p); err != nil {
		return nil, err
	}
	token := p.Token
	if token == "" {
		token = p.AccessToken
	}
	if token == "" {
		return nil, fmt.Errorf("backend: login sin token en la respuesta")
	}
	menus := p.GrantedMenus
	if len(menus) == 0 && p.User.Role != nil {
		menus = p.User.Role.GrantedMenus
	}
	if menus == nil {
		menus = []string{}
	}
	return &dto.LoginResult{Token: token, User: p.User.SessionUser, GrantedMenus: menus}, nil
}

// CurrentUser devuelve el usuario dueño del token (GET /user).
func (a *AuthClient) CurrentUser(ctx context.Context, token string) (*entity.SessionUser, error) {
	resp, err := a.c.Do(ctx, Request{Method: http.MethodGet, Path: "/user", Token: token})
	if err != nil {
		return nil, err
	}
	var u entity.SessionUser
	if err := resp.Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ValidateToken implementa access.TokenValidator.
func (a *AuthClient) ValidateToken(ctx context.Context, token string) error {
	_, err := a.CurrentUser(ctx, token)
	return err
}

// Logout invalida la sesión remota.
func (a *AuthClient) Logout(ctx context.Context, token string) error {
	_, err := a.c.Do(ctx, Request{Method: http.MethodPost, Path: "/logout", Token: token})
	return err
}
