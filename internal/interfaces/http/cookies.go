package http

import (
	"encoding/json"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-dashboard/internal/domain/entity"
	"github.com/jhoicas/pos-dashboard/pkg/config"
)

// Nombres de las cookies de sesión (todas HTTP-only).
const (
	CookieToken = "authToken"
	CookieUser  = "authUser"
	CookieMenus = "grantedMenus"
	CookieSeal  = "sessionSeal"
)

// CookieJar escribe, lee y borra las cookies de sesión.
type CookieJar struct {
	cfg config.CookieConfig
}

// NewCookieJar construye el jar con la política de cookies del entorno.
func NewCookieJar(cfg config.CookieConfig) *CookieJar {
	return &CookieJar{cfg: cfg}
}

func (j *CookieJar) cookie(name, value string, maxAge int) *fiber.Cookie {
	ck := &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		Secure:   j.cfg.Secure,
		SameSite: j.cfg.SameSite,
		MaxAge:   maxAge,
	}
	if maxAge < 0 {
		ck.Expires = time.Unix(0, 0)
	}
	return ck
}

// Set escribe la sesión completa. seal vacío = sin cookie de sello.
func (j *CookieJar) Set(c *fiber.Ctx, sess *entity.Session, seal string) error {
	user, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	menus := sess.GrantedMenus
	if menus == nil {
		menus = []string{}
	}
	rawMenus, err := json.Marshal(menus)
	if err != nil {
		return err
	}
	c.Cookie(j.cookie(CookieToken, sess.Token, j.cfg.MaxAge))
	c.Cookie(j.cookie(CookieUser, url.QueryEscape(string(user)), j.cfg.MaxAge))
	c.Cookie(j.cookie(CookieMenus, url.QueryEscape(string(rawMenus)), j.cfg.MaxAge))
	if seal != "" {
		c.Cookie(j.cookie(CookieSeal, seal, j.cfg.MaxAge))
	}
	return nil
}

// Clear borra todas las cookies de sesión.
func (j *CookieJar) Clear(c *fiber.Ctx) {
	for _, name := range []string{CookieToken, CookieUser, CookieMenus, CookieSeal} {
		c.Cookie(j.cookie(name, "", -1))
	}
}

// CookieSession sesión leída de las cookies.
// MenusOK=false si grantedMenus falta o no es un arreglo JSON válido.
type CookieSession struct {
	Session entity.Session
	MenusOK bool
	Seal    string
}

// Read decodifica las cookies de la petición. No valida el token.
func (j *CookieJar) Read(c *fiber.Ctx) CookieSession {
	out := CookieSession{
		Session: entity.Session{Token: c.Cookies(CookieToken)},
		Seal:    c.Cookies(CookieSeal),
	}
	if raw, err := url.QueryUnescape(c.Cookies(CookieUser)); err == nil && raw != "" {
		_ = json.Unmarshal([]byte(raw), &out.Session.User)
	}
	raw, err := url.QueryUnescape(c.Cookies(CookieMenus))
	if err != nil || raw == "" {
		return out
	}
	var menus []string
	if err := json.Unmarshal([]byte(raw), &menus); err != nil {
		return out
	}
	if menus == nil {
		menus = []string{}
	}
	out.Session.GrantedMenus = menus
	out.MenusOK = true
	return out
}
