// Package access decide si una navegación a una página del dashboard se permite,
// a partir del token de sesión y de la lista de menús concedidos.
package access

import (
	"context"
	"sort"
	"strings"
)

// TokenValidator valida el token bearer contra el backend (GET /user).
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) error
}

// Outcome resultado de la compuerta.
type Outcome string

const (
	Bypass          Outcome = "bypass"          // ruta no protegida
	Allow           Outcome = "allow"           // menú concedido
	Unauthenticated Outcome = "unauthenticated" // sin token o token inválido → login
	Forbidden       Outcome = "forbidden"       // sesión válida, menú no concedido
)

// Decision qué hacer con la navegación.
type Decision struct {
	Outcome      Outcome
	Redirect     string // vacío si se permite
	ClearSession bool
}

// Allowed indica si la página puede renderizarse.
func (d Decision) Allowed() bool {
	return d.Outcome == Allow || d.Outcome == Bypass
}

// Policy lista fija de rutas protegidas más las rutas de escape.
type Policy struct {
	Protected    []string
	LoginPath    string
	NoAccessPath string
}

// IsProtected indica si la ruta está sujeta a la compuerta.
// Una entrada "/x" protege "/x" y "/x/...". Login y no-access nunca se protegen.
func (p Policy) IsProtected(path string) bool {
	path = normalize(path)
	if path == p.LoginPath || path == p.NoAccessPath {
		return false
	}
	for _, prefix := range p.Protected {
		prefix = normalize(prefix)
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// Evaluate aplica la compuerta completa a una navegación.
// menus es la lista de menús ya decodificada; menusOK=false indica que la cookie
// estaba ausente, corrupta o con sello inválido.
func (p Policy) Evaluate(ctx context.Context, path, token string, menus []string, menusOK bool, v TokenValidator) Decision {
	if !p.IsProtected(path) {
		return Decision{Outcome: Bypass}
	}
	if token == "" {
		return Decision{Outcome: Unauthenticated, Redirect: p.LoginPath}
	}
	if err := v.ValidateToken(ctx, token); err != nil {
		return Decision{Outcome: Unauthenticated, Redirect: p.LoginPath, ClearSession: true}
	}
	if !menusOK {
		return Decision{Outcome: Unauthenticated, Redirect: p.LoginPath, ClearSession: true}
	}
	return p.Authorize(path, menus)
}

// Authorize decide con una sesión ya validada. La pertenencia es por igualdad exacta
// entre rutas canónicas (sin espacios, query ni barra final); si la ruta no está concedida
// se redirige al menor menú concedido (orden lexicográfico), o a NoAccessPath si la lista está vacía.
func (p Policy) Authorize(path string, menus []string) Decision {
	if Granted(menus, path) {
		return Decision{Outcome: Allow}
	}
	granted := Canonical(menus)
	if len(granted) == 0 {
		return Decision{Outcome: Forbidden, Redirect: p.NoAccessPath}
	}
	return Decision{Outcome: Forbidden, Redirect: granted[0]}
}

// Granted indica si path está entre los menús concedidos, comparando en forma canónica.
func Granted(menus []string, path string) bool {
	path = normalize(path)
	for _, m := range menus {
		if m = strings.TrimSpace(m); m != "" && normalize(m) == path {
			return true
		}
	}
	return false
}

// FirstGranted devuelve el menor menú concedido en forma canónica, sin modificar la lista recibida.
func FirstGranted(menus []string) (string, bool) {
	granted := Canonical(menus)
	if len(granted) == 0 {
		return "", false
	}
	return granted[0], true
}

// Canonical copia ordenada de los menús en forma canónica, sin vacíos ni duplicados.
func Canonical(menus []string) []string {
	out := make([]string, 0, len(menus))
	seen := make(map[string]struct{}, len(menus))
	for _, m := range menus {
		if m = strings.TrimSpace(m); m == "" {
			continue
		}
		m = normalize(m)
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		return "/"
	}
	return path
}
