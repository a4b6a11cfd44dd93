package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/pos-dashboard/internal/application/analytics"
	"github.com/jhoicas/pos-dashboard/internal/application/resource"
	"github.com/jhoicas/pos-dashboard/internal/application/session"
	appshift "github.com/jhoicas/pos-dashboard/internal/application/shift"
	"github.com/jhoicas/pos-dashboard/internal/domain/entity"
	"github.com/jhoicas/pos-dashboard/internal/infrastructure/backend"
	apphttp "github.com/jhoicas/pos-dashboard/internal/interfaces/http"
	"github.com/jhoicas/pos-dashboard/pkg/config"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	goodToken    = "tok-1"
	expiredToken = "tok-expired"
)

// fakeBackend simula la API REST del POS.
type fakeBackend struct {
	supplierCalls int32
	logoutCalls   int32
	closeCalls    int32

	mu          sync.Mutex
	statusUsers []string // user_id de cada consulta a /shif_status
}

func (f *fakeBackend) shiftStatusUsers() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.statusUsers...)
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	auth := r.Header.Get("Authorization")
	switch {
	case r.URL.Path == "/api/login":
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["email"] != "admin@toko.id" || in["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Invalid credentials"}`)
			return
		}
		_, _ = io.WriteString(w, `{"data":{"token":"tok-1","user":{"id":7,"name":"Budi","email":"admin@toko.id","role_id":1},"granted_menus":["/suppliers","/dashboard","/shifts"]}}`)
	case r.URL.Path == "/api/user":
		if auth != "Bearer "+goodToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"id":7,"name":"Budi"}`)
	case r.URL.Path == "/api/logout":
		atomic.AddInt32(&f.logoutCalls, 1)
		_, _ = io.WriteString(w, `{"message":"ok"}`)
	case strings.HasPrefix(r.URL.Path, "/api/suppliers"):
		atomic.AddInt32(&f.supplierCalls, 1)
		if auth != "Bearer "+goodToken {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Unauthenticated."}`)
			return
		}
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = io.WriteString(w, `{"message":"Too many requests, slow down"}`)
			return
		}
		_, _ = io.WriteString(w, `{"data":[{"id":1,"name":"PT Sumber"}],"meta":{"total":1}}`)
	case r.URL.Path == "/api/shif_status":
		f.mu.Lock()
		f.statusUsers = append(f.statusUsers, r.URL.Query().Get("user_id"))
		f.mu.Unlock()
		_, _ = io.WriteString(w, `{"data":{"status":"no_shift","balance":0,"shift":null}}`)
	case r.URL.Path == "/api/shifts/55":
		_, _ = io.WriteString(w, `{"data":{"id":55,"user_id":8,"kasir":"Sari","opened_at":"2026-10-19 08:00:00","opening_balance":100000,"status":"open"}}`)
	case r.URL.Path == "/api/close_shift":
		atomic.AddInt32(&f.closeCalls, 1)
		_, _ = io.WriteString(w, `{"data":{"id":55,"system_balance":100000,"status":"closed"}}`)
	case r.URL.Path == "/api/dashboard/summary":
		_, _ = io.WriteString(w, `{"data":{"today_sales":"250000","today_transactions":4}}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type testEnv struct {
	app      *fiber.App
	backend  *fakeBackend
	sessions *session.Service
}

// envOption ajusta las dependencias del router antes de registrarlo.
type envOption func(*apphttp.RouterDeps)

func withUIDir(dir string) envOption {
	return func(d *apphttp.RouterDeps) { d.UIDir = dir }
}

func newTestEnv(t *testing.T, sealSecret string, opts ...envOption) *testEnv {
	t.Helper()
	fb := &fakeBackend{}
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)

	client := backend.NewClient(backend.Options{BaseURL: srv.URL + "/api"}, nil)
	sessions := session.NewService(backend.NewAuthClient(client), session.SealConfig{
		Secret: sealSecret, Issuer: "test", ExpMinutes: 60,
	}, time.Hour, nil)
	client.OnUnauthorized(func(token string) { sessions.OnUnauthorized(token) })

	cookies := apphttp.NewCookieJar(config.CookieConfig{MaxAge: 3600, SameSite: "Lax"})
	resp := apphttp.NewResponder(cookies, sessions, "/login", nil)
	suppliers := resource.NewService[entity.Supplier](
		backend.NewResourceClient[entity.Supplier](client, "/suppliers"), time.Minute, resource.NewInflight(), nil)

	app := fiber.New()
	deps := apphttp.RouterDeps{
		Sessions:    sessions,
		Cookies:     cookies,
		Responder:   resp,
		Gate:        config.GateConfig{ProtectedPaths: config.DefaultProtectedPaths, LoginPath: "/login", NoAccessPath: "/no-access"},
		ShiftUC:     appshift.NewUseCase(backend.NewShiftStore(client, nil), nil, nil, time.UTC, nil),
		ShiftLoc:    time.UTC,
		DashboardUC: appanalytics.NewDashboardUseCase(backend.NewDashboardClient(client), nil, time.UTC),
		Resources: []apphttp.ResourceRoutes{
			apphttp.NewResourceHandler(suppliers, resp, "/suppliers"),
		},
	}
	for _, opt := range opts {
		opt(&deps)
	}
	apphttp.Router(app, deps)
	return &testEnv{app: app, backend: fb, sessions: sessions}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) login(t *testing.T) []*http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"admin@toko.id","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := e.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return resp.Cookies()
}

func withCookies(req *http.Request, cookies []*http.Cookie) *http.Request {
	for _, c := range cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	return req
}

func cookieMap(resp *http.Response) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range resp.Cookies() {
		out[c.Name] = c
	}
	return out
}

func userCookie(user string) *http.Cookie {
	return &http.Cookie{Name: apphttp.CookieUser, Value: url.QueryEscape(user)}
}

func menusCookie(menus ...string) *http.Cookie {
	raw, _ := json.Marshal(menus)
	return &http.Cookie{Name: apphttp.CookieMenus, Value: url.QueryEscape(string(raw))}
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_GuardaCookiesSinTokenEnElCuerpo(t *testing.T) {
	env := newTestEnv(t, "")
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"admin@toko.id","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")

	resp := env.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(raw), goodToken, "el token nunca viaja en el cuerpo")

	cookies := cookieMap(resp)
	require.Contains(t, cookies, apphttp.CookieToken)
	assert.Equal(t, goodToken, cookies[apphttp.CookieToken].Value)
	assert.True(t, cookies[apphttp.CookieToken].HttpOnly)
	assert.Contains(t, cookies, apphttp.CookieUser)
	assert.Contains(t, cookies, apphttp.CookieMenus)
	assert.NotContains(t, cookies, apphttp.CookieSeal, "sin secreto no hay sello")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, "/dashboard", body["home"])
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	env := newTestEnv(t, "")
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"admin@toko.id","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")

	resp := env.do(t, req)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeBody(t, resp)["code"])
	assert.Empty(t, resp.Cookies())
}

func TestSession_LecturaIdempotente(t *testing.T) {
	env := newTestEnv(t, "")
	cookies := env.login(t)

	first := decodeBody(t, env.do(t, withCookies(httptest.NewRequest(http.MethodGet, "/api/auth/session", nil), cookies)))
	second := decodeBody(t, env.do(t, withCookies(httptest.NewRequest(http.MethodGet, "/api/auth/session", nil), cookies)))

	assert.Equal(t, first["granted_menus"], second["granted_menus"])
	assert.Equal(t, []interface{}{"/suppliers", "/dashboard", "/shifts"}, first["granted_menus"])
	menus := first["menus"].([]interface{})
	require.Len(t, menus, 3)
	assert.Equal(t, "/dashboard", menus[0].(map[string]interface{})["path"], "la navegación sigue el orden del catálogo")
}

func TestSession_SinCookies(t *testing.T) {
	env := newTestEnv(t, "")
	body := decodeBody(t, env.do(t, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)))

	assert.Equal(t, false, body["authenticated"])
	assert.Equal(t, []interface{}{}, body["granted_menus"])
}

func TestCheck_TokenInvalidoBorraCookies(t *testing.T) {
	env := newTestEnv(t, "")
	req := httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
	req.AddCookie(&http.Cookie{Name: apphttp.CookieToken, Value: "otro"})

	resp := env.do(t, req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, decodeBody(t, resp)["valid"])
	assert.Equal(t, "", cookieMap(resp)[apphttp.CookieToken].Value)
}

func TestLogout_BorraCookiesYRevoca(t *testing.T) {
	env := newTestEnv(t, "")
	cookies := env.login(t)

	resp := env.do(t, withCookies(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil), cookies))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/login", decodeBody(t, resp)["redirect"])
	assert.Equal(t, "", cookieMap(resp)[apphttp.CookieToken].Value)
	assert.Equal(t, int32(1), atomic.LoadInt32(&env.backend.logoutCalls))
	assert.True(t, env.sessions.IsRevoked(goodToken))
}

func TestLogoutPage_Redirige(t *testing.T) {
	env := newTestEnv(t, "")
	resp := env.do(t, httptest.NewRequest(http.MethodGet, "/logout", nil))

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Compuerta de páginas
// ──────────────────────────────────────────────────────────────────────────────

func TestGate_SinToken_RedirigeALogin(t *testing.T) {
	env := newTestEnv(t, "")
	resp := env.do(t, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestGate_MenuConcedido(t *testing.T) {
	env := newTestEnv(t, "")
	cookies := env.login(t)

	resp := env.do(t, withCookies(httptest.NewRequest(http.MethodGet, "/dashboard", nil), cookies))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/dashboard", decodeBody(t, resp)["page"])
}

func TestGate_MenuNoConcedido_RedirigeAlPrimero(t *testing.T) {
	env := newTestEnv(t, "")
	cookies := env.login(t)

	resp := env.do(t, withCookies(httptest.NewRequest(http.MethodGet, "/products", nil), cookies))

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestGate_ListaVacia_RedirigeANoAccess(t *testing.T) {
	env := newTestEnv(t, "")
	req := httptest.NewRequest(http.MethodGet, "/sales", nil)
	req.AddCookie(&http.Cookie{Name: apphttp.CookieToken, Value: goodToken})
	req.AddCookie(menusCookie())

	resp := env.do(t, req)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/no-access", resp.Header.Get("Location"))
}

func TestGate_TokenInvalido_BorraSesion(t *testing.T) {
	env := newTestEnv(t, "")
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: apphttp.CookieToken, Value: "caducado"})
	req.AddCookie(menusCookie("/dashboard"))

	resp := env.do(t, req)

	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Equal(t, "", cookieMap(resp)[apphttp.CookieToken].Value)
}

func TestGate_MenusAlterados_ConSello(t *testing.T) {
	env := newTestEnv(t, "seal-secret")
	cookies := env.login(t)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range cookies {
		if c.Name != apphttp.CookieMenus {
			req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
		}
	}
	req.AddCookie(menusCookie("/dashboard", "/products", "/suppliers", "/shifts"))

	resp := env.do(t, req)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.Equal(t, "", cookieMap(resp)[apphttp.CookieToken].Value)
}

func TestGate_ConSelloValido(t *testing.T) {
	env := newTestEnv(t, "seal-secret")
	cookies := env.login(t)
	sealed := false
	for _, c := range cookies {
		sealed = sealed || (c.Name == apphttp.CookieSeal && c.Value != "")
	}
	require.True(t, sealed, "con secreto se emite sessionSeal")

	resp := env.do(t, withCookies(httptest.NewRequest(http.MethodGet, "/suppliers", nil), cookies))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGate_RutaNoProtegida(t *testing.T) {
	env := newTestEnv(t, "")
	resp := env.do(t, httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGate_MenusNoCanonicos_SinBucle(t *testing.T) {
	env := newTestEnv(t, "")
	session := func(path string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(&http.Cookie{Name: apphttp.CookieToken, Value: goodToken})
		req.AddCookie(menusCookie("/suppliers", "/dashboard/", " /shifts "))
		return req
	}

	resp := env.do(t, session("/dashboard"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, session("/products"))
	require.Equal(t, http.StatusFound, resp.StatusCode)
	target := resp.Header.Get("Location")
	assert.Equal(t, "/dashboard", target)

	resp = env.do(t, session(target))
	assert.Equal(t, http.StatusOK, resp.StatusCode, "el destino del redirect se renderiza")
}

func TestGate_ArchivosDelSPA_PasanPorLaCompuerta(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "shifts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shifts", "index.html"), []byte("halaman shift"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>spa</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log('pos')"), 0o644))
	env := newTestEnv(t, "", withUIDir(dir))

	for _, path := range []string{"/shifts", "/shifts/", "/shifts/index.html"} {
		resp := env.do(t, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}

	resp := env.do(t, httptest.NewRequest(http.MethodGet, "/app.js", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode, "los recursos estáticos no protegidos se sirven")
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "pos")

	cookies := env.login(t)
	resp = env.do(t, withCookies(httptest.NewRequest(http.MethodGet, "/shifts", nil), cookies))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "halaman shift", string(raw))
}
