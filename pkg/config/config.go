package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración del gateway (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Backend BackendConfig
	Cookie  CookieConfig
	Session SessionConfig
	Gate    GateConfig
	Shift   ShiftConfig
	DB      DBConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// IsProduction indica si el entorno es producción.
func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
	UIDir          string // directorio con el build del dashboard (vacío = sin páginas estáticas)
	SwaggerEnabled bool
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BackendConfig describe la API REST externa del POS.
type BackendConfig struct {
	BaseURL     string
	Timeout     time.Duration
	ReadRetries int // reintentos de lecturas (nunca ante 401)
}

// CookieConfig parámetros de las cookies de sesión.
type CookieConfig struct {
	MaxAge   int // segundos
	Secure   bool
	SameSite string // Strict | Lax
}

// SessionConfig firma opcional de las cookies de sesión.
// Si SealSecret está vacío no se emite la cookie sessionSeal.
type SessionConfig struct {
	SealSecret string
	Issuer     string
	ExpMinutes int
	RevokeTTL  time.Duration
}

// GateConfig rutas protegidas por la compuerta de menús.
type GateConfig struct {
	ProtectedPaths []string
	LoginPath      string
	NoAccessPath   string
}

// ShiftConfig configuración del ciclo de turnos de caja.
type ShiftConfig struct {
	Store        string // remote | postgres
	StaleAfter   time.Duration
	MonitorEvery time.Duration
	Timezone     string
	StoreName    string // encabezado del comprobante PDF
}

// DBConfig configuración de PostgreSQL (solo con SHIFT_STORE=postgres).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// DefaultProtectedPaths rutas del dashboard sujetas a la compuerta de menús.
var DefaultProtectedPaths = []string{
	"/dashboard",
	"/categories",
	"/suppliers",
	"/products",
	"/purchases",
	"/sales",
	"/stocks",
	"/shifts",
	"/users",
	"/roles",
	"/reports",
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, BACKEND_URL, HTTP_PORT, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	env := getString(v, "APP_ENV", "development")
	prod := env == "production"

	sameSite := "Lax"
	if prod {
		sameSite = "Strict"
	}

	cfg := &Config{
		App: AppConfig{
			Env:      env,
			Name:     getString(v, "APP_NAME", "pos-dashboard"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host:           getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:           getInt(v, "HTTP_PORT", 3000),
			AllowedOrigins: getList(v, "HTTP_ALLOWED_ORIGINS", nil),
			UIDir:          getString(v, "HTTP_UI_DIR", ""),
			SwaggerEnabled: getBool(v, "HTTP_SWAGGER", !prod),
		},
		Backend: BackendConfig{
			BaseURL:     strings.TrimRight(getString(v, "BACKEND_URL", "http://localhost:8000/api"), "/"),
			Timeout:     time.Duration(getInt(v, "BACKEND_TIMEOUT_SECONDS", 15)) * time.Second,
			ReadRetries: getInt(v, "BACKEND_READ_RETRIES", 3),
		},
		Cookie: CookieConfig{
			MaxAge:   getInt(v, "COOKIE_MAX_AGE_SECONDS", 60*60*24),
			Secure:   prod,
			SameSite: sameSite,
		},
		Session: SessionConfig{
			SealSecret: getString(v, "SESSION_SEAL_SECRET", ""),
			Issuer:     getString(v, "SESSION_ISSUER", "pos-dashboard"),
			ExpMinutes: getInt(v, "SESSION_EXPIRATION_MINUTES", 60*24),
			RevokeTTL:  time.Duration(getInt(v, "SESSION_REVOKE_TTL_MINUTES", 60*24)) * time.Minute,
		},
		Gate: GateConfig{
			ProtectedPaths: getList(v, "GATE_PROTECTED_PATHS", DefaultProtectedPaths),
			LoginPath:      getString(v, "GATE_LOGIN_PATH", "/login"),
			NoAccessPath:   getString(v, "GATE_NO_ACCESS_PATH", "/no-access"),
		},
		Shift: ShiftConfig{
			Store:        strings.ToLower(getString(v, "SHIFT_STORE", "remote")),
			StaleAfter:   time.Duration(getInt(v, "SHIFT_STALE_HOURS", 14)) * time.Hour,
			MonitorEvery: time.Duration(getInt(v, "SHIFT_MONITOR_MINUTES", 15)) * time.Minute,
			Timezone:     getString(v, "SHIFT_TIMEZONE", "Asia/Jakarta"),
			StoreName:    getString(v, "STORE_NAME", "Toko"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "pos_dashboard"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
	}

	if cfg.Shift.Store != "remote" && cfg.Shift.Store != "postgres" {
		return nil, fmt.Errorf("config: SHIFT_STORE inválido %q (remote|postgres)", cfg.Shift.Store)
	}
	if cfg.Backend.ReadRetries < 0 {
		cfg.Backend.ReadRetries = 0
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

// getList acepta valores separados por coma ("a,b,c").
func getList(v *viper.Viper, key string, def []string) []string {
	if !v.IsSet(key) {
		return def
	}
	var out []string
	for _, p := range strings.Split(v.GetString(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
