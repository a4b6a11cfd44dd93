package logger

import (
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones para el logger.
type Config struct {
	Env   string    // development -> consola legible; production -> JSON
	Level string    // trace, debug, info, warn, error
	Out   io.Writer // por defecto os.Stdout
}

// Logger wrapper sobre zerolog. Toda la salida pasa por redactWriter: ningún
// "Bearer <token>" llega al destino aunque venga dentro de un error del backend.
type Logger struct {
	zl zerolog.Logger
}

// New crea un logger estructurado. En development usa salida legible; en production JSON.
func New(cfg Config) *Logger {
	var out io.Writer = os.Stdout
	if cfg.Out != nil {
		out = cfg.Out
	}
	var w io.Writer = redactWriter{out: out}
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: w}
	}

	zl := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()

	// Librerías que usan el logger global de zerolog
	log.Logger = zl

	return &Logger{zl: zl}
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

var bearerPattern = regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9\-._~+/|]+=*`)

// redactWriter reemplaza los tokens bearer de cada línea antes de escribirla.
type redactWriter struct {
	out io.Writer
}

func (w redactWriter) Write(p []byte) (int, error) {
	if _, err := w.out.Write(bearerPattern.ReplaceAll(p, []byte("${1}[redacted]"))); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// Component sublogger etiquetado con el nombre del componente.
func (l *Logger) Component(name string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", name).Logger()}
}

// Session sublogger con la huella del token de sesión en el campo "session".
func (l *Logger) Session(token string) *Logger {
	return &Logger{zl: l.zl.With().Str("session", Fingerprint(token)).Logger()}
}

// Nop logger que descarta todo.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// Zerolog logger interno para la API directa.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}
