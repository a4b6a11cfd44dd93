// Package backend es la capa gateway hacia la API REST externa del POS: adjunta el token
// bearer, desenvuelve el sobre {data, message, errors} y normaliza los errores HTTP.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/pos-dashboard/internal/domain"
	"github.com/jhoicas/pos-dashboard/pkg/logger"
)

const (
	maxBodyBytes         = 4 << 20
	methodOverrideHeader = "X-HTTP-Method-Override"
)

// Options configuración del cliente.
type Options struct {
	BaseURL      string
	Timeout      time.Duration
	ReadRetries  int           // reintentos de GET (nunca ante 401)
	RetryBackoff time.Duration // espera base entre reintentos (lineal)
	HTTPClient   *http.Client  // opcional; por defecto uno con Timeout
}

// Client cliente HTTP compartido por todos los adaptadores del backend.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	readRetries    int
	retryBackoff   time.Duration
	onUnauthorized func(token string)
	log            *logger.Logger
}

// NewClient construye el cliente.
func NewClient(opts Options, log *logger.Logger) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}
	if log == nil {
		log = logger.Nop()
	}
	backoff := opts.RetryBackoff
	if backoff < 0 {
		backoff = 0
	}
	return &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		httpClient:   hc,
		readRetries:  opts.ReadRetries,
		retryBackoff: backoff,
		log:          log.Component("backend"),
	}
}

// OnUnauthorized registra el callback invocado cuando el backend responde 401
// a una petición que llevaba token. La deduplicación es responsabilidad del callback.
func (c *Client) OnUnauthorized(fn func(token string)) {
	c.onUnauthorized = fn
}

type tokenKey struct{}

// WithToken adjunta el token bearer de la sesión al contexto.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom devuelve el token del contexto ("" si no hay).
func TokenFrom(ctx context.Context) string {
	s, _ := ctx.Value(tokenKey{}).(string)
	return s
}

// Request petición al backend. Token vacío = se toma del contexto.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
	Token  string
}

// envelope forma de respuesta del backend; data puede faltar (cuerpo plano).
type envelope struct {
	Data    json.RawMessage     `json:"data"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
	Meta    json.RawMessage     `json:"meta"`
}

// Response cuerpo ya desenvuelto.
type Response struct {
	Status  int
	Data    json.RawMessage // contenido de "data" o el cuerpo completo si no hay sobre
	Message string
	Meta    json.RawMessage
}

// Decode deserializa Data en out.
func (r *Response) Decode(out interface{}) error {
	if out == nil || len(r.Data) == 0 || string(r.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(r.Data, out); err != nil {
		return fmt.Errorf("backend: deserializar respuesta: %w", err)
	}
	return nil
}

// Do ejecuta una petición una sola vez.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	token := req.Token
	if token == "" {
		token = TokenFrom(ctx)
	}

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("backend: serializar request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	u := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	override := ""
	if method == http.MethodPut || method == http.MethodPatch {
		// El backend solo acepta PUT/PATCH vía POST con cabecera de override.
		override = method
		method = http.MethodPost
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("backend: crear HTTP request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if override != "" {
		httpReq.Header.Set(methodOverrideHeader, override)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: leer respuesta: %v", domain.ErrBackendUnavailable, err)
	}

	c.log.Session(token).Debug().
		Str("method", method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("backend")

	var env envelope
	hasEnvelope := len(bytes.TrimSpace(raw)) > 0 && bytes.TrimSpace(raw)[0] == '{' && json.Unmarshal(raw, &env) == nil

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		if hasEnvelope {
			if env.Message != "" {
				apiErr.Message = env.Message
			}
			apiErr.Errors = env.Errors
		}
		if resp.StatusCode == http.StatusUnauthorized && token != "" && c.onUnauthorized != nil {
			c.onUnauthorized(token)
		}
		return nil, apiErr
	}

	out := &Response{Status: resp.StatusCode, Data: raw}
	if hasEnvelope && (env.Data != nil || env.Message != "") {
		out.Data = env.Data
		out.Message = env.Message
		out.Meta = env.Meta
	}
	return out, nil
}

// Get ejecuta un GET con reintentos acotados. No reintenta ante 401 ni si el contexto terminó.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	var lastErr error
	for attempt := 0; attempt <= c.readRetries; attempt++ {
		if attempt > 0 && c.retryBackoff > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * c.retryBackoff):
			}
		}
		resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if errors.Is(err, domain.ErrUnauthorized) || ctx.Err() != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// Send ejecuta una escritura (sin reintentos).
func (c *Client) Send(ctx context.Context, method, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, Request{Method: method, Path: path, Body: body})
}
