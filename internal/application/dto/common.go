package dto

// ListQuery parámetros de listados paginados hacia el backend.
type ListQuery struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Search string `query:"search"`
}

// Normalize aplica valores por defecto (page 1, limit 10, máximo 100).
func (q *ListQuery) Normalize() {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP.
// Errors lleva los errores de validación por campo cuando el backend los entrega.
type ErrorResponse struct {
	Code     string              `json:"code"`
	Message  string              `json:"message"`
	Errors   map[string][]string `json:"errors,omitempty"`
	Redirect string              `json:"redirect,omitempty"`
}

// Envelope forma uniforme de las respuestas hacia el dashboard: {ok, data|message}.
type Envelope struct {
	OK      bool        `json:"ok"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ListResponse listado paginado genérico.
type ListResponse[T any] struct {
	Items []T          `json:"items"`
	Page  PageResponse `json:"page"`
}
