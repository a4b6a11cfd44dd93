package backend

import (
	"fmt"
	"net/http"

	"github.com/jhoicas/pos-dashboard/internal/domain"
)

// APIError error uniforme para respuestas no 2xx del backend.
type APIError struct {
	Status  int
	Message string
	Errors  map[string][]string // errores de validación por campo, si existen
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend HTTP %d: %s", e.Status, e.Message)
}

// Unwrap permite errors.Is contra los errores de dominio.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return domain.ErrForbidden
	case e.Status == http.StatusNotFound:
		return domain.ErrNotFound
	case e.Status == http.StatusConflict:
		return domain.ErrConflict
	case e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity:
		return domain.ErrInvalidInput
	case e.Status >= 500:
		return domain.ErrBackendUnavailable
	}
	return nil
}
