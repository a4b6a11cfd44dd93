package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrShiftAlreadyOpen   = errors.New("el cajero ya tiene un turno abierto")
	ErrShiftNotOpen       = errors.New("el turno no está abierto")
	ErrShiftNotPending    = errors.New("el turno no está pendiente de cierre")
	ErrNotSupported       = errors.New("operación no soportada por este almacén")
	ErrSuperseded         = errors.New("consulta reemplazada por una más reciente")
	ErrBackendUnavailable = errors.New("backend no disponible")
)
