package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrUserNotFound    = errors.New("usuario no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrForbidden       = errors.New("acceso denegado")
	ErrConflict        = errors.New("conflicto con el estado actual")
	ErrInvalidRole     = errors.New("rol inválido")
	ErrRoleRequired    = errors.New("debe seleccionar un rol")
	ErrInvalidPage     = errors.New("la página debe ser mayor o igual a 1")
	ErrInvalidPageSize = errors.New("tamaño de página no permitido (10, 20, 50 o 100)")
)

// Categorías de fallo de las llamadas al backend y de validación en cliente.
var (
	// ErrTransport: fallo de red o de decodificación de la respuesta.
	ErrTransport = errors.New("error de comunicación con el servidor")
	// ErrHTTPStatus: respuesta HTTP distinta de 2xx.
	ErrHTTPStatus = errors.New("fetch failed")
	// ErrRejected: el servidor respondió 2xx pero su responseCode no es el de éxito.
	ErrRejected = errors.New("la operación fue rechazada por el servidor")
	// ErrValidation: validación en cliente; nunca llega a la red.
	ErrValidation = errors.New("datos inválidos")
)

// APIError describe un fallo de una llamada al backend. Kind es uno de
// ErrTransport, ErrHTTPStatus o ErrRejected y es comparable con errors.Is.
type APIError struct {
	Kind      error
	Operation string // ej. "listUsers"
	Status    int    // status HTTP, 0 si no hubo respuesta
	Code      string // responseCode del cuerpo, si existe
	Message   string // mensaje devuelto por el servidor, si existe
	Err       error  // causa subyacente
}

func (e *APIError) Error() string {
	var b strings.Builder
	if e.Operation != "" {
		b.WriteString(e.Operation)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is permite errors.Is(err, domain.ErrHTTPStatus), etc.
func (e *APIError) Is(target error) bool {
	return target == e.Kind
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// ValidationError envuelve un error de validación concreto (ErrRoleRequired, ErrInvalidPageSize...)
// bajo la categoría ErrValidation.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation || target == ErrInvalidInput
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Invalid construye un ValidationError.
func Invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

const genericErrorMessage = "Ocurrió un error inesperado"

// ErrorMessage normaliza cualquier error en un único texto legible para notificaciones.
// Prioridad: mensaje del servidor, mensaje de validación, error subyacente, texto genérico.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if msg := strings.TrimSpace(apiErr.Message); msg != "" {
			return msg
		}
		if apiErr.Kind == ErrTransport && apiErr.Err != nil {
			return apiErr.Kind.Error() + ": " + apiErr.Err.Error()
		}
		return apiErr.Kind.Error()
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Err.Error()
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return genericErrorMessage
}
