// Package result modela el resultado de una llamada (valor o error) para componer
// estrategias "primaria, si no secundaria" sin usar el error como control de flujo.
package result

// Result contiene exactamente uno de Value o Err.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok construye un resultado exitoso.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fail construye un resultado fallido.
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// Of adapta el par (valor, error) habitual de Go.
func Of[T any](v T, err error) Result[T] {
	if err != nil {
		return Fail[T](err)
	}
	return Ok(v)
}

// IsOk indica si el resultado no tiene error.
func (r Result[T]) IsOk() bool {
	return r.Err == nil
}

// Unwrap devuelve el par (valor, error).
func (r Result[T]) Unwrap() (T, error) {
	return r.Value, r.Err
}

// OrElse devuelve r si es exitoso; si no, evalúa la alternativa.
func (r Result[T]) OrElse(secondary func() Result[T]) Result[T] {
	if r.IsOk() {
		return r
	}
	return secondary()
}

// Recover es OrElse con acceso al error de la primaria.
func (r Result[T]) Recover(secondary func(error) Result[T]) Result[T] {
	if r.IsOk() {
		return r
	}
	return secondary(r.Err)
}
