// Package token provee las fuentes del bearer token que el cliente REST adjunta a cada petición.
package token

import (
	"context"
	"strings"
)

// Source devuelve el token vigente. Un token vacío sin error es válido:
// la petición sale sin autenticar y el backend decide.
type Source interface {
	Token(ctx context.Context) (string, error)
}

// SourceFunc adapta una función a Source.
type SourceFunc func(ctx context.Context) (string, error)

// Token implementa Source.
func (f SourceFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

type ctxKey struct{}

// WithToken guarda el token de la petición entrante en el contexto (BFF).
func WithToken(ctx context.Context, tok string) context.Context {
	return context.WithValue(ctx, ctxKey{}, strings.TrimSpace(tok))
}

// FromContext lee el token guardado con WithToken.
func FromContext(ctx context.Context) string {
	tok, _ := ctx.Value(ctxKey{}).(string)
	return tok
}

// Context es la Source que lee el token del contexto de la petición.
var Context Source = SourceFunc(func(ctx context.Context) (string, error) {
	return FromContext(ctx), nil
})

// Chain devuelve el primer token no vacío de las fuentes, en orden.
func Chain(sources ...Source) Source {
	return SourceFunc(func(ctx context.Context) (string, error) {
		for _, s := range sources {
			tok, err := s.Token(ctx)
			if err != nil {
				return "", err
			}
			if tok != "" {
				return tok, nil
			}
		}
		return "", nil
	})
}
