package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mydeeptech/admin-dashboard/internal/domain"
)

func TestAPIError_IsComparaPorCategoria(t *testing.T) {
	err := fmt.Errorf("listar: %w", &domain.APIError{Kind: domain.ErrHTTPStatus, Status: 500})

	assert.ErrorIs(t, err, domain.ErrHTTPStatus)
	assert.NotErrorIs(t, err, domain.ErrTransport)
	assert.NotErrorIs(t, err, domain.ErrRejected)
}

func TestErrorMessage_PrefiereMensajeDelServidor(t *testing.T) {
	err := &domain.APIError{Kind: domain.ErrRejected, Code: "403", Message: "Only admins can change roles"}
	assert.Equal(t, "Only admins can change roles", domain.ErrorMessage(err))
}

func TestErrorMessage_HTTPSinMensajeUsaTextoGenerico(t *testing.T) {
	err := &domain.APIError{Kind: domain.ErrHTTPStatus, Status: 502}
	assert.Equal(t, "fetch failed", domain.ErrorMessage(err))
}

func TestErrorMessage_TransporteIncluyeCausa(t *testing.T) {
	err := &domain.APIError{Kind: domain.ErrTransport, Err: errors.New("connection refused")}
	assert.Equal(t, "error de comunicación con el servidor: connection refused", domain.ErrorMessage(err))
}

func TestErrorMessage_Validacion(t *testing.T) {
	err := domain.Invalid("role", domain.ErrRoleRequired)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, domain.ErrRoleRequired)
	assert.Equal(t, "debe seleccionar un rol", domain.ErrorMessage(err))
}

func TestErrorMessage_Nil(t *testing.T) {
	assert.Empty(t, domain.ErrorMessage(nil))
}
