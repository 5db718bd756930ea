package result_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mydeeptech/admin-dashboard/pkg/result"
)

func TestOrElse_PrimariaExitosaNoEvaluaSecundaria(t *testing.T) {
	called := false
	r := result.Ok(1).OrElse(func() result.Result[int] {
		called = true
		return result.Ok(2)
	})

	assert.Equal(t, 1, r.Value)
	assert.False(t, called)
}

func TestOrElse_PrimariaFallidaUsaSecundaria(t *testing.T) {
	r := result.Fail[int](errors.New("boom")).OrElse(func() result.Result[int] {
		return result.Ok(2)
	})

	v, err := r.Unwrap()
	assert.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestRecover_RecibeErrorDeLaPrimaria(t *testing.T) {
	primary := errors.New("primaria caída")
	r := result.Of(0, primary).Recover(func(err error) result.Result[int] {
		assert.ErrorIs(t, err, primary)
		return result.Fail[int](errors.Join(err, errors.New("secundaria caída")))
	})

	assert.False(t, r.IsOk())
	assert.ErrorIs(t, r.Err, primary)
}
