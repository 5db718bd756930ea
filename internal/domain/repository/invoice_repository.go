package repository

import (
	"context"

	"github.com/mydeeptech/admin-dashboard/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
// GetByID devuelve (nil, nil) si no existe, igual que el resto de repositorios.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// List devuelve la página pedida y el total de facturas que cumplen el filtro.
	List(ctx context.Context, filter entity.InvoiceFilter) ([]*entity.Invoice, int, error)
	// Update reemplaza cabecera y líneas.
	Update(ctx context.Context, invoice *entity.Invoice) error
	Delete(ctx context.Context, id string) error
	// NextNumber devuelve el siguiente consecutivo legible (INV-000123).
	NextNumber(ctx context.Context) (string, error)
}
