// Package memory contiene adaptadores en memoria de los puertos de persistencia.
// Se usan cuando no hay base de datos configurada y en tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mydeeptech/admin-dashboard/internal/domain"
	"github.com/mydeeptech/admin-dashboard/internal/domain/entity"
	"github.com/mydeeptech/admin-dashboard/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceStore)(nil)

// InvoiceStore repositorio de facturas en memoria, seguro para uso concurrente.
// Guarda copias: los llamadores nunca comparten punteros con el store.
type InvoiceStore struct {
	mu       sync.RWMutex
	invoices map[string]*entity.Invoice
	seq      int
}

// NewInvoiceStore construye un store vacío.
func NewInvoiceStore() *InvoiceStore {
	return &InvoiceStore{invoices: make(map[string]*entity.Invoice)}
}

func clone(inv *entity.Invoice) *entity.Invoice {
	c := *inv
	c.Items = append([]entity.InvoiceItem(nil), inv.Items...)
	return &c
}

// Create guarda la factura; ID y número deben venir asignados.
func (s *InvoiceStore) Create(_ context.Context, inv *entity.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invoices[inv.ID]; ok {
		return fmt.Errorf("invoice %s: %w", inv.ID, domain.ErrConflict)
	}
	for _, other := range s.invoices {
		if other.Number == inv.Number {
			return fmt.Errorf("invoice number %s: %w", inv.Number, domain.ErrConflict)
		}
	}
	s.invoices[inv.ID] = clone(inv)
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (s *InvoiceStore) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[id]
	if !ok {
		return nil, nil
	}
	return clone(inv), nil
}

// List filtra por estado y texto, ordena por emisión descendente y pagina.
func (s *InvoiceStore) List(_ context.Context, f entity.InvoiceFilter) ([]*entity.Invoice, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	matched := make([]*entity.Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(inv.Number), search) &&
			!strings.Contains(strings.ToLower(inv.ClientName), search) {
			continue
		}
		matched = append(matched, inv)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].IssueDate.Equal(matched[j].IssueDate) {
			return matched[i].IssueDate.After(matched[j].IssueDate)
		}
		return matched[i].Number > matched[j].Number
	})

	total := len(matched)
	start := f.Offset
	if start > total {
		start = total
	}
	end := total
	if f.Limit > 0 && start+f.Limit < total {
		end = start + f.Limit
	}
	out := make([]*entity.Invoice, 0, end-start)
	for _, inv := range matched[start:end] {
		out = append(out, clone(inv))
	}
	return out, total, nil
}

// Update reemplaza la factura completa.
func (s *InvoiceStore) Update(_ context.Context, inv *entity.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invoices[inv.ID]; !ok {
		return fmt.Errorf("invoice %s: %w", inv.ID, domain.ErrNotFound)
	}
	s.invoices[inv.ID] = clone(inv)
	return nil
}

// Delete elimina la factura.
func (s *InvoiceStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invoices[id]; !ok {
		return fmt.Errorf("invoice %s: %w", id, domain.ErrNotFound)
	}
	delete(s.invoices, id)
	return nil
}

// NextNumber consecutivo INV-000001, INV-000002...
func (s *InvoiceStore) NextNumber(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return formatInvoiceNumber(s.seq), nil
}

func formatInvoiceNumber(n int) string {
	return fmt.Sprintf("INV-%06d", n)
}
