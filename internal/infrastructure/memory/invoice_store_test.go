package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mydeeptech/admin-dashboard/internal/domain"
	"github.com/mydeeptech/admin-dashboard/internal/domain/entity"
	"github.com/mydeeptech/admin-dashboard/internal/infrastructure/memory"
)

func seed(t *testing.T, s *memory.InvoiceStore, id, client, status string, issue time.Time) {
	t.Helper()
	num, err := s.NextNumber(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), &entity.Invoice{
		ID: id, Number: num, ClientName: client, Status: status, IssueDate: issue,
		Items: []entity.InvoiceItem{{Description: "x"}},
	}))
}

func TestInvoiceStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := memory.NewInvoiceStore()
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	seed(t, s, "a", "Acme", entity.InvoiceStatusDraft, day)

	got, err := s.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "INV-000001", got.Number)

	got.ClientName = "mutated"
	got.Items[0].Description = "mutated"
	again, _ := s.GetByID(ctx, "a")
	assert.Equal(t, "Acme", again.ClientName, "el store guarda copias")
	assert.Equal(t, "x", again.Items[0].Description)

	again.Status = entity.InvoiceStatusPaid
	require.NoError(t, s.Update(ctx, again))
	again, _ = s.GetByID(ctx, "a")
	assert.Equal(t, entity.InvoiceStatusPaid, again.Status)

	require.NoError(t, s.Delete(ctx, "a"))
	missing, err := s.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.True(t, errors.Is(s.Delete(ctx, "a"), domain.ErrNotFound))
	assert.True(t, errors.Is(s.Update(ctx, &entity.Invoice{ID: "zz"}), domain.ErrNotFound))
}

func TestInvoiceStore_DuplicadoEsConflicto(t *testing.T) {
	s := memory.NewInvoiceStore()
	seed(t, s, "a", "Acme", entity.InvoiceStatusDraft, time.Now())

	err := s.Create(context.Background(), &entity.Invoice{ID: "a", Number: "INV-999999"})
	assert.True(t, errors.Is(err, domain.ErrConflict))
	err = s.Create(context.Background(), &entity.Invoice{ID: "b", Number: "INV-000001"})
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestInvoiceStore_ListFiltraOrdenaYPagina(t *testing.T) {
	ctx := context.Background()
	s := memory.NewInvoiceStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seed(t, s, "1", "Acme Corp", entity.InvoiceStatusPaid, base)
	seed(t, s, "2", "Globex", entity.InvoiceStatusSent, base.AddDate(0, 0, 1))
	seed(t, s, "3", "Acme Labs", entity.InvoiceStatusSent, base.AddDate(0, 0, 2))
	seed(t, s, "4", "Initech", entity.InvoiceStatusDraft, base.AddDate(0, 0, 3))

	all, total, err := s.List(ctx, entity.InvoiceFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, "4", all[0].ID, "más recientes primero")

	sent, total, err := s.List(ctx, entity.InvoiceFilter{Status: entity.InvoiceStatusSent})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, []string{"3", "2"}, []string{sent[0].ID, sent[1].ID})

	acme, total, err := s.List(ctx, entity.InvoiceFilter{Search: "  ACME "})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, acme, 2)

	page, total, err := s.List(ctx, entity.InvoiceFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, []string{"2", "1"}, []string{page[0].ID, page[1].ID})

	empty, _, err := s.List(ctx, entity.InvoiceFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}
