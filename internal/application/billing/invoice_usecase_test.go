package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mydeeptech/admin-dashboard/internal/application/billing"
	"github.com/mydeeptech/admin-dashboard/internal/application/dto"
	"github.com/mydeeptech/admin-dashboard/internal/domain"
	"github.com/mydeeptech/admin-dashboard/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func validRequest() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		ClientName: "  Acme Labs ",
		IssueDate:  "2026-03-01",
		Items: []dto.InvoiceItemRequest{
			{Description: "Image annotation", Quantity: dec("2"), UnitPrice: dec("100.00")},
			{Description: "QA review", Quantity: dec("1.5"), UnitPrice: dec("40")},
		},
		TaxRate:  dec("7.5"),
		Discount: dec("10"),
	}
}

func TestCreate_CalculaTotalesYNumera(t *testing.T) {
	uc := billing.NewInvoiceUseCase(memory.NewInvoiceStore(), nil)

	inv, err := uc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "INV-000001", inv.Number)
	assert.Equal(t, "Acme Labs", inv.ClientName)
	assert.Equal(t, "draft", inv.Status)
	assert.Equal(t, "USD", inv.Currency)
	assert.Equal(t, "2026-03-31", inv.DueDate, "vencimiento por defecto a 30 días")
	assert.True(t, inv.Items[1].Amount.Equal(dec("60")))
	assert.True(t, inv.Subtotal.Equal(dec("260")))
	assert.True(t, inv.TaxTotal.Equal(dec("19.5")))
	assert.True(t, inv.Total.Equal(dec("269.5")))

	second, err := uc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "INV-000002", second.Number)
}

func TestCreate_Validaciones(t *testing.T) {
	uc := billing.NewInvoiceUseCase(memory.NewInvoiceStore(), nil)
	ctx := context.Background()

	cases := map[string]func(r *dto.CreateInvoiceRequest){
		"sin cliente":             func(r *dto.CreateInvoiceRequest) { r.ClientName = " " },
		"sin líneas":              func(r *dto.CreateInvoiceRequest) { r.Items = nil },
		"cantidad cero":           func(r *dto.CreateInvoiceRequest) { r.Items[0].Quantity = decimal.Zero },
		"precio negativo":         func(r *dto.CreateInvoiceRequest) { r.Items[0].UnitPrice = dec("-1") },
		"descuento excesivo":      func(r *dto.CreateInvoiceRequest) { r.Discount = dec("1000") },
		"vence antes":             func(r *dto.CreateInvoiceRequest) { r.DueDate = "2026-02-01" },
		"fecha mal formada":       func(r *dto.CreateInvoiceRequest) { r.IssueDate = "01/03/2026" },
		"estado desconocido":      func(r *dto.CreateInvoiceRequest) { r.Status = "archived" },
		"impuesto fuera de rango": func(r *dto.CreateInvoiceRequest) { r.TaxRate = dec("120") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validRequest()
			mutate(&req)
			_, err := uc.Create(ctx, req)
			assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
		})
	}
}

func TestGetUpdateDelete(t *testing.T) {
	uc := billing.NewInvoiceUseCase(memory.NewInvoiceStore(), nil)
	ctx := context.Background()

	created, err := uc.Create(ctx, validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.ClientName = "Globex"
	req.Discount = decimal.Zero
	updated, err := uc.Update(ctx, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Globex", updated.ClientName)
	assert.Equal(t, created.Number, updated.Number)
	assert.True(t, updated.Total.Equal(dec("279.5")))

	got, err := uc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Globex", got.ClientName)

	require.NoError(t, uc.Delete(ctx, created.ID))
	_, err = uc.Get(ctx, created.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.True(t, errors.Is(uc.Delete(ctx, created.ID), domain.ErrNotFound))
}

func TestUpdateStatus(t *testing.T) {
	uc := billing.NewInvoiceUseCase(memory.NewInvoiceStore(), nil)
	ctx := context.Background()
	created, err := uc.Create(ctx, validRequest())
	require.NoError(t, err)

	_, err = uc.UpdateStatus(ctx, created.ID, "bogus")
	assert.True(t, errors.Is(err, domain.ErrValidation))

	paid, err := uc.UpdateStatus(ctx, created.ID, " PAID ")
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)

	_, err = uc.Update(ctx, created.ID, validRequest())
	assert.True(t, errors.Is(err, domain.ErrConflict), "una factura pagada no se edita")

	_, err = uc.UpdateStatus(ctx, created.ID, "cancelled")
	require.NoError(t, err)
	_, err = uc.UpdateStatus(ctx, created.ID, "sent")
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestListYSummary(t *testing.T) {
	uc := billing.NewInvoiceUseCase(memory.NewInvoiceStore(), nil)
	ctx := context.Background()

	for _, status := range []string{"paid", "paid", "sent", "overdue", "draft"} {
		req := validRequest()
		req.Status = status
		_, err := uc.Create(ctx, req)
		require.NoError(t, err)
	}

	list, err := uc.List(ctx, "paid", "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, list.Page.Total)
	assert.Equal(t, 20, list.Page.Limit)

	list, err = uc.List(ctx, "", "", dto.PageRequest{Limit: 5000, Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, dto.MaxListLimit, list.Page.Limit)
	assert.Equal(t, 0, list.Page.Offset)
	assert.Len(t, list.Items, 5)

	_, err = uc.List(ctx, "weird", "", dto.PageRequest{})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	sum, err := uc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, sum.Total)
	assert.Equal(t, 2, sum.ByStatus["paid"])
	assert.Equal(t, 0, sum.ByStatus["cancelled"])
	assert.True(t, sum.Revenue.Equal(dec("539")))
	assert.True(t, sum.Outstanding.Equal(dec("539")))
}
