// Package billing contiene los casos de uso de facturación del panel de administración.
package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mydeeptech/admin-dashboard/internal/application/dto"
	"github.com/mydeeptech/admin-dashboard/internal/domain"
	"github.com/mydeeptech/admin-dashboard/internal/domain/entity"
	"github.com/mydeeptech/admin-dashboard/internal/domain/repository"
	"github.com/mydeeptech/admin-dashboard/pkg/logger"
)

const (
	defaultCurrency = "USD"
	defaultDueDays  = 30
)

// InvoiceUseCase CRUD de facturas sobre un InvoiceRepository inyectado (memoria o PostgreSQL).
type InvoiceUseCase struct {
	repo repository.InvoiceRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(repo repository.InvoiceRepository, log *logger.Logger) *InvoiceUseCase {
	return &InvoiceUseCase{repo: repo, log: logger.OrNop(log).Named("billing"), now: time.Now}
}

// Create valida, calcula totales, asigna número y persiste.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	now := uc.now().UTC()
	inv := &entity.Invoice{
		ID:        uuid.New().String(),
		Status:    entity.InvoiceStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.apply(inv, in, now); err != nil {
		return nil, err
	}
	number, err := uc.repo.NextNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("billing: numerar factura: %w", err)
	}
	inv.Number = number
	if err := uc.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	uc.log.Info().Str("invoice_id", inv.ID).Str("number", inv.Number).Str("total", inv.Total.StringFixed(2)).Msg("factura creada")
	return toInvoiceResponse(inv), nil
}

// Get obtiene una factura por ID.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// List lista facturas filtrando por estado y texto.
func (uc *InvoiceUseCase) List(ctx context.Context, status, search string, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	page.DefaultPage()
	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" && !entity.ValidInvoiceStatus(status) {
		return nil, domain.Invalid("status", fmt.Errorf("estado desconocido %q", status))
	}
	invoices, total, err := uc.repo.List(ctx, entity.InvoiceFilter{
		Status: status,
		Search: search,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.InvoiceListResponse{
		Items: make([]dto.InvoiceResponse, 0, len(invoices)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, inv := range invoices {
		out.Items = append(out.Items, *toInvoiceResponse(inv))
	}
	return out, nil
}

// Update reemplaza los datos editables. Facturas pagadas o anuladas no se editan.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == entity.InvoiceStatusPaid || inv.Status == entity.InvoiceStatusCancelled {
		return nil, fmt.Errorf("billing: factura %s en estado %s: %w", inv.Number, inv.Status, domain.ErrConflict)
	}
	now := uc.now().UTC()
	if err := uc.apply(inv, in, now); err != nil {
		return nil, err
	}
	inv.UpdatedAt = now
	if err := uc.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// UpdateStatus cambia el estado. Una factura anulada ya no cambia.
func (uc *InvoiceUseCase) UpdateStatus(ctx context.Context, id, status string) (*dto.InvoiceResponse, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !entity.ValidInvoiceStatus(status) {
		return nil, domain.Invalid("status", fmt.Errorf("estado desconocido %q", status))
	}
	inv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == entity.InvoiceStatusCancelled && status != entity.InvoiceStatusCancelled {
		return nil, fmt.Errorf("billing: factura %s anulada: %w", inv.Number, domain.ErrConflict)
	}
	inv.Status = status
	inv.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	uc.log.Info().Str("invoice_id", inv.ID).Str("status", status).Msg("estado de factura actualizado")
	return toInvoiceResponse(inv), nil
}

// Delete elimina una factura.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.load(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// Summary conteo por estado, ingresos cobrados y saldo pendiente (enviadas y vencidas).
func (uc *InvoiceUseCase) Summary(ctx context.Context) (*dto.InvoiceSummaryDTO, error) {
	invoices, total, err := uc.repo.List(ctx, entity.InvoiceFilter{})
	if err != nil {
		return nil, err
	}
	sum := &dto.InvoiceSummaryDTO{
		Total:       total,
		ByStatus:    make(map[string]int, len(entity.InvoiceStatuses)),
		Revenue:     decimal.Zero,
		Outstanding: decimal.Zero,
	}
	for _, st := range entity.InvoiceStatuses {
		sum.ByStatus[st] = 0
	}
	for _, inv := range invoices {
		sum.ByStatus[inv.Status]++
		switch inv.Status {
		case entity.InvoiceStatusPaid:
			sum.Revenue = sum.Revenue.Add(inv.Total)
		case entity.InvoiceStatusSent, entity.InvoiceStatusOverdue:
			sum.Outstanding = sum.Outstanding.Add(inv.Total)
		}
	}
	sum.Revenue = sum.Revenue.Round(2)
	sum.Outstanding = sum.Outstanding.Round(2)
	return sum, nil
}

func (uc *InvoiceUseCase) load(ctx context.Context, id string) (*entity.Invoice, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.Invalid("id", domain.ErrInvalidInput)
	}
	inv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("billing: factura %s: %w", id, domain.ErrNotFound)
	}
	return inv, nil
}

// apply copia el request sobre la factura, recalcula y valida.
func (uc *InvoiceUseCase) apply(inv *entity.Invoice, in dto.CreateInvoiceRequest, now time.Time) error {
	issue, err := parseDate("issue_date", in.IssueDate, now.Truncate(24*time.Hour))
	if err != nil {
		return err
	}
	due, err := parseDate("due_date", in.DueDate, issue.AddDate(0, 0, defaultDueDays))
	if err != nil {
		return err
	}
	inv.ClientName = strings.TrimSpace(in.ClientName)
	inv.ClientEmail = strings.TrimSpace(in.ClientEmail)
	inv.IssueDate = issue
	inv.DueDate = due
	if s := strings.ToLower(strings.TrimSpace(in.Status)); s != "" {
		inv.Status = s
	}
	inv.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if inv.Currency == "" {
		inv.Currency = defaultCurrency
	}
	inv.Notes = strings.TrimSpace(in.Notes)
	inv.TaxRate = in.TaxRate
	inv.Discount = in.Discount
	inv.Items = make([]entity.InvoiceItem, 0, len(in.Items))
	for _, it := range in.Items {
		inv.Items = append(inv.Items, entity.InvoiceItem{
			Description: strings.TrimSpace(it.Description),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	inv.Recalculate()
	return inv.Validate()
}

func parseDate(field, s string, def time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return time.Time{}, domain.Invalid(field, fmt.Errorf("fecha inválida %q (formato YYYY-MM-DD)", s))
	}
	return t, nil
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	items := make([]dto.InvoiceItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, dto.InvoiceItemResponse{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
		})
	}
	return &dto.InvoiceResponse{
		ID:          inv.ID,
		Number:      inv.Number,
		ClientName:  inv.ClientName,
		ClientEmail: inv.ClientEmail,
		IssueDate:   inv.IssueDate.Format(dto.DateLayout),
		DueDate:     inv.DueDate.Format(dto.DateLayout),
		Status:      inv.Status,
		Currency:    inv.Currency,
		Items:       items,
		Notes:       inv.Notes,
		TaxRate:     inv.TaxRate,
		Discount:    inv.Discount,
		Subtotal:    inv.Subtotal,
		TaxTotal:    inv.TaxTotal,
		Total:       inv.Total,
	}
}
