package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mydeeptech/admin-dashboard/internal/domain"
)

// Estados de una factura.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// InvoiceStatuses estados válidos en orden de ciclo de vida.
var InvoiceStatuses = []string{
	InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled,
}

// ValidInvoiceStatus indica si s es un estado conocido.
func ValidInvoiceStatus(s string) bool {
	for _, st := range InvoiceStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// InvoiceItem representa una línea de la factura.
type InvoiceItem struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal // Quantity * UnitPrice, 2 decimales
}

// Invoice representa una factura emitida a un cliente (pago a anotadores, proyectos, etc.).
type Invoice struct {
	ID          string
	Number      string
	ClientName  string
	ClientEmail string
	IssueDate   time.Time
	DueDate     time.Time
	Status      string
	Currency    string
	Items       []InvoiceItem
	Notes       string
	TaxRate     decimal.Decimal // porcentaje, ej. 7.5
	Discount    decimal.Decimal
	Subtotal    decimal.Decimal
	TaxTotal    decimal.Decimal
	Total       decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var hundred = decimal.NewFromInt(100)

// Recalculate recomputa importes de línea y totales de cabecera.
//
//	Amount   = Quantity × UnitPrice
//	Subtotal = Σ Amount
//	TaxTotal = Subtotal × TaxRate / 100
//	Total    = Subtotal + TaxTotal − Discount
func (inv *Invoice) Recalculate() {
	subtotal := decimal.Zero
	for i := range inv.Items {
		item := &inv.Items[i]
		item.Amount = item.Quantity.Mul(item.UnitPrice).Round(2)
		subtotal = subtotal.Add(item.Amount)
	}
	inv.Subtotal = subtotal.Round(2)
	inv.TaxTotal = inv.Subtotal.Mul(inv.TaxRate).Div(hundred).Round(2)
	inv.Total = inv.Subtotal.Add(inv.TaxTotal).Sub(inv.Discount).Round(2)
}

// Validate aplica las reglas de la factura; debe llamarse después de Recalculate.
func (inv *Invoice) Validate() error {
	if strings.TrimSpace(inv.ClientName) == "" {
		return domain.Invalid("client_name", fmt.Errorf("el cliente es obligatorio"))
	}
	if len(inv.Items) == 0 {
		return domain.Invalid("items", fmt.Errorf("la factura necesita al menos una línea"))
	}
	for i, item := range inv.Items {
		if strings.TrimSpace(item.Description) == "" {
			return domain.Invalid(fmt.Sprintf("items[%d].description", i), fmt.Errorf("la descripción es obligatoria"))
		}
		if !item.Quantity.GreaterThan(decimal.Zero) {
			return domain.Invalid(fmt.Sprintf("items[%d].quantity", i), fmt.Errorf("la cantidad debe ser mayor que cero"))
		}
		if item.UnitPrice.IsNegative() {
			return domain.Invalid(fmt.Sprintf("items[%d].unit_price", i), fmt.Errorf("el precio no puede ser negativo"))
		}
	}
	if inv.TaxRate.IsNegative() || inv.TaxRate.GreaterThan(hundred) {
		return domain.Invalid("tax_rate", fmt.Errorf("la tasa de impuesto debe estar entre 0 y 100"))
	}
	if inv.Discount.IsNegative() {
		return domain.Invalid("discount", fmt.Errorf("el descuento no puede ser negativo"))
	}
	if inv.Total.IsNegative() {
		return domain.Invalid("discount", fmt.Errorf("el descuento supera el total de la factura"))
	}
	if !inv.DueDate.IsZero() && inv.DueDate.Before(inv.IssueDate) {
		return domain.Invalid("due_date", fmt.Errorf("el vencimiento no puede ser anterior a la emisión"))
	}
	if !ValidInvoiceStatus(inv.Status) {
		return domain.Invalid("status", fmt.Errorf("estado desconocido %q", inv.Status))
	}
	return nil
}

// InvoiceFilter criterios del listado de facturas.
type InvoiceFilter struct {
	Status string
	Search string // número o cliente, sin distinguir mayúsculas
	Limit  int
	Offset int
}
