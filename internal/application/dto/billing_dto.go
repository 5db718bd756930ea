package dto

import "github.com/shopspring/decimal"

// DateLayout formato de fechas de factura en la API.
const DateLayout = "2006-01-02"

// InvoiceItemRequest línea de factura (descripción, cantidad, precio unitario).
type InvoiceItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateInvoiceRequest body para POST /api/invoices y PUT /api/invoices/:id.
// IssueDate y DueDate en formato YYYY-MM-DD; vacíos = hoy y hoy + 30 días.
type CreateInvoiceRequest struct {
	ClientName  string               `json:"client_name"`
	ClientEmail string               `json:"client_email,omitempty"`
	IssueDate   string               `json:"issue_date,omitempty"`
	DueDate     string               `json:"due_date,omitempty"`
	Status      string               `json:"status,omitempty"` // por defecto draft
	Currency    string               `json:"currency,omitempty"`
	Items       []InvoiceItemRequest `json:"items"`
	Notes       string               `json:"notes,omitempty"`
	TaxRate     decimal.Decimal      `json:"tax_rate"`
	Discount    decimal.Decimal      `json:"discount"`
}

// UpdateInvoiceStatusRequest body para PATCH /api/invoices/:id/status.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status"`
}

// InvoiceItemResponse línea en la respuesta.
type InvoiceItemResponse struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse factura con líneas para GET /api/invoices/:id.
type InvoiceResponse struct {
	ID          string                `json:"id"`
	Number      string                `json:"number"`
	ClientName  string                `json:"client_name"`
	ClientEmail string                `json:"client_email,omitempty"`
	IssueDate   string                `json:"issue_date"`
	DueDate     string                `json:"due_date"`
	Status      string                `json:"status"`
	Currency    string                `json:"currency"`
	Items       []InvoiceItemResponse `json:"items"`
	Notes       string                `json:"notes,omitempty"`
	TaxRate     decimal.Decimal       `json:"tax_rate"`
	Discount    decimal.Decimal       `json:"discount"`
	Subtotal    decimal.Decimal       `json:"subtotal"`
	TaxTotal    decimal.Decimal       `json:"tax_total"`
	Total       decimal.Decimal       `json:"total"`
}

// InvoiceListResponse página de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
