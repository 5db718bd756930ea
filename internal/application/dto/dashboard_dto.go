package dto

import "github.com/shopspring/decimal"

// InvoiceSummaryDTO resumen de facturación para el widget del dashboard.
type InvoiceSummaryDTO struct {
	Total       int             `json:"total"`
	ByStatus    map[string]int  `json:"by_status"`
	Revenue     decimal.Decimal `json:"revenue"`     // suma de facturas pagadas
	Outstanding decimal.Decimal `json:"outstanding"` // enviadas + vencidas
}

// OverviewDTO respuesta de GET /api/dashboard/overview.
// Cada sección puede faltar (nil) si su fuente falló; el motivo queda en Warnings.
type OverviewDTO struct {
	Roles    *RoleStatisticsResponse `json:"roles,omitempty"`
	Invoices *InvoiceSummaryDTO      `json:"invoices,omitempty"`
	Warnings []string                `json:"warnings"`
}
