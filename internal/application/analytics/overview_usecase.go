// Package analytics contiene los casos de uso del resumen del panel de administración.
package analytics

import (
	"context"

	"github.com/mydeeptech/admin-dashboard/internal/application/dto"
	"github.com/mydeeptech/admin-dashboard/internal/domain"
	"github.com/mydeeptech/admin-dashboard/internal/domain/entity"
	"github.com/mydeeptech/admin-dashboard/pkg/logger"
)

// RoleStatsSource conteo de usuarios por rol.
type RoleStatsSource interface {
	RoleStatistics(ctx context.Context) (entity.RoleStatistics, error)
}

// InvoiceSummarySource resumen de facturación.
type InvoiceSummarySource interface {
	Summary(ctx context.Context) (*dto.InvoiceSummaryDTO, error)
}

// OverviewUseCase arma el resumen del dashboard.
//
// Fuentes: estadísticas por rol (backend, con respaldo por muestra) y facturación (store local).
// Un fallo en una fuente no tumba la otra: se reporta en Warnings.
type OverviewUseCase struct {
	roles    RoleStatsSource
	invoices InvoiceSummarySource
	log      *logger.Logger
}

// NewOverviewUseCase construye el caso de uso.
func NewOverviewUseCase(roles RoleStatsSource, invoices InvoiceSummarySource, log *logger.Logger) *OverviewUseCase {
	return &OverviewUseCase{roles: roles, invoices: invoices, log: logger.OrNop(log).Named("analytics")}
}

// GetOverview consulta ambas fuentes en paralelo.
func (uc *OverviewUseCase) GetOverview(ctx context.Context) *dto.OverviewDTO {
	type rolesResult struct {
		stats entity.RoleStatistics
		err   error
	}
	type invoicesResult struct {
		summary *dto.InvoiceSummaryDTO
		err     error
	}

	rolesCh := make(chan rolesResult, 1)
	invoicesCh := make(chan invoicesResult, 1)

	go func() {
		stats, err := uc.roles.RoleStatistics(ctx)
		rolesCh <- rolesResult{stats, err}
	}()
	go func() {
		summary, err := uc.invoices.Summary(ctx)
		invoicesCh <- invoicesResult{summary, err}
	}()

	roles := <-rolesCh
	invoices := <-invoicesCh

	out := &dto.OverviewDTO{Warnings: []string{}}
	if roles.err != nil {
		uc.log.Warn().Err(roles.err).Msg("overview: estadísticas por rol no disponibles")
		out.Warnings = append(out.Warnings, "roles: "+domain.ErrorMessage(roles.err))
	} else {
		out.Roles = dto.NewRoleStatisticsResponse(roles.stats)
		if roles.stats.Approximate {
			out.Warnings = append(out.Warnings, "roles: conteo aproximado calculado sobre una muestra")
		}
	}
	if invoices.err != nil {
		uc.log.Warn().Err(invoices.err).Msg("overview: resumen de facturación no disponible")
		out.Warnings = append(out.Warnings, "invoices: "+domain.ErrorMessage(invoices.err))
	} else {
		out.Invoices = invoices.summary
	}
	return out
}
