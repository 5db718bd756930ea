package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/mydeeptech/admin-dashboard/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.OverviewUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.OverviewUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetOverview godoc
// @Summary      Resumen del panel
// @Description  Usuarios por rol y resumen de facturación. Siempre 200: si una fuente falla su sección va en null y el motivo en warnings.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OverviewDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/dashboard/overview [get]
func (h *DashboardHandler) GetOverview(c *fiber.Ctx) error {
	return c.JSON(h.uc.GetOverview(c.UserContext()))
}
