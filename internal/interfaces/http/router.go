package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mydeeptech/admin-dashboard/internal/application/analytics"
	"github.com/mydeeptech/admin-dashboard/internal/application/billing"
	"github.com/mydeeptech/admin-dashboard/internal/application/rbac"
	"github.com/mydeeptech/admin-dashboard/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RBAC      *rbac.Service
	InvoiceUC *billing.InvoiceUseCase
	Overview  *analytics.OverviewUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", health)

	// El token (si viene) se reenvía al backend en todas las rutas.
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Gestión de roles: con secret configurado solo administradores.
	admin := api.Group("/admin")
	if deps.JWTSecret != "" {
		admin.Use(RequireRole(string(entity.RoleAdmin)))
	}
	roleHandler := NewRoleHandler(deps.RBAC)
	admin.Get("/users", roleHandler.ListUsers)
	admin.Get("/users/export.xlsx", roleHandler.ExportUsers)
	admin.Get("/users/:id", roleHandler.GetUser)
	admin.Put("/users/:id/role", roleHandler.UpdateRole)
	admin.Get("/roles", roleHandler.ListRoles)
	admin.Get("/roles/:name/permissions", roleHandler.RolePermissions)
	admin.Get("/role-statistics", roleHandler.RoleStatistics)
	admin.Get("/permissions/matrix", roleHandler.PermissionMatrix)
	admin.Get("/permissions/matrix.xlsx", roleHandler.ExportMatrix)

	// Dashboard y facturas viven en este proceso: con secret configurado exigen token verificado.
	local := []fiber.Handler{}
	if deps.JWTSecret != "" {
		local = append(local, RequireAuth())
	}

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.Overview)
	api.Get("/dashboard/overview", append(local, dashboardHandler.GetOverview)...)

	// Invoices
	invoices := api.Group("/invoices", local...)
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Patch("/:id/status", invoiceHandler.UpdateStatus)
	invoices.Delete("/:id", invoiceHandler.Delete)
}

// health godoc
// @Summary      Estado del servicio
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
