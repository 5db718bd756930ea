package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mydeeptech/admin-dashboard/internal/application/dto"
	"github.com/mydeeptech/admin-dashboard/internal/application/rbac"
	"github.com/mydeeptech/admin-dashboard/internal/domain/entity"
	"github.com/mydeeptech/admin-dashboard/internal/infrastructure/export"
)

// exportPageSize usuarios por archivo en GET /api/admin/users/export.xlsx si no se indica limit.
const exportPageSize = 100

// RoleHandler expone la gestión de roles y permisos (proxy al backend de MyDeepTech).
type RoleHandler struct {
	svc *rbac.Service
}

// NewRoleHandler construye el handler.
func NewRoleHandler(svc *rbac.Service) *RoleHandler {
	return &RoleHandler{svc: svc}
}

// ListUsers godoc
// @Summary      Listar usuarios
// @Tags         roles
// @Security     Bearer
// @Produce      json
// @Param        page    query  int     false  "Página (desde 1)"  default(1)
// @Param        limit   query  int     false  "Tamaño de página (10, 20, 50 o 100)"  default(10)
// @Param        search  query  string  false  "Filtra por nombre o email"
// @Success      200  {object}  dto.UserListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/admin/users [get]
func (h *RoleHandler) ListUsers(c *fiber.Ctx) error {
	q := rbac.UserQuery{
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", entity.DefaultPageSize),
		Search: c.Query("search"),
	}
	page, err := h.svc.ListUsers(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewUserListResponse(page))
}

// GetUser godoc
// @Summary      Obtener usuario por ID
// @Tags         roles
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/admin/users/{id} [get]
func (h *RoleHandler) GetUser(c *fiber.Ctx) error {
	u, err := h.svc.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewUserResponse(*u))
}

// UpdateRole godoc
// @Summary      Cambiar el rol de un usuario
// @Tags         roles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del usuario"
// @Param        body  body  dto.UpdateRoleRequest  true  "Nuevo rol y motivo"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/admin/users/{id}/role [put]
func (h *RoleHandler) UpdateRole(c *fiber.Ctx) error {
	var in dto.UpdateRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	u, err := h.svc.UpdateRole(c.UserContext(), rbac.UpdateRoleInput{UserID: c.Params("id"), Role: in.Role, Reason: in.Reason})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewUserResponse(*u))
}

// ListRoles godoc
// @Summary      Catálogo de roles
// @Description  Nunca falla: si el backend no responde devuelve el catálogo predeterminado con fallback=true
// @Tags         roles
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RoleListResponse
// @Router       /api/admin/roles [get]
func (h *RoleHandler) ListRoles(c *fiber.Ctx) error {
	list := h.svc.ListRoles(c.UserContext())
	return c.JSON(dto.NewRoleListResponse(list.Roles, list.Fallback))
}

// RoleStatistics godoc
// @Summary      Usuarios por rol
// @Description  Usa el endpoint de estadísticas del backend; si falla, agrega una muestra de usuarios (approximate=true si no cubre el total)
// @Tags         roles
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RoleStatisticsResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/admin/role-statistics [get]
func (h *RoleHandler) RoleStatistics(c *fiber.Ctx) error {
	stats, err := h.svc.RoleStatistics(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewRoleStatisticsResponse(stats))
}

// PermissionMatrix godoc
// @Summary      Matriz rol × permiso
// @Tags         permissions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PermissionMatrixResponse
// @Router       /api/admin/permissions/matrix [get]
func (h *RoleHandler) PermissionMatrix(c *fiber.Ctx) error {
	m, fallback := h.svc.PermissionMatrix(c.UserContext())
	return c.JSON(dto.NewPermissionMatrixResponse(m, fallback))
}

// RolePermissions godoc
// @Summary      Permisos de un rol
// @Tags         permissions
// @Security     Bearer
// @Produce      json
// @Param        name  path  string  true  "Nombre del rol (admin, user, annotator, moderator, qa_reviewer)"
// @Success      200   {object}  dto.RoleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/roles/{name}/permissions [get]
func (h *RoleHandler) RolePermissions(c *fiber.Ctx) error {
	role, err := h.svc.RolePermissions(c.UserContext(), c.Params("name"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewRoleResponse(*role))
}

// ExportMatrix godoc
// @Summary      Descargar la matriz de permisos en XLSX
// @Tags         permissions
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}    file
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/admin/permissions/matrix.xlsx [get]
func (h *RoleHandler) ExportMatrix(c *fiber.Ctx) error {
	m, _ := h.svc.PermissionMatrix(c.UserContext())
	data, err := export.PermissionMatrixXLSX(m)
	if err != nil {
		return respondError(c, err)
	}
	return sendXLSX(c, "permission-matrix", data)
}

// ExportUsers godoc
// @Summary      Descargar una página de usuarios en XLSX
// @Tags         roles
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        page    query  int     false  "Página (desde 1)"  default(1)
// @Param        limit   query  int     false  "Usuarios por archivo (10, 20, 50 o 100)"  default(100)
// @Param        search  query  string  false  "Filtra por nombre o email"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/admin/users/export.xlsx [get]
func (h *RoleHandler) ExportUsers(c *fiber.Ctx) error {
	q := rbac.UserQuery{
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", exportPageSize),
		Search: c.Query("search"),
	}
	page, err := h.svc.ListUsers(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	data, err := export.UsersXLSX(page.Users)
	if err != nil {
		return respondError(c, err)
	}
	return sendXLSX(c, "users", data)
}

func sendXLSX(c *fiber.Ctx, name string, data []byte) error {
	c.Set(fiber.HeaderContentType, export.ContentTypeXLSX)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s-%s.xlsx"`, name, time.Now().UTC().Format("20060102")))
	return c.Send(data)
}
