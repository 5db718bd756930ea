package dto

import (
	"time"

	"github.com/mydeeptech/admin-dashboard/internal/domain/entity"
)

// UserResponse usuario de la plataforma en respuestas del BFF.
type UserResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	Role      string     `json:"role"`
	RoleLabel string     `json:"role_label"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// PaginationResponse paginación reflejada del backend.
type PaginationResponse struct {
	CurrentPage int  `json:"current_page"`
	PageSize    int  `json:"page_size"`
	TotalPages  int  `json:"total_pages"`
	TotalUsers  int  `json:"total_users"`
	HasNextPage bool `json:"has_next_page"`
	HasPrevPage bool `json:"has_prev_page"`
}

// UserListResponse respuesta de GET /api/admin/users.
type UserListResponse struct {
	Users      []UserResponse     `json:"users"`
	Pagination PaginationResponse `json:"pagination"`
}

// UpdateRoleRequest body para PUT /api/admin/users/:id/role.
type UpdateRoleRequest struct {
	Role   string `json:"role"`
	Reason string `json:"reason,omitempty"`
}

// PermissionResponse permiso atómico.
type PermissionResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Category      string `json:"category"`
	CategoryLabel string `json:"category_label"`
}

// RoleResponse rol con sus permisos.
type RoleResponse struct {
	Name        string               `json:"name"`
	DisplayName string               `json:"display_name"`
	Description string               `json:"description,omitempty"`
	IsEditable  bool                 `json:"is_editable"`
	Permissions []PermissionResponse `json:"permissions"`
}

// RoleListResponse respuesta de GET /api/admin/roles.
type RoleListResponse struct {
	Roles    []RoleResponse `json:"roles"`
	Fallback bool           `json:"fallback"` // catálogo predeterminado: el backend no respondió
}

// RoleStatisticsResponse respuesta de GET /api/admin/role-statistics.
type RoleStatisticsResponse struct {
	Counts      map[string]int `json:"counts"`
	Total       int            `json:"total"`
	Sampled     int            `json:"sampled,omitempty"`
	Unknown     int            `json:"unknown,omitempty"` // usuarios de la muestra con rol fuera del catálogo
	Approximate bool           `json:"approximate"`
	Source      string         `json:"source"`
}

// PermissionMatrixResponse respuesta de GET /api/admin/permissions/matrix.
type PermissionMatrixResponse struct {
	Roles       []string             `json:"roles"`
	Permissions []PermissionResponse `json:"permissions"`
	Cells       [][]bool             `json:"cells"` // cells[i][j]: roles[i] tiene permissions[j]
	Fallback    bool                 `json:"fallback"`
}

// NewUserResponse mapea la entidad.
func NewUserResponse(u entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      string(u.Role),
		RoleLabel: u.Role.DisplayName(),
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewUserListResponse mapea una página de usuarios.
func NewUserListResponse(p *entity.UserPage) UserListResponse {
	users := make([]UserResponse, 0, len(p.Users))
	for _, u := range p.Users {
		users = append(users, NewUserResponse(u))
	}
	pg := p.Pagination
	return UserListResponse{
		Users: users,
		Pagination: PaginationResponse{
			CurrentPage: pg.CurrentPage,
			PageSize:    pg.PageSize,
			TotalPages:  pg.TotalPages,
			TotalUsers:  pg.TotalUsers,
			HasNextPage: pg.HasNextPage,
			HasPrevPage: pg.HasPrevPage,
		},
	}
}

// NewPermissionResponses mapea permisos.
func NewPermissionResponses(perms []entity.RolePermission) []PermissionResponse {
	out := make([]PermissionResponse, 0, len(perms))
	for _, p := range perms {
		out = append(out, PermissionResponse{
			ID:            p.ID,
			Name:          p.Name,
			Description:   p.Description,
			Category:      p.Category,
			CategoryLabel: p.CategoryLabel(),
		})
	}
	return out
}

// NewRoleResponse mapea un rol.
func NewRoleResponse(r entity.Role) RoleResponse {
	return RoleResponse{
		Name:        string(r.Name),
		DisplayName: r.DisplayName,
		Description: r.Description,
		IsEditable:  r.IsEditable,
		Permissions: NewPermissionResponses(r.Permissions),
	}
}

// NewRoleListResponse mapea el catálogo.
func NewRoleListResponse(roles []entity.Role, fallback bool) RoleListResponse {
	out := RoleListResponse{Roles: make([]RoleResponse, 0, len(roles)), Fallback: fallback}
	for _, r := range roles {
		out.Roles = append(out.Roles, NewRoleResponse(r))
	}
	return out
}

// NewRoleStatisticsResponse mapea las estadísticas por rol.
func NewRoleStatisticsResponse(s entity.RoleStatistics) *RoleStatisticsResponse {
	counts := make(map[string]int, len(s.Counts))
	for role, n := range s.Counts {
		counts[string(role)] = n
	}
	return &RoleStatisticsResponse{
		Counts:      counts,
		Total:       s.Total,
		Sampled:     s.Sampled,
		Unknown:     s.Unknown,
		Approximate: s.Approximate,
		Source:      s.Source,
	}
}

// NewPermissionMatrixResponse mapea la matriz.
func NewPermissionMatrixResponse(m entity.PermissionMatrix, fallback bool) PermissionMatrixResponse {
	roles := make([]string, 0, len(m.Roles))
	for _, r := range m.Roles {
		roles = append(roles, string(r.Name))
	}
	return PermissionMatrixResponse{
		Roles:       roles,
		Permissions: NewPermissionResponses(m.Permissions),
		Cells:       m.Cells,
		Fallback:    fallback,
	}
}
