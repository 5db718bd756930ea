// Package rbac contiene los casos de uso de gestión de roles: listado de usuarios,
// cambio de rol, catálogo de roles y estadísticas por rol.
package rbac

import (
	"context"
	"fmt"
	"strings"

	"github.com/mydeeptech/admin-dashboard/internal/domain"
	"github.com/mydeeptech/admin-dashboard/internal/domain/entity"
	"github.com/mydeeptech/admin-dashboard/internal/domain/repository"
	"github.com/mydeeptech/admin-dashboard/pkg/logger"
	"github.com/mydeeptech/admin-dashboard/pkg/result"
)

// DefaultStatsSampleSize tamaño de la muestra si no se configura otro.
const DefaultStatsSampleSize = 100

// UserQuery parámetros del listado de usuarios.
type UserQuery struct {
	Page   int
	Limit  int
	Search string
}

// UpdateRoleInput intención de cambio de rol. Role llega tal cual lo eligió el usuario.
type UpdateRoleInput struct {
	UserID string
	Role   string
	Reason string
}

// RoleList catálogo de roles; Fallback indica que el backend falló y se usó la lista fija.
type RoleList struct {
	Roles    []entity.Role
	Fallback bool
}

// Service traduce intenciones del dashboard a llamadas al backend.
type Service struct {
	backend    repository.RoleBackend
	sampleSize int
	log        *logger.Logger
}

// NewService construye el servicio. sampleSize se usa en el conteo aproximado por rol.
func NewService(backend repository.RoleBackend, sampleSize int, log *logger.Logger) *Service {
	if sampleSize <= 0 {
		sampleSize = DefaultStatsSampleSize
	}
	return &Service{backend: backend, sampleSize: sampleSize, log: logger.OrNop(log).Named("rbac")}
}

// Validate comprueba página y tamaño antes de tocar la red.
func (q UserQuery) Validate() error {
	if q.Page < 1 {
		return domain.Invalid("page", domain.ErrInvalidPage)
	}
	if !entity.IsAllowedPageSize(q.Limit) {
		return domain.Invalid("limit", domain.ErrInvalidPageSize)
	}
	return nil
}

// ListUsers devuelve una página de usuarios.
func (s *Service) ListUsers(ctx context.Context, q UserQuery) (*entity.UserPage, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return s.backend.ListUsers(ctx, q.Page, q.Limit, strings.TrimSpace(q.Search))
}

// GetUser obtiene un usuario por ID.
func (s *Service) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.Invalid("userId", domain.ErrInvalidInput)
	}
	return s.backend.GetUser(ctx, userID)
}

// UpdateRole valida la selección y envía el cambio de rol.
func (s *Service) UpdateRole(ctx context.Context, in UpdateRoleInput) (*entity.User, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, domain.Invalid("userId", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Role) == "" {
		return nil, domain.Invalid("role", domain.ErrRoleRequired)
	}
	role, err := entity.ParseRoleName(in.Role)
	if err != nil {
		return nil, domain.Invalid("role", err)
	}

	user, err := s.backend.UpdateUserRole(ctx, userID, role, strings.TrimSpace(in.Reason))
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", userID).Str("role", string(role)).Msg("cambio de rol aplicado")
	return user, nil
}

// ListRoles devuelve el catálogo del backend o, si falla, la lista fija de roles.
// Nunca devuelve error: el fallo queda registrado y marcado en Fallback.
func (s *Service) ListRoles(ctx context.Context) RoleList {
	fallback := false
	roles := result.Of(s.backend.ListRoles(ctx)).
		Recover(func(err error) result.Result[[]entity.Role] {
			fallback = true
			s.log.Warn().Err(err).Msg("catálogo de roles no disponible: se usa la lista fija")
			return result.Ok(entity.FallbackRoles())
		}).Value
	return RoleList{Roles: roles, Fallback: fallback}
}

// RoleStatistics conteo por rol desde el endpoint dedicado; si falla, agrega
// en cliente una muestra de usuarios (Approximate si la muestra no cubre el total).
func (s *Service) RoleStatistics(ctx context.Context) (entity.RoleStatistics, error) {
	primary := result.Of(s.backend.RoleStatistics(ctx))
	if primary.IsOk() {
		stats := entity.NewRoleStatistics(entity.StatsSourceServer)
		for role, n := range primary.Value {
			stats.Counts[role] = n
		}
		stats.Total = stats.Sum()
		return stats, nil
	}

	s.log.Warn().Err(primary.Err).Int("sample", s.sampleSize).Msg("estadísticas no disponibles: se agrega una muestra")
	page, err := s.backend.ListUsers(ctx, 1, s.sampleSize, "")
	if err != nil {
		return entity.RoleStatistics{}, fmt.Errorf("rbac: estadísticas por muestra: %w", err)
	}
	total := page.Pagination.TotalUsers
	if total < len(page.Users) {
		total = len(page.Users)
	}
	return entity.AggregateRoleCounts(page.Users, total), nil
}

// PermissionMatrix matriz rol × permiso sobre el catálogo (con respaldo).
func (s *Service) PermissionMatrix(ctx context.Context) (entity.PermissionMatrix, bool) {
	list := s.ListRoles(ctx)
	return entity.BuildPermissionMatrix(list.Roles), list.Fallback
}

// RolePermissions permisos de un rol del catálogo, tal cual.
func (s *Service) RolePermissions(ctx context.Context, name string) (*entity.Role, error) {
	roleName, err := entity.ParseRoleName(name)
	if err != nil {
		return nil, domain.Invalid("role", err)
	}
	for _, r := range s.ListRoles(ctx).Roles {
		if r.Name == roleName {
			role := r
			return &role, nil
		}
	}
	return nil, fmt.Errorf("rbac: rol %s: %w", roleName, domain.ErrNotFound)
}
