package repository

import (
	"context"

	"github.com/mydeeptech/admin-dashboard/internal/domain/entity"
)

// RoleBackend define el puerto hacia la API REST de usuarios y roles (DIP).
// El adaptador normaliza los roles a minúsculas al leer y los envía en mayúsculas al escribir.
type RoleBackend interface {
	// ListUsers lista una página de usuarios; search vacío = sin filtro.
	ListUsers(ctx context.Context, page, limit int, search string) (*entity.UserPage, error)
	GetUser(ctx context.Context, userID string) (*entity.User, error)
	ListRoles(ctx context.Context) ([]entity.Role, error)
	// RoleStatistics endpoint dedicado de conteo por rol.
	RoleStatistics(ctx context.Context) (map[entity.RoleName]int, error)
	// UpdateUserRole cambia el rol; reason es opcional y queda en la auditoría del servidor.
	UpdateUserRole(ctx context.Context, userID string, role entity.RoleName, reason string) (*entity.User, error)
}
