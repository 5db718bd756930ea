package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/mydeeptech/admin-dashboard/internal/application/rbac"
	"github.com/mydeeptech/admin-dashboard/internal/domain"
	"github.com/mydeeptech/admin-dashboard/internal/domain/entity"
	"github.com/mydeeptech/admin-dashboard/pkg/logger"
)

// RoleCatalog fuente del catálogo de roles (con respaldo ya aplicado).
type RoleCatalog interface {
	ListRoles(ctx context.Context) rbac.RoleList
}

// RolePermissionsView vista de solo lectura: unión de permisos, matriz rol × permiso
// y detalle de un rol.
type RolePermissionsView struct {
	catalog RoleCatalog
	notify  Notifier
	log     *logger.Logger

	mu       sync.RWMutex
	state    LoadState
	matrix   entity.PermissionMatrix
	fallback bool
	selected *entity.Role
}

// NewRolePermissionsView construye la vista en estado idle.
func NewRolePermissionsView(catalog RoleCatalog, notifier Notifier, log *logger.Logger) *RolePermissionsView {
	return &RolePermissionsView{
		catalog: catalog,
		notify:  orNop(notifier),
		log:     logger.OrNop(log).Named("role_permissions"),
		state:   StateIdle,
		matrix:  entity.BuildPermissionMatrix(nil),
	}
}

// Load pide el catálogo y recalcula la unión de permisos y la matriz.
func (v *RolePermissionsView) Load(ctx context.Context) {
	v.mu.Lock()
	v.state = StateLoading
	v.mu.Unlock()

	list := v.catalog.ListRoles(ctx)
	matrix := entity.BuildPermissionMatrix(list.Roles)

	v.mu.Lock()
	v.matrix = matrix
	v.fallback = list.Fallback
	v.state = StateLoaded
	v.selected = nil
	v.mu.Unlock()

	v.log.Debug().Int("roles", len(matrix.Roles)).Int("permissions", len(matrix.Permissions)).Bool("fallback", list.Fallback).Msg("matriz de permisos calculada")
	if list.Fallback {
		v.notify.Notify(Notification{Kind: NotifyInfo, Title: "Permisos", Message: "Mostrando el catálogo de roles predeterminado"})
	}
}

// State estado de carga.
func (v *RolePermissionsView) State() LoadState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// Fallback indica si el catálogo mostrado es el predeterminado.
func (v *RolePermissionsView) Fallback() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.fallback
}

// Matrix tabla rol × permiso.
func (v *RolePermissionsView) Matrix() entity.PermissionMatrix {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.matrix
}

// Permissions unión deduplicada de permisos.
func (v *RolePermissionsView) Permissions() []entity.RolePermission {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]entity.RolePermission(nil), v.matrix.Permissions...)
}

// Roles catálogo cargado.
func (v *RolePermissionsView) Roles() []entity.Role {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]entity.Role(nil), v.matrix.Roles...)
}

// DrillDown selecciona un rol y devuelve sus permisos tal cual vienen en el catálogo.
func (v *RolePermissionsView) DrillDown(name string) (*entity.Role, error) {
	roleName, err := entity.ParseRoleName(name)
	if err != nil {
		return nil, domain.Invalid("role", err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, r := range v.matrix.Roles {
		if r.Name == roleName {
			role := r
			v.selected = &role
			return &role, nil
		}
	}
	return nil, fmt.Errorf("dashboard: rol %s: %w", roleName, domain.ErrNotFound)
}

// Selected rol abierto en el detalle, o nil.
func (v *RolePermissionsView) Selected() *entity.Role {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.selected
}

// CloseDrillDown cierra el detalle.
func (v *RolePermissionsView) CloseDrillDown() {
	v.mu.Lock()
	v.selected = nil
	v.mu.Unlock()
}
