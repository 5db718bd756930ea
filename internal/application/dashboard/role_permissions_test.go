package dashboard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mydeeptech/admin-dashboard/internal/application/dashboard"
	"github.com/mydeeptech/admin-dashboard/internal/application/rbac"
	"github.com/mydeeptech/admin-dashboard/internal/domain"
	"github.com/mydeeptech/admin-dashboard/internal/domain/entity"
)

type staticCatalog rbac.RoleList

func (c staticCatalog) ListRoles(context.Context) rbac.RoleList { return rbac.RoleList(c) }

func sharedPermissionRoles() []entity.Role {
	view := entity.RolePermission{ID: "users.view", Name: "View users", Category: "user_management"}
	return []entity.Role{
		{Name: entity.RoleAdmin, Permissions: []entity.RolePermission{
			view,
			{ID: "users.manage", Name: "Manage users", Category: "user_management"},
		}},
		{Name: entity.RoleModerator, Permissions: []entity.RolePermission{
			{ID: "users.view", Name: "View users (dup)", Category: "other"},
			{ID: "content.moderate", Name: "Moderate", Category: "moderation"},
		}},
	}
}

func TestRolePermissions_UnionYMatriz(t *testing.T) {
	rec := &recorder{}
	v := dashboard.NewRolePermissionsView(staticCatalog{Roles: sharedPermissionRoles()}, rec, nil)
	assert.Equal(t, dashboard.StateIdle, v.State())

	v.Load(context.Background())
	assert.Equal(t, dashboard.StateLoaded, v.State())

	perms := v.Permissions()
	require.Len(t, perms, 3, "users.view aparece una sola vez")
	assert.Equal(t, "users.view", perms[0].ID)
	assert.Equal(t, "View users", perms[0].Name, "gana la primera aparición")

	m := v.Matrix()
	assert.True(t, m.Granted(entity.RoleModerator, "users.view"))
	assert.False(t, m.Granted(entity.RoleModerator, "users.manage"))
	assert.True(t, m.Granted(entity.RoleAdmin, "users.manage"))
	assert.Equal(t, [][]bool{{true, true, false}, {true, false, true}}, m.Cells)

	assert.False(t, v.Fallback())
	assert.Empty(t, rec.byKind(dashboard.NotifyInfo))
}

func TestRolePermissions_DrillDown(t *testing.T) {
	v := dashboard.NewRolePermissionsView(staticCatalog{Roles: sharedPermissionRoles()}, nil, nil)
	v.Load(context.Background())

	role, err := v.DrillDown("MODERATOR")
	require.NoError(t, err)
	assert.Equal(t, "View users (dup)", role.Permissions[0].Name, "los permisos del rol se muestran tal cual")
	require.NotNil(t, v.Selected())
	assert.Equal(t, entity.RoleModerator, v.Selected().Name)

	v.CloseDrillDown()
	assert.Nil(t, v.Selected())

	_, err = v.DrillDown("annotator")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = v.DrillDown("root")
	assert.True(t, errors.Is(err, domain.ErrInvalidRole))
}

func TestRolePermissions_Respaldo(t *testing.T) {
	rec := &recorder{}
	v := dashboard.NewRolePermissionsView(staticCatalog{Roles: entity.FallbackRoles(), Fallback: true}, rec, nil)
	v.Load(context.Background())

	assert.True(t, v.Fallback())
	assert.Len(t, v.Roles(), 5)
	assert.Len(t, rec.byKind(dashboard.NotifyInfo), 1)
}
