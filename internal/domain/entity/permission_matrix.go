package entity

// PermissionMatrix tabla de verdad rol × permiso. Las celdas se calculan por pertenencia,
// no se almacenan en los roles.
type PermissionMatrix struct {
	Roles       []Role
	Permissions []RolePermission
	Cells       [][]bool // Cells[i][j]: Roles[i] tiene Permissions[j]
}

// BuildPermissionMatrix arma la matriz a partir de la unión deduplicada de permisos.
func BuildPermissionMatrix(roles []Role) PermissionMatrix {
	perms := UnionPermissions(roles)
	cells := make([][]bool, len(roles))
	for i, role := range roles {
		row := make([]bool, len(perms))
		for j, p := range perms {
			row[j] = role.HasPermission(p.ID)
		}
		cells[i] = row
	}
	return PermissionMatrix{Roles: roles, Permissions: perms, Cells: cells}
}

// Granted consulta una celda por nombre de rol e ID de permiso.
func (m PermissionMatrix) Granted(role RoleName, permissionID string) bool {
	for i, r := range m.Roles {
		if r.Name != role {
			continue
		}
		for j, p := range m.Permissions {
			if p.ID == permissionID {
				return m.Cells[i][j]
			}
		}
	}
	return false
}

// ByCategory agrupa los permisos de la matriz por etiqueta de categoría, en orden de aparición.
func (m PermissionMatrix) ByCategory() ([]string, map[string][]RolePermission) {
	order := make([]string, 0)
	groups := make(map[string][]RolePermission)
	for _, p := range m.Permissions {
		label := p.CategoryLabel()
		if _, ok := groups[label]; !ok {
			order = append(order, label)
		}
		groups[label] = append(groups[label], p)
	}
	return order, groups
}
