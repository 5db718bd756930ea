package console

import (
	"strings"

	"github.com/mydeeptech/admin-dashboard/internal/application/dashboard"
	"github.com/mydeeptech/admin-dashboard/internal/domain/entity"
)

func (c *Console) renderUsers(st dashboard.RoleManagementState) {
	if st.State == dashboard.StateError && len(st.Users) == 0 {
		c.printf("No se pudieron cargar los usuarios: %s\n", st.LastError)
		return
	}
	if len(st.Users) == 0 {
		if st.Search != "" {
			c.printf("Ningún usuario coincide con %q\n", st.Search)
		} else {
			c.printf("No hay usuarios\n")
		}
		return
	}
	rows := make([][]string, 0, len(st.Users))
	for _, u := range st.Users {
		active := "no"
		if u.IsActive {
			active = "sí"
		}
		lastLogin := "-"
		if u.LastLogin != nil {
			lastLogin = u.LastLogin.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{u.ID, u.Name, u.Email, u.Role.DisplayName(), active, lastLogin})
	}
	c.table([]string{"ID", "NOMBRE", "EMAIL", "ROL", "ACTIVO", "ÚLTIMO ACCESO"}, rows)

	pg := st.Pagination
	footer := c.p.Sprintf("Página %d de %d · %d usuarios · %d por página", pg.CurrentPage, pg.TotalPages, pg.TotalUsers, st.PageSize)
	if st.Search != "" {
		footer += c.p.Sprintf(" · búsqueda %q", st.Search)
	}
	if st.State == dashboard.StateError {
		footer += " · última consulta fallida: " + st.LastError
	}
	c.printf("%s\n", footer)
}

func (c *Console) renderStats(s *entity.RoleStatistics) {
	if s == nil {
		c.printf("Estadísticas no disponibles\n")
		return
	}
	rows := make([][]string, 0, len(s.Counts))
	for _, r := range entity.AllRoleNames() {
		n := s.Counts[r]
		pct := 0.0
		if s.Total > 0 {
			pct = float64(n) * 100 / float64(s.Total)
		}
		rows = append(rows, []string{r.DisplayName(), c.p.Sprintf("%d", n), c.p.Sprintf("%.1f%%", pct)})
	}
	c.table([]string{"ROL", "USUARIOS", "%"}, rows)
	c.printf("%s\n", c.p.Sprintf("Total: %d", s.Total))
	if s.Approximate {
		c.printf("%s\n", c.p.Sprintf("Aproximado: muestra de %d usuarios", s.Sampled))
	}
	if s.Unknown > 0 {
		c.printf("%s\n", c.p.Sprintf("Rol desconocido: %d usuarios", s.Unknown))
	}
}

func (c *Console) renderRoles(roles []entity.Role, fallback bool) {
	rows := make([][]string, 0, len(roles))
	for _, r := range roles {
		editable := "no"
		if r.IsEditable {
			editable = "sí"
		}
		rows = append(rows, []string{string(r.Name), r.DisplayName, c.p.Sprintf("%d", len(r.Permissions)), editable})
	}
	c.table([]string{"ROL", "NOMBRE", "PERMISOS", "EDITABLE"}, rows)
	if fallback {
		c.printf("(catálogo predeterminado: el servidor no respondió)\n")
	}
}

func (c *Console) renderMatrix(m entity.PermissionMatrix) {
	header := []string{"PERMISO"}
	for _, r := range m.Roles {
		header = append(header, strings.ToUpper(r.Name.DisplayName()))
	}
	var rows [][]string
	order, groups := m.ByCategory()
	for _, category := range order {
		rows = append(rows, []string{"[" + category + "]"})
		for _, p := range groups[category] {
			row := []string{"  " + p.Name}
			for _, r := range m.Roles {
				mark := "✗"
				if m.Granted(r.Name, p.ID) {
					mark = "✓"
				}
				row = append(row, mark)
			}
			rows = append(rows, row)
		}
	}
	c.table(header, rows)
	c.printf("%s\n", c.p.Sprintf("%d permisos · %d roles", len(m.Permissions), len(m.Roles)))
}

func (c *Console) renderRole(r entity.Role) {
	c.printf("%s (%s)\n", r.DisplayName, r.Name)
	if r.Description != "" {
		c.printf("%s\n", r.Description)
	}
	if len(r.Permissions) == 0 {
		c.printf("Sin permisos asignados\n")
		return
	}
	rows := make([][]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		rows = append(rows, []string{p.CategoryLabel(), p.ID, p.Name})
	}
	c.table([]string{"CATEGORÍA", "ID", "PERMISO"}, rows)
}
