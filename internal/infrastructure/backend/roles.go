package backend

import (
	"context"
	"net/http"
	"strings"

	"github.com/mydeeptech/admin-dashboard/internal/domain/entity"
)

type apiRole struct {
	Name        string                  `json:"name"`
	DisplayName string                  `json:"displayName"`
	Description string                  `json:"description"`
	Permissions []entity.RolePermission `json:"permissions"`
	IsEditable  bool                    `json:"isEditable"`
}

type rolesResponse struct {
	Data []apiRole `json:"data"`
}

type statisticsResponse struct {
	Data map[string]int `json:"data"`
}

// ListRoles GET {roles}. Nombres normalizados a minúsculas.
func (c *Client) ListRoles(ctx context.Context) ([]entity.Role, error) {
	const op = "listRoles"
	req, err := c.request(ctx, op)
	if err != nil {
		return nil, err
	}
	var body rolesResponse
	if err := c.do(req, http.MethodGet, c.paths.RolesPath, op, &body); err != nil {
		return nil, err
	}

	roles := make([]entity.Role, 0, len(body.Data))
	for _, r := range body.Data {
		name := entity.RoleName(strings.ToLower(strings.TrimSpace(r.Name)))
		display := r.DisplayName
		if display == "" {
			display = name.DisplayName()
		}
		perms := r.Permissions
		if perms == nil {
			perms = []entity.RolePermission{}
		}
		roles = append(roles, entity.Role{
			Name:        name,
			DisplayName: display,
			Description: r.Description,
			Permissions: perms,
			IsEditable:  r.IsEditable,
		})
	}
	return roles, nil
}

// RoleStatistics GET {roleStatistics}. Claves desconocidas se ignoran.
func (c *Client) RoleStatistics(ctx context.Context) (map[entity.RoleName]int, error) {
	const op = "roleStatistics"
	req, err := c.request(ctx, op)
	if err != nil {
		return nil, err
	}
	var body statisticsResponse
	if err := c.do(req, http.MethodGet, c.paths.RoleStatisticsPath, op, &body); err != nil {
		return nil, err
	}

	counts := make(map[entity.RoleName]int, len(body.Data))
	for k, n := range body.Data {
		role, err := entity.ParseRoleName(k)
		if err != nil {
			continue
		}
		counts[role] += n
	}
	return counts, nil
}
