package entity

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mydeeptech/admin-dashboard/internal/domain"
)

// RoleName es el conjunto cerrado de roles de la plataforma.
// Internamente siempre en minúsculas; el backend los espera en mayúsculas.
type RoleName string

// Roles válidos para User.
const (
	RoleAdmin      RoleName = "admin"
	RoleUser       RoleName = "user"
	RoleAnnotator  RoleName = "annotator"
	RoleModerator  RoleName = "moderator"
	RoleQAReviewer RoleName = "qa_reviewer"
)

// AllRoleNames devuelve los cinco roles en orden estable.
func AllRoleNames() []RoleName {
	return []RoleName{RoleAdmin, RoleUser, RoleAnnotator, RoleModerator, RoleQAReviewer}
}

// ParseRoleName acepta cualquier capitalización y espacios alrededor.
func ParseRoleName(s string) (RoleName, error) {
	r := RoleName(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidRole, s)
	}
	return r, nil
}

// Valid indica si r pertenece a la enumeración.
func (r RoleName) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleAnnotator, RoleModerator, RoleQAReviewer:
		return true
	}
	return false
}

func (r RoleName) String() string { return string(r) }

// Wire devuelve la forma que espera el backend (mayúsculas).
func (r RoleName) Wire() string { return strings.ToUpper(string(r)) }

// DisplayName nombre legible del rol. Un rol nuevo obliga a tocar este switch.
func (r RoleName) DisplayName() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleUser:
		return "User"
	case RoleAnnotator:
		return "Annotator"
	case RoleModerator:
		return "Moderator"
	case RoleQAReviewer:
		return "QA Reviewer"
	}
	return string(r)
}

// RolePermission capacidad atómica; Category solo se usa para agrupar en pantalla.
type RolePermission struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// CategoryLabel formatea la categoría libre ("user_management" -> "User Management").
func (p RolePermission) CategoryLabel() string {
	c := strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(p.Category))
	if c == "" {
		return "General"
	}
	return cases.Title(language.English).String(c)
}

// Role paquete de permisos asignable a un usuario. Name lo identifica de forma única.
type Role struct {
	Name        RoleName         `json:"name"`
	DisplayName string           `json:"displayName"`
	Description string           `json:"description"`
	Permissions []RolePermission `json:"permissions"`
	IsEditable  bool             `json:"isEditable"`
}

// HasPermission prueba de pertenencia por ID.
func (r Role) HasPermission(permissionID string) bool {
	for _, p := range r.Permissions {
		if p.ID == permissionID {
			return true
		}
	}
	return false
}

// UnionPermissions une los permisos de todos los roles sin duplicar IDs.
// Gana la primera aparición y se conserva el orden en que aparecen.
func UnionPermissions(roles []Role) []RolePermission {
	seen := make(map[string]struct{})
	out := make([]RolePermission, 0)
	for _, role := range roles {
		for _, p := range role.Permissions {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// FallbackRoles conjunto fijo de roles cuando el backend no responde el catálogo.
func FallbackRoles() []Role {
	return []Role{
		{
			Name:        RoleAdmin,
			DisplayName: RoleAdmin.DisplayName(),
			Description: "Full access to the platform, users and settings",
			Permissions: []RolePermission{
				{ID: "users.manage", Name: "Manage users", Description: "Create, edit and deactivate users", Category: "user_management"},
				{ID: "roles.manage", Name: "Manage roles", Description: "Assign roles to users", Category: "user_management"},
				{ID: "projects.manage", Name: "Manage projects", Description: "Create and configure annotation projects", Category: "projects"},
				{ID: "invoices.manage", Name: "Manage invoices", Description: "Create, edit and settle invoices", Category: "finance"},
				{ID: "analytics.view", Name: "View analytics", Description: "Access admin overview analytics", Category: "analytics"},
			},
			IsEditable: false,
		},
		{
			Name:        RoleUser,
			DisplayName: RoleUser.DisplayName(),
			Description: "Basic platform access",
			Permissions: []RolePermission{
				{ID: "profile.edit", Name: "Edit profile", Description: "Update own profile and settings", Category: "account"},
			},
			IsEditable: true,
		},
		{
			Name:        RoleAnnotator,
			DisplayName: RoleAnnotator.DisplayName(),
			Description: "Works on annotation tasks",
			Permissions: []RolePermission{
				{ID: "profile.edit", Name: "Edit profile", Description: "Update own profile and settings", Category: "account"},
				{ID: "tasks.work", Name: "Work on tasks", Description: "Claim and submit annotation tasks", Category: "tasks"},
				{ID: "invoices.view", Name: "View invoices", Description: "See own invoices and payments", Category: "finance"},
			},
			IsEditable: true,
		},
		{
			Name:        RoleModerator,
			DisplayName: RoleModerator.DisplayName(),
			Description: "Moderates community and project content",
			Permissions: []RolePermission{
				{ID: "profile.edit", Name: "Edit profile", Description: "Update own profile and settings", Category: "account"},
				{ID: "content.moderate", Name: "Moderate content", Description: "Review and remove reported content", Category: "moderation"},
				{ID: "users.view", Name: "View users", Description: "Browse the user directory", Category: "user_management"},
			},
			IsEditable: true,
		},
		{
			Name:        RoleQAReviewer,
			DisplayName: RoleQAReviewer.DisplayName(),
			Description: "Reviews submitted annotations for quality",
			Permissions: []RolePermission{
				{ID: "profile.edit", Name: "Edit profile", Description: "Update own profile and settings", Category: "account"},
				{ID: "tasks.review", Name: "Review tasks", Description: "Approve or reject submitted annotations", Category: "tasks"},
				{ID: "analytics.view", Name: "View analytics", Description: "Access admin overview analytics", Category: "analytics"},
			},
			IsEditable: true,
		},
	}
}
