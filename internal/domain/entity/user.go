package entity

import "time"

// User usuario de la plataforma tal como lo devuelve el backend.
// El servidor es la fuente de verdad; el cliente solo cambia Role eligiendo de la lista de roles.
type User struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Role      RoleName
	IsActive  bool
	LastLogin *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AllowedPageSizes tamaños de página que ofrece la tabla de usuarios.
var AllowedPageSizes = []int{10, 20, 50, 100}

// DefaultPageSize tamaño inicial de la tabla.
const DefaultPageSize = 10

// IsAllowedPageSize indica si n es uno de AllowedPageSizes.
func IsAllowedPageSize(n int) bool {
	for _, s := range AllowedPageSizes {
		if s == n {
			return true
		}
	}
	return false
}

// Pagination estado de paginación reflejado del servidor tras cada consulta.
type Pagination struct {
	CurrentPage int
	PageSize    int
	TotalPages  int
	TotalUsers  int
	HasNextPage bool
	HasPrevPage bool
}

// UserPage una página del listado de usuarios.
type UserPage struct {
	Users      []User
	Pagination Pagination
}
