package backend

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mydeeptech/admin-dashboard/internal/domain"
	"github.com/mydeeptech/admin-dashboard/internal/domain/entity"
)

// apiUser forma JSON del usuario en el backend.
type apiUser struct {
	ID        string     `json:"_id"`
	AltID     string     `json:"id"`
	Name      string     `json:"name"`
	FullName  string     `json:"fullName"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Role      string     `json:"role"`
	IsActive  *bool      `json:"isActive"`
	LastLogin *time.Time `json:"lastLogin"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (u apiUser) toEntity() entity.User {
	id := u.ID
	if id == "" {
		id = u.AltID
	}
	name := u.Name
	if name == "" {
		name = u.FullName
	}
	active := true
	if u.IsActive != nil {
		active = *u.IsActive
	}
	return entity.User{
		ID:        id,
		Name:      name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      entity.RoleName(strings.ToLower(strings.TrimSpace(u.Role))),
		IsActive:  active,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type apiPagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalUsers  int  `json:"totalUsers"`
	Limit       int  `json:"limit"`
	PageSize    int  `json:"pageSize"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

type usersResponse struct {
	Data       []apiUser     `json:"data"`
	Pagination apiPagination `json:"pagination"`
}

type userResponse struct {
	Data apiUser `json:"data"`
}

type updateRoleRequest struct {
	Role   string `json:"role"`
	Reason string `json:"reason,omitempty"`
}

type updateRoleResponse struct {
	ResponseCode    flexCode `json:"responseCode"`
	ResponseMessage string   `json:"responseMessage"`
	Data            struct {
		User *apiUser `json:"user"`
	} `json:"data"`
}

// responseCodeOK único responseCode que el backend usa para indicar éxito.
const responseCodeOK = "200"

// ListUsers GET {users}?page&limit[&search].
func (c *Client) ListUsers(ctx context.Context, page, limit int, search string) (*entity.UserPage, error) {
	const op = "listUsers"
	req, err := c.request(ctx, op)
	if err != nil {
		return nil, err
	}
	req.SetQueryParam("page", strconv.Itoa(page)).
		SetQueryParam("limit", strconv.Itoa(limit))
	if s := strings.TrimSpace(search); s != "" {
		req.SetQueryParam("search", s)
	}

	var body usersResponse
	if err := c.do(req, http.MethodGet, c.paths.UsersPath, op, &body); err != nil {
		return nil, err
	}

	users := make([]entity.User, 0, len(body.Data))
	for _, u := range body.Data {
		user := u.toEntity()
		if !user.Role.Valid() {
			c.log.Warn().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("rol desconocido en la respuesta")
		}
		users = append(users, user)
	}

	p := body.Pagination
	size := p.Limit
	if size == 0 {
		size = p.PageSize
	}
	if size == 0 {
		size = limit
	}
	if p.CurrentPage == 0 {
		p.CurrentPage = page
	}
	return &entity.UserPage{
		Users: users,
		Pagination: entity.Pagination{
			CurrentPage: p.CurrentPage,
			PageSize:    size,
			TotalPages:  p.TotalPages,
			TotalUsers:  p.TotalUsers,
			HasNextPage: p.HasNextPage,
			HasPrevPage: p.HasPrevPage,
		},
	}, nil
}

// GetUser GET {user}. Un 404 se traduce a ErrUserNotFound conservando el detalle.
func (c *Client) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	const op = "getUser"
	req, err := c.request(ctx, op)
	if err != nil {
		return nil, err
	}
	var body userResponse
	if err := c.do(req, http.MethodGet, userPath(c.paths.UserPath, userID), op, &body); err != nil {
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			apiErr.Err = domain.ErrUserNotFound
		}
		return nil, err
	}
	u := body.Data.toEntity()
	return &u, nil
}

// UpdateUserRole PUT {userRole} con {role: MAYÚSCULAS, reason?}.
// Solo responseCode == "200" en el cuerpo cuenta como éxito; el status HTTP no basta.
func (c *Client) UpdateUserRole(ctx context.Context, userID string, role entity.RoleName, reason string) (*entity.User, error) {
	const op = "updateRole"
	req, err := c.request(ctx, op)
	if err != nil {
		return nil, err
	}
	req.SetHeader("Content-Type", "application/json").
		SetBody(updateRoleRequest{Role: role.Wire(), Reason: strings.TrimSpace(reason)})

	var body updateRoleResponse
	if err := c.do(req, http.MethodPut, userPath(c.paths.UserRolePath, userID), op, &body); err != nil {
		return nil, err
	}
	if string(body.ResponseCode) != responseCodeOK {
		c.log.Warn().
			Str("user_id", userID).
			Str("response_code", string(body.ResponseCode)).
			Str("message", body.ResponseMessage).
			Msg("cambio de rol rechazado")
		return nil, &domain.APIError{
			Kind:      domain.ErrRejected,
			Operation: op,
			Status:    http.StatusOK,
			Code:      string(body.ResponseCode),
			Message:   strings.TrimSpace(body.ResponseMessage),
		}
	}

	c.log.Info().Str("user_id", userID).Str("role", string(role)).Msg("rol actualizado")
	if body.Data.User == nil {
		return &entity.User{ID: userID, Role: role}, nil
	}
	u := body.Data.User.toEntity()
	return &u, nil
}
