package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mydeeptech/admin-dashboard/internal/domain"
	"github.com/mydeeptech/admin-dashboard/internal/domain/entity"
	"github.com/mydeeptech/admin-dashboard/internal/infrastructure/backend"
	"github.com/mydeeptech/admin-dashboard/internal/infrastructure/token"
	"github.com/mydeeptech/admin-dashboard/pkg/config"
	"github.com/mydeeptech/admin-dashboard/pkg/logger"
)

func newTestClient(t *testing.T, h http.HandlerFunc, tok string) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := config.BackendConfig{
		BaseURL:            srv.URL + "/api",
		Timeout:            2 * time.Second,
		UsersPath:          "/users",
		UserPath:           "/users/:userId",
		RolesPath:          "/admin/roles",
		RoleStatisticsPath: "/admin/role-statistics",
		UserRolePath:       "/admin/users/:userId/role",
		StatsSampleSize:    100,
	}
	src := token.SourceFunc(func(context.Context) (string, error) { return tok, nil })
	return backend.NewClient(cfg, src, logger.Nop())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListUsers_QueryTokenYNormalizacion(t *testing.T) {
	var gotQuery, gotAuth, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, map[string]any{
			"data": []map[string]any{
				{"_id": "u1", "fullName": "Ada Lovelace", "email": "ada@x.io", "role": "ADMIN", "isActive": true},
				{"_id": "u2", "name": "Grace", "email": "g@x.io", "role": "QA_REVIEWER"},
			},
			"pagination": map[string]any{
				"currentPage": 2, "totalPages": 3, "totalUsers": 25, "limit": 10,
				"hasNextPage": true, "hasPrevPage": true,
			},
		})
	}, "tok-123")

	page, err := c.ListUsers(context.Background(), 2, 10, "  ada lovelace ")
	require.NoError(t, err)

	assert.Equal(t, "/api/users", gotPath)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Contains(t, gotQuery, "page=2")
	assert.Contains(t, gotQuery, "limit=10")
	assert.Contains(t, gotQuery, "search=ada+lovelace")

	require.Len(t, page.Users, 2)
	assert.Equal(t, "Ada Lovelace", page.Users[0].Name)
	assert.Equal(t, entity.RoleAdmin, page.Users[0].Role)
	assert.Equal(t, entity.RoleQAReviewer, page.Users[1].Role)
	assert.True(t, page.Users[1].IsActive, "isActive ausente se asume activo")
	assert.Equal(t, entity.Pagination{
		CurrentPage: 2, PageSize: 10, TotalPages: 3, TotalUsers: 25, HasNextPage: true, HasPrevPage: true,
	}, page.Pagination)
}

func TestListUsers_SinBusquedaNiToken(t *testing.T) {
	var r0 *http.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		r0 = r
		writeJSON(w, http.StatusOK, map[string]any{"data": []any{}, "pagination": map[string]any{}})
	}, "")

	page, err := c.ListUsers(context.Background(), 1, 20, "   ")
	require.NoError(t, err)

	assert.Empty(t, r0.Header.Get("Authorization"))
	assert.False(t, r0.URL.Query().Has("search"))
	assert.Empty(t, page.Users)
	assert.Equal(t, 1, page.Pagination.CurrentPage)
	assert.Equal(t, 20, page.Pagination.PageSize)
}

func TestListUsers_ErrorHTTPConMensaje(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]any{"message": "Admin access required"})
	}, "tok")

	_, err := c.ListUsers(context.Background(), 1, 10, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrHTTPStatus))

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "Admin access required", domain.ErrorMessage(err))
}

func TestListUsers_ErrorHTTPSinCuerpo(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, "tok")

	_, err := c.ListUsers(context.Background(), 1, 10, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrHTTPStatus))
	assert.Equal(t, "fetch failed", domain.ErrorMessage(err))
}

func TestListUsers_RespuestaIlegibleEsTransporte(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, "{not json")
	}, "tok")

	_, err := c.ListUsers(context.Background(), 1, 10, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransport))
}

func TestListUsers_ServidorCaidoEsTransporte(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := backend.NewClient(config.BackendConfig{BaseURL: url, Timeout: time.Second, UsersPath: "/users"}, nil, nil)
	_, err := c.ListUsers(context.Background(), 1, 10, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransport))
}

func TestGetUser_NotFound(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "User not found"})
	}, "tok")

	_, err := c.GetUser(context.Background(), "abc")
	require.Error(t, err)
	assert.Equal(t, "/api/users/abc", gotPath)
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
	assert.True(t, errors.Is(err, domain.ErrHTTPStatus))
}

func TestUpdateUserRole_EnviaMayusculasYAceptaCodigo200(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		writeJSON(w, http.StatusOK, map[string]any{
			"responseCode":    "200",
			"responseMessage": "Role updated",
			"data":            map[string]any{"user": map[string]any{"_id": "u9", "name": "Linus", "role": "MODERATOR"}},
		})
	}, "tok")

	u, err := c.UpdateUserRole(context.Background(), "u9", entity.RoleModerator, "  promoted ")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/admin/users/u9/role", gotPath)
	assert.Equal(t, "MODERATOR", gotBody["role"])
	assert.Equal(t, "promoted", gotBody["reason"])
	assert.Equal(t, entity.RoleModerator, u.Role)
	assert.Equal(t, "Linus", u.Name)
}

func TestUpdateUserRole_SinMotivoNoEnviaReason(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		writeJSON(w, http.StatusOK, map[string]any{"responseCode": 200})
	}, "tok")

	u, err := c.UpdateUserRole(context.Background(), "u1", entity.RoleUser, "")
	require.NoError(t, err, "responseCode numérico 200 también es éxito")
	_, hasReason := gotBody["reason"]
	assert.False(t, hasReason)
	assert.Equal(t, entity.RoleUser, u.Role)
}

func TestUpdateUserRole_2xxSinCodigoEsRechazo(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"responseCode": "400", "responseMessage": "Cannot demote last admin"})
	}, "tok")

	_, err := c.UpdateUserRole(context.Background(), "u1", entity.RoleUser, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRejected))
	assert.Equal(t, "Cannot demote last admin", domain.ErrorMessage(err))

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}, "tok")
	_, err = c.UpdateUserRole(context.Background(), "u1", entity.RoleUser, "")
	assert.True(t, errors.Is(err, domain.ErrRejected))
}

func TestListRoles_NormalizaNombres(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/admin/roles", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"data": []map[string]any{
				{"name": "ADMIN", "displayName": "Administrator", "permissions": []map[string]any{
					{"id": "users.manage", "name": "Manage users", "category": "user_management"},
				}},
				{"name": "annotator"},
			},
		})
	}, "tok")

	roles, err := c.ListRoles(context.Background())
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, entity.RoleAdmin, roles[0].Name)
	assert.True(t, roles[0].HasPermission("users.manage"))
	assert.Equal(t, "Annotator", roles[1].DisplayName)
	assert.NotNil(t, roles[1].Permissions)
}

func TestRoleStatistics_IgnoraClavesDesconocidas(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]int{"ADMIN": 2, "user": 40, "qa_reviewer": 3, "total": 45, "guest": 7},
		})
	}, "tok")

	counts, err := c.RoleStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[entity.RoleName]int{
		entity.RoleAdmin: 2, entity.RoleUser: 40, entity.RoleQAReviewer: 3,
	}, counts)
}
