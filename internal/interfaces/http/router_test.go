package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mydeeptech/admin-dashboard/internal/application/analytics"
	"github.com/mydeeptech/admin-dashboard/internal/application/billing"
	"github.com/mydeeptech/admin-dashboard/internal/application/dto"
	"github.com/mydeeptech/admin-dashboard/internal/application/rbac"
	"github.com/mydeeptech/admin-dashboard/internal/infrastructure/backend"
	"github.com/mydeeptech/admin-dashboard/internal/infrastructure/export"
	"github.com/mydeeptech/admin-dashboard/internal/infrastructure/memory"
	"github.com/mydeeptech/admin-dashboard/internal/infrastructure/token"
	apphttp "github.com/mydeeptech/admin-dashboard/internal/interfaces/http"
	"github.com/mydeeptech/admin-dashboard/pkg/config"
	"github.com/mydeeptech/admin-dashboard/pkg/logger"
)

// stubBackend simula la API REST de MyDeepTech y registra el último Authorization recibido.
type stubBackend struct {
	mu       sync.Mutex
	lastAuth string
	rolesOK  bool
}

func (s *stubBackend) auth() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAuth
}

func (s *stubBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.lastAuth = r.Header.Get("Authorization")
	rolesOK := s.rolesOK
	s.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/users":
		writeJSON(w, http.StatusOK, map[string]any{
			"data": []map[string]any{
				{"_id": "u1", "name": "Ada", "email": "ada@x.io", "role": "ADMIN"},
				{"_id": "u2", "name": "Bola", "email": "bola@x.io", "role": "ANNOTATOR"},
			},
			"pagination": map[string]any{"currentPage": 1, "totalPages": 1, "totalUsers": 2, "limit": 10},
		})
	case r.Method == http.MethodGet && r.URL.Path == "/api/users/u1":
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"_id": "u1", "name": "Ada", "role": "ADMIN"}})
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/users/"):
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "User not found"})
	case r.Method == http.MethodPut && r.URL.Path == "/api/admin/users/u2/role":
		writeJSON(w, http.StatusOK, map[string]any{
			"responseCode": "200",
			"data":         map[string]any{"user": map[string]any{"_id": "u2", "name": "Bola", "role": "MODERATOR"}},
		})
	case r.Method == http.MethodPut && r.URL.Path == "/api/admin/users/u1/role":
		writeJSON(w, http.StatusOK, map[string]any{"responseCode": "400", "responseMessage": "Cannot demote last admin"})
	case r.URL.Path == "/api/admin/roles":
		if !rolesOK {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": []map[string]any{{"name": "ADMIN", "permissions": []any{}}}})
	case r.URL.Path == "/api/admin/role-statistics":
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]int{"ADMIN": 1, "ANNOTATOR": 4}})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// newTestAPI arma el BFF completo sobre un backend simulado y el store de facturas en memoria.
func newTestAPI(t *testing.T, jwtSecret string) (*fiber.App, *stubBackend) {
	t.Helper()
	stub := &stubBackend{}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	client := backend.NewClient(config.BackendConfig{
		BaseURL:            srv.URL + "/api",
		Timeout:            2 * time.Second,
		UsersPath:          "/users",
		UserPath:           "/users/:userId",
		RolesPath:          "/admin/roles",
		RoleStatisticsPath: "/admin/role-statistics",
		UserRolePath:       "/admin/users/:userId/role",
	}, token.Chain(token.Context), logger.Nop())

	svc := rbac.NewService(client, 0, logger.Nop())
	invoiceUC := billing.NewInvoiceUseCase(memory.NewInvoiceStore(), logger.Nop())

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		RBAC:      svc,
		InvoiceUC: invoiceUC,
		Overview:  analytics.NewOverviewUseCase(svc, invoiceUC, logger.Nop()),
		JWTSecret: jwtSecret,
	})
	return app, stub
}

func call(t *testing.T, app *fiber.App, method, path, authHeader string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	app, _ := newTestAPI(t, "")
	resp := call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListUsers_ReenviaTokenYNormalizaRoles(t *testing.T) {
	app, stub := newTestAPI(t, "")

	resp := call(t, app, http.MethodGet, "/api/admin/users?page=1&limit=10", "Bearer opaque-abc", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[dto.UserListResponse](t, resp)
	require.Len(t, out.Users, 2)
	assert.Equal(t, "admin", out.Users[0].Role)
	assert.Equal(t, "Annotator", out.Users[1].RoleLabel)
	assert.Equal(t, 2, out.Pagination.TotalUsers)
	assert.Equal(t, "Bearer opaque-abc", stub.auth())
}

func TestListUsers_TamanoInvalido_400(t *testing.T) {
	app, _ := newTestAPI(t, "")

	resp := call(t, app, http.MethodGet, "/api/admin/users?limit=7", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)
}

func TestGetUser(t *testing.T) {
	app, _ := newTestAPI(t, "")

	resp := call(t, app, http.MethodGet, "/api/admin/users/u1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "u1", decode[dto.UserResponse](t, resp).ID)

	resp = call(t, app, http.MethodGet, "/api/admin/users/nadie", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", decode[dto.ErrorResponse](t, resp).Message)
}

func TestUpdateRole(t *testing.T) {
	app, _ := newTestAPI(t, "")

	resp := call(t, app, http.MethodPut, "/api/admin/users/u2/role", "", dto.UpdateRoleRequest{Role: "Moderator", Reason: "promo"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "moderator", decode[dto.UserResponse](t, resp).Role)
}

func TestUpdateRole_Errores(t *testing.T) {
	app, _ := newTestAPI(t, "")

	resp := call(t, app, http.MethodPut, "/api/admin/users/u1/role", "", dto.UpdateRoleRequest{Role: "user"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "REJECTED", errBody.Code)
	assert.Equal(t, "Cannot demote last admin", errBody.Message)

	resp = call(t, app, http.MethodPut, "/api/admin/users/u1/role", "", dto.UpdateRoleRequest{Role: "superuser"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodPut, "/api/admin/users/u1/role", "", dto.UpdateRoleRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListRoles_FallbackYServidor(t *testing.T) {
	app, stub := newTestAPI(t, "")

	resp := call(t, app, http.MethodGet, "/api/admin/roles", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fallback := decode[dto.RoleListResponse](t, resp)
	assert.True(t, fallback.Fallback)
	assert.Len(t, fallback.Roles, 5)

	stub.mu.Lock()
	stub.rolesOK = true
	stub.mu.Unlock()

	resp = call(t, app, http.MethodGet, "/api/admin/roles", "", nil)
	live := decode[dto.RoleListResponse](t, resp)
	assert.False(t, live.Fallback)
	require.Len(t, live.Roles, 1)
	assert.Equal(t, "admin", live.Roles[0].Name)
}

func TestRoleStatistics(t *testing.T) {
	app, _ := newTestAPI(t, "")

	resp := call(t, app, http.MethodGet, "/api/admin/role-statistics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decode[dto.RoleStatisticsResponse](t, resp)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 4, stats.Counts["annotator"])
	assert.False(t, stats.Approximate)
}

func TestRolePermissions(t *testing.T) {
	app, _ := newTestAPI(t, "")

	resp := call(t, app, http.MethodGet, "/api/admin/roles/QA_REVIEWER/permissions", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "qa_reviewer", decode[dto.RoleResponse](t, resp).Name)

	resp = call(t, app, http.MethodGet, "/api/admin/roles/root/permissions", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPermissionMatrix_JSONYXLSX(t *testing.T) {
	app, _ := newTestAPI(t, "")

	resp := call(t, app, http.MethodGet, "/api/admin/permissions/matrix", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	m := decode[dto.PermissionMatrixResponse](t, resp)
	assert.True(t, m.Fallback)
	require.Len(t, m.Cells, len(m.Roles))

	resp = call(t, app, http.MethodGet, "/api/admin/permissions/matrix.xlsx", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, export.ContentTypeXLSX, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "permission-matrix-")
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Permissions")
	require.NoError(t, err)
	assert.Len(t, rows, len(m.Permissions)+1)
}

func TestExportUsers(t *testing.T) {
	app, _ := newTestAPI(t, "")

	resp := call(t, app, http.MethodGet, "/api/admin/users/export.xlsx", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Users")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestAdmin_ConSecretExigeRolAdmin(t *testing.T) {
	app, _ := newTestAPI(t, testJWTSecret)

	resp := call(t, app, http.MethodGet, "/api/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/admin/users", tokenForRole(t, "annotator"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/admin/users", tokenForRole(t, "ADMIN"), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRutasLocales_ConSecretExigenToken(t *testing.T) {
	app, _ := newTestAPI(t, testJWTSecret)
	create := map[string]any{
		"client_name": "Acme Labs",
		"items":       []map[string]any{{"description": "Batch", "quantity": "1", "unit_price": "10"}},
	}

	resp := call(t, app, http.MethodPost, "/api/invoices", "", create)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", decode[dto.ErrorResponse](t, resp).Code)

	resp = call(t, app, http.MethodGet, "/api/invoices", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/dashboard/overview", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/dashboard/overview", "Bearer no-es-un-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/invoices", tokenForRole(t, "annotator"), create)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/dashboard/overview", tokenForRole(t, "admin"), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestInvoices_CRUD(t *testing.T) {
	app, _ := newTestAPI(t, "")

	create := map[string]any{
		"client_name": "Acme Labs",
		"issue_date":  "2026-03-01",
		"items": []map[string]any{
			{"description": "Annotation batch", "quantity": "2", "unit_price": "150.00"},
		},
		"tax_rate": "7.5",
	}
	resp := call(t, app, http.MethodPost, "/api/invoices", "", create)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	inv := decode[dto.InvoiceResponse](t, resp)
	assert.Equal(t, "draft", inv.Status)
	assert.Equal(t, "2026-03-31", inv.DueDate)
	assert.Equal(t, "322.5", inv.Total.String())

	resp = call(t, app, http.MethodGet, "/api/invoices/"+inv.ID, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, app, http.MethodPatch, "/api/invoices/"+inv.ID+"/status", "", dto.UpdateInvoiceStatusRequest{Status: "paid"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "paid", decode[dto.InvoiceResponse](t, resp).Status)

	resp = call(t, app, http.MethodPut, "/api/invoices/"+inv.ID, "", create)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/invoices?status=paid", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.InvoiceListResponse](t, resp)
	require.Len(t, list.Items, 1)
	assert.Equal(t, 1, list.Page.Total)

	resp = call(t, app, http.MethodDelete, "/api/invoices/"+inv.ID, "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/invoices/"+inv.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInvoices_Validacion(t *testing.T) {
	app, _ := newTestAPI(t, "")

	resp := call(t, app, http.MethodPost, "/api/invoices", "", map[string]any{"client_name": "", "items": []any{}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/invoices?status=lost", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboardOverview(t *testing.T) {
	app, _ := newTestAPI(t, "")

	resp := call(t, app, http.MethodGet, "/api/dashboard/overview", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.OverviewDTO](t, resp)
	require.NotNil(t, out.Roles)
	require.NotNil(t, out.Invoices)
	assert.Equal(t, 5, out.Roles.Total)
	assert.Equal(t, 0, out.Invoices.Total)
	assert.Empty(t, out.Warnings)
}
