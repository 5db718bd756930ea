package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mydeeptech/admin-dashboard/internal/application/rbac"
	"github.com/mydeeptech/admin-dashboard/internal/domain"
	"github.com/mydeeptech/admin-dashboard/internal/domain/entity"
	"github.com/mydeeptech/admin-dashboard/pkg/logger"
)

// RoleService operaciones que la vista necesita del servicio de roles.
type RoleService interface {
	ListUsers(ctx context.Context, q rbac.UserQuery) (*entity.UserPage, error)
	UpdateRole(ctx context.Context, in rbac.UpdateRoleInput) (*entity.User, error)
	ListRoles(ctx context.Context) rbac.RoleList
	RoleStatistics(ctx context.Context) (entity.RoleStatistics, error)
}

// ErrNoEditOpen SubmitEdit sin modal abierto.
var ErrNoEditOpen = errors.New("no hay ninguna edición de rol abierta")

// EditModal estado del modal de cambio de rol.
type EditModal struct {
	Open         bool
	User         entity.User
	SelectedRole entity.RoleName
	Submitting   bool
	Error        string
}

// RoleManagementState copia inmutable del estado de la vista para renderizar.
type RoleManagementState struct {
	State      LoadState
	Users      []entity.User
	Pagination entity.Pagination

	// Consulta vigente (la última solicitada).
	Page     int
	PageSize int
	Search   string

	Roles         []entity.Role
	RolesFallback bool

	Stats      *entity.RoleStatistics
	StatsState LoadState

	Edit      EditModal
	LastError string
}

// RoleManagementView tabla de usuarios con búsqueda, paginación, estadísticas por rol
// y modal de edición. Es segura para uso concurrente.
type RoleManagementView struct {
	svc    RoleService
	notify Notifier
	log    *logger.Logger

	mu             sync.Mutex
	st             RoleManagementState
	seq            uint64 // token de la última consulta de usuarios emitida
	statsRequested bool
}

// NewRoleManagementView construye la vista en estado idle.
func NewRoleManagementView(svc RoleService, notifier Notifier, log *logger.Logger) *RoleManagementView {
	return &RoleManagementView{
		svc:    svc,
		notify: orNop(notifier),
		log:    logger.OrNop(log).Named("role_management"),
		st: RoleManagementState{
			State:      StateIdle,
			StatsState: StateIdle,
			Page:       1,
			PageSize:   entity.DefaultPageSize,
			Users:      []entity.User{},
		},
	}
}

// Mount carga en paralelo roles, estadísticas (una sola vez) y la primera página.
func (v *RoleManagementView) Mount(ctx context.Context) error {
	v.mu.Lock()
	size, search := v.st.PageSize, v.st.Search
	v.mu.Unlock()

	var wg sync.WaitGroup
	var usersErr, statsErr error
	wg.Add(3)
	go func() {
		defer wg.Done()
		v.loadRoles(ctx)
	}()
	go func() {
		defer wg.Done()
		statsErr = v.loadStatistics(ctx, false)
	}()
	go func() {
		defer wg.Done()
		usersErr = v.fetchUsers(ctx, 1, size, search)
	}()
	wg.Wait()
	return errors.Join(usersErr, statsErr)
}

// Search aplica un término de búsqueda y vuelve a la página 1.
func (v *RoleManagementView) Search(ctx context.Context, term string) error {
	v.mu.Lock()
	size := v.st.PageSize
	v.mu.Unlock()
	return v.fetchUsers(ctx, 1, size, strings.TrimSpace(term))
}

// ClearSearch quita el filtro y vuelve a la página 1.
func (v *RoleManagementView) ClearSearch(ctx context.Context) error {
	return v.Search(ctx, "")
}

// SetPage cambia de página manteniendo tamaño y filtro.
func (v *RoleManagementView) SetPage(ctx context.Context, page int) error {
	v.mu.Lock()
	size, search, totalPages := v.st.PageSize, v.st.Search, v.st.Pagination.TotalPages
	v.mu.Unlock()

	if page < 1 || (totalPages > 0 && page > totalPages) {
		return v.rejectInput(domain.Invalid("page", domain.ErrInvalidPage))
	}
	return v.fetchUsers(ctx, page, size, search)
}

// SetPageSize cambia el tamaño de página; siempre vuelve a la página 1.
func (v *RoleManagementView) SetPageSize(ctx context.Context, size int) error {
	if !entity.IsAllowedPageSize(size) {
		return v.rejectInput(domain.Invalid("limit", domain.ErrInvalidPageSize))
	}
	v.mu.Lock()
	search := v.st.Search
	v.mu.Unlock()
	return v.fetchUsers(ctx, 1, size, search)
}

// Refresh repite la consulta vigente (reintento manual).
func (v *RoleManagementView) Refresh(ctx context.Context) error {
	v.mu.Lock()
	page, size, search := v.st.Page, v.st.PageSize, v.st.Search
	v.mu.Unlock()
	return v.fetchUsers(ctx, page, size, search)
}

// RefreshStatistics vuelve a pedir las estadísticas. Solo por acción explícita del usuario.
func (v *RoleManagementView) RefreshStatistics(ctx context.Context) error {
	return v.loadStatistics(ctx, true)
}

// RefreshRoles vuelve a pedir el catálogo de roles.
func (v *RoleManagementView) RefreshRoles(ctx context.Context) {
	v.loadRoles(ctx)
}

// OpenEdit abre el modal con el rol actual del usuario preseleccionado.
func (v *RoleManagementView) OpenEdit(userID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, u := range v.st.Users {
		if u.ID == userID {
			v.st.Edit = EditModal{Open: true, User: u, SelectedRole: u.Role}
			return nil
		}
	}
	return fmt.Errorf("%w: %s no está en la página actual", domain.ErrUserNotFound, userID)
}

// SelectRole cambia el rol elegido en el modal. Cadena vacía deja el modal sin selección.
func (v *RoleManagementView) SelectRole(name string) error {
	var role entity.RoleName
	if strings.TrimSpace(name) != "" {
		r, err := entity.ParseRoleName(name)
		if err != nil {
			return domain.Invalid("role", err)
		}
		role = r
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.st.Edit.Open {
		return ErrNoEditOpen
	}
	v.st.Edit.SelectedRole = role
	v.st.Edit.Error = ""
	return nil
}

// CancelEdit cierra el modal sin cambios.
func (v *RoleManagementView) CancelEdit() {
	v.mu.Lock()
	v.st.Edit = EditModal{}
	v.mu.Unlock()
}

// SubmitEdit envía el cambio de rol. Si no hay rol elegido no sale ninguna petición.
// En éxito cierra el modal y recarga la página actual; en fallo el modal sigue abierto.
func (v *RoleManagementView) SubmitEdit(ctx context.Context, reason string) error {
	v.mu.Lock()
	edit := v.st.Edit
	switch {
	case !edit.Open:
		v.mu.Unlock()
		return ErrNoEditOpen
	case edit.Submitting:
		v.mu.Unlock()
		return fmt.Errorf("dashboard: cambio de rol en curso: %w", domain.ErrConflict)
	case edit.SelectedRole == "":
		err := domain.Invalid("role", domain.ErrRoleRequired)
		v.st.Edit.Error = domain.ErrorMessage(err)
		v.mu.Unlock()
		v.notify.Notify(Notification{Kind: NotifyError, Title: "Validación", Message: domain.ErrorMessage(err)})
		return err
	}
	v.st.Edit.Submitting = true
	v.st.Edit.Error = ""
	v.mu.Unlock()

	updated, err := v.svc.UpdateRole(ctx, rbac.UpdateRoleInput{
		UserID: edit.User.ID,
		Role:   string(edit.SelectedRole),
		Reason: reason,
	})

	v.mu.Lock()
	if err != nil {
		msg := domain.ErrorMessage(err)
		if v.st.Edit.Open && v.st.Edit.User.ID == edit.User.ID {
			v.st.Edit.Submitting = false
			v.st.Edit.Error = msg
		}
		v.mu.Unlock()
		v.log.Warn().Err(err).Str("user_id", edit.User.ID).Msg("cambio de rol fallido")
		v.notify.Notify(Notification{Kind: NotifyError, Title: "No se pudo actualizar el rol", Message: msg})
		return err
	}
	// Solo se cierra el modal de este usuario; pudo haberse abierto otro mientras tanto.
	if v.st.Edit.Open && v.st.Edit.User.ID == edit.User.ID {
		v.st.Edit = EditModal{}
	}
	v.mu.Unlock()

	name := edit.User.Name
	if name == "" {
		name = edit.User.Email
	}
	role := edit.SelectedRole
	if updated != nil && updated.Role.Valid() {
		role = updated.Role
	}
	v.notify.Notify(Notification{
		Kind:    NotifySuccess,
		Title:   "Rol actualizado",
		Message: fmt.Sprintf("%s ahora es %s", name, role.DisplayName()),
	})

	if err := v.Refresh(ctx); err != nil {
		v.log.Warn().Err(err).Msg("no se pudo recargar la página tras el cambio de rol")
	}
	return nil
}

// Snapshot copia del estado actual.
func (v *RoleManagementView) Snapshot() RoleManagementState {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.st
	s.Users = append([]entity.User(nil), v.st.Users...)
	s.Roles = append([]entity.Role(nil), v.st.Roles...)
	if v.st.Stats != nil {
		stats := *v.st.Stats
		stats.Counts = make(map[entity.RoleName]int, len(v.st.Stats.Counts))
		for k, n := range v.st.Stats.Counts {
			stats.Counts[k] = n
		}
		s.Stats = &stats
	}
	return s
}

// fetchUsers emite una consulta con un token de secuencia nuevo; solo se aplica la
// respuesta cuyo token sigue siendo el último emitido.
func (v *RoleManagementView) fetchUsers(ctx context.Context, page, size int, search string) error {
	v.mu.Lock()
	v.seq++
	token := v.seq
	v.st.Page, v.st.PageSize, v.st.Search = page, size, search
	v.st.State = StateLoading
	v.mu.Unlock()

	res, err := v.svc.ListUsers(ctx, rbac.UserQuery{Page: page, Limit: size, Search: search})

	v.mu.Lock()
	if token != v.seq {
		v.mu.Unlock()
		v.log.Debug().Uint64("token", token).Int("page", page).Str("search", search).Msg("respuesta obsoleta descartada")
		return nil
	}
	if err != nil {
		msg := domain.ErrorMessage(err)
		v.st.State = StateError
		v.st.LastError = msg
		v.mu.Unlock()
		v.log.Warn().Err(err).Int("page", page).Int("limit", size).Msg("no se pudo cargar usuarios")
		v.notify.Notify(Notification{Kind: NotifyError, Title: "Error al cargar usuarios", Message: msg})
		return err
	}
	v.st.Users = res.Users
	if v.st.Users == nil {
		v.st.Users = []entity.User{}
	}
	v.st.Pagination = res.Pagination
	v.st.State = StateLoaded
	v.st.LastError = ""
	v.mu.Unlock()
	return nil
}

// loadStatistics pide las estadísticas; sin force solo la primera vez en la vida de la vista.
func (v *RoleManagementView) loadStatistics(ctx context.Context, force bool) error {
	v.mu.Lock()
	if v.statsRequested && !force {
		v.mu.Unlock()
		return nil
	}
	v.statsRequested = true
	v.st.StatsState = StateLoading
	v.mu.Unlock()

	stats, err := v.svc.RoleStatistics(ctx)

	v.mu.Lock()
	if err != nil {
		msg := domain.ErrorMessage(err)
		v.st.StatsState = StateError
		v.st.LastError = msg
		v.mu.Unlock()
		v.log.Warn().Err(err).Msg("no se pudieron cargar las estadísticas por rol")
		v.notify.Notify(Notification{Kind: NotifyError, Title: "Error al cargar estadísticas", Message: msg})
		return err
	}
	v.st.Stats = &stats
	v.st.StatsState = StateLoaded
	v.mu.Unlock()

	if stats.Approximate {
		msg := fmt.Sprintf("Conteo calculado sobre una muestra de %d de %d usuarios", stats.Sampled, stats.Total)
		if stats.Unknown > 0 {
			msg += fmt.Sprintf(" (%d con rol desconocido)", stats.Unknown)
		}
		v.notify.Notify(Notification{Kind: NotifyInfo, Title: "Estadísticas aproximadas", Message: msg})
	}
	return nil
}

func (v *RoleManagementView) loadRoles(ctx context.Context) {
	list := v.svc.ListRoles(ctx)
	v.mu.Lock()
	v.st.Roles = list.Roles
	v.st.RolesFallback = list.Fallback
	v.mu.Unlock()
	if list.Fallback {
		v.notify.Notify(Notification{Kind: NotifyInfo, Title: "Roles", Message: "Mostrando el catálogo de roles predeterminado"})
	}
}

// rejectInput notifica un error de validación; no hay petición ni cambio de estado.
func (v *RoleManagementView) rejectInput(err error) error {
	v.notify.Notify(Notification{Kind: NotifyError, Title: "Validación", Message: domain.ErrorMessage(err)})
	return err
}
