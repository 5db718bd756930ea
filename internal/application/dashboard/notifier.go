// Package dashboard modela las vistas del panel de administración (gestión de roles y
// matriz de permisos) como máquinas de estado independientes de la capa de presentación.
package dashboard

// NotificationKind tipo de aviso transitorio.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyInfo    NotificationKind = "info"
)

// Notification aviso transitorio que la capa de presentación muestra al usuario.
type Notification struct {
	Kind    NotificationKind
	Title   string
	Message string
}

// Notifier recibe los avisos de las vistas. Se invoca sin locks tomados,
// así que puede consultar Snapshot() de la vista.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapta una función a Notifier.
type NotifierFunc func(n Notification)

// Notify implementa Notifier.
func (f NotifierFunc) Notify(n Notification) { f(n) }

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}

func orNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

// LoadState estado de carga de una vista o de una de sus secciones.
type LoadState string

const (
	StateIdle    LoadState = "idle"
	StateLoading LoadState = "loading"
	StateLoaded  LoadState = "loaded"
	StateError   LoadState = "error"
)
