// Package console implementa la consola de línea de comandos del panel de roles (rolectl):
// lee un comando por línea, lo traduce a las vistas del dashboard y renderiza tablas.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mydeeptech/admin-dashboard/internal/application/dashboard"
	"github.com/mydeeptech/admin-dashboard/internal/domain"
	"github.com/mydeeptech/admin-dashboard/pkg/logger"
)

var _ dashboard.Notifier = (*Console)(nil)

// TokenStore persistencia local del token de sesión.
type TokenStore interface {
	Save(tok string) error
	Clear() error
}

// Views vistas que maneja la consola.
type Views struct {
	Users *dashboard.RoleManagementView
	Perms *dashboard.RolePermissionsView
}

// Console intérprete de comandos. También es el Notifier de las vistas.
type Console struct {
	tokens TokenStore
	log    *logger.Logger

	mu  sync.Mutex // serializa la escritura en out
	out io.Writer
	p   *message.Printer
}

// New construye la consola; tokens puede ser nil (los comandos token fallan).
func New(out io.Writer, tokens TokenStore, log *logger.Logger) *Console {
	return &Console{
		tokens: tokens,
		log:    logger.OrNop(log).Named("console"),
		out:    out,
		p:      message.NewPrinter(language.English),
	}
}

// Notify imprime un aviso de las vistas.
func (c *Console) Notify(n dashboard.Notification) {
	mark := "i"
	switch n.Kind {
	case dashboard.NotifySuccess:
		mark = "✓"
	case dashboard.NotifyError:
		mark = "✗"
	}
	c.printf("[%s] %s: %s\n", mark, n.Title, n.Message)
}

// errQuit termina el bucle de Run.
var errQuit = errors.New("quit")

// Run monta las vistas y procesa comandos hasta quit, EOF o cancelación de ctx.
func (c *Console) Run(ctx context.Context, in io.Reader, v Views) error {
	if err := v.Users.Mount(ctx); err != nil {
		c.log.Debug().Err(err).Msg("carga inicial incompleta")
	}
	c.renderUsers(v.Users.Snapshot())
	c.printf("Escriba 'help' para ver los comandos.\n")

	sc := bufio.NewScanner(in)
	for {
		c.printf("> ")
		if !sc.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := c.Exec(ctx, line, v); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			c.printf("error: %s\n", domain.ErrorMessage(err))
		}
	}
	return sc.Err()
}

// Exec ejecuta una línea de comando.
func (c *Console) Exec(ctx context.Context, line string, v Views) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "users", "ls":
		c.renderUsers(v.Users.Snapshot())
	case "search":
		if len(args) == 0 {
			return domain.Invalid("search", errors.New("uso: search <término>"))
		}
		if err := v.Users.Search(ctx, strings.Join(args, " ")); err != nil {
			return err
		}
		c.renderUsers(v.Users.Snapshot())
	case "clear":
		if err := v.Users.ClearSearch(ctx); err != nil {
			return err
		}
		c.renderUsers(v.Users.Snapshot())
	case "page", "size":
		n, err := intArg(cmd, args)
		if err != nil {
			return err
		}
		if cmd == "page" {
			err = v.Users.SetPage(ctx, n)
		} else {
			err = v.Users.SetPageSize(ctx, n)
		}
		if err != nil {
			return err
		}
		c.renderUsers(v.Users.Snapshot())
	case "edit":
		return c.edit(ctx, args, v.Users)
	case "stats":
		st := v.Users.Snapshot()
		if st.Stats == nil || st.StatsState == dashboard.StateError {
			if err := v.Users.RefreshStatistics(ctx); err != nil {
				return err
			}
			st = v.Users.Snapshot()
		}
		c.renderStats(st.Stats)
	case "roles":
		st := v.Users.Snapshot()
		c.renderRoles(st.Roles, st.RolesFallback)
	case "perms":
		if v.Perms.State() != dashboard.StateLoaded {
			v.Perms.Load(ctx)
		}
		c.renderMatrix(v.Perms.Matrix())
	case "perm":
		if len(args) != 1 {
			return domain.Invalid("role", errors.New("uso: perm <rol>"))
		}
		if v.Perms.State() != dashboard.StateLoaded {
			v.Perms.Load(ctx)
		}
		role, err := v.Perms.DrillDown(args[0])
		if err != nil {
			return err
		}
		c.renderRole(*role)
		v.Perms.CloseDrillDown()
	case "token":
		return c.token(args)
	case "refresh":
		v.Users.RefreshRoles(ctx)
		v.Perms.Load(ctx)
		usersErr := v.Users.Refresh(ctx)
		statsErr := v.Users.RefreshStatistics(ctx)
		c.renderUsers(v.Users.Snapshot())
		return errors.Join(usersErr, statsErr)
	case "help", "?":
		c.printf("%s", helpText)
	case "quit", "exit", "q":
		return errQuit
	default:
		return domain.Invalid("command", fmt.Errorf("comando desconocido %q (escriba 'help')", cmd))
	}
	return nil
}

const helpText = `Comandos:
  users                       muestra la página actual
  search <término>            filtra por nombre o email
  clear                       quita el filtro
  page <n>                    va a la página n
  size <10|20|50|100>         cambia el tamaño de página
  edit <userId> <rol> [motivo...]  cambia el rol de un usuario
  stats                       usuarios por rol
  roles                       catálogo de roles
  perms                       matriz de permisos
  perm <rol>                  permisos de un rol
  token set <token> | clear   guarda o borra el token de sesión
  refresh                     recarga todo
  help                        esta ayuda
  quit                        salir
`

func (c *Console) edit(ctx context.Context, args []string, users *dashboard.RoleManagementView) error {
	if len(args) < 2 {
		return domain.Invalid("edit", errors.New("uso: edit <userId> <rol> [motivo...]"))
	}
	if err := users.OpenEdit(args[0]); err != nil {
		return err
	}
	// El modal de la consola no sobrevive al comando: se cierra si algo falla.
	if err := users.SelectRole(args[1]); err != nil {
		users.CancelEdit()
		return err
	}
	if err := users.SubmitEdit(ctx, strings.Join(args[2:], " ")); err != nil {
		users.CancelEdit()
		// SubmitEdit ya notificó el fallo.
		return nil
	}
	c.renderUsers(users.Snapshot())
	return nil
}

func (c *Console) token(args []string) error {
	if c.tokens == nil {
		return errors.New("no hay almacén de token configurado")
	}
	switch {
	case len(args) == 2 && args[0] == "set":
		if err := c.tokens.Save(args[1]); err != nil {
			return err
		}
		c.printf("token guardado\n")
	case len(args) == 1 && args[0] == "clear":
		if err := c.tokens.Clear(); err != nil {
			return err
		}
		c.printf("token borrado\n")
	default:
		return domain.Invalid("token", errors.New("uso: token set <token> | token clear"))
	}
	return nil
}

func intArg(cmd string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, domain.Invalid(cmd, fmt.Errorf("uso: %s <n>", cmd))
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, domain.Invalid(cmd, fmt.Errorf("%q no es un número", args[0]))
	}
	return n, nil
}

func (c *Console) printf(format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, a...)
}

// table escribe filas separadas por tabulador alineadas con tabwriter.
func (c *Console) table(header []string, rows [][]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	_ = tw.Flush()
}
