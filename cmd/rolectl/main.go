// rolectl consola de gestión de roles de MyDeepTech: lista usuarios, cambia roles,
// muestra estadísticas por rol y la matriz de permisos contra la API REST del backend.
//
// Uso: go run ./cmd/rolectl
// El token de sesión se guarda con "token set <token>" en TOKEN_PATH.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mydeeptech/admin-dashboard/internal/application/dashboard"
	"github.com/mydeeptech/admin-dashboard/internal/application/rbac"
	"github.com/mydeeptech/admin-dashboard/internal/infrastructure/backend"
	"github.com/mydeeptech/admin-dashboard/internal/infrastructure/token"
	"github.com/mydeeptech/admin-dashboard/internal/interfaces/console"
	"github.com/mydeeptech/admin-dashboard/pkg/config"
	"github.com/mydeeptech/admin-dashboard/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	// Los logs van a stderr para no mezclarse con las tablas.
	log := logger.New(logger.Config{
		Env:    "development",
		Level:  cfg.App.LogLevel,
		Output: os.Stderr,
	})

	store := token.NewFileStore(cfg.Token.Path)
	client := backend.NewClient(cfg.Backend, token.Chain(store), log)
	svc := rbac.NewService(client, cfg.Backend.StatsSampleSize, log)

	c := console.New(os.Stdout, store, log)
	views := console.Views{
		Users: dashboard.NewRoleManagementView(svc, c, log),
		Perms: dashboard.NewRolePermissionsView(svc, c, log),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := c.Run(ctx, os.Stdin, views); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "rolectl: %v\n", err)
		os.Exit(1)
	}
}
