package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/mydeeptech/admin-dashboard/internal/application/analytics"
	"github.com/mydeeptech/admin-dashboard/internal/application/billing"
	"github.com/mydeeptech/admin-dashboard/internal/application/rbac"
	"github.com/mydeeptech/admin-dashboard/internal/domain/repository"
	"github.com/mydeeptech/admin-dashboard/internal/infrastructure/backend"
	"github.com/mydeeptech/admin-dashboard/internal/infrastructure/memory"
	"github.com/mydeeptech/admin-dashboard/internal/infrastructure/postgres"
	"github.com/mydeeptech/admin-dashboard/internal/infrastructure/token"
	httpRouter "github.com/mydeeptech/admin-dashboard/internal/interfaces/http"
	"github.com/mydeeptech/admin-dashboard/pkg/config"
	"github.com/mydeeptech/admin-dashboard/pkg/logger"
)

//go:generate swag init --dir ../../ --generalInfo cmd/api/main.go --output ../../docs --outputTypes go,json --parseInternal

// @title                       MyDeepTech Admin API
// @version                     1.0
// @description                 BFF del panel de administración: gestión de roles, matriz de permisos, facturación y resumen.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Bearer <token> emitido por el backend de MyDeepTech
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Backend.BaseURL).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Facturas: PostgreSQL si está configurado; si no, store en memoria.
	var invoiceRepo repository.InvoiceRepository
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración del esquema de facturas")
		}
		invoiceRepo = postgres.NewInvoiceRepository(pool)
	} else {
		log.Warn().Msg("sin base de datos configurada: facturas en memoria")
		invoiceRepo = memory.NewInvoiceStore()
	}

	// El BFF reenvía al backend el token de cada petición.
	client := backend.NewClient(cfg.Backend, token.Chain(token.Context), log)
	rbacSvc := rbac.NewService(client, cfg.Backend.StatsSampleSize, log)
	invoiceUC := billing.NewInvoiceUseCase(invoiceRepo, log)
	overviewUC := appanalytics.NewOverviewUseCase(rbacSvc, invoiceUC, log)

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: /api/admin no verifica rol, el backend decide")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Backend.Timeout + time.Second*5,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	mountSwagger(app, log)

	httpRouter.Router(app, httpRouter.RouterDeps{
		RBAC:      rbacSvc,
		InvoiceUC: invoiceUC,
		Overview:  overviewUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
