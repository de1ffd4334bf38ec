// @title                       POS API
// @version                     1.0
// @description                 Backend multi-tenant de inventario y punto de venta.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	_ "github.com/jhoicas/pos-api/docs"
	"github.com/jhoicas/pos-api/internal/application/access"
	"github.com/jhoicas/pos-api/internal/application/auth"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/domain/tenancy"
	infrapdf "github.com/jhoicas/pos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pos-api/internal/interfaces/http"
	"github.com/jhoicas/pos-api/pkg/config"
	"github.com/jhoicas/pos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Env:        cfg.App.Env,
		Level:      cfg.Log.Level,
		FilePath:   cfg.Log.FilePath,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		panic("iniciar logger: " + err.Error())
	}
	defer log.Close()

	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	filter := tenancy.NewFilter(cfg.Tenant.Tables...)
	if !cfg.Tenant.Strict {
		filter = tenancy.NewPermissiveFilter()
		log.Warn().Msg("filtro de tenant en modo permisivo: las tablas no se validan contra la lista blanca")
	}

	policy, err := access.New(cfg.Access.Policy)
	if err != nil {
		log.Fatal().Err(err).Msg("política de acceso")
	}

	userRepo := postgres.NewUserRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	tenantRepo := postgres.NewTenantRepository(pool)
	productRepo := postgres.NewProductRepository(pool, filter)
	movementRepo := postgres.NewStockMovementRepository(pool, filter)
	customerRepo := postgres.NewCustomerRepository(pool, filter)
	txRunner := postgres.NewTxRunner(pool, filter)

	// Kardex: reporte PDF del ledger por producto
	kardex := infrapdf.NewMarotoKardexGenerator()
	ledgerUC := inventory.NewLedgerUseCase(txRunner, productRepo, movementRepo, kardex, cfg.Ledger.AllowNegativeStock)
	productUC := usecase.NewProductUseCase(productRepo, txRunner, ledgerUC)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	sessionUC := auth.NewSessionUseCase(userRepo, sessionRepo, tenantRepo, auth.SessionConfig{TTL: cfg.Session.TTL})

	sweeper := auth.NewSessionSweeper(sessionRepo, log.Zerolog(), cfg.Session.SweepSchedule)
	if err := sweeper.Start(); err != nil {
		log.Fatal().Err(err).Msg("barrido de sesiones")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New())
	app.Use(httpRouter.RequestLogger(log.Zerolog()))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sessions:  sessionUC,
		Products:  productUC,
		Customers: customerUC,
		Ledger:    ledgerUC,
		Policy:    policy,
		Cookie: httpRouter.CookieConfig{
			Secure: cfg.Session.CookieSecure,
			TTL:    cfg.Session.TTL,
		},
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
	sweeper.Stop()

	log.Info().Msg("aplicación detenida")
}
