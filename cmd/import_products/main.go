// import_products carga productos de un tenant desde un CSV separado por punto y coma
// (sku;name;price;cost;initial_stock). El stock inicial entra como movimiento del ledger.
//
// Uso: go run ./cmd/import_products -tenant 1 -user 1 -file productos.csv [-encoding latin1]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/tenancy"
	"github.com/jhoicas/pos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-api/pkg/config"
	"github.com/jhoicas/pos-api/pkg/logger"
)

func main() {
	tenantFlag := flag.String("tenant", "", "ID del tenant destino")
	userID := flag.Int64("user", 0, "ID del usuario que registra los movimientos de stock inicial")
	file := flag.String("file", "", "ruta del CSV")
	encoding := flag.String("encoding", "latin1", "codificación del archivo: utf8 | latin1 | windows-1252")
	flag.Parse()

	tenantID, err := tenancy.ParseTenantID(*tenantFlag)
	if err != nil || *userID <= 0 || *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Iniciar logger: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	r, err := decodeReader(f, *encoding)
	if err != nil {
		log.Fatal().Err(err).Msg("codificación")
	}
	rows, rowErrs, err := readProducts(r)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}
	for _, re := range rowErrs {
		log.Warn().Int("line", re.Line).Err(re.Err).Msg("fila descartada")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	filter := tenancy.NewFilter(cfg.Tenant.Tables...)
	productRepo := postgres.NewProductRepository(pool, filter)
	movementRepo := postgres.NewStockMovementRepository(pool, filter)
	txRunner := postgres.NewTxRunner(pool, filter)
	ledgerUC := inventory.NewLedgerUseCase(txRunner, productRepo, movementRepo, nil, cfg.Ledger.AllowNegativeStock)
	productUC := usecase.NewProductUseCase(productRepo, txRunner, ledgerUC)

	caller := &entity.CallerContext{UserID: *userID, TenantID: tenantID, Role: entity.RoleAdmin}
	var created, duplicated, failed int
	for _, p := range rows {
		_, err := productUC.Create(ctx, caller, p)
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrDuplicate):
			duplicated++
		default:
			failed++
			log.Error().Err(err).Str("sku", p.SKU).Msg("crear producto")
		}
	}

	log.Info().
		Int64("tenant_id", tenantID).
		Int("created", created).
		Int("duplicated", duplicated).
		Int("failed", failed).
		Int("discarded", len(rowErrs)).
		Msg("importación finalizada")
	if failed > 0 {
		os.Exit(1)
	}
}
