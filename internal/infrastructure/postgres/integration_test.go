//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/auth"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/internal/domain/tenancy"
	"github.com/jhoicas/pos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-api/pkg/config"
)

// Se ejecutan con: POS_TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/infrastructure/postgres/
// La base debe ser desechable: se aplica el esquema y se insertan datos con nombres únicos.

type pgFixture struct {
	pool     *pgxpool.Pool
	filter   *tenancy.Filter
	tenantID int64
	userID   int64
}

func newPGFixture(t *testing.T) *pgFixture {
	t.Helper()
	url := os.Getenv("POS_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("POS_TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 20})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	ddl, err := os.ReadFile("migrations/001_init.sql")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(ddl))
	require.NoError(t, err)

	suffix := time.Now().UnixNano()
	f := &pgFixture{pool: pool, filter: tenancy.NewFilter("products", "customers", "stock_movements")}
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO tenants (name) VALUES ($1) RETURNING id`, fmt.Sprintf("Tienda %d", suffix),
	).Scan(&f.tenantID))
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO users (tenant_id, username, email, password_hash, role) VALUES ($1, $2, $3, 'x', 'admin') RETURNING id`,
		f.tenantID, fmt.Sprintf("ana%d", suffix), fmt.Sprintf("ana%d@tienda.co", suffix),
	).Scan(&f.userID))
	return f
}

func (f *pgFixture) caller() *entity.CallerContext {
	return &entity.CallerContext{UserID: f.userID, TenantID: f.tenantID, Role: entity.RoleAdmin}
}

func (f *pgFixture) ledger(allowNegative bool) *inventory.LedgerUseCase {
	return inventory.NewLedgerUseCase(
		postgres.NewTxRunner(f.pool, f.filter),
		postgres.NewProductRepository(f.pool, f.filter),
		postgres.NewStockMovementRepository(f.pool, f.filter),
		nil,
		allowNegative,
	)
}

func (f *pgFixture) product(t *testing.T, sku string) *entity.Product {
	t.Helper()
	p := &entity.Product{TenantID: f.tenantID, SKU: sku, Name: "Café 500g", Status: entity.StatusActive}
	require.NoError(t, postgres.NewProductRepository(f.pool, f.filter).Create(context.Background(), p))
	return p
}

func TestLedgerPostgres_MovimientosConcurrentesNoPierdenActualizaciones(t *testing.T) {
	f := newPGFixture(t)
	uc := f.ledger(true)
	ctx := context.Background()
	p := f.product(t, "CONC-1")

	_, err := uc.RecordMovement(ctx, f.caller(), inventory.RecordMovementInput{
		ProductID: p.ID, Type: entity.MovementTypeIn, Quantity: 1000, Reference: inventory.InitialStockReference,
	})
	require.NoError(t, err)

	const workers = 40
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := inventory.RecordMovementInput{ProductID: p.ID, Type: entity.MovementTypeIn, Quantity: 7, UnitPrice: decimal.NewFromInt(3)}
			if i%2 == 1 {
				in = inventory.RecordMovementInput{ProductID: p.ID, Type: entity.MovementTypeOut, Quantity: 5}
			}
			_, err := uc.RecordMovement(ctx, f.caller(), in)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	rec, err := uc.Reconcile(ctx, f.caller(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000+20*7-20*5), rec.StockQuantity)
	assert.Equal(t, rec.StockQuantity, rec.LedgerSum)
	assert.True(t, rec.Consistent)
}

func TestLedgerPostgres_SalidasConcurrentesRespetanStockNoNegativo(t *testing.T) {
	f := newPGFixture(t)
	uc := f.ledger(false)
	ctx := context.Background()
	p := f.product(t, "CONC-2")

	_, err := uc.RecordMovement(ctx, f.caller(), inventory.RecordMovementInput{
		ProductID: p.ID, Type: entity.MovementTypeIn, Quantity: 10,
	})
	require.NoError(t, err)

	const workers = 25
	var wg sync.WaitGroup
	var mu sync.Mutex
	var ok, insufficient int
	var unexpected []error
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.RecordMovement(ctx, f.caller(), inventory.RecordMovementInput{
				ProductID: p.ID, Type: entity.MovementTypeOut, Quantity: 1,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				insufficient++
			default:
				unexpected = append(unexpected, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, unexpected)
	assert.Equal(t, 10, ok)
	assert.Equal(t, workers-10, insufficient)
	rec, err := uc.Reconcile(ctx, f.caller(), p.ID)
	require.NoError(t, err)
	assert.Zero(t, rec.StockQuantity)
	assert.True(t, rec.Consistent)
}

func TestLedgerPostgres_FalloDentroDeLaTransaccionNoDejaRastro(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	p := f.product(t, "TX-1")
	runner := postgres.NewTxRunner(f.pool, f.filter)

	err := runner.Run(ctx, func(products repository.ProductRepository, _ repository.StockMovementRepository) error {
		if _, _, err := products.AdjustStock(ctx, f.tenantID, p.ID, 50, true); err != nil {
			return err
		}
		return domain.ErrInvalidInput
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := postgres.NewProductRepository(f.pool, f.filter).GetByID(ctx, f.tenantID, p.ID)
	require.NoError(t, err)
	assert.Zero(t, got.StockQuantity)
}

func TestSessionPostgres_TouchRespetaExpiracion(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	repo := postgres.NewSessionRepository(f.pool)
	now := time.Now().UTC().Truncate(time.Microsecond)
	hash := auth.HashToken(fmt.Sprintf("tok-%d", now.UnixNano()))

	require.NoError(t, repo.Create(ctx, &entity.Session{
		UserID: f.userID, TokenHash: hash, LastActivity: now, ExpiresAt: now.Add(time.Hour), CreatedAt: now,
	}))

	got, err := repo.Touch(ctx, hash, now.Add(time.Minute))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, f.userID, got.UserID)
	assert.Equal(t, f.tenantID, got.TenantID)
	assert.Equal(t, entity.RoleAdmin, got.Role)

	var last time.Time
	require.NoError(t, f.pool.QueryRow(ctx, `SELECT last_activity FROM sessions WHERE token_hash = $1`, hash).Scan(&last))
	assert.True(t, last.Equal(now.Add(time.Minute)))

	// en el instante de expiración ya no es válida
	got, err = repo.Touch(ctx, hash, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err := repo.DeleteExpired(ctx, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))
	got, err = repo.Touch(ctx, hash, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Nil(t, got)
}
