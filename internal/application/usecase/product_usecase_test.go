package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

var (
	tenantA = &entity.CallerContext{UserID: 1, TenantID: 1, Role: entity.RoleAdmin}
	tenantB = &entity.CallerContext{UserID: 2, TenantID: 2, Role: entity.RoleAdmin}
)

func newProductUC(db *memDB) *usecase.ProductUseCase {
	tx := memTx{db}
	ledger := inventory.NewLedgerUseCase(tx, memProducts{db}, memMovements{db}, nil, true)
	return usecase.NewProductUseCase(memProducts{db}, tx, ledger)
}

func TestProductCreate_StockInicialPasaPorElLedger(t *testing.T) {
	db := newMemDB()
	uc := newProductUC(db)

	p, err := uc.Create(context.Background(), tenantA, dto.CreateProductRequest{
		SKU: "CAF-500", Name: "Café 500g", Price: decimal.NewFromInt(18000), Cost: decimal.NewFromInt(12000), InitialStock: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), p.StockQuantity)
	assert.Equal(t, int64(100), db.products[p.ID].StockQuantity)

	require.Len(t, db.movements, 1)
	m := db.movements[0]
	assert.Equal(t, entity.MovementTypeIn, m.Type)
	assert.Equal(t, inventory.InitialStockReference, m.Reference)
	assert.True(t, decimal.NewFromInt(1200000).Equal(m.TotalValue))
}

func TestProductCreate_SinStockInicialNoRegistraMovimiento(t *testing.T) {
	db := newMemDB()
	p, err := newProductUC(db).Create(context.Background(), tenantA, dto.CreateProductRequest{SKU: "A", Name: "A"})
	require.NoError(t, err)
	assert.Zero(t, p.StockQuantity)
	assert.Empty(t, db.movements)
}

func TestProductCreate_Errores(t *testing.T) {
	db := newMemDB()
	uc := newProductUC(db)
	ctx := context.Background()
	_, err := uc.Create(ctx, tenantA, dto.CreateProductRequest{SKU: "A", Name: "A"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, tenantA, dto.CreateProductRequest{SKU: "A", Name: "Otro", InitialStock: 5})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Empty(t, db.movements)

	// el mismo SKU en otro tenant es válido
	_, err = uc.Create(ctx, tenantB, dto.CreateProductRequest{SKU: "A", Name: "A"})
	assert.NoError(t, err)

	_, err = uc.Create(ctx, tenantA, dto.CreateProductRequest{SKU: " ", Name: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, tenantA, dto.CreateProductRequest{SKU: "N", Name: "X", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, tenantA, dto.CreateProductRequest{SKU: "C", Name: "X", Cost: decimal.RequireFromString("0.125"), InitialStock: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, tenantA, dto.CreateProductRequest{SKU: "M", Name: "X", MinStock: 10, MaxStock: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, nil, dto.CreateProductRequest{SKU: "Z", Name: "Z"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestProduct_AislamientoEntreTenants(t *testing.T) {
	db := newMemDB()
	uc := newProductUC(db)
	ctx := context.Background()
	p, err := uc.Create(ctx, tenantA, dto.CreateProductRequest{SKU: "A", Name: "A"})
	require.NoError(t, err)

	_, err = uc.GetByID(ctx, tenantB, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	name := "robado"
	_, err = uc.Update(ctx, tenantB, p.ID, dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, uc.Delete(ctx, tenantB, p.ID), domain.ErrNotFound)
	assert.Equal(t, entity.StatusActive, db.products[p.ID].Status)

	list, err := uc.List(ctx, tenantB, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestProductUpdate_NoTocaStock(t *testing.T) {
	db := newMemDB()
	uc := newProductUC(db)
	ctx := context.Background()
	p, err := uc.Create(ctx, tenantA, dto.CreateProductRequest{SKU: "A", Name: "A", InitialStock: 8, MinStock: 10})
	require.NoError(t, err)
	assert.True(t, p.LowStock)

	price := decimal.NewFromInt(2500)
	up, err := uc.Update(ctx, tenantA, p.ID, dto.UpdateProductRequest{Price: &price})
	require.NoError(t, err)
	assert.True(t, price.Equal(up.Price))
	assert.Equal(t, int64(8), db.products[p.ID].StockQuantity)
}

func TestProductDelete_EsBajaLogica(t *testing.T) {
	db := newMemDB()
	uc := newProductUC(db)
	ctx := context.Background()
	p, err := uc.Create(ctx, tenantA, dto.CreateProductRequest{SKU: "A", Name: "A", InitialStock: 3})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, tenantA, p.ID))
	got, err := uc.GetByID(ctx, tenantA, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInactive, got.Status)
	assert.Len(t, db.movements, 1)
}
