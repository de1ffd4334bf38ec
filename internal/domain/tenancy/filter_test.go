package tenancy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/tenancy"
)

func newStrict() *tenancy.Filter {
	return tenancy.NewFilter("products", "customers", "stock_movements")
}

func TestSelect_PredicadoDeTenantSiempreAlInicio(t *testing.T) {
	q, err := newStrict().
		Select(7, "products", "id", "name").
		Where(tenancy.Eq("id", int64(42))).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id, name FROM products WHERE tenant_id = $1 AND id = $2", q.SQL)
	assert.Equal(t, []any{int64(7), int64(42)}, q.Args)
}

func TestSelect_SinCondicionesIgualQuedaAcotado(t *testing.T) {
	q, err := newStrict().Select(3, "customers", "id").Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM customers WHERE tenant_id = $1", q.SQL)
}

func TestSelect_OrdenPaginacionYBloqueo(t *testing.T) {
	q, err := newStrict().
		Select(1, "stock_movements", "id").
		Where(tenancy.Eq("product_id", int64(9))).
		OrderBy("created_at", true).
		Page(20, 40).
		ForUpdate().
		Build()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id FROM stock_movements WHERE tenant_id = $1 AND product_id = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4 FOR UPDATE",
		q.SQL)
	assert.Equal(t, []any{int64(1), int64(9), 20, 40}, q.Args)
}

func TestSelect_Expresion(t *testing.T) {
	q, err := newStrict().
		Select(1, "stock_movements").
		Expr("COALESCE(SUM(quantity), 0)").
		Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COALESCE(SUM(quantity), 0) FROM stock_movements WHERE tenant_id = $1", q.SQL)
}

func TestInsert_InyectaColumnaDeTenant(t *testing.T) {
	q, err := newStrict().
		Insert(5, "customers").
		Value("name", "ACME").
		Value("tax_id", "900123").
		Returning("id").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO customers (tenant_id, name, tax_id) VALUES ($1, $2, $3) RETURNING id", q.SQL)
	assert.Equal(t, []any{int64(5), "ACME", "900123"}, q.Args)
}

func TestUpdate_IncrementoAtomicoYGuarda(t *testing.T) {
	q, err := newStrict().
		Update(2, "products").
		Increment("stock_quantity", int64(-5)).
		Where(tenancy.Eq("id", int64(10)), tenancy.NonNegativeAfter("stock_quantity", -5)).
		Returning("stock_quantity").
		Build()
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE products SET stock_quantity = stock_quantity + $1 WHERE tenant_id = $2 AND id = $3 AND stock_quantity + $4 >= 0 RETURNING stock_quantity",
		q.SQL)
	assert.Equal(t, []any{int64(-5), int64(2), int64(10), int64(-5)}, q.Args)
}

func TestDelete_Acotado(t *testing.T) {
	q, err := newStrict().Delete(4, "customers").Where(tenancy.Eq("id", int64(1))).Build()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM customers WHERE tenant_id = $1 AND id = $2", q.SQL)
}

func TestTenantInvalido_FallaCerrado(t *testing.T) {
	f := newStrict()
	for _, id := range []int64{0, -1} {
		_, err := f.Select(id, "products", "id").Build()
		assert.ErrorIs(t, err, domain.ErrInvalidTenant)
		_, err = f.Insert(id, "products").Value("name", "x").Build()
		assert.ErrorIs(t, err, domain.ErrInvalidTenant)
		_, err = f.Update(id, "products").Set("name", "x").Build()
		assert.ErrorIs(t, err, domain.ErrInvalidTenant)
		_, err = f.Delete(id, "products").Build()
		assert.ErrorIs(t, err, domain.ErrInvalidTenant)
	}
}

func TestTablaFueraDeListaBlanca(t *testing.T) {
	_, err := newStrict().Select(1, "users", "id").Build()
	assert.ErrorIs(t, err, domain.ErrTableNotAllowed)
}

func TestFiltroPermisivo_AceptaCualquierTablaValida(t *testing.T) {
	f := tenancy.NewPermissiveFilter()
	assert.False(t, f.Strict())
	q, err := f.Select(1, "users", "id").Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM users WHERE tenant_id = $1", q.SQL)

	// Aun en modo permisivo los identificadores se validan.
	_, err = f.Select(1, "users; DROP TABLE users", "id").Build()
	assert.ErrorIs(t, err, tenancy.ErrInvalidIdentifier)
}

func TestIdentificadoresMaliciosos(t *testing.T) {
	f := newStrict()
	_, err := f.Select(1, "products", "id, password_hash").Build()
	assert.ErrorIs(t, err, tenancy.ErrInvalidIdentifier)

	_, err = f.Select(1, "products", "id").Where(tenancy.Eq("1=1 OR id", 1)).Build()
	assert.ErrorIs(t, err, tenancy.ErrInvalidIdentifier)

	_, err = f.Select(1, "products", "id").OrderBy("name; --", false).Build()
	assert.ErrorIs(t, err, tenancy.ErrInvalidIdentifier)
}

func TestNoSePuedeAsignarLaColumnaDeTenant(t *testing.T) {
	f := newStrict()
	_, err := f.Insert(1, "products").Value("tenant_id", int64(2)).Build()
	assert.ErrorIs(t, err, tenancy.ErrTenantColumn)

	_, err = f.Update(1, "products").Set("tenant_id", int64(2)).Build()
	assert.ErrorIs(t, err, tenancy.ErrTenantColumn)

	_, err = f.Select(1, "products", "id").Where(tenancy.Eq("tenant_id", int64(2))).Build()
	assert.ErrorIs(t, err, tenancy.ErrTenantColumn)
}

func TestUpdateSinColumnas(t *testing.T) {
	_, err := newStrict().Update(1, "products").Build()
	assert.ErrorIs(t, err, tenancy.ErrEmptyUpdate)
}

func TestParseTenantID(t *testing.T) {
	id, err := tenancy.ParseTenantID(" 15 ")
	require.NoError(t, err)
	assert.Equal(t, int64(15), id)

	for _, s := range []string{"", "abc", "0", "-3", "1.5"} {
		_, err := tenancy.ParseTenantID(s)
		assert.ErrorIs(t, err, domain.ErrInvalidTenant, "entrada %q", s)
	}
}
