package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/internal/domain/tenancy"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementsTable = "stock_movements"

var movementColumns = []string{
	"id", "tenant_id", "product_id", "movement_type", "quantity", "unit_price",
	"total_value", "reference", "notes", "created_by", "created_at",
}

// StockMovementRepo ledger de movimientos sobre PostgreSQL (usable con pool o tx).
// Solo inserta y lee: las filas nunca se modifican ni se borran.
type StockMovementRepo struct {
	q Querier
	f *tenancy.Filter
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier, f *tenancy.Filter) *StockMovementRepo {
	return &StockMovementRepo{q: q, f: f}
}

// Create persiste un movimiento y asigna su ID.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	q, err := r.f.Insert(m.TenantID, movementsTable).
		Value("product_id", m.ProductID).
		Value("movement_type", m.Type).
		Value("quantity", m.Quantity).
		Value("unit_price", m.UnitPrice).
		Value("total_value", m.TotalValue).
		Value("reference", m.Reference).
		Value("notes", m.Notes).
		Value("created_by", m.CreatedBy).
		Value("created_at", m.CreatedAt).
		Returning("id").
		Build()
	if err != nil {
		return err
	}
	if err := r.q.QueryRow(ctx, q.SQL, q.Args...).Scan(&m.ID); err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByProduct lista los movimientos de un producto, más recientes primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, tenantID, productID int64, limit, offset int) ([]*entity.StockMovement, error) {
	q, err := r.f.Select(tenantID, movementsTable, movementColumns...).
		Where(tenancy.Eq("product_id", productID)).
		OrderBy("created_at", true).
		OrderBy("id", true).
		Page(limit, offset).
		Build()
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("list by product: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.TenantID, &m.ProductID, &m.Type, &m.Quantity, &m.UnitPrice,
			&m.TotalValue, &m.Reference, &m.Notes, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumSigned suma entradas menos salidas del producto.
func (r *StockMovementRepo) SumSigned(ctx context.Context, tenantID, productID int64) (int64, error) {
	q, err := r.f.Select(tenantID, movementsTable).
		Expr("COALESCE(SUM(CASE WHEN movement_type = 'out' THEN -quantity ELSE quantity END), 0)").
		Where(tenancy.Eq("product_id", productID)).
		Build()
	if err != nil {
		return 0, err
	}
	var sum int64
	if err := r.q.QueryRow(ctx, q.SQL, q.Args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}
