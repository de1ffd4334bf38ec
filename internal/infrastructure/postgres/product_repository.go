package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/internal/domain/tenancy"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productsTable = "products"

var productColumns = []string{
	"id", "tenant_id", "sku", "name", "description", "price", "cost",
	"stock_quantity", "min_stock", "max_stock", "status", "created_at", "updated_at",
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
	f *tenancy.Filter
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier, f *tenancy.Filter) *ProductRepo {
	return &ProductRepo{q: q, f: f}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.TenantID, &p.SKU, &p.Name, &p.Description, &p.Price, &p.Cost,
		&p.StockQuantity, &p.MinStock, &p.MaxStock, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto y asigna su ID.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	q, err := r.f.Insert(product.TenantID, productsTable).
		Value("sku", product.SKU).
		Value("name", product.Name).
		Value("description", product.Description).
		Value("price", product.Price).
		Value("cost", product.Cost).
		Value("stock_quantity", product.StockQuantity).
		Value("min_stock", product.MinStock).
		Value("max_stock", product.MaxStock).
		Value("status", product.Status).
		Value("created_at", product.CreatedAt).
		Value("updated_at", product.UpdatedAt).
		Returning("id").
		Build()
	if err != nil {
		return err
	}
	if err := r.q.QueryRow(ctx, q.SQL, q.Args...).Scan(&product.ID); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto del tenant. nil si no existe o es de otro tenant.
func (r *ProductRepo) GetByID(ctx context.Context, tenantID, id int64) (*entity.Product, error) {
	return r.getOne(ctx, tenantID, tenancy.Eq("id", id))
}

// GetBySKU obtiene un producto por SKU dentro del tenant.
func (r *ProductRepo) GetBySKU(ctx context.Context, tenantID int64, sku string) (*entity.Product, error) {
	return r.getOne(ctx, tenantID, tenancy.Eq("sku", sku))
}

func (r *ProductRepo) getOne(ctx context.Context, tenantID int64, cond tenancy.Cond) (*entity.Product, error) {
	q, err := r.f.Select(tenantID, productsTable, productColumns...).Where(cond).Build()
	if err != nil {
		return nil, err
	}
	p, err := scanProduct(r.q.QueryRow(ctx, q.SQL, q.Args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update actualiza los datos maestros del producto. No toca stock_quantity (se maneja vía movimientos).
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	q, err := r.f.Update(product.TenantID, productsTable).
		Set("sku", product.SKU).
		Set("name", product.Name).
		Set("description", product.Description).
		Set("price", product.Price).
		Set("cost", product.Cost).
		Set("min_stock", product.MinStock).
		Set("max_stock", product.MaxStock).
		Set("status", product.Status).
		Set("updated_at", product.UpdatedAt).
		Where(tenancy.Eq("id", product.ID)).
		Build()
	if err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx, q.SQL, q.Args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetStatus cambia el estado (baja lógica: inactive).
func (r *ProductRepo) SetStatus(ctx context.Context, tenantID, id int64, status string) error {
	q, err := r.f.Update(tenantID, productsTable).
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(tenancy.Eq("id", id)).
		Build()
	if err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx, q.SQL, q.Args...)
	if err != nil {
		return fmt.Errorf("update product status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByTenant lista productos del tenant con paginación.
func (r *ProductRepo) ListByTenant(ctx context.Context, tenantID int64, limit, offset int) ([]*entity.Product, error) {
	q, err := r.f.Select(tenantID, productsTable, productColumns...).
		OrderBy("created_at", true).
		OrderBy("id", true).
		Page(limit, offset).
		Build()
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// AdjustStock suma delta a stock_quantity con un UPDATE relativo al valor almacenado, de modo
// que dos movimientos concurrentes sobre el mismo producto se serializan en la fila y ninguno
// pierde su actualización.
func (r *ProductRepo) AdjustStock(ctx context.Context, tenantID, productID, delta int64, allowNegative bool) (int64, bool, error) {
	b := r.f.Update(tenantID, productsTable).
		Increment("stock_quantity", delta).
		Set("updated_at", time.Now()).
		Where(tenancy.Eq("id", productID))
	if !allowNegative {
		b = b.Where(tenancy.NonNegativeAfter("stock_quantity", delta))
	}
	q, err := b.Returning("stock_quantity").Build()
	if err != nil {
		return 0, false, err
	}
	var qty int64
	if err := r.q.QueryRow(ctx, q.SQL, q.Args...).Scan(&qty); err != nil {
		if isNoRows(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("adjust stock: %w", err)
	}
	return qty, true, nil
}
