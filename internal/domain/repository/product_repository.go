package repository

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Todas las operaciones están acotadas al tenant; GetByID devuelve nil si el producto
// no existe o pertenece a otro tenant (no se distingue un caso del otro).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, tenantID, id int64) (*entity.Product, error)
	GetBySKU(ctx context.Context, tenantID int64, sku string) (*entity.Product, error)
	// Update no modifica stock_quantity (solo cambia vía ledger).
	Update(ctx context.Context, product *entity.Product) error
	SetStatus(ctx context.Context, tenantID, id int64, status string) error
	ListByTenant(ctx context.Context, tenantID int64, limit, offset int) ([]*entity.Product, error)
	// AdjustStock aplica delta de forma atómica relativa al valor almacenado.
	// Con allowNegative=false el UPDATE no afecta filas si el resultado quedaría negativo;
	// en ese caso ok=false.
	AdjustStock(ctx context.Context, tenantID, productID, delta int64, allowNegative bool) (newQty int64, ok bool, err error)
}
