package repository

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// StockMovementRepository puerto del ledger append-only: no hay Update ni Delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, tenantID, productID int64, limit, offset int) ([]*entity.StockMovement, error)
	// SumSigned suma las cantidades con signo de todos los movimientos del producto.
	SumSigned(ctx context.Context, tenantID, productID int64) (int64, error)
}
