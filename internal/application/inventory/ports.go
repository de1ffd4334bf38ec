package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el ledger: si fn falla no queda nada escrito.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// KardexLine movimiento con el saldo acumulado y el costo promedio ponderado después de aplicarlo.
type KardexLine struct {
	Movement    *entity.StockMovement
	Balance     int64
	AverageCost decimal.Decimal
}

// KardexGenerator genera el reporte PDF del ledger de un producto.
type KardexGenerator interface {
	GenerateKardexPDF(product *entity.Product, lines []KardexLine) ([]byte, error)
}
