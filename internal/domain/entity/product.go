package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario de un tenant.
// StockQuantity es una proyección del ledger: solo cambia vía movimientos.
type Product struct {
	ID            int64
	TenantID      int64
	SKU           string
	Name          string
	Description   string
	Price         decimal.Decimal // precio de venta
	Cost          decimal.Decimal
	StockQuantity int64
	MinStock      int64
	MaxStock      int64
	Status        string // active, inactive
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BelowMinimum informa si el stock está por debajo del mínimo configurado.
func (p *Product) BelowMinimum() bool {
	return p.MinStock > 0 && p.StockQuantity < p.MinStock
}
