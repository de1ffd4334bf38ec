package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeIn  = "in"  // entrada
	MovementTypeOut = "out" // salida
)

// StockMovement entrada inmutable del ledger de inventario (append-only).
// Quantity siempre es positiva; el signo lo da Type.
type StockMovement struct {
	ID         int64
	TenantID   int64
	ProductID  int64
	Type       string
	Quantity   int64
	UnitPrice  decimal.Decimal
	TotalValue decimal.Decimal // Quantity * UnitPrice
	Reference  string          // factura, orden, nota de ajuste, etc.
	Notes      string
	CreatedBy  int64 // UserID
	CreatedAt  time.Time
}

// SignedQuantity devuelve la cantidad con signo (+ entrada, - salida).
func (m *StockMovement) SignedQuantity() int64 {
	if m.Type == MovementTypeOut {
		return -m.Quantity
	}
	return m.Quantity
}

// ValidMovementType informa si t es un tipo de movimiento aceptado.
func ValidMovementType(t string) bool {
	return t == MovementTypeIn || t == MovementTypeOut
}
