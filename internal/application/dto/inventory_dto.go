package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest body para POST /api/inventory/movements.
// La validación de type y quantity la hace el ledger (ErrInvalidMovement).
type RecordMovementRequest struct {
	ProductID int64           `json:"product_id" validate:"required,gt=0"`
	Type      string          `json:"type"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Reference string          `json:"reference,omitempty" validate:"max=100"`
	Notes     string          `json:"notes,omitempty"`
}

// MovementResponse movimiento del ledger.
type MovementResponse struct {
	ID         int64           `json:"id"`
	ProductID  int64           `json:"product_id"`
	Type       string          `json:"type"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalValue decimal.Decimal `json:"total_value"`
	Reference  string          `json:"reference,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	CreatedBy  int64           `json:"created_by"`
	CreatedAt  time.Time       `json:"created_at"`
}

// MovementListResponse página de movimientos de un producto.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// StockReconciliation compara el stock almacenado con la suma del ledger.
type StockReconciliation struct {
	ProductID     int64 `json:"product_id"`
	StockQuantity int64 `json:"stock_quantity"`
	LedgerSum     int64 `json:"ledger_sum"`
	Drift         int64 `json:"drift"` // StockQuantity - LedgerSum; 0 si es consistente
	Consistent    bool  `json:"consistent"`
}
