package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	domaininv "github.com/jhoicas/pos-api/internal/domain/inventory"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// InitialStockReference referencia del movimiento que registra el stock inicial de un producto.
const InitialStockReference = "initial-stock"

// maxKardexMovements tope por defecto de movimientos incluidos en el reporte PDF.
const maxKardexMovements = 5000

// LedgerUseCase registra movimientos de inventario y mantiene stock_quantity igual a la
// suma con signo de los movimientos del producto.
type LedgerUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	movRepo       repository.StockMovementRepository
	kardex        KardexGenerator
	allowNegative bool
	kardexLimit   int
	now           func() time.Time
}

// NewLedgerUseCase construye el caso de uso. Con allowNegative=false una salida que deje el
// stock negativo falla con ErrInsufficientStock. kardex puede ser nil (reporte deshabilitado).
func NewLedgerUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	kardex KardexGenerator,
	allowNegative bool,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		movRepo:       movRepo,
		kardex:        kardex,
		allowNegative: allowNegative,
		kardexLimit:   maxKardexMovements,
		now:           time.Now,
	}
}

// WithKardexLimit cambia el tope de movimientos del reporte PDF.
func (uc *LedgerUseCase) WithKardexLimit(n int) *LedgerUseCase {
	if n > 0 {
		uc.kardexLimit = n
	}
	return uc
}

// RecordMovementInput entrada para registrar un movimiento.
type RecordMovementInput struct {
	ProductID int64
	Type      string
	Quantity  int64
	UnitPrice decimal.Decimal
	Reference string
	Notes     string
}

// RecordMovement verifica el producto, inserta el movimiento y ajusta el stock en una sola
// transacción. Devuelve el ID del movimiento.
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, caller *entity.CallerContext, in RecordMovementInput) (int64, error) {
	if !caller.Authenticated() {
		return 0, domain.ErrUnauthenticated
	}
	var id int64
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) error {
		mov, err := uc.recordInTx(ctx, productRepo, movRepo, caller, in)
		if err != nil {
			return err
		}
		id = mov.ID
		return nil
	})
	if err != nil {
		return 0, wrapLedgerError(err)
	}
	return id, nil
}

// RecordInTx registra un movimiento con los repositorios de una transacción ya abierta por el
// llamador (alta de producto con stock inicial).
func (uc *LedgerUseCase) RecordInTx(
	ctx context.Context,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	caller *entity.CallerContext,
	in RecordMovementInput,
) (*entity.StockMovement, error) {
	return uc.recordInTx(ctx, productRepo, movRepo, caller, in)
}

func (uc *LedgerUseCase) recordInTx(
	ctx context.Context,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	caller *entity.CallerContext,
	in RecordMovementInput,
) (*entity.StockMovement, error) {
	product, err := productRepo.GetByID(ctx, caller.TenantID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidMovement)
	}
	if !entity.ValidMovementType(in.Type) {
		return nil, fmt.Errorf("%w: tipo %q", domain.ErrInvalidMovement, in.Type)
	}
	if !entity.ValidUnitAmount(in.UnitPrice) {
		return nil, fmt.Errorf("%w: precio unitario inválido (no negativo, máximo %d decimales)", domain.ErrInvalidMovement, entity.MoneyScale)
	}
	total := in.UnitPrice.Mul(decimal.NewFromInt(in.Quantity))
	if !entity.ValidTotalAmount(total) {
		return nil, fmt.Errorf("%w: el total del movimiento excede el máximo permitido", domain.ErrInvalidMovement)
	}

	mov := &entity.StockMovement{
		TenantID:   caller.TenantID,
		ProductID:  product.ID,
		Type:       in.Type,
		Quantity:   in.Quantity,
		UnitPrice:  in.UnitPrice,
		TotalValue: total,
		Reference:  in.Reference,
		Notes:      in.Notes,
		CreatedBy:  caller.UserID,
		CreatedAt:  uc.now(),
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}

	_, ok, err := productRepo.AdjustStock(ctx, caller.TenantID, product.ID, mov.SignedQuantity(), uc.allowNegative)
	if err != nil {
		return nil, err
	}
	if !ok {
		if uc.allowNegative {
			// la fila desapareció entre la verificación y el ajuste
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.ErrInsufficientStock
	}
	return mov, nil
}

// ListMovements lista los movimientos de un producto del tenant, más recientes primero.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, caller *entity.CallerContext, productID int64, page dto.PageRequest) (*dto.MovementListResponse, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	page.DefaultPage()
	if _, err := uc.getProduct(ctx, caller, productID); err != nil {
		return nil, err
	}
	list, err := uc.movRepo.ListByProduct(ctx, caller.TenantID, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.MovementListResponse{
		Items: make([]dto.MovementResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, m := range list {
		out.Items = append(out.Items, ToMovementResponse(m))
	}
	return out, nil
}

// Reconcile compara stock_quantity con la suma con signo del ledger.
func (uc *LedgerUseCase) Reconcile(ctx context.Context, caller *entity.CallerContext, productID int64) (*dto.StockReconciliation, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	product, err := uc.getProduct(ctx, caller, productID)
	if err != nil {
		return nil, err
	}
	sum, err := uc.movRepo.SumSigned(ctx, caller.TenantID, productID)
	if err != nil {
		return nil, err
	}
	drift := product.StockQuantity - sum
	return &dto.StockReconciliation{
		ProductID:     productID,
		StockQuantity: product.StockQuantity,
		LedgerSum:     sum,
		Drift:         drift,
		Consistent:    drift == 0,
	}, nil
}

// LedgerReport genera el kardex en PDF del producto (movimientos en orden cronológico con saldo).
func (uc *LedgerUseCase) LedgerReport(ctx context.Context, caller *entity.CallerContext, productID int64) ([]byte, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if uc.kardex == nil {
		return nil, fmt.Errorf("kardex: generador no configurado")
	}
	product, err := uc.getProduct(ctx, caller, productID)
	if err != nil {
		return nil, err
	}
	list, err := uc.movRepo.ListByProduct(ctx, caller.TenantID, productID, uc.kardexLimit, 0)
	if err != nil {
		return nil, err
	}
	var opening KardexOpening
	if len(list) >= uc.kardexLimit {
		// historial recortado: el saldo anterior a la ventana sale de la suma del ledger
		sum, err := uc.movRepo.SumSigned(ctx, caller.TenantID, productID)
		if err != nil {
			return nil, err
		}
		var window int64
		for _, m := range list {
			window += m.SignedQuantity()
		}
		opening = KardexOpening{Balance: sum - window, AverageCost: product.Cost}
	}
	return uc.kardex.GenerateKardexPDF(product, BuildKardex(list, opening))
}

// KardexOpening saldo y costo promedio anteriores al primer movimiento incluido en el reporte.
// Sin recorte es el valor cero. Con recorte el costo promedio previo no se reconstruye y se
// toma el costo de referencia del producto.
type KardexOpening struct {
	Balance     int64
	AverageCost decimal.Decimal
}

// BuildKardex ordena cronológicamente (la lista llega de más reciente a más antiguo) y
// calcula el saldo acumulado a partir de opening. Las entradas recalculan el costo promedio;
// las salidas lo conservan.
func BuildKardex(newestFirst []*entity.StockMovement, opening KardexOpening) []KardexLine {
	lines := make([]KardexLine, 0, len(newestFirst))
	balance := opening.Balance
	avg := opening.AverageCost
	for i := len(newestFirst) - 1; i >= 0; i-- {
		m := newestFirst[i]
		if m.Type == entity.MovementTypeIn {
			avg = domaininv.WeightedAverageCost(balance, avg, m.Quantity, m.UnitPrice)
		}
		balance += m.SignedQuantity()
		lines = append(lines, KardexLine{Movement: m, Balance: balance, AverageCost: avg})
	}
	return lines
}

func (uc *LedgerUseCase) getProduct(ctx context.Context, caller *entity.CallerContext, productID int64) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, caller.TenantID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

// ToMovementResponse convierte un movimiento al DTO de salida.
func ToMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:         m.ID,
		ProductID:  m.ProductID,
		Type:       m.Type,
		Quantity:   m.Quantity,
		UnitPrice:  m.UnitPrice,
		TotalValue: m.TotalValue,
		Reference:  m.Reference,
		Notes:      m.Notes,
		CreatedBy:  m.CreatedBy,
		CreatedAt:  m.CreatedAt,
	}
}

// ledgerErrors errores de dominio que se propagan tal cual; el resto es un fallo de la
// transacción (reintentable).
var ledgerErrors = []error{
	domain.ErrNotFound,
	domain.ErrInvalidInput,
	domain.ErrInsufficientStock,
	domain.ErrInvalidTenant,
	domain.ErrTableNotAllowed,
	domain.ErrDuplicate,
	domain.ErrAuthFailure,
}

func wrapLedgerError(err error) error {
	for _, target := range ledgerErrors {
		if errors.Is(err, target) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrTransaction, err)
}
