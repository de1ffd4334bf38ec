package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// LedgerService operaciones del ledger. Lo implementa *inventory.LedgerUseCase.
type LedgerService interface {
	RecordMovement(ctx context.Context, caller *entity.CallerContext, in inventory.RecordMovementInput) (int64, error)
	ListMovements(ctx context.Context, caller *entity.CallerContext, productID int64, page dto.PageRequest) (*dto.MovementListResponse, error)
	Reconcile(ctx context.Context, caller *entity.CallerContext, productID int64) (*dto.StockReconciliation, error)
	LedgerReport(ctx context.Context, caller *entity.CallerContext, productID int64) ([]byte, error)
}

// InventoryHandler maneja movimientos de inventario.
type InventoryHandler struct {
	uc LedgerService
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc LedgerService) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Entrada (in) o salida (out). Inserta el movimiento y ajusta el stock en una sola transacción.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "product_id, type, quantity, unit_price"
// @Success      201   {object}  dto.Response
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	id, err := h.uc.RecordMovement(c.UserContext(), GetCaller(c), inventory.RecordMovementInput{
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
		Reference: in.Reference,
		Notes:     in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Response{Success: true, ID: id})
}

// ListMovements godoc
// @Summary      Movimientos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   int  true   "ID del producto"
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.Response{data=dto.MovementListResponse}
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.ListMovements(c.UserContext(), GetCaller(c), id, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.Response{Success: true, Data: out})
}

// Reconcile godoc
// @Summary      Conciliación de stock
// @Description  Compara stock_quantity con la suma de movimientos del producto.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.Response{data=dto.StockReconciliation}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/reconciliation [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Reconcile(c.UserContext(), GetCaller(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.Response{Success: true, Data: out})
}

// Kardex godoc
// @Summary      Kardex en PDF
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/kardex.pdf [get]
func (h *InventoryHandler) Kardex(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	pdf, err := h.uc.LedgerReport(c.UserContext(), GetCaller(c), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="kardex-%d.pdf"`, id))
	return c.Send(pdf)
}
