package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock nunca se escribe directamente:
// el stock inicial entra como movimiento del ledger y la baja es lógica (status inactive).
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner inventory.TxRunner
	ledger   *inventory.LedgerUseCase
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, txRunner inventory.TxRunner, ledger *inventory.LedgerUseCase) *ProductUseCase {
	return &ProductUseCase{repo: repo, txRunner: txRunner, ledger: ledger}
}

// Create crea un producto con stock 0 y, si InitialStock > 0, registra la entrada inicial en
// la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, caller *entity.CallerContext, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if in.SKU == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: sku y nombre son obligatorios", domain.ErrInvalidInput)
	}
	if !entity.ValidUnitAmount(in.Price) || !entity.ValidUnitAmount(in.Cost) {
		return nil, fmt.Errorf("%w: precio y costo deben ser no negativos con máximo %d decimales", domain.ErrInvalidInput, entity.MoneyScale)
	}
	if in.InitialStock < 0 {
		return nil, fmt.Errorf("%w: stock inicial negativo", domain.ErrInvalidInput)
	}
	if err := checkStockBounds(in.MinStock, in.MaxStock); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &entity.Product{
		TenantID:    caller.TenantID,
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Cost:        in.Cost,
		MinStock:    in.MinStock,
		MaxStock:    in.MaxStock,
		Status:      entity.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) error {
		existing, err := productRepo.GetBySKU(ctx, caller.TenantID, in.SKU)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		if in.InitialStock == 0 {
			return nil
		}
		_, err = uc.ledger.RecordInTx(ctx, productRepo, movRepo, caller, inventory.RecordMovementInput{
			ProductID: product.ID,
			Type:      entity.MovementTypeIn,
			Quantity:  in.InitialStock,
			UnitPrice: in.Cost,
			Reference: inventory.InitialStockReference,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	product.StockQuantity = in.InitialStock
	return toProductResponse(product), nil
}

// GetByID obtiene un producto del tenant. Otro tenant o inexistente dan ErrNotFound.
func (uc *ProductUseCase) GetByID(ctx context.Context, caller *entity.CallerContext, id int64) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos del tenant con paginación.
func (uc *ProductUseCase) List(ctx context.Context, caller *entity.CallerContext, page dto.PageRequest) (*dto.ProductListResponse, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	page.DefaultPage()
	list, err := uc.repo.ListByTenant(ctx, caller.TenantID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update actualiza datos maestros. No permite modificar stock (se maneja vía movimientos).
func (uc *ProductUseCase) Update(ctx context.Context, caller *entity.CallerContext, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if in.SKU != nil {
		sku := strings.TrimSpace(*in.SKU)
		if sku == "" {
			return nil, fmt.Errorf("%w: sku vacío", domain.ErrInvalidInput)
		}
		product.SKU = sku
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if !entity.ValidUnitAmount(*in.Price) {
			return nil, fmt.Errorf("%w: precio inválido", domain.ErrInvalidInput)
		}
		product.Price = *in.Price
	}
	if in.Cost != nil {
		if !entity.ValidUnitAmount(*in.Cost) {
			return nil, fmt.Errorf("%w: costo inválido", domain.ErrInvalidInput)
		}
		product.Cost = *in.Cost
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if in.MaxStock != nil {
		product.MaxStock = *in.MaxStock
	}
	if err := checkStockBounds(product.MinStock, product.MaxStock); err != nil {
		return nil, err
	}
	if in.Status != nil {
		product.Status = *in.Status
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete da de baja el producto (status inactive). El historial del ledger se conserva.
func (uc *ProductUseCase) Delete(ctx context.Context, caller *entity.CallerContext, id int64) error {
	if _, err := uc.get(ctx, caller, id); err != nil {
		return err
	}
	return uc.repo.SetStatus(ctx, caller.TenantID, id, entity.StatusInactive)
}

// get patrón de verificación: lectura acotada por (id, tenant) antes de operar.
func (uc *ProductUseCase) get(ctx context.Context, caller *entity.CallerContext, id int64) (*entity.Product, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	product, err := uc.repo.GetByID(ctx, caller.TenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func checkStockBounds(minStock, maxStock int64) error {
	if minStock < 0 || maxStock < 0 {
		return fmt.Errorf("%w: min_stock y max_stock no pueden ser negativos", domain.ErrInvalidInput)
	}
	if maxStock > 0 && minStock > maxStock {
		return fmt.Errorf("%w: min_stock mayor que max_stock", domain.ErrInvalidInput)
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		TenantID:      p.TenantID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Cost:          p.Cost,
		StockQuantity: p.StockQuantity,
		MinStock:      p.MinStock,
		MaxStock:      p.MaxStock,
		LowStock:      p.BelowMinimum(),
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
