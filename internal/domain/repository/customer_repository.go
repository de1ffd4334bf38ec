package repository

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, tenantID, id int64) (*entity.Customer, error)
	GetByTaxID(ctx context.Context, tenantID int64, taxID string) (*entity.Customer, error)
	ListByTenant(ctx context.Context, tenantID int64, limit, offset int) ([]*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, tenantID, id int64) error
}
