package repository

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// TenantRepository define el puerto de lectura de tenants.
type TenantRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Tenant, error)
}
