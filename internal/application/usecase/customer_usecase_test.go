package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/usecase"
	"github.com/jhoicas/pos-api/internal/domain"
)

func TestCustomerCRUD(t *testing.T) {
	db := newMemDB()
	uc := usecase.NewCustomerUseCase(memCustomers{db})
	ctx := context.Background()

	c, err := uc.Create(ctx, tenantA, dto.CreateCustomerRequest{Name: "Ferretería Luz", TaxID: "900123456"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.TenantID)

	_, err = uc.Create(ctx, tenantA, dto.CreateCustomerRequest{Name: "Copia", TaxID: "900123456"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	phone := "3001234567"
	up, err := uc.Update(ctx, tenantA, c.ID, dto.UpdateCustomerRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, up.Phone)
	assert.Equal(t, "Ferretería Luz", up.Name)

	empty := ""
	_, err = uc.Update(ctx, tenantA, c.ID, dto.UpdateCustomerRequest{Name: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.List(ctx, tenantA, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, uc.Delete(ctx, tenantA, c.ID))
	_, err = uc.GetByID(ctx, tenantA, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, tenantA, c.ID), domain.ErrNotFound)
}

func TestCustomer_OtroTenantEsNoEncontrado(t *testing.T) {
	db := newMemDB()
	uc := usecase.NewCustomerUseCase(memCustomers{db})
	ctx := context.Background()
	c, err := uc.Create(ctx, tenantA, dto.CreateCustomerRequest{Name: "ACME", TaxID: "1"})
	require.NoError(t, err)

	_, err = uc.GetByID(ctx, tenantB, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, tenantB, c.ID), domain.ErrNotFound)
	assert.Len(t, db.customers, 1)
}
