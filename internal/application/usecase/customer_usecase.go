package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// CustomerUseCase casos de uso CRUD para clientes del tenant.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create crea un cliente. El tax_id es único por tenant.
func (uc *CustomerUseCase) Create(ctx context.Context, caller *entity.CallerContext, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	in.Name = strings.TrimSpace(in.Name)
	in.TaxID = strings.TrimSpace(in.TaxID)
	if in.Name == "" || in.TaxID == "" {
		return nil, fmt.Errorf("%w: nombre y tax_id son obligatorios", domain.ErrInvalidInput)
	}
	existing, err := uc.repo.GetByTaxID(ctx, caller.TenantID, in.TaxID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	customer := &entity.Customer{
		TenantID:  caller.TenantID,
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetByID obtiene un cliente del tenant.
func (uc *CustomerUseCase) GetByID(ctx context.Context, caller *entity.CallerContext, id int64) (*dto.CustomerResponse, error) {
	c, err := uc.get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// List lista clientes del tenant.
func (uc *CustomerUseCase) List(ctx context.Context, caller *entity.CallerContext, page dto.PageRequest) ([]*dto.CustomerResponse, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	page.DefaultPage()
	list, err := uc.repo.ListByTenant(ctx, caller.TenantID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

// Update actualiza los campos enviados.
func (uc *CustomerUseCase) Update(ctx context.Context, caller *entity.CallerContext, id int64, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.TaxID != nil {
		c.TaxID = strings.TrimSpace(*in.TaxID)
	}
	if c.Name == "" || c.TaxID == "" {
		return nil, fmt.Errorf("%w: nombre y tax_id son obligatorios", domain.ErrInvalidInput)
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// Delete elimina el cliente (baja física).
func (uc *CustomerUseCase) Delete(ctx context.Context, caller *entity.CallerContext, id int64) error {
	if _, err := uc.get(ctx, caller, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, caller.TenantID, id)
}

func (uc *CustomerUseCase) get(ctx context.Context, caller *entity.CallerContext, id int64) (*entity.Customer, error) {
	if !caller.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	c, err := uc.repo.GetByID(ctx, caller.TenantID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:       c.ID,
		TenantID: c.TenantID,
		Name:     c.Name,
		TaxID:    c.TaxID,
		Email:    c.Email,
		Phone:    c.Phone,
	}
}
